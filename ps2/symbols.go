package ps2

// Unknown is returned for scancodes with no printable symbol. Callers
// compare symbols against user-chosen mappings, so an out-of-range code
// must yield a value, not an error.
const Unknown byte = '?'

// Symbol rows for the four contiguous make-code ranges of the main block.
const (
	numberRow = "1234567890" // 0x02..0x0B
	topRow    = "qwertyuiop" // 0x10..0x19
	homeRow   = "asdfghjkl"  // 0x1E..0x26
	bottomRow = "zxcvbnm"    // 0x2C..0x32
)

// ToASCII translates a make code to its printable ASCII symbol.
// The release flag is ignored. Codes outside the four letter/digit rows,
// space and enter resolve to Unknown.
func ToASCII(s Scancode) byte {
	c := s.Code()
	switch {
	case c >= Key1 && c <= Key0:
		return numberRow[c-Key1]
	case c >= KeyQ && c <= KeyP:
		return topRow[c-KeyQ]
	case c >= KeyA && c <= KeyL:
		return homeRow[c-KeyA]
	case c >= KeyZ && c <= KeyM:
		return bottomRow[c-KeyZ]
	case c == KeySpace:
		return ' '
	case c == KeyEnter:
		return '\n'
	default:
		return Unknown
	}
}

// FromASCII maps a printable symbol back to its make code, for callers
// that synthesize scancode streams from text. Ok is false for symbols
// with no key in the main block.
func FromASCII(b byte) (Scancode, bool) {
	s, ok := charToCode[b]
	return s, ok
}

var charToCode = map[byte]Scancode{
	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,

	'q': KeyQ, 'w': KeyW, 'e': KeyE, 'r': KeyR, 't': KeyT,
	'y': KeyY, 'u': KeyU, 'i': KeyI, 'o': KeyO, 'p': KeyP,

	'a': KeyA, 's': KeyS, 'd': KeyD, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'j': KeyJ, 'k': KeyK, 'l': KeyL,

	'z': KeyZ, 'x': KeyX, 'c': KeyC, 'v': KeyV, 'b': KeyB,
	'n': KeyN, 'm': KeyM,

	' ':  KeySpace,
	'\n': KeyEnter,
	'\r': KeyEnter,
}
