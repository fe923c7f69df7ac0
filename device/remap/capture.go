package remap

import (
	"fmt"

	"github.com/zTsugumi/vdev/ps2"
)

// Mapping assigns one printable symbol to each motion direction.
// Duplicate symbols across slots are allowed; decode compares in UP,
// DOWN, LEFT, RIGHT order and the first match wins, so duplicates make
// the later directions unreachable.
type Mapping struct {
	Up, Down, Left, Right byte
}

// DefaultMapping is the mapping a fresh device starts with.
var DefaultMapping = Mapping{Up: 'w', Down: 's', Left: 'a', Right: 'd'}

// Contains reports whether sym is bound to any direction.
func (m Mapping) Contains(sym byte) bool {
	return sym == m.Up || sym == m.Down || sym == m.Left || sym == m.Right
}

func (m Mapping) String() string {
	return string([]byte{m.Up, m.Down, m.Left, m.Right})
}

// ParseMapping parses a 4-symbol mapping string in UP, DOWN, LEFT,
// RIGHT order. Unlike the raw control channel, which stores whatever
// bytes it is handed, this rejects non-printable symbols; it backs the
// structured creation API.
func ParseMapping(s string) (Mapping, error) {
	if len(s) != 4 {
		return Mapping{}, fmt.Errorf("mapping needs exactly 4 symbols, got %d", len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '!' || s[i] > '~' {
			return Mapping{}, fmt.Errorf("mapping symbol %d is not printable", i)
		}
	}
	return Mapping{Up: s[0], Down: s[1], Left: s[2], Right: s[3]}, nil
}

// captureState is the one record shared by the interrupt, decode and
// control-write paths. Guarded by the device's SpinLock; the decoder
// works on value snapshots taken under the lock.
type captureState struct {
	// window holds the two most recent press scancodes, oldest first.
	window  [2]ps2.Scancode
	mapping Mapping
	speed   int
}

// pushLocked records a new press in the window. The previous slot
// normally shifts FIFO, but while a chord is armed (previous slot holds
// the modifier and the current slot's symbol is still mapped) it stays
// in place, so a repeating direction key sustains the chord instead of
// evicting the modifier. Callers hold the lock.
func (r *Remap) pushLocked(sc ps2.Scancode) {
	w := &r.state.window
	if !(w[0] == ModifierScancode && r.state.mapping.Contains(ps2.ToASCII(w[1]))) {
		w[0] = w[1]
	}
	w[1] = sc
}

// snapshot copies the capture state under the lock.
func (r *Remap) snapshot() captureState {
	r.lock.Lock()
	st := r.state
	r.lock.Unlock()
	return st
}
