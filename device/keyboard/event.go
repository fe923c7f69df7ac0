package keyboard

import (
	"io"

	"github.com/zTsugumi/vdev/ps2"
)

// KeyEvent is one classified keyboard event.
type KeyEvent struct {
	// Code is the make code with the release flag stripped.
	Code ps2.Scancode
	// Pressed distinguishes make from break events.
	Pressed bool
	// Symbol is the printable symbol for the key, or ps2.Unknown.
	Symbol byte
}

// EventSize is the encoded size of a KeyEvent stream report.
const EventSize = 3

// MarshalBinary encodes the event into its 3-byte stream report.
//
// Report layout:
//
//	Byte 0: make code
//	Byte 1: 1=pressed, 0=released
//	Byte 2: symbol
func (e *KeyEvent) MarshalBinary() ([]byte, error) {
	b := make([]byte, EventSize)
	b[0] = byte(e.Code)
	if e.Pressed {
		b[1] = 1
	}
	b[2] = e.Symbol
	return b, nil
}

// UnmarshalBinary decodes a 3-byte stream report.
func (e *KeyEvent) UnmarshalBinary(data []byte) error {
	if len(data) < EventSize {
		return io.ErrUnexpectedEOF
	}
	e.Code = ps2.Scancode(data[0])
	e.Pressed = data[1] != 0
	e.Symbol = data[2]
	return nil
}
