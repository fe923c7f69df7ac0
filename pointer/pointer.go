// Package pointer defines relative pointer-motion events and the sinks
// that consume them.
package pointer

import "io"

// Axis selects the motion axis of a relative event. Values match the
// REL_X/REL_Y codes of the Linux input layer.
type Axis uint8

const (
	// RelX is horizontal motion, negative left, positive right.
	RelX Axis = 0x00
	// RelY is vertical motion, negative up, positive down.
	RelY Axis = 0x01
)

func (a Axis) String() string {
	switch a {
	case RelX:
		return "x"
	case RelY:
		return "y"
	default:
		return "?"
	}
}

// Rel is one relative motion event.
type Rel struct {
	Axis  Axis
	Delta int32
}

// ReportSize is the encoded size of a Rel stream report.
const ReportSize = 5

// MarshalBinary encodes the event into the 5-byte stream report.
//
// Report layout:
//
//	Byte 0: axis (0=X, 1=Y)
//	Bytes 1-4: delta (int32 little-endian)
func (r *Rel) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = byte(r.Axis)
	b[1] = byte(r.Delta)
	b[2] = byte(r.Delta >> 8)
	b[3] = byte(r.Delta >> 16)
	b[4] = byte(r.Delta >> 24)
	return b, nil
}

// UnmarshalBinary decodes a 5-byte stream report.
func (r *Rel) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	r.Axis = Axis(data[0])
	r.Delta = int32(data[1]) | int32(data[2])<<8 | int32(data[3])<<16 | int32(data[4])<<24
	return nil
}

// Emitter consumes relative motion events. Emission is fire-and-forget:
// implementations report nothing back and must not block the caller for
// longer than a bounded hand-off.
type Emitter interface {
	Emit(Rel)
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(Rel) {}

// Multi fans one event out to several emitters in order.
func Multi(emitters ...Emitter) Emitter {
	return multi(emitters)
}

type multi []Emitter

func (m multi) Emit(r Rel) {
	for _, e := range m {
		e.Emit(r)
	}
}
