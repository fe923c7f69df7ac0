package remap

import (
	"github.com/zTsugumi/vdev/pointer"
	"github.com/zTsugumi/vdev/ps2"
)

// decode is the bottom half, run on the tasklet goroutine. It snapshots
// the capture state under the lock and does everything else outside it,
// so emission never extends the critical section. At most one motion
// event leaves per activation.
func (r *Remap) decode() {
	defer r.decodes.Add(1)

	st := r.snapshot()
	if st.window[0] != ModifierScancode {
		return
	}

	// Directions are compared in fixed order; with duplicate symbols the
	// first match wins.
	var ev pointer.Rel
	switch sym := ps2.ToASCII(st.window[1]); sym {
	case st.mapping.Up:
		ev = pointer.Rel{Axis: pointer.RelY, Delta: -int32(st.speed)}
	case st.mapping.Down:
		ev = pointer.Rel{Axis: pointer.RelY, Delta: int32(st.speed)}
	case st.mapping.Left:
		ev = pointer.Rel{Axis: pointer.RelX, Delta: -int32(st.speed)}
	case st.mapping.Right:
		ev = pointer.Rel{Axis: pointer.RelX, Delta: int32(st.speed)}
	default:
		return
	}

	r.emitted.Add(1)
	r.emitter.Emit(ev)
}
