// Package remap implements the keyboard-to-pointer remapping device: a
// passive consumer on the shared keyboard interrupt line that turns
// modifier+key chords into relative pointer motion, reconfigurable at
// runtime through its control channel.
package remap

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/pointer"
	"github.com/zTsugumi/vdev/ps2"
)

// Remap is one remapping device instance. Its capture state is shared
// by three execution contexts: the interrupt context raising the line,
// the device's own decode worker, and control-channel writers. The
// SpinLock is the only synchronization between them.
type Remap struct {
	name    string
	log     *slog.Logger
	emitter pointer.Emitter
	stream  *pointer.Broadcaster

	ctl      *i8042.Controller
	attached bool

	lock  SpinLock
	state captureState

	tasklet *tasklet

	interrupts atomic.Uint64
	presses    atomic.Uint64
	decodes    atomic.Uint64
	emitted    atomic.Uint64
	malformed  atomic.Uint64

	closeOnce sync.Once
}

// New builds a detached device emitting into em. Every device also
// feeds its own broadcaster, which backs stream subscriptions; em adds
// an extra sink (a uinput pointer, say) on top of that. Options may
// override the default mapping and speed.
func New(logger *slog.Logger, name string, em pointer.Emitter, o *device.CreateOptions) (*Remap, error) {
	r := &Remap{
		name:   name,
		log:    logger.With("device", name),
		stream: pointer.NewBroadcaster(),
		state: captureState{
			mapping: DefaultMapping,
			speed:   DefaultSpeed,
		},
	}
	if em == nil {
		r.emitter = r.stream
	} else {
		r.emitter = pointer.Multi(r.stream, em)
	}
	if o != nil {
		if o.Mapping != nil {
			m, err := ParseMapping(*o.Mapping)
			if err != nil {
				return nil, err
			}
			r.state.mapping = m
		}
		if o.Speed != nil {
			r.state.speed = *o.Speed
		}
	}
	r.tasklet = newTasklet(r.decode)
	return r, nil
}

// Name returns the instance name.
func (r *Remap) Name() string { return r.name }

// Attach registers the top half on the controller's interrupt line.
// Attach, Detach and Close are serialized by the device table.
func (r *Remap) Attach(c *i8042.Controller) error {
	if r.attached {
		return fmt.Errorf("remap %s: already attached", r.name)
	}
	r.ctl = c
	if err := c.Line().Request(r.name, r.handleInterrupt); err != nil {
		return err
	}
	r.attached = true
	return nil
}

// Detach removes the top half from the line. Idempotent.
func (r *Remap) Detach() {
	if !r.attached {
		return
	}
	if err := r.ctl.Line().Free(r.name); err != nil {
		r.log.Warn("interrupt line free failed", "err", err)
	}
	r.attached = false
}

// Close drains and stops the decode worker.
func (r *Remap) Close() error {
	r.closeOnce.Do(r.tasklet.Close)
	return nil
}

// Subscribe registers a motion-event stream subscriber with the given
// buffer size. Cancel closes the channel after removal.
func (r *Remap) Subscribe(buf int) (<-chan pointer.Rel, func()) {
	return r.stream.Subscribe(buf)
}

// handleInterrupt is the top half. It runs in interrupt context: no
// blocking, no allocation, shortest possible critical section. Releases
// are an explicit no-op. The interrupt is always reported unclaimed so
// the primary keyboard driver sharing the line processes the byte too.
func (r *Remap) handleInterrupt() i8042.Result {
	r.interrupts.Add(1)
	sc := ps2.Scancode(r.ctl.ReadData())
	if sc.IsPressed() {
		r.presses.Add(1)
		r.lock.Lock()
		r.pushLocked(sc)
		r.lock.Unlock()
		r.tasklet.Schedule()
	}
	return i8042.None
}

// State is a point-in-time view of the device for introspection.
type State struct {
	Mapping Mapping
	Speed   int
	Window  [2]ps2.Scancode

	Interrupts uint64
	Presses    uint64
	Decodes    uint64
	Emitted    uint64
	Malformed  uint64
}

// State snapshots the capture state and counters.
func (r *Remap) State() State {
	st := r.snapshot()
	return State{
		Mapping:    st.mapping,
		Speed:      st.speed,
		Window:     st.window,
		Interrupts: r.interrupts.Load(),
		Presses:    r.presses.Load(),
		Decodes:    r.decodes.Load(),
		Emitted:    r.emitted.Load(),
		Malformed:  r.malformed.Load(),
	}
}
