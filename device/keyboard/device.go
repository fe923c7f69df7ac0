// Package keyboard implements the primary keyboard driver device: the
// consumer on the shared interrupt line that claims every byte and
// turns raw scancodes into typed key events for stream subscribers.
package keyboard

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/ps2"
)

// TypeName is the device type string used for registration.
const TypeName = "keyboard"

type subscriber struct {
	id int
	ch chan KeyEvent
}

// Keyboard is one primary driver instance. Unlike the remap device it
// claims the interrupts it processes, which keeps the shared line from
// counting every byte as spurious.
type Keyboard struct {
	name string
	log  *slog.Logger

	ctl      *i8042.Controller
	attached bool

	mu   sync.Mutex
	subs atomic.Pointer[[]subscriber]
	next int

	handled atomic.Uint64
	dropped atomic.Uint64
}

// New builds a detached keyboard device.
func New(logger *slog.Logger, name string) *Keyboard {
	return &Keyboard{
		name: name,
		log:  logger.With("device", name),
	}
}

// Name returns the instance name.
func (k *Keyboard) Name() string { return k.name }

// Attach registers the driver on the controller's interrupt line.
// Attach, Detach and Close are serialized by the device table.
func (k *Keyboard) Attach(c *i8042.Controller) error {
	if k.attached {
		return fmt.Errorf("keyboard %s: already attached", k.name)
	}
	k.ctl = c
	if err := c.Line().Request(k.name, k.handleInterrupt); err != nil {
		return err
	}
	k.attached = true
	return nil
}

// Detach removes the driver from the line. Idempotent.
func (k *Keyboard) Detach() {
	if !k.attached {
		return
	}
	if err := k.ctl.Line().Free(k.name); err != nil {
		k.log.Warn("interrupt line free failed", "err", err)
	}
	k.attached = false
}

// Close drops all subscribers and closes their channels.
func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if subs := k.subs.Load(); subs != nil {
		for _, s := range *subs {
			close(s.ch)
		}
	}
	k.subs.Store(nil)
	return nil
}

// handleInterrupt claims every byte on the line. Publication to
// subscribers is lock-free and non-blocking: a full subscriber buffer
// drops the event rather than stalling interrupt context.
func (k *Keyboard) handleInterrupt() i8042.Result {
	sc := ps2.Scancode(k.ctl.ReadData())
	k.handled.Add(1)

	ev := KeyEvent{Code: sc.Code(), Pressed: sc.IsPressed(), Symbol: ps2.ToASCII(sc)}
	if subs := k.subs.Load(); subs != nil {
		for _, s := range *subs {
			select {
			case s.ch <- ev:
			default:
				k.dropped.Add(1)
			}
		}
	}
	return i8042.Handled
}

// Subscribe registers a key-event subscriber with the given buffer size
// and returns its channel plus a cancel function. Cancel closes the
// channel after removal.
func (k *Keyboard) Subscribe(buf int) (<-chan KeyEvent, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan KeyEvent, buf)

	k.mu.Lock()
	id := k.next
	k.next++
	cur := k.loadSubs()
	next := make([]subscriber, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, subscriber{id: id, ch: ch})
	k.subs.Store(&next)
	k.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			k.mu.Lock()
			cur := k.loadSubs()
			trimmed := make([]subscriber, 0, len(cur))
			removed := false
			for _, s := range cur {
				if s.id == id {
					removed = true
					continue
				}
				trimmed = append(trimmed, s)
			}
			k.subs.Store(&trimmed)
			k.mu.Unlock()
			if removed {
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Handled returns the number of interrupts this driver claimed.
func (k *Keyboard) Handled() uint64 { return k.handled.Load() }

// Dropped returns the number of events lost to full subscriber buffers.
func (k *Keyboard) Dropped() uint64 { return k.dropped.Load() }

func (k *Keyboard) loadSubs() []subscriber {
	if p := k.subs.Load(); p != nil {
		return *p
	}
	return nil
}
