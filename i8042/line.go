package i8042

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Result is an interrupt handler's verdict on a raised interrupt.
type Result int

const (
	// None signals "not my interrupt". On a shared line this is policy,
	// not failure: the remaining consumers still run.
	None Result = iota
	// Handled claims the interrupt.
	Handled
)

// HandlerFunc runs synchronously in the raising goroutine. It must not
// block, sleep or do unbounded work; it reads the data register itself.
type HandlerFunc func() Result

type handlerEntry struct {
	name string
	fn   HandlerFunc
}

// Line is a shared interrupt line. Every raised interrupt is delivered
// to every registered handler in registration order, regardless of
// whether an earlier handler claimed it; a raise that no handler claims
// counts as spurious.
type Line struct {
	mu       sync.Mutex
	handlers atomic.Pointer[[]handlerEntry]

	raised   atomic.Uint64
	spurious atomic.Uint64
}

// NewLine returns an unconnected interrupt line.
func NewLine() *Line {
	return &Line{}
}

// Request registers fn under name at the end of the handler chain.
// Names identify the owner for Free and must be unique per line.
func (l *Line) Request(name string, fn HandlerFunc) error {
	if fn == nil {
		return fmt.Errorf("i8042: nil handler for %q", name)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.loadHandlers()
	for _, h := range cur {
		if h.name == name {
			return fmt.Errorf("i8042: handler %q already registered", name)
		}
	}
	next := make([]handlerEntry, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, handlerEntry{name: name, fn: fn})
	l.handlers.Store(&next)
	return nil
}

// Free removes the handler registered under name.
func (l *Line) Free(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.loadHandlers()
	for i, h := range cur {
		if h.name == name {
			next := make([]handlerEntry, 0, len(cur)-1)
			next = append(next, cur[:i]...)
			next = append(next, cur[i+1:]...)
			l.handlers.Store(&next)
			return nil
		}
	}
	return fmt.Errorf("i8042: no handler %q registered", name)
}

// Raise delivers one interrupt to the full chain and reports whether
// any handler claimed it. The chain snapshot is lock-free so delivery
// never waits on registration bookkeeping.
func (l *Line) Raise() Result {
	l.raised.Add(1)
	res := None
	for _, h := range l.loadHandlers() {
		if h.fn() == Handled {
			res = Handled
		}
	}
	if res == None {
		l.spurious.Add(1)
	}
	return res
}

// Raised returns the number of interrupts delivered on this line.
func (l *Line) Raised() uint64 { return l.raised.Load() }

// Spurious returns the number of raises no handler claimed.
func (l *Line) Spurious() uint64 { return l.spurious.Load() }

func (l *Line) loadHandlers() []handlerEntry {
	if p := l.handlers.Load(); p != nil {
		return *p
	}
	return nil
}
