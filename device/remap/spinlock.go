package remap

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a mutual-exclusion primitive that never sleeps, so it is
// safe to acquire from contexts that must not block, interrupt handlers
// included. Critical sections under it must stay short and bounded:
// state mutation only, no I/O, no emission, no logging.
type SpinLock struct {
	state atomic.Uint32
}

// TryLock attempts to acquire the lock without waiting.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Lock acquires the lock, spinning with a scheduler yield between
// attempts. Sections guarded by this lock are O(1), so the spin is
// bounded in practice.
func (l *SpinLock) Lock() {
	for !l.TryLock() {
		runtime.Gosched()
	}
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	l.state.Store(0)
}
