// Package testing provides shared helpers for this repository's tests.
package testing

import (
	"sync"

	"github.com/zTsugumi/vdev/pointer"
)

// CaptureEmitter records every motion event it receives.
type CaptureEmitter struct {
	mu     sync.Mutex
	events []pointer.Rel
}

func NewCaptureEmitter() *CaptureEmitter {
	return &CaptureEmitter{}
}

// Emit implements pointer.Emitter.
func (e *CaptureEmitter) Emit(r pointer.Rel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, r)
}

// Events returns a copy of everything emitted so far.
func (e *CaptureEmitter) Events() []pointer.Rel {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]pointer.Rel, len(e.events))
	copy(out, e.events)
	return out
}

// Count returns the number of events emitted so far.
func (e *CaptureEmitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

// Reset clears the recorded events.
func (e *CaptureEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = nil
}
