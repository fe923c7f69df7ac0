// Package i8042 models the keyboard controller surface the drivers in
// this repository program against: a one-byte data register latched per
// scancode, and a shared interrupt line delivering to a handler chain.
package i8042

import "sync/atomic"

// Controller latches scancode bytes into its data register and raises
// the keyboard interrupt line once per byte.
//
// The data register is deliberately racy the way the real port is:
// handlers read whatever byte is latched at the time of the read, and
// every consumer on the shared line observes the same value for one
// raise. There is no read-to-clear behavior.
type Controller struct {
	line *Line
	data atomic.Uint32

	injected atomic.Uint64
}

// New returns a controller with a fresh interrupt line.
func New() *Controller {
	return &Controller{line: NewLine()}
}

// ReadData reads the data register. Safe from any context; never blocks.
func (c *Controller) ReadData() byte {
	return byte(c.data.Load())
}

// Inject latches one scancode byte and raises the interrupt line,
// returning the chain's verdict. The caller's goroutine is the
// interrupt context for the duration of the raise.
func (c *Controller) Inject(b byte) Result {
	c.injected.Add(1)
	c.data.Store(uint32(b))
	return c.line.Raise()
}

// Line returns the controller's interrupt line for handler registration.
func (c *Controller) Line() *Line { return c.line }

// Injected returns the number of bytes latched since creation.
func (c *Controller) Injected() uint64 { return c.injected.Load() }
