// Package device provides common interfaces and utilities for virtual
// input devices sharing the keyboard controller.
package device

import "github.com/zTsugumi/vdev/i8042"

// Device is a virtual input device driven by the keyboard controller's
// interrupt line.
type Device interface {
	// Name returns the instance name, unique per device table.
	Name() string
	// Attach requests a slot on the controller's interrupt line. Called
	// once before any interrupt delivery.
	Attach(c *i8042.Controller) error
	// Detach frees the interrupt slot. Idempotent.
	Detach()
	// Close stops background work and releases resources. Callers
	// detach first; no interrupt is delivered during or after Close.
	Close() error
}

// CreateOptions carries optional construction parameters for device
// factories. Nil fields keep the type's defaults.
type CreateOptions struct {
	// Mapping is the 4-symbol direction mapping (UP, DOWN, LEFT, RIGHT).
	Mapping *string
	// Speed is the motion magnitude per chord activation.
	Speed *int
}
