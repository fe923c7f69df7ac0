// Package devtable manages the registered virtual devices: name and
// minor-number assignment, interrupt-line attachment, and per-device
// lifecycle contexts.
package devtable

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/i8042"
)

// Major is the device number all table entries register under.
const Major uint32 = 42

// Entry exposes a registered device and its metadata for external
// queries.
type Entry struct {
	Dev  device.Device
	Meta device.Meta
}

type tableDevice struct {
	dev    device.Device
	meta   device.Meta
	ctx    context.Context
	cancel context.CancelFunc
}

// Table is the registry of live devices on one controller. Devices are
// attached to the controller's interrupt line when added and detached
// when removed; each carries a context that is cancelled on removal so
// long-lived consumers (streams) observe teardown.
type Table struct {
	mu        sync.Mutex
	ctl       *i8042.Controller
	logger    *slog.Logger
	nextMinor uint32
	devices   []tableDevice
}

// New creates an empty table bound to the given controller.
func New(ctl *i8042.Controller, logger *slog.Logger) *Table {
	return &Table{ctl: ctl, logger: logger}
}

// Controller returns the controller this table attaches devices to.
func (t *Table) Controller() *i8042.Controller { return t.ctl }

// Add registers a device, attaches it to the interrupt line and
// assigns it the next minor number. Names must be unique on the table.
// Returns a context carrying the device metadata; it is cancelled when
// the device is removed or the table closed.
func (t *Table) Add(dev device.Device) (context.Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := dev.Name()
	for _, d := range t.devices {
		if d.meta.Name == name {
			return nil, fmt.Errorf("device %q already registered", name)
		}
	}

	if err := dev.Attach(t.ctl); err != nil {
		return nil, fmt.Errorf("attach %q: %w", name, err)
	}

	minor := t.nextMinor
	t.nextMinor++

	meta := device.Meta{
		Name:    name,
		Major:   Major,
		Minor:   minor,
		Node:    "/dev/" + name,
		Created: time.Now(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, device.MetaKey, &meta)
	t.devices = append(t.devices, tableDevice{dev: dev, meta: meta, ctx: ctx, cancel: cancel})
	t.logger.Info("device registered", "name", name, "major", Major, "minor", minor)
	return ctx, nil
}

// Remove detaches a device by name, cancels its context and closes it.
func (t *Table) Remove(name string) error {
	t.mu.Lock()
	var removed *tableDevice
	for i := range t.devices {
		if t.devices[i].meta.Name == name {
			d := t.devices[i]
			removed = &d
			t.devices = append(t.devices[:i], t.devices[i+1:]...)
			break
		}
	}
	t.mu.Unlock()

	if removed == nil {
		return fmt.Errorf("device %q not found", name)
	}
	removed.dev.Detach()
	removed.cancel()
	if err := removed.dev.Close(); err != nil {
		return fmt.Errorf("close %q: %w", name, err)
	}
	t.logger.Info("device removed", "name", name)
	return nil
}

// Get returns a device by name, or nil if not present.
func (t *Table) Get(name string) device.Device {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range t.devices {
		if d.meta.Name == name {
			return d.dev
		}
	}
	return nil
}

// Context returns the lifecycle context of a device, or nil.
func (t *Table) Context(name string) context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range t.devices {
		if d.meta.Name == name {
			return d.ctx
		}
	}
	return nil
}

// List returns a snapshot of all registered devices in creation order.
func (t *Table) List() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, 0, len(t.devices))
	for _, d := range t.devices {
		out = append(out, Entry{Dev: d.dev, Meta: d.meta})
	}
	return out
}

// Close removes every device in reverse creation order. The first
// close failure is returned; teardown still visits every device.
func (t *Table) Close() error {
	t.mu.Lock()
	devices := t.devices
	t.devices = nil
	t.mu.Unlock()

	var firstErr error
	for i := len(devices) - 1; i >= 0; i-- {
		d := devices[i]
		d.dev.Detach()
		d.cancel()
		if err := d.dev.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %q: %w", d.meta.Name, err)
		}
	}
	return firstErr
}
