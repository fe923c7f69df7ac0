package ctl

import (
	"log/slog"
	"sync"

	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/pointer"
)

// CreateEnv carries the server-side collaborators a device factory may
// need: the logger to hang instance loggers off and the extra motion
// sink (beyond the device's own stream broadcaster) to emit into.
type CreateEnv struct {
	Logger  *slog.Logger
	Emitter pointer.Emitter
}

// DeviceRegistration describes a device type, providing both device creation
// and stream handler dispatch.
type DeviceRegistration interface {
	// CreateDevice returns a new, detached device instance of this type.
	CreateDevice(env *CreateEnv, name string, o *device.CreateOptions) (device.Device, error)
	// StreamHandler returns the handler function for long-lived connections.
	StreamHandler() StreamHandlerFunc
}

var (
	deviceRegistry   = make(map[string]DeviceRegistration)
	deviceRegistryMu sync.RWMutex
)

// RegisterDevice registers a device type for dynamic creation and handler dispatch.
// This should be called from device package init() functions.
// The name is case-insensitive and will be lowercased.
func RegisterDevice(name string, reg DeviceRegistration) {
	deviceRegistryMu.Lock()
	defer deviceRegistryMu.Unlock()
	deviceRegistry[toLower(name)] = reg
}

// GetRegistration retrieves a registered device type by name for device creation.
// Returns nil if not found. Name lookup is case-insensitive.
func GetRegistration(name string) DeviceRegistration {
	deviceRegistryMu.RLock()
	defer deviceRegistryMu.RUnlock()
	return deviceRegistry[toLower(name)]
}

// ListDeviceTypes returns a list of all registered device type names.
func ListDeviceTypes() []string {
	deviceRegistryMu.RLock()
	defer deviceRegistryMu.RUnlock()
	types := make([]string, 0, len(deviceRegistry))
	for name := range deviceRegistry {
		types = append(types, name)
	}
	return types
}

// GetStreamHandler retrieves the stream handler for a registered device type.
// Returns nil if not found. Name lookup is case-insensitive.
func GetStreamHandler(name string) StreamHandlerFunc {
	reg := GetRegistration(name)
	if reg == nil {
		return nil
	}
	return reg.StreamHandler()
}

func toLower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
