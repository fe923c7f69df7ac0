package ctl

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/zTsugumi/vdev/device"
)

// DeviceStreamHandler returns a stream handler func that dynamically
// dispatches to device-specific handlers based on device type.
func DeviceStreamHandler() StreamHandlerFunc {
	return func(conn net.Conn, dev device.Device, devCtx context.Context, logger *slog.Logger) error {
		defer conn.Close()

		if dev == nil {
			return fmt.Errorf("nil device")
		}

		deviceType := inferDeviceType(dev)
		reg := GetRegistration(deviceType)
		if reg == nil {
			return fmt.Errorf("no handler for device type: %s", deviceType)
		}
		return reg.StreamHandler()(conn, dev, devCtx, logger)
	}
}

// inferDeviceType derives the type string from the concrete device
// type. For devices under device/<name>, this is the last path element
// (e.g., "remap"); fallback is the lowercased type name.
func inferDeviceType(dev any) string {
	if dev == nil {
		return ""
	}
	t := reflect.TypeOf(dev)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if pkg := t.PkgPath(); pkg != "" {
		base := filepath.Base(pkg)
		if base != "." && base != string(filepath.Separator) {
			return strings.ToLower(base)
		}
	}
	return strings.ToLower(t.Name())
}
