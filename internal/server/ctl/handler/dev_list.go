package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

// DevList returns a handler that lists devices on the table.
func DevList(t *devtable.Table) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		entries := t.List()
		out := make([]apitypes.Device, 0, len(entries))
		for _, e := range entries {
			out = append(out, apitypes.Device{
				Name:  e.Meta.Name,
				Type:  inferDeviceType(e.Dev),
				Major: e.Meta.Major,
				Minor: e.Meta.Minor,
				Node:  e.Meta.Node,
			})
		}
		payload, err := json.Marshal(apitypes.DevicesListResponse{Devices: out})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}

// inferDeviceType derives a friendly device type name from the concrete
// type. For devices under device/<name>, this is the last path element
// (e.g., "remap"). Fallback is the lowercased concrete type name.
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
