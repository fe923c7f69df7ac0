package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

// DevState returns a handler exposing a remap device's capture state
// and counters for introspection.
func DevState(t *devtable.Table) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		name, ok := req.Params["name"]
		if !ok {
			return ctl.ErrBadRequest("missing name parameter")
		}
		dev := t.Get(name)
		if dev == nil {
			return ctl.ErrNotFound(fmt.Sprintf("device %s not found", name))
		}
		r, ok := dev.(*remap.Remap)
		if !ok {
			return ctl.ErrBadRequest(fmt.Sprintf("device %s has no capture state", name))
		}

		st := r.State()
		payload, err := json.Marshal(apitypes.DeviceStateResponse{
			Name:       name,
			Mapping:    st.Mapping.String(),
			Speed:      st.Speed,
			Window:     [2]byte{byte(st.Window[0]), byte(st.Window[1])},
			Interrupts: st.Interrupts,
			Presses:    st.Presses,
			Decodes:    st.Decodes,
			Emitted:    st.Emitted,
			Malformed:  st.Malformed,
		})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
