package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

// DevWrite returns a handler for the control channel's write path: the
// request payload is handed verbatim to the device's Writer. Only
// devices exposing io.Writer accept writes. The device's own write
// semantics decide what a malformed payload means; in the remap case
// the write still reports every byte accepted.
func DevWrite(t *devtable.Table) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		name, ok := req.Params["name"]
		if !ok {
			return ctl.ErrBadRequest("missing name parameter")
		}
		dev := t.Get(name)
		if dev == nil {
			return ctl.ErrNotFound(fmt.Sprintf("device %s not found", name))
		}
		w, ok := dev.(io.Writer)
		if !ok {
			return ctl.ErrBadRequest(fmt.Sprintf("device %s does not accept writes", name))
		}

		n, err := w.Write([]byte(req.Payload))
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("write to %s: %v", name, err))
		}

		payload, err := json.Marshal(apitypes.DeviceWriteResponse{Name: name, Accepted: n})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
