package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

// DevRemove returns a handler that detaches and closes a device by name.
func DevRemove(t *devtable.Table) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		name, ok := req.Params["name"]
		if !ok {
			return ctl.ErrBadRequest("missing name parameter")
		}
		if err := t.Remove(name); err != nil {
			return ctl.ErrNotFound(fmt.Sprintf("device %s not found", name))
		}

		payload, err := json.Marshal(apitypes.DeviceRemoveResponse{Name: name})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
