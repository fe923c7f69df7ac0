// Package handler implements the control-plane operations, one per file.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/version"
)

// Ping returns a liveness handler reporting server identity and version.
func Ping() ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		payload, err := json.Marshal(apitypes.PingResponse{
			Server:  "vdev",
			Version: version.String(),
		})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}
