package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

// DevAdd returns a handler that creates a device and registers it on
// the table. The payload is a JSON DeviceCreateRequest; the device type
// must be registered, the name must be free (a free one is generated
// when omitted).
func DevAdd(t *devtable.Table, env *ctl.CreateEnv) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		if req.Payload == "" {
			return ctl.ErrBadRequest("missing payload")
		}
		var createReq apitypes.DeviceCreateRequest
		if err := json.Unmarshal([]byte(req.Payload), &createReq); err != nil {
			return ctl.ErrBadRequest(fmt.Sprintf("invalid JSON payload: %v", err))
		}
		if createReq.Type == nil {
			return ctl.ErrBadRequest("missing device type")
		}

		typeName := strings.ToLower(*createReq.Type)
		reg := ctl.GetRegistration(typeName)
		if reg == nil {
			return ctl.ErrBadRequest(fmt.Sprintf("unknown device type: %s", typeName))
		}

		var name string
		if createReq.Name != nil && *createReq.Name != "" {
			name = strings.ToLower(*createReq.Name)
			if t.Get(name) != nil {
				return ctl.ErrConflict(fmt.Sprintf("device %s already exists", name))
			}
		} else {
			name = freeName(t, typeName)
		}

		opts := device.CreateOptions{
			Mapping: createReq.Mapping,
			Speed:   createReq.Speed,
		}
		dev, err := reg.CreateDevice(env, name, &opts)
		if err != nil {
			return ctl.ErrBadRequest(fmt.Sprintf("create %s device: %v", typeName, err))
		}

		devCtx, err := t.Add(dev)
		if err != nil {
			_ = dev.Close()
			return ctl.ErrInternal(fmt.Sprintf("failed to add device to table: %v", err))
		}
		meta := device.GetMeta(devCtx)
		if meta == nil {
			return ctl.ErrInternal("failed to get device metadata from context")
		}

		payload, err := json.Marshal(apitypes.Device{
			Name:  meta.Name,
			Type:  typeName,
			Major: meta.Major,
			Minor: meta.Minor,
			Node:  meta.Node,
		})
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("failed to marshal response: %v", err))
		}
		res.JSON = string(payload)
		return nil
	}
}

// freeName picks the first unused <type>N instance name.
func freeName(t *devtable.Table, typeName string) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s%d", typeName, i)
		if t.Get(name) == nil {
			return name
		}
	}
}
