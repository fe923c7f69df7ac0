package remap

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/internal/server/ctl"
)

func init() {
	ctl.RegisterDevice(TypeName, &handler{})
}

type handler struct{}

func (h *handler) CreateDevice(env *ctl.CreateEnv, name string, o *device.CreateOptions) (device.Device, error) {
	return New(env.Logger, name, env.Emitter, o)
}

// StreamHandler pushes the device's motion events to the client as
// 5-byte reports until the client hangs up or the device is removed.
func (h *handler) StreamHandler() ctl.StreamHandlerFunc {
	return func(conn net.Conn, dev device.Device, devCtx context.Context, logger *slog.Logger) error {
		r, ok := dev.(*Remap)
		if !ok {
			return fmt.Errorf("device is not remap")
		}

		events, cancel := r.Subscribe(64)
		defer cancel()

		// The client writes nothing on this stream; a read returning
		// marks the hangup.
		hangup := make(chan struct{})
		go func() {
			defer close(hangup)
			var buf [1]byte
			for {
				if _, err := conn.Read(buf[:]); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, open := <-events:
				if !open {
					return nil
				}
				data, err := ev.MarshalBinary()
				if err != nil {
					return fmt.Errorf("marshal motion report: %w", err)
				}
				if _, err := conn.Write(data); err != nil {
					return fmt.Errorf("write motion report: %w", err)
				}
			case <-hangup:
				logger.Info("client disconnected")
				return nil
			case <-devCtx.Done():
				return nil
			}
		}
	}
}
