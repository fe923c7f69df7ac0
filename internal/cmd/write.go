package cmd

import (
	"fmt"
	"log/slog"
)

// Write sends a control payload to a device's write channel, e.g.
// `vdev write vdev0 '0 edsf'` to remap the directions or
// `vdev write vdev0 '1 20'` to change the motion speed.
type Write struct {
	ClientConfig `embed:""`

	Name    string `arg:"" help:"Device name"`
	Payload string `arg:"" help:"Control payload (e.g. '0 wasd' or '1 20')"`
}

func (w *Write) Run(logger *slog.Logger) error {
	resp, err := w.client().DeviceWrite(w.Name, []byte(w.Payload))
	if err != nil {
		return err
	}
	fmt.Printf("%s accepted %d bytes\n", resp.Name, resp.Accepted)
	return nil
}
