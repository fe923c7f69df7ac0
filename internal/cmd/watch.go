package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/device/remap"
)

// Watch subscribes to a device's event stream and prints each event as
// it arrives. Pointer devices print axis/delta pairs, keyboard devices
// print key transitions.
type Watch struct {
	ClientConfig `embed:""`

	Name string `arg:"" help:"Device name"`
}

func (w *Watch) Run(logger *slog.Logger) error {
	c := w.client()

	list, err := c.DevicesList()
	if err != nil {
		return err
	}
	devType := ""
	for _, d := range list.Devices {
		if d.Name == w.Name {
			devType = d.Type
			break
		}
	}
	if devType == "" {
		return fmt.Errorf("device %q not found", w.Name)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	switch devType {
	case remap.TypeName:
		st, err := c.StreamPointer(context.Background(), w.Name)
		if err != nil {
			return err
		}
		defer st.Close()
		go func() {
			<-sig
			st.Close()
		}()
		for {
			rel, err := st.Next()
			if err != nil {
				return nil
			}
			fmt.Printf("%s axis=%d delta=%+d\n", w.Name, rel.Axis, rel.Delta)
		}
	case keyboard.TypeName:
		st, err := c.StreamKeys(context.Background(), w.Name)
		if err != nil {
			return err
		}
		defer st.Close()
		go func() {
			<-sig
			st.Close()
		}()
		for {
			ev, err := st.Next()
			if err != nil {
				return nil
			}
			state := "release"
			if ev.Pressed {
				state = "press"
			}
			fmt.Printf("%s code=%#02x %s sym=%c\n", w.Name, ev.Code, state, ev.Symbol)
		}
	default:
		return fmt.Errorf("device %q has no streamable events (type %s)", w.Name, devType)
	}
}
