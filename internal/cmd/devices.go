package cmd

import (
	"fmt"
	"log/slog"

	"github.com/zTsugumi/vdev/device"
)

// Devices groups the device-table management subcommands.
type Devices struct {
	Ls    DevicesLs    `cmd:"" help:"List attached devices"`
	Add   DevicesAdd   `cmd:"" help:"Create and attach a device"`
	Rm    DevicesRm    `cmd:"" help:"Detach and remove a device"`
	State DevicesState `cmd:"" help:"Show a remap device's state and counters"`
}

type DevicesLs struct {
	ClientConfig `embed:""`
}

func (d *DevicesLs) Run(logger *slog.Logger) error {
	resp, err := d.client().DevicesList()
	if err != nil {
		return err
	}
	if len(resp.Devices) == 0 {
		fmt.Println("no devices")
		return nil
	}
	for _, dev := range resp.Devices {
		fmt.Printf("%-10s type=%-8s dev=%d:%d node=%s\n", dev.Name, dev.Type, dev.Major, dev.Minor, dev.Node)
	}
	return nil
}

type DevicesAdd struct {
	ClientConfig `embed:""`

	Type    string `arg:"" help:"Device type (remap, keyboard)"`
	Name    string `help:"Device name (auto-assigned when empty)"`
	Mapping string `help:"Initial direction mapping for remap devices (4 symbols: up down left right)"`
	Speed   int    `help:"Initial motion speed for remap devices" default:"-1"`
}

func (d *DevicesAdd) Run(logger *slog.Logger) error {
	o := &device.CreateOptions{}
	if d.Mapping != "" {
		o.Mapping = &d.Mapping
	}
	if d.Speed >= 0 {
		o.Speed = &d.Speed
	}
	resp, err := d.client().DeviceAdd(d.Type, d.Name, o)
	if err != nil {
		return err
	}
	fmt.Printf("%s type=%s dev=%d:%d node=%s\n", resp.Name, resp.Type, resp.Major, resp.Minor, resp.Node)
	return nil
}

type DevicesRm struct {
	ClientConfig `embed:""`

	Name string `arg:"" help:"Device name"`
}

func (d *DevicesRm) Run(logger *slog.Logger) error {
	resp, err := d.client().DeviceRemove(d.Name)
	if err != nil {
		return err
	}
	fmt.Printf("removed %s\n", resp.Name)
	return nil
}

type DevicesState struct {
	ClientConfig `embed:""`

	Name string `arg:"" help:"Device name"`
}

func (d *DevicesState) Run(logger *slog.Logger) error {
	resp, err := d.client().DeviceState(d.Name)
	if err != nil {
		return err
	}
	fmt.Printf("%s mapping=%s speed=%d window=[%#02x %#02x]\n",
		resp.Name, resp.Mapping, resp.Speed, resp.Window[0], resp.Window[1])
	fmt.Printf("interrupts=%d presses=%d decodes=%d emitted=%d malformed=%d\n",
		resp.Interrupts, resp.Presses, resp.Decodes, resp.Emitted, resp.Malformed)
	return nil
}
