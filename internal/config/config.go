// Package config defines the CLI surface of the vdev binary.
package config

import "github.com/zTsugumi/vdev/internal/cmd"

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"VDEV_LOG_LEVEL"`
	File    string `help:"Log file path (text log)" env:"VDEV_LOG_FILE"`
	RawFile string `help:"Raw byte-level log file path (hex dumps of wire traffic)" env:"VDEV_LOG_RAW_FILE"`
}

// CLI is the root command structure parsed by kong.
type CLI struct {
	Log    LogConfig `embed:"" prefix:"log."`
	Config string    `help:"Path to a configuration file" env:"VDEV_CONFIG"`

	Server    cmd.Server        `cmd:"" help:"Run the vdev daemon (scancode intake + control plane)"`
	Feed      cmd.Feed          `cmd:"" help:"Feed scancodes to a running daemon from the terminal"`
	Write     cmd.Write         `cmd:"" help:"Send a control payload to a device's write channel"`
	Watch     cmd.Watch         `cmd:"" help:"Subscribe to a device's event stream and print events"`
	Devices   cmd.Devices       `cmd:"" help:"List and manage devices"`
	ConfigCmd cmd.ConfigCommand `cmd:"" name:"config" help:"Manage configuration files"`
	Version   cmd.Version       `cmd:"" help:"Print the vdev version"`
}
