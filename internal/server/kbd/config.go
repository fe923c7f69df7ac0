package kbd

// ServerConfig represents the scancode intake plane configuration.
type ServerConfig struct {
	Addr    string `help:"Scancode feed listen address" default:":4260" env:"VDEV_KBD_ADDR"`
	Capture string `help:"Capture scancodes from a local keyboard: an evdev path like /dev/input/event3, or 'auto' (linux only)" default:"" env:"VDEV_KBD_CAPTURE"`
}
