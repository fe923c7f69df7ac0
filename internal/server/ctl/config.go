package ctl

// ServerConfig represents the control-plane server configuration.
type ServerConfig struct {
	Addr     string `help:"Control server listen address" default:":4264" env:"VDEV_CTL_ADDR"`
	Password string `kong:"-"`
}
