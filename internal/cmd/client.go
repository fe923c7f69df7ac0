package cmd

import "github.com/zTsugumi/vdev/apiclient"

// ClientConfig groups the connection flags shared by the client
// commands (everything except server).
type ClientConfig struct {
	Addr     string `help:"Control server address" default:"localhost:4264" env:"VDEV_CTL_ADDR"`
	Password string `help:"Control server password (required when the daemon runs with --auth)" env:"VDEV_PASSWORD"`
}

func (c *ClientConfig) client() *apiclient.Client {
	if c.Password != "" {
		return apiclient.NewWithPassword(c.Addr, c.Password)
	}
	return apiclient.New(c.Addr)
}
