// Package apiclient provides the typed client for the vdev control
// plane, plus stream subscriptions and a raw scancode feed connection.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zTsugumi/vdev/apitypes"
	"github.com/zTsugumi/vdev/device"
)

// Client provides a high-level interface to the vdev control plane,
// handling request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the control server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithPassword constructs a client that authenticates with the given password.
func NewWithPassword(addr, password string) *Client {
	return &Client{transport: NewTransportWithPassword(addr, password)}
}

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing or when advanced transport configuration is needed.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the version and identity of the vdev server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	const path = "ping"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// DevicesList retrieves all devices registered on the table. Each entry
// includes name, type, major:minor and node path.
func (c *Client) DevicesList() (*apitypes.DevicesListResponse, error) {
	return c.DevicesListCtx(context.Background())
}

func (c *Client) DevicesListCtx(ctx context.Context) (*apitypes.DevicesListResponse, error) {
	const path = "dev/list"
	raw, err := c.transport.DoCtx(ctx, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DevicesListResponse](raw)
}

// DeviceAdd creates a new device of the specified type (e.g. "remap",
// "keyboard"). An empty name asks the server to generate one. Options
// may carry a remap mapping and speed.
func (c *Client) DeviceAdd(devType, name string, o *device.CreateOptions) (*apitypes.Device, error) {
	return c.DeviceAddCtx(context.Background(), devType, name, o)
}

func (c *Client) DeviceAddCtx(ctx context.Context, devType, name string, o *device.CreateOptions) (*apitypes.Device, error) {
	const path = "dev/add"
	if o == nil {
		o = &device.CreateOptions{}
	}
	req := apitypes.DeviceCreateRequest{
		Type:    &devType,
		Mapping: o.Mapping,
		Speed:   o.Speed,
	}
	if name != "" {
		req.Name = &name
	}
	payloadBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal device create request: %w", err)
	}
	raw, err := c.transport.DoCtx(ctx, path, string(payloadBytes), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.Device](raw)
}

// DeviceRemove detaches and closes a device by name. Active streams on
// the device are terminated.
func (c *Client) DeviceRemove(name string) (*apitypes.DeviceRemoveResponse, error) {
	return c.DeviceRemoveCtx(context.Background(), name)
}

func (c *Client) DeviceRemoveCtx(ctx context.Context, name string) (*apitypes.DeviceRemoveResponse, error) {
	const path = "dev/{name}/remove"
	raw, err := c.transport.DoCtx(ctx, path, nil, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](raw)
}

// DeviceWrite sends a control payload to a device's write channel, e.g.
// "0 wasd" to set a remap mapping or "1 20" to set its speed. The
// response carries the byte count the device accepted; per the remap
// write semantics a malformed payload is still accepted in full.
func (c *Client) DeviceWrite(name string, payload []byte) (*apitypes.DeviceWriteResponse, error) {
	return c.DeviceWriteCtx(context.Background(), name, payload)
}

func (c *Client) DeviceWriteCtx(ctx context.Context, name string, payload []byte) (*apitypes.DeviceWriteResponse, error) {
	const path = "dev/{name}/write"
	raw, err := c.transport.DoCtx(ctx, path, payload, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceWriteResponse](raw)
}

// DeviceState retrieves a remap device's capture state and counters.
func (c *Client) DeviceState(name string) (*apitypes.DeviceStateResponse, error) {
	return c.DeviceStateCtx(context.Background(), name)
}

func (c *Client) DeviceStateCtx(ctx context.Context, name string) (*apitypes.DeviceStateResponse, error) {
	const path = "dev/{name}/state"
	raw, err := c.transport.DoCtx(ctx, path, nil, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceStateResponse](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
