package ctl_test

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zTsugumi/vdev/apiclient"
	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/ctl/handler"
	th "github.com/zTsugumi/vdev/internal/testing"
	"github.com/zTsugumi/vdev/pointer"
	"github.com/zTsugumi/vdev/ps2"
)

// rawRequest dials addr, sends data verbatim and returns the reply up
// to the NUL terminator.
func rawRequest(t *testing.T, addr, data string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte(data))
	require.NoError(t, err)

	_ = c.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(c).ReadString('\x00')
	require.NoError(t, err)
	return strings.TrimSuffix(line, "\x00")
}

func TestServerUnknownPath(t *testing.T) {
	addr, _, done := th.StartCtlServer(t, nil)
	defer done()

	reply := rawRequest(t, addr, "no/such/path\x00")
	assert.Contains(t, reply, "Not Found")
	assert.Contains(t, reply, "unknown path")
}

func TestServerEmptyRequest(t *testing.T) {
	addr, _, done := th.StartCtlServer(t, nil)
	defer done()

	reply := rawRequest(t, addr, "\x00")
	assert.Contains(t, reply, "empty request")
}

func TestServerSplitsPayloadAtFirstWhitespace(t *testing.T) {
	addr, _, done := th.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("echo", func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
			res.JSON = `{"payload":"` + req.Payload + `"}`
			return nil
		})
	})
	defer done()

	reply := rawRequest(t, addr, "echo one two three\x00")
	assert.Equal(t, `{"payload":"one two three"}`, reply)
}

func TestServerAuthRequired(t *testing.T) {
	cfg := ctl.ServerConfig{Addr: "127.0.0.1:0", Password: "hunter2"}
	addr, _, done := th.StartCtlServerWithConfig(t, cfg, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("ping", handler.Ping())
	})
	defer done()

	reply := rawRequest(t, addr, "ping\x00")
	assert.Contains(t, reply, "authentication required")

	_, err := apiclient.New(addr).Ping()
	assert.Error(t, err)
}

func TestServerAuthRoundtrip(t *testing.T) {
	cfg := ctl.ServerConfig{Addr: "127.0.0.1:0", Password: "hunter2"}
	addr, _, done := th.StartCtlServerWithConfig(t, cfg, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("ping", handler.Ping())
	})
	defer done()

	c := apiclient.NewWithPassword(addr, "hunter2")
	resp, err := c.Ping()
	require.NoError(t, err)
	assert.Equal(t, "vdev", resp.Server)

	_, err = apiclient.NewWithPassword(addr, "wrong").Ping()
	assert.Error(t, err)
}

func TestServerPointerStream(t *testing.T) {
	addr, table, done := th.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.RegisterStream("dev/{name}/stream", ctl.DeviceStreamHandler())
	})
	defer done()

	dev, err := remap.New(slog.Default(), "vdev0", nil, nil)
	require.NoError(t, err)
	_, err = table.Add(dev)
	require.NoError(t, err)

	c := apiclient.New(addr)
	st, err := c.StreamPointer(context.Background(), "vdev0")
	require.NoError(t, err)
	defer st.Close()

	// Give the stream handler time to subscribe before injecting.
	time.Sleep(50 * time.Millisecond)

	table.Controller().Inject(byte(remap.ModifierScancode))
	table.Controller().Inject(byte(ps2.KeyW))

	ev, err := st.Next()
	require.NoError(t, err)
	assert.Equal(t, pointer.RelY, ev.Axis)
	assert.Equal(t, int32(-remap.DefaultSpeed), ev.Delta)
}

func TestServerKeyStream(t *testing.T) {
	addr, table, done := th.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.RegisterStream("dev/{name}/stream", ctl.DeviceStreamHandler())
	})
	defer done()

	_, err := table.Add(keyboard.New(slog.Default(), "kbd0"))
	require.NoError(t, err)

	c := apiclient.New(addr)
	st, err := c.StreamKeys(context.Background(), "kbd0")
	require.NoError(t, err)
	defer st.Close()

	time.Sleep(50 * time.Millisecond)

	table.Controller().Inject(byte(ps2.KeyA))
	ev, err := st.Next()
	require.NoError(t, err)
	assert.True(t, ev.Pressed)
	assert.Equal(t, byte('a'), ev.Symbol)
}

func TestServerStreamEndsOnDeviceRemoval(t *testing.T) {
	addr, table, done := th.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.RegisterStream("dev/{name}/stream", ctl.DeviceStreamHandler())
	})
	defer done()

	dev, err := remap.New(slog.Default(), "vdev0", nil, nil)
	require.NoError(t, err)
	_, err = table.Add(dev)
	require.NoError(t, err)

	c := apiclient.New(addr)
	st, err := c.StreamPointer(context.Background(), "vdev0")
	require.NoError(t, err)
	defer st.Close()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, table.Remove("vdev0"))

	_, err = st.Next()
	assert.Error(t, err)
}

func TestServerStreamUnknownDevice(t *testing.T) {
	addr, _, done := th.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.RegisterStream("dev/{name}/stream", ctl.DeviceStreamHandler())
	})
	defer done()

	reply := rawRequest(t, addr, "dev/ghost/stream\x00")
	assert.Contains(t, reply, "not found")
}
