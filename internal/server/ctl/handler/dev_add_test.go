package handler_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zTsugumi/vdev/apiclient"
	"github.com/zTsugumi/vdev/device"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/ctl/handler"
	handlerTest "github.com/zTsugumi/vdev/internal/testing"
)

func startAddServer(t *testing.T) (string, *devtable.Table, func()) {
	t.Helper()
	return handlerTest.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("dev/add", handler.DevAdd(table, &ctl.CreateEnv{Logger: slog.Default()}))
	})
}

func TestDevAdd(t *testing.T) {
	addr, table, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	resp, err := c.DeviceAdd("remap", "vdev0", nil)
	require.NoError(t, err)
	assert.Equal(t, "vdev0", resp.Name)
	assert.Equal(t, "remap", resp.Type)
	assert.Equal(t, uint32(42), resp.Major)
	assert.Equal(t, "/dev/vdev0", resp.Node)

	assert.NotNil(t, table.Get("vdev0"))
}

func TestDevAddGeneratesName(t *testing.T) {
	addr, _, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	first, err := c.DeviceAdd("remap", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "remap0", first.Name)

	second, err := c.DeviceAdd("remap", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "remap1", second.Name)
}

func TestDevAddDuplicateName(t *testing.T) {
	addr, _, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	_, err := c.DeviceAdd("keyboard", "kbd0", nil)
	require.NoError(t, err)

	_, err = c.DeviceAdd("keyboard", "kbd0", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestDevAddUnknownType(t *testing.T) {
	addr, _, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	_, err := c.DeviceAdd("gamepad", "", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device type")
}

func TestDevAddWithOptions(t *testing.T) {
	addr, table, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	mapping := "ikjl"
	speed := 25
	resp, err := c.DeviceAdd("remap", "", &device.CreateOptions{Mapping: &mapping, Speed: &speed})
	require.NoError(t, err)

	dev := table.Get(resp.Name)
	require.NotNil(t, dev)
	r, ok := dev.(*remap.Remap)
	require.True(t, ok)
	st := r.State()
	assert.Equal(t, "ikjl", st.Mapping.String())
	assert.Equal(t, 25, st.Speed)
}

func TestDevAddRejectsBadOptions(t *testing.T) {
	addr, _, done := startAddServer(t)
	defer done()

	c := apiclient.New(addr)

	mapping := "too many symbols"
	_, err := c.DeviceAdd("remap", "", &device.CreateOptions{Mapping: &mapping})
	assert.Error(t, err)

	mapping = "w\tsd"
	_, err = c.DeviceAdd("remap", "", &device.CreateOptions{Mapping: &mapping})
	assert.Error(t, err)
}

func TestDevAddMissingPayload(t *testing.T) {
	addr, _, done := startAddServer(t)
	defer done()

	tr := apiclient.NewTransport(addr)
	line, err := tr.Do("dev/add", nil, nil)
	assert.NoError(t, err)
	assert.Contains(t, line, "missing payload")
}
