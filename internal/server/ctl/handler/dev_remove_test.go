package handler_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zTsugumi/vdev/apiclient"
	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/ctl/handler"
	handlerTest "github.com/zTsugumi/vdev/internal/testing"
)

func TestDevRemove(t *testing.T) {
	addr, table, done := handlerTest.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("dev/{name}/remove", handler.DevRemove(table))
	})
	defer done()

	_, err := table.Add(keyboard.New(slog.Default(), "kbd0"))
	require.NoError(t, err)
	devCtx := table.Context("kbd0")
	require.NotNil(t, devCtx)

	c := apiclient.New(addr)
	resp, err := c.DeviceRemove("kbd0")
	require.NoError(t, err)
	assert.Equal(t, "kbd0", resp.Name)

	assert.Nil(t, table.Get("kbd0"))
	select {
	case <-devCtx.Done():
	default:
		t.Fatal("device context not cancelled on removal")
	}
}

func TestDevRemoveUnknown(t *testing.T) {
	addr, _, done := handlerTest.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
		r.Register("dev/{name}/remove", handler.DevRemove(table))
	})
	defer done()

	c := apiclient.New(addr)
	_, err := c.DeviceRemove("nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
