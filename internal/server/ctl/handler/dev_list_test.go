package handler_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zTsugumi/vdev/apiclient"
	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/ctl/handler"
	handlerTest "github.com/zTsugumi/vdev/internal/testing"
)

func TestDevList(t *testing.T) {
	tests := []struct {
		name             string
		setup            func(t *testing.T, table *devtable.Table)
		expectedResponse string
	}{
		{
			name:             "empty list",
			setup:            nil,
			expectedResponse: `{"devices":[]}`,
		},
		{
			name: "list with one remap device",
			setup: func(t *testing.T, table *devtable.Table) {
				dev, err := remap.New(slog.Default(), "vdev0", nil, nil)
				if err != nil {
					t.Fatalf("create remap failed: %v", err)
				}
				if _, err := table.Add(dev); err != nil {
					t.Fatalf("add device failed: %v", err)
				}
			},
			expectedResponse: `{"devices":[{"name":"vdev0","type":"remap","major":42,"minor":0,"node":"/dev/vdev0"}]}`,
		},
		{
			name: "list with mixed device types",
			setup: func(t *testing.T, table *devtable.Table) {
				dev, err := remap.New(slog.Default(), "vdev0", nil, nil)
				if err != nil {
					t.Fatalf("create remap failed: %v", err)
				}
				if _, err := table.Add(dev); err != nil {
					t.Fatalf("add remap failed: %v", err)
				}
				if _, err := table.Add(keyboard.New(slog.Default(), "kbd0")); err != nil {
					t.Fatalf("add keyboard failed: %v", err)
				}
			},
			expectedResponse: `{"devices":[{"name":"vdev0","type":"remap","major":42,"minor":0,"node":"/dev/vdev0"},{"name":"kbd0","type":"keyboard","major":42,"minor":1,"node":"/dev/kbd0"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, table, done := handlerTest.StartCtlServer(t, func(r *ctl.Router, table *devtable.Table, srv *ctl.Server) {
				r.Register("dev/list", handler.DevList(table))
			})
			defer done()

			if tt.setup != nil {
				tt.setup(t, table)
			}

			c := apiclient.NewTransport(addr)
			line, err := c.Do("dev/list", nil, nil)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedResponse, line)
		})
	}
}
