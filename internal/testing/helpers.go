package testing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/internal/log"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/kbd"
)

// StartCtlServer spins up a device table and a control server on an
// ephemeral port. The register callback wires routes before the server
// starts; tests that need extra devices use the returned table.
func StartCtlServer(t *testing.T, register func(r *ctl.Router, table *devtable.Table, srv *ctl.Server)) (addr string, table *devtable.Table, done func()) {
	return StartCtlServerWithConfig(t, ctl.ServerConfig{Addr: "127.0.0.1:0"}, register)
}

// StartCtlServerWithConfig is StartCtlServer with a caller-supplied
// server config (e.g. to set a password for auth tests).
func StartCtlServerWithConfig(t *testing.T, cfg ctl.ServerConfig, register func(r *ctl.Router, table *devtable.Table, srv *ctl.Server)) (addr string, table *devtable.Table, done func()) {
	t.Helper()

	controller := i8042.New()
	table = devtable.New(controller, slog.Default())

	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	srv := ctl.New(table, cfg, slog.Default())
	if register != nil {
		register(srv.Router(), table, srv)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("ctl start failed: %v", err)
	}

	done = func() {
		srv.Close()
		_ = table.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return srv.Addr(), table, done
}

// StartKbdServer spins up a scancode intake server on an ephemeral
// port, backed by a fresh controller.
func StartKbdServer(t *testing.T) (addr string, controller *i8042.Controller, done func()) {
	t.Helper()

	controller = i8042.New()
	srv := kbd.New(kbd.ServerConfig{Addr: "127.0.0.1:0"}, controller, slog.Default(), log.NewRaw(nil))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case <-srv.Ready():
	case err := <-errCh:
		t.Fatalf("kbd server failed to start: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("kbd server did not become ready")
	}

	done = func() {
		_ = srv.Close()
		<-errCh
	}
	return srv.Addr(), controller, done
}
