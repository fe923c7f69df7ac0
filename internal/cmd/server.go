package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/internal/configpaths"
	"github.com/zTsugumi/vdev/internal/log"
	"github.com/zTsugumi/vdev/internal/server/ctl"
	"github.com/zTsugumi/vdev/internal/server/ctl/auth"
	"github.com/zTsugumi/vdev/internal/server/ctl/handler"
	"github.com/zTsugumi/vdev/internal/server/kbd"
	"github.com/zTsugumi/vdev/pointer"
)

const keyFileName = "vdev.key.txt"

// PointerConfig groups the motion output flags.
type PointerConfig struct {
	UInput bool   `help:"Mirror decoded motion into a /dev/uinput virtual pointer (linux only)" default:"false" env:"VDEV_POINTER_UINPUT"`
	Name   string `help:"Name of the uinput virtual pointer" default:"vdev virtual pointer" env:"VDEV_POINTER_NAME"`
}

// Server runs the daemon: controller, device table and both planes.
type Server struct {
	KbdServerConfig kbd.ServerConfig `embed:"" prefix:"kbd."`
	CtlServerConfig ctl.ServerConfig `embed:"" prefix:"ctl."`
	Pointer         PointerConfig    `embed:"" prefix:"pointer."`

	Auth          bool `help:"Require password authentication on the control server (key is read from or generated into the config dir)" default:"false" env:"VDEV_AUTH"`
	NoAutoDevices bool `help:"Do not create the default keyboard and remap devices at startup" default:"false" env:"VDEV_NO_AUTO_DEVICES"`
}

// Run is called by Kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

// StartServer brings the daemon up stage by stage. A failure at any
// stage unwinds the prior stages in reverse order before returning.
func (s *Server) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("starting vdev", "kbd", s.KbdServerConfig.Addr, "ctl", s.CtlServerConfig.Addr)

	if s.Auth {
		pwd, err := s.loadOrGenerateKey(logger)
		if err != nil {
			return err
		}
		s.CtlServerConfig.Password = pwd
	}

	controller := i8042.New()

	var extra pointer.Emitter
	var uinput *pointer.UInput
	if s.Pointer.UInput {
		u, err := pointer.OpenUInput(logger, s.Pointer.Name)
		if err != nil {
			return fmt.Errorf("open uinput pointer: %w", err)
		}
		uinput = u
		extra = u
	}

	table := devtable.New(controller, logger)

	if !s.NoAutoDevices {
		// The remap device attaches first so the keyboard driver, which
		// claims the line, runs after it; the line result stays Handled.
		rdev, err := remap.New(logger, "vdev0", extra, nil)
		if err != nil {
			closeQuiet(uinput)
			return err
		}
		if _, err := table.Add(rdev); err != nil {
			_ = rdev.Close()
			closeQuiet(uinput)
			return err
		}
		if _, err := table.Add(keyboard.New(logger, "kbd0")); err != nil {
			_ = table.Close()
			closeQuiet(uinput)
			return err
		}
	}

	kbdSrv := kbd.New(s.KbdServerConfig, controller, logger, rawLogger)
	kbdErrCh := make(chan error, 1)
	go func() {
		kbdErrCh <- kbdSrv.ListenAndServe()
	}()
	select {
	case err := <-kbdErrCh:
		_ = table.Close()
		closeQuiet(uinput)
		return err
	case <-kbdSrv.Ready():
	}

	if s.KbdServerConfig.Capture != "" {
		if err := kbdSrv.StartCapture(ctx, s.KbdServerConfig.Capture); err != nil {
			_ = kbdSrv.Close()
			_ = table.Close()
			closeQuiet(uinput)
			return fmt.Errorf("keyboard capture: %w", err)
		}
	}

	ctlSrv := ctl.New(table, s.CtlServerConfig, logger)
	env := &ctl.CreateEnv{Logger: logger, Emitter: extra}
	r := ctlSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("dev/list", handler.DevList(table))
	r.Register("dev/add", handler.DevAdd(table, env))
	r.Register("dev/{name}/remove", handler.DevRemove(table))
	r.Register("dev/{name}/write", handler.DevWrite(table))
	r.Register("dev/{name}/state", handler.DevState(table))
	r.RegisterStream("dev/{name}/stream", ctl.DeviceStreamHandler())

	if err := ctlSrv.Start(); err != nil {
		_ = kbdSrv.Close()
		_ = table.Close()
		closeQuiet(uinput)
		return fmt.Errorf("start control server: %w", err)
	}

	logger.Info("vdev ready")

	select {
	case <-ctx.Done():
		ctlSrv.Close()
		_ = kbdSrv.Close()
		<-kbdErrCh
		_ = table.Close()
		closeQuiet(uinput)
		return nil
	case err := <-kbdErrCh:
		ctlSrv.Close()
		_ = table.Close()
		closeQuiet(uinput)
		return err
	}
}

// loadOrGenerateKey reads the control password from the key file,
// generating and persisting a fresh one on first run.
func (s *Server) loadOrGenerateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate control password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write control password to file: %w", err)
	}
	logger.Info("generated control server password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your vdev control password is:")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return newPwd, nil
}

func closeQuiet(u *pointer.UInput) {
	if u != nil {
		_ = u.Close()
	}
}
