// Package kbd implements the scancode intake plane: the interrupt
// source of the system. Every byte received on the feed socket (or
// captured from a local keyboard) is latched into the controller's
// data register and raised as one interrupt.
package kbd

import (
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/internal/log"
)

// Server accepts raw scancode feeds over TCP and injects them into the
// keyboard controller. Multiple concurrent feeders are allowed; the
// controller serializes nothing beyond the latch itself, exactly like
// the racy hardware register it models.
type Server struct {
	config    *ServerConfig
	logger    *slog.Logger
	rawLogger log.RawLogger
	ctl       *i8042.Controller
	ready     chan struct{}
	readyOnce sync.Once
	ln        net.Listener
}

func New(config ServerConfig, ctl *i8042.Controller, logger *slog.Logger, rawLogger log.RawLogger) *Server {
	return &Server{
		config:    &config,
		logger:    logger,
		rawLogger: rawLogger,
		ctl:       ctl,
		ready:     make(chan struct{}),
	}
}

// Controller returns the controller this plane injects into.
func (s *Server) Controller() *i8042.Controller { return s.ctl }

// ListenAndServe starts the intake server and handles incoming feeds.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("scancode feed listening", "addr", ln.Addr().String())
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("scancode feed stopped")
				return nil
			}
			s.logger.Error("accept error", "error", err)
			continue
		}
		s.logger.Info("feeder connected", "remote", c.RemoteAddr())
		go func() {
			if err := s.handleConn(c); err != nil {
				s.logger.Error("feed handler error", "error", err)
			}
		}()
	}
}

// handleConn drains one feed connection. The reading goroutine is the
// interrupt context for every byte it injects.
func (s *Server) handleConn(conn net.Conn) error {
	defer conn.Close()
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			s.rawLogger.Log(true, buf[:n])
			for _, b := range buf[:n] {
				s.ctl.Inject(b)
			}
		}
		if err != nil {
			if isClientDisconnect(err) {
				s.logger.Info("feeder disconnected", "remote", conn.RemoteAddr())
				return nil
			}
			return err
		}
	}
}

// Ready returns a channel that is closed once the server has
// successfully bound to its listen address.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listen address, or "" before the listener is up.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops the intake server by closing its listener.
func (s *Server) Close() error {
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

func isClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "eof") ||
		strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe")
}
