// Package ctl implements the control plane: a line-oriented TCP
// protocol for device management, control-channel writes and event
// streams. One request per connection, `path [payload]` terminated by
// NUL, answered with a NUL-terminated JSON reply.
package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"sync"

	"github.com/zTsugumi/vdev/devtable"
	"github.com/zTsugumi/vdev/internal/server/ctl/auth"
)

// Server implements the TCP control plane over a device table.
type Server struct {
	table  *devtable.Table
	config ServerConfig
	logger *slog.Logger
	router *Router

	key       []byte
	ln        net.Listener
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a control server bound to a device table.
func New(table *devtable.Table, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		table:  table,
		config: config,
		logger: logger,
		router: NewRouter(),
		ready:  make(chan struct{}),
	}
}

// Router returns the router used by the server so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Table returns the underlying device table.
func (s *Server) Table() *devtable.Table { return s.table }

// Config returns the server configuration.
func (s *Server) Config() ServerConfig { return s.config }

// Start listens on the configured address and serves incoming commands.
// When a password is configured, every connection must complete the
// authentication handshake and the session is encrypted.
func (s *Server) Start() error {
	if s.config.Password != "" {
		key, err := auth.DeriveKey(s.config.Password)
		if err != nil {
			return fmt.Errorf("derive control key: %w", err)
		}
		s.key = key
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.readyOnce.Do(func() { close(s.ready) })
	s.logger.Info("control server listening", "addr", ln.Addr().String())
	go s.serve()
	return nil
}

// Ready returns a channel that is closed once the server has bound its
// listen address.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Close stops the control server.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("control server stopped")
				return
			}
			s.logger.Info("control accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	apiErr := WrapError(err)
	problemJSON, _ := json.Marshal(apiErr)
	fmt.Fprintf(w, "%s\x00", string(problemJSON))
}

func (s *Server) writeOK(w io.Writer, rest string) {
	fmt.Fprintf(w, "%s\x00", rest)
}

var wsRegex = regexp.MustCompile(`\s`)

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)
	var w io.Writer = conn

	if len(s.key) > 0 {
		isHandshake, err := auth.IsAuthHandshake(r)
		if err != nil || !isHandshake {
			connLogger.Debug("connection without auth handshake rejected")
			s.writeError(w, ErrUnauthorized("authentication required"))
			return
		}
		clientNonce, serverNonce, err := auth.HandleAuthHandshake(r, conn, s.key, false)
		if err != nil {
			connLogger.Debug("auth handshake failed", "error", err)
			s.writeError(w, err)
			return
		}
		sessionKey := auth.DeriveSessionKey(s.key, serverNonce, clientNonce)
		sc, err := auth.WrapConn(conn, sessionKey)
		if err != nil {
			s.writeError(w, ErrInternal("session setup failed"))
			return
		}
		conn = sc
		r = bufio.NewReader(sc)
		w = sc
	}

	// Read until null terminator.
	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("control incomplete request (no null terminator)")
		} else {
			connLogger.Error("read control data", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")

	if reqData == "" {
		connLogger.Error("control empty command")
		s.writeError(w, ErrBadRequest("empty request"))
		return
	}

	// Split on first whitespace character
	var path, payload string
	if loc := wsRegex.FindStringIndex(reqData); loc != nil {
		path = reqData[:loc[0]]
		payload = reqData[loc[1]:]
	} else {
		path = reqData
	}

	if path == "" {
		connLogger.Error("control empty path")
		s.writeError(w, ErrBadRequest("empty path"))
		return
	}

	path = strings.ToLower(path)
	connLogger.Info("control cmd", "path", path)

	if h, params := s.router.Match(path); h != nil {
		req := &Request{Ctx: connCtx, Params: params, Payload: payload}
		res := &Response{}
		if err := h(req, res, connLogger); err != nil {
			connLogger.Error("control handler error", "path", path, "error", err)
			s.writeError(w, err)
			return
		}
		connLogger.Debug("control handler success", "path", path)
		s.writeOK(w, res.JSON)
		return
	}

	if sh, params := s.router.MatchStream(path); sh != nil {
		connLogger.Info("control stream begin", "path", path)
		name, ok := params["name"]
		if !ok {
			s.writeError(w, ErrBadRequest("missing name parameter"))
			return
		}
		dev := s.table.Get(name)
		devCtx := s.table.Context(name)
		if dev == nil || devCtx == nil {
			s.writeError(w, ErrNotFound(fmt.Sprintf("device %s not found", name)))
			return
		}

		// Stream handler takes ownership of connection
		if err := sh(conn, dev, devCtx, connLogger); err != nil {
			if isClientDisconnect(err) {
				connLogger.Debug("control stream client disconnected", "path", path)
			} else {
				connLogger.Error("control stream handler error", "path", path, "error", err)
			}
		}
		connLogger.Info("control stream end", "path", path)
		return
	}

	connLogger.Error("control unknown path", "path", path)
	s.writeError(w, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
}

// isClientDisconnect reports whether err looks like the peer going
// away rather than a server-side failure.
func isClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "use of closed network connection")
}
