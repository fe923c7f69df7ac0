package apiclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/pointer"
)

// noDeadline clears a connection deadline.
var noDeadline time.Time

// PointerStream delivers a remap device's motion events as they are
// decoded. Events arrive as fixed 5-byte reports.
type PointerStream struct {
	conn net.Conn
	name string
}

// StreamPointer opens the motion-event stream of a remap device. The
// stream pushes until either side closes or the device is removed.
func (c *Client) StreamPointer(ctx context.Context, name string) (*PointerStream, error) {
	conn, err := c.openStream(ctx, name)
	if err != nil {
		return nil, err
	}
	return &PointerStream{conn: conn, name: name}, nil
}

// Next blocks for the next motion event.
func (s *PointerStream) Next() (pointer.Rel, error) {
	var buf [pointer.ReportSize]byte
	if _, err := io.ReadFull(s.conn, buf[:]); err != nil {
		return pointer.Rel{}, err
	}
	var ev pointer.Rel
	if err := ev.UnmarshalBinary(buf[:]); err != nil {
		return pointer.Rel{}, err
	}
	return ev, nil
}

// Close terminates the stream.
func (s *PointerStream) Close() error { return s.conn.Close() }

// KeyStream delivers a keyboard device's classified key events as
// fixed 3-byte reports.
type KeyStream struct {
	conn net.Conn
	name string
}

// StreamKeys opens the key-event stream of a keyboard device.
func (c *Client) StreamKeys(ctx context.Context, name string) (*KeyStream, error) {
	conn, err := c.openStream(ctx, name)
	if err != nil {
		return nil, err
	}
	return &KeyStream{conn: conn, name: name}, nil
}

// Next blocks for the next key event.
func (s *KeyStream) Next() (keyboard.KeyEvent, error) {
	var buf [keyboard.EventSize]byte
	if _, err := io.ReadFull(s.conn, buf[:]); err != nil {
		return keyboard.KeyEvent{}, err
	}
	var ev keyboard.KeyEvent
	if err := ev.UnmarshalBinary(buf[:]); err != nil {
		return keyboard.KeyEvent{}, err
	}
	return ev, nil
}

// Close terminates the stream.
func (s *KeyStream) Close() error { return s.conn.Close() }

// openStream dials the control plane and upgrades the connection to the
// device's event stream. The connection is owned by the caller.
func (c *Client) openStream(ctx context.Context, name string) (net.Conn, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	request := []byte(fmt.Sprintf("dev/%s/stream\x00", name))
	conn, err := c.transport.dial(ctx, request)
	if err != nil {
		return nil, err
	}
	// Streams live past the transport's request timeouts.
	_ = conn.SetReadDeadline(noDeadline)
	_ = conn.SetWriteDeadline(noDeadline)
	return conn, nil
}
