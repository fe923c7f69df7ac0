package apiclient

import (
	"fmt"
	"net"
	"time"

	"github.com/zTsugumi/vdev/ps2"
)

// FeedConn is a raw scancode connection to the intake plane. Every
// byte written becomes one keyboard interrupt on the server.
type FeedConn struct {
	conn net.Conn
}

// DialFeed connects to the intake plane at addr.
func DialFeed(addr string, timeout time.Duration) (*FeedConn, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial feed: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	return &FeedConn{conn: conn}, nil
}

// Write injects raw scancode bytes.
func (f *FeedConn) Write(p []byte) (int, error) {
	return f.conn.Write(p)
}

// Press injects the make code of sc.
func (f *FeedConn) Press(sc ps2.Scancode) error {
	_, err := f.conn.Write([]byte{byte(sc.Code())})
	return err
}

// Release injects the break code of sc.
func (f *FeedConn) Release(sc ps2.Scancode) error {
	_, err := f.conn.Write([]byte{byte(sc.Release())})
	return err
}

// Tap injects a press immediately followed by a release.
func (f *FeedConn) Tap(sc ps2.Scancode) error {
	_, err := f.conn.Write([]byte{byte(sc.Code()), byte(sc.Release())})
	return err
}

// Text taps the key for every symbol of s that has one in the main key
// block; other symbols are skipped.
func (f *FeedConn) Text(s string) error {
	for i := 0; i < len(s); i++ {
		sc, ok := ps2.FromASCII(s[i])
		if !ok {
			continue
		}
		if err := f.Tap(sc); err != nil {
			return err
		}
	}
	return nil
}

// Chord injects modifier-down, key-tap, modifier-up: one full chord
// activation for the key carrying sym.
func (f *FeedConn) Chord(modifier ps2.Scancode, sym byte) error {
	sc, ok := ps2.FromASCII(sym)
	if !ok {
		return fmt.Errorf("no key for symbol %q", sym)
	}
	_, err := f.conn.Write([]byte{
		byte(modifier.Code()),
		byte(sc.Code()),
		byte(sc.Release()),
		byte(modifier.Release()),
	})
	return err
}

// Close closes the feed connection.
func (f *FeedConn) Close() error { return f.conn.Close() }
