package auth_test

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zTsugumi/vdev/internal/server/ctl/auth"
)

func TestConn(t *testing.T) {

	type testCase struct {
		name        string
		setupFn     func(clientConn net.Conn, serverConn net.Conn) (clientKey []byte, serverKey []byte)
		input       []byte
		expected    []byte
		expectedErr error
	}

	sessionKey := func(password string) []byte {
		key, err := auth.DeriveKey(password)
		if err != nil {
			t.Fatalf("failed to derive key: %v", err)
		}
		return key
	}

	testCases := []testCase{
		{
			name: "valid read",
			setupFn: func(clientConn, serverConn net.Conn) ([]byte, []byte) {
				key := sessionKey("test123")
				return key, key
			},
			input:    []byte("Hello, World!"),
			expected: []byte("Hello, World!"),
		},
		{
			name: "Differing Keys",
			setupFn: func(clientConn, serverConn net.Conn) ([]byte, []byte) {
				return sessionKey("test123"), sessionKey("123test")
			},
			input:       []byte("x"),
			expected:    nil,
			expectedErr: errors.New("chacha20poly1305: message authentication failed"),
		},
		{
			name: "bad key length (client)",
			setupFn: func(clientConn, serverConn net.Conn) ([]byte, []byte) {
				return []byte{1, 2, 3}, sessionKey("test123")
			},
			input:       []byte("x"),
			expected:    nil,
			expectedErr: errors.New("chacha20poly1305: bad key length"),
		},
		{
			name: "client closed before write",
			setupFn: func(clientConn, serverConn net.Conn) ([]byte, []byte) {
				key := sessionKey("test123")
				_ = clientConn.Close()
				return key, key
			},
			input:       []byte("x"),
			expected:    nil,
			expectedErr: errors.New("use of closed network connection"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				t.Fatalf("failed to start test server: %v", err)
			}
			clientConn, err := net.Dial("tcp", ln.Addr().String())
			if err != nil {
				t.Fatalf("failed to connect to test server: %v", err)
			}
			serverConn, err := ln.Accept()
			if err != nil {
				t.Fatalf("failed to accept connection: %v", err)
			}
			defer ln.Close()
			defer clientConn.Close()
			defer serverConn.Close()

			var clientKey, serverKey []byte
			if tc.setupFn != nil {
				clientKey, serverKey = tc.setupFn(clientConn, serverConn)
			}

			wrappedServerConn, err := auth.WrapConn(serverConn, serverKey)
			if err != nil {
				if tc.expectedErr != nil {
					assert.ErrorContains(t, err, tc.expectedErr.Error())
				} else {
					t.Fatalf("failed to wrap server conn: %v", err)
				}
				return
			}
			wrappedClientConn, err := auth.WrapConn(clientConn, clientKey)
			if err != nil {
				if tc.expectedErr != nil {
					assert.ErrorContains(t, err, tc.expectedErr.Error())
				} else {
					t.Fatalf("failed to wrap client conn: %v", err)
				}
				return
			}

			_, err = wrappedClientConn.Write(tc.input)
			if err != nil {
				if tc.expectedErr != nil {
					assert.ErrorContains(t, err, tc.expectedErr.Error())
				} else {
					t.Fatalf("client write error: %v", err)
				}
				return
			}
			buf := make([]byte, len(tc.expected))
			_, err = wrappedServerConn.Read(buf)
			if err != nil {
				if tc.expectedErr != nil {
					assert.ErrorContains(t, err, tc.expectedErr.Error())
				} else {
					t.Errorf("server read error: %v", err)
				}
				return
			}
			assert.Equal(t, tc.expected, buf)

		})
	}

}
