package apiclient_test

import (
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zTsugumi/vdev/apiclient"
)

func startTestServer(t *testing.T, response string) (addr string, gotReqLine *string, closeFn func()) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	got := new(string)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf []byte
		var tmp [1]byte
		for {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, rerr := conn.Read(tmp[:])
			if rerr != nil {
				break
			}
			b := tmp[0]
			buf = append(buf, b)
			if b == '\x00' {
				break
			}
		}
		*got = string(buf)
		if response != "" {
			_, _ = conn.Write([]byte(response))
		}
	}()
	return ln.Addr().String(), got, func() { _ = ln.Close() }
}

func TestTransportPayloadEncoding(t *testing.T) {
	type S struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	type testCase struct {
		name         string
		payload      any
		expectedLine string // full request including terminator (for non-struct where deterministic)
		validateJSON bool   // whether to JSON-unmarshal payload part instead of direct equality
	}

	cases := []testCase{
		{
			name:         "nil payload",
			payload:      nil,
			expectedLine: "echo\x00",
		},
		{
			name:         "empty string payload",
			payload:      "",
			expectedLine: "echo\x00",
		},
		{
			name:         "bytes payload",
			payload:      []byte("0 wasd"),
			expectedLine: "echo 0 wasd\x00",
		},
		{
			name:         "string payload",
			payload:      "hello world",
			expectedLine: "echo hello world\x00",
		},
		{
			name:         "struct payload json marshaled",
			payload:      S{A: 7, B: "zzz"},
			validateJSON: true,
		},
	}

	for _, tc := range cases {
		addr, got, closeFn := startTestServer(t, "ok\x00")
		client := apiclient.NewTransport(addr)
		out, err := client.Do("echo", tc.payload, nil)
		closeFn()
		assert.NoError(t, err, tc.name)
		assert.Equal(t, "ok", out, tc.name)

		if tc.validateJSON {
			b, merr := json.Marshal(tc.payload)
			assert.NoError(t, merr, tc.name)
			expectedPrefix := "echo " + string(b) + "\x00"
			assert.Equal(t, expectedPrefix, *got, tc.name)
			line := strings.TrimSuffix(strings.TrimPrefix(*got, "echo "), "\x00")
			var s S
			assert.NoError(t, json.Unmarshal([]byte(line), &s), tc.name)
			assert.Equal(t, tc.payload, s, tc.name)
			continue
		}

		assert.Equal(t, tc.expectedLine, *got, tc.name)
	}
}

func TestTransportFillsPathParams(t *testing.T) {
	addr, got, closeFn := startTestServer(t, "{}\x00")
	defer closeFn()

	client := apiclient.NewTransport(addr)
	_, err := client.Do("dev/{name}/state", nil, map[string]string{"name": "vdev0"})
	assert.NoError(t, err)
	assert.Equal(t, "dev/vdev0/state\x00", *got)
}

func TestTransportMock(t *testing.T) {
	tr := apiclient.NewMockTransport(func(path string, payload any, pathParams map[string]string) (string, error) {
		assert.Equal(t, "ping", path)
		return `{"server":"vdev","version":"test"}`, nil
	})
	c := apiclient.WithTransport(tr)
	resp, err := c.Ping()
	assert.NoError(t, err)
	assert.Equal(t, "vdev", resp.Server)
	assert.Equal(t, "test", resp.Version)
}

func TestClientSurfacesApiErrors(t *testing.T) {
	addr, _, closeFn := startTestServer(t, `{"status":404,"title":"Not Found","detail":"device ghost not found"}`+"\x00")
	defer closeFn()

	c := apiclient.New(addr)
	_, err := c.DeviceRemove("ghost")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "device ghost not found")
}
