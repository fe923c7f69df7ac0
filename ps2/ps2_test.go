package ps2_test

import (
	"testing"

	"github.com/zTsugumi/vdev/ps2"
	"github.com/stretchr/testify/assert"
)

func TestIsPressedCoversAllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		s := ps2.Scancode(b)
		assert.Equal(t, b&0x80 == 0, s.IsPressed(), "byte 0x%02x", b)
	}
}

func TestCodeStripsReleaseFlag(t *testing.T) {
	assert.Equal(t, ps2.KeyW, ps2.KeyW.Release().Code())
	assert.Equal(t, ps2.KeyW, ps2.KeyW.Code())
	assert.False(t, ps2.KeyW.Release().IsPressed())
}

func TestToASCII(t *testing.T) {
	type testCase struct {
		name string
		code ps2.Scancode
		want byte
	}

	cases := []testCase{
		{name: "digit row start", code: ps2.Key1, want: '1'},
		{name: "digit row end", code: ps2.Key0, want: '0'},
		{name: "top row", code: ps2.KeyW, want: 'w'},
		{name: "top row end", code: ps2.KeyP, want: 'p'},
		{name: "home row", code: ps2.KeyS, want: 's'},
		{name: "home row end", code: ps2.KeyL, want: 'l'},
		{name: "bottom row", code: ps2.KeyZ, want: 'z'},
		{name: "bottom row end", code: ps2.KeyM, want: 'm'},
		{name: "space", code: ps2.KeySpace, want: ' '},
		{name: "enter", code: ps2.KeyEnter, want: '\n'},
		{name: "release flag ignored", code: ps2.KeyD.Release(), want: 'd'},
		{name: "esc is unmapped", code: ps2.KeyEsc, want: ps2.Unknown},
		{name: "modifier is unmapped", code: ps2.KeyLeftAlt, want: ps2.Unknown},
		{name: "gap between rows", code: 0x1A, want: ps2.Unknown},
		{name: "beyond main block", code: 0x7F, want: ps2.Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ps2.ToASCII(tc.code))
		})
	}
}

func TestFromASCIIRoundTrip(t *testing.T) {
	for _, b := range []byte("qwertyuiopasdfghjklzxcvbnm1234567890 \n") {
		code, ok := ps2.FromASCII(b)
		if !assert.True(t, ok, "symbol %q", b) {
			continue
		}
		assert.Equal(t, b, ps2.ToASCII(code), "symbol %q", b)
	}

	_, ok := ps2.FromASCII('!')
	assert.False(t, ok)
}
