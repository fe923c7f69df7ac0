package keyboard_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zTsugumi/vdev/device/keyboard"
	"github.com/zTsugumi/vdev/i8042"
	"github.com/zTsugumi/vdev/ps2"
)

func attached(t *testing.T) (*i8042.Controller, *keyboard.Keyboard) {
	t.Helper()
	ctl := i8042.New()
	k := keyboard.New(slog.Default(), "kbd0")
	require.NoError(t, k.Attach(ctl))
	t.Cleanup(func() {
		k.Detach()
		_ = k.Close()
	})
	return ctl, k
}

func TestKeyboardClaimsInterrupts(t *testing.T) {
	ctl, k := attached(t)

	res := ctl.Inject(byte(ps2.KeyA))
	assert.Equal(t, i8042.Handled, res)
	assert.Equal(t, uint64(1), k.Handled())
	assert.Zero(t, ctl.Line().Spurious())
}

func TestKeyboardPublishesTypedEvents(t *testing.T) {
	ctl, k := attached(t)

	ch, cancel := k.Subscribe(8)
	defer cancel()

	ctl.Inject(byte(ps2.KeyA))
	ctl.Inject(byte(ps2.KeyA.Release()))

	ev := <-ch
	assert.Equal(t, ps2.KeyA, ev.Code)
	assert.True(t, ev.Pressed)
	assert.Equal(t, byte('a'), ev.Symbol)

	ev = <-ch
	assert.Equal(t, ps2.KeyA, ev.Code)
	assert.False(t, ev.Pressed)
}

func TestKeyboardDropsOnFullBuffer(t *testing.T) {
	ctl, k := attached(t)

	_, cancel := k.Subscribe(1)
	defer cancel()

	ctl.Inject(byte(ps2.KeyA))
	ctl.Inject(byte(ps2.KeyS))
	ctl.Inject(byte(ps2.KeyD))

	assert.Equal(t, uint64(2), k.Dropped())
	assert.Equal(t, uint64(3), k.Handled())
}

func TestKeyboardSubscribeCancelClosesChannel(t *testing.T) {
	_, k := attached(t)

	ch, cancel := k.Subscribe(1)
	cancel()
	cancel() // idempotent

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed by cancel")
	}
}

func TestKeyboardCloseClosesSubscribers(t *testing.T) {
	ctl := i8042.New()
	k := keyboard.New(slog.Default(), "kbd0")
	require.NoError(t, k.Attach(ctl))
	k.Detach()

	ch, _ := k.Subscribe(1)
	require.NoError(t, k.Close())

	_, open := <-ch
	assert.False(t, open)
}

func TestKeyEventRoundtrip(t *testing.T) {
	ev := keyboard.KeyEvent{Code: ps2.KeyW, Pressed: true, Symbol: 'w'}
	data, err := ev.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, keyboard.EventSize)

	var back keyboard.KeyEvent
	require.NoError(t, back.UnmarshalBinary(data))
	assert.Equal(t, ev, back)
}
