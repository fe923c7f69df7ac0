package kbd_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zTsugumi/vdev/apiclient"
	th "github.com/zTsugumi/vdev/internal/testing"
	"github.com/zTsugumi/vdev/ps2"
)

func TestFeedInjectsBytes(t *testing.T) {
	addr, controller, done := th.StartKbdServer(t)
	defer done()

	f, err := apiclient.DialFeed(addr, time.Second)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Press(ps2.KeyW))
	require.NoError(t, f.Release(ps2.KeyW))

	assert.Eventually(t, func() bool {
		return controller.Injected() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestFeedText(t *testing.T) {
	addr, controller, done := th.StartKbdServer(t)
	defer done()

	f, err := apiclient.DialFeed(addr, time.Second)
	require.NoError(t, err)
	defer f.Close()

	// each symbol is a press/release pair
	require.NoError(t, f.Text("wasd"))
	assert.Eventually(t, func() bool {
		return controller.Injected() == 8
	}, time.Second, 5*time.Millisecond)
}

func TestConcurrentFeeders(t *testing.T) {
	addr, controller, done := th.StartKbdServer(t)
	defer done()

	const feeders = 4
	for i := 0; i < feeders; i++ {
		f, err := apiclient.DialFeed(addr, time.Second)
		require.NoError(t, err)
		defer f.Close()
		require.NoError(t, f.Tap(ps2.KeyA))
	}

	assert.Eventually(t, func() bool {
		return controller.Injected() == feeders*2
	}, time.Second, 5*time.Millisecond)
}

func TestFeederDisconnectKeepsServing(t *testing.T) {
	addr, controller, done := th.StartKbdServer(t)
	defer done()

	f, err := apiclient.DialFeed(addr, time.Second)
	require.NoError(t, err)
	require.NoError(t, f.Press(ps2.KeyA))
	require.NoError(t, f.Close())

	f2, err := apiclient.DialFeed(addr, time.Second)
	require.NoError(t, err)
	defer f2.Close()
	require.NoError(t, f2.Press(ps2.KeyS))

	assert.Eventually(t, func() bool {
		return controller.Injected() == 2
	}, time.Second, 5*time.Millisecond)
}
