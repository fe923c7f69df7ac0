package i8042_test

import (
	"sync"
	"testing"

	"github.com/zTsugumi/vdev/i8042"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectLatchesAndRaises(t *testing.T) {
	c := i8042.New()

	var seen []byte
	err := c.Line().Request("probe", func() i8042.Result {
		seen = append(seen, c.ReadData())
		return i8042.Handled
	})
	require.NoError(t, err)

	assert.Equal(t, i8042.Handled, c.Inject(0x11))
	assert.Equal(t, i8042.Handled, c.Inject(0x91))
	assert.Equal(t, []byte{0x11, 0x91}, seen)
	assert.Equal(t, uint64(2), c.Injected())
	assert.Equal(t, uint64(2), c.Line().Raised())
	assert.Equal(t, uint64(0), c.Line().Spurious())
}

func TestSharedLineDeliversToAllHandlers(t *testing.T) {
	c := i8042.New()

	var order []string
	require.NoError(t, c.Line().Request("first", func() i8042.Result {
		order = append(order, "first")
		return i8042.None
	}))
	require.NoError(t, c.Line().Request("second", func() i8042.Result {
		order = append(order, "second")
		return i8042.Handled
	}))
	require.NoError(t, c.Line().Request("third", func() i8042.Result {
		order = append(order, "third")
		return i8042.None
	}))

	// A claim mid-chain must not stop delivery to later handlers.
	assert.Equal(t, i8042.Handled, c.Inject(0x38))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestUnclaimedRaiseIsSpurious(t *testing.T) {
	c := i8042.New()

	require.NoError(t, c.Line().Request("bystander", func() i8042.Result {
		return i8042.None
	}))

	assert.Equal(t, i8042.None, c.Inject(0x01))
	assert.Equal(t, uint64(1), c.Line().Spurious())

	// No handlers at all is spurious too.
	require.NoError(t, c.Line().Free("bystander"))
	assert.Equal(t, i8042.None, c.Inject(0x01))
	assert.Equal(t, uint64(2), c.Line().Spurious())
}

func TestRequestRejectsDuplicateNames(t *testing.T) {
	l := i8042.NewLine()
	require.NoError(t, l.Request("kbd", func() i8042.Result { return i8042.Handled }))

	err := l.Request("kbd", func() i8042.Result { return i8042.Handled })
	assert.Error(t, err)

	assert.Error(t, l.Request("nil", nil))
	assert.Error(t, l.Free("unknown"))
}

func TestFreeStopsDelivery(t *testing.T) {
	c := i8042.New()

	calls := 0
	require.NoError(t, c.Line().Request("once", func() i8042.Result {
		calls++
		return i8042.Handled
	}))

	c.Inject(0x20)
	require.NoError(t, c.Line().Free("once"))
	c.Inject(0x20)

	assert.Equal(t, 1, calls)
}

func TestConcurrentInjectorsAreSafe(t *testing.T) {
	c := i8042.New()

	var handled sync.WaitGroup
	seen := make(chan byte, 1000)
	require.NoError(t, c.Line().Request("sink", func() i8042.Result {
		seen <- c.ReadData()
		return i8042.Handled
	}))

	const feeders, perFeeder = 10, 100
	for i := 0; i < feeders; i++ {
		handled.Add(1)
		go func(v byte) {
			defer handled.Done()
			for j := 0; j < perFeeder; j++ {
				c.Inject(v)
			}
		}(byte(i))
	}
	handled.Wait()
	close(seen)

	n := 0
	for b := range seen {
		assert.Less(t, b, byte(feeders))
		n++
	}
	assert.Equal(t, feeders*perFeeder, n)
	assert.Equal(t, uint64(feeders*perFeeder), c.Line().Raised())
}
