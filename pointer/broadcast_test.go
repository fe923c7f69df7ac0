package pointer_test

import (
	"testing"

	"github.com/zTsugumi/vdev/pointer"
	"github.com/stretchr/testify/assert"
)

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	b := pointer.NewBroadcaster()

	c1, cancel1 := b.Subscribe(8)
	c2, cancel2 := b.Subscribe(8)
	defer cancel1()
	defer cancel2()
	assert.Equal(t, 2, b.Subscribers())

	ev := pointer.Rel{Axis: pointer.RelX, Delta: -3}
	b.Emit(ev)

	assert.Equal(t, ev, <-c1)
	assert.Equal(t, ev, <-c2)
}

func TestBroadcasterDropsWhenSubscriberIsFull(t *testing.T) {
	b := pointer.NewBroadcaster()

	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Emit(pointer.Rel{Axis: pointer.RelY, Delta: 1})
	b.Emit(pointer.Rel{Axis: pointer.RelY, Delta: 2}) // buffer full, dropped

	assert.Equal(t, uint64(1), b.Dropped())
	assert.Equal(t, pointer.Rel{Axis: pointer.RelY, Delta: 1}, <-ch)
}

func TestCancelClosesChannelAndUnsubscribes(t *testing.T) {
	b := pointer.NewBroadcaster()

	ch, cancel := b.Subscribe(1)
	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())

	// Emitting after the last subscriber left must not panic or drop.
	b.Emit(pointer.Rel{Axis: pointer.RelX, Delta: 1})
	assert.Equal(t, uint64(0), b.Dropped())
}

func TestEmitWithNoSubscribers(t *testing.T) {
	b := pointer.NewBroadcaster()
	b.Emit(pointer.Rel{Axis: pointer.RelX, Delta: 42})
	assert.Equal(t, uint64(0), b.Dropped())
}
