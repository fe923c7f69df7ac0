package pointer

import (
	"sync"
	"sync/atomic"
)

// Broadcaster fans motion events out to any number of subscribers.
// Sends never block: a subscriber whose buffer is full loses the event
// and the loss is counted, so a stalled stream consumer cannot back up
// the decode path.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Rel
	next int

	dropped atomic.Uint64
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Rel)}
}

// Emit implements Emitter.
func (b *Broadcaster) Emit(r Rel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- r:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a new subscriber with the given buffer size and
// returns its channel plus a cancel function. Cancel closes the channel
// after removal, so a range over it terminates.
func (b *Broadcaster) Subscribe(buf int) (<-chan Rel, func()) {
	if buf < 1 {
		buf = 1
	}
	ch := make(chan Rel, buf)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped returns the number of events lost to full subscriber buffers.
func (b *Broadcaster) Dropped() uint64 { return b.dropped.Load() }
