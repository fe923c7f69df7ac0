package remap

// tasklet runs deferred work on one goroutine with coalesced
// scheduling: at most one activation is pending at any time and the
// worker never runs concurrently with itself. A schedule request while
// an activation is pending merges into it.
type tasklet struct {
	fn      func()
	pending chan struct{}
	quit    chan struct{}
	done    chan struct{}
}

func newTasklet(fn func()) *tasklet {
	t := &tasklet{
		fn:      fn,
		pending: make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go t.run()
	return t
}

// Schedule requests one activation. Never blocks, safe from any
// context, including interrupt context.
func (t *tasklet) Schedule() {
	select {
	case t.pending <- struct{}{}:
	default:
	}
}

func (t *tasklet) run() {
	defer close(t.done)
	for {
		select {
		case <-t.pending:
			t.fn()
		case <-t.quit:
			// Drain a last pending activation so work scheduled
			// before Close is not lost.
			select {
			case <-t.pending:
				t.fn()
			default:
			}
			return
		}
	}
}

// Close stops the worker and waits for it to finish. Schedule calls
// racing with Close are either drained or dropped, never deadlocked.
func (t *tasklet) Close() {
	close(t.quit)
	<-t.done
}
