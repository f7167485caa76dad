package table

import (
	"sync"

	"github.com/ianhorswill/ted/internal/term"
)

// pendingQueue is a thread-safe FIFO for facts awaiting appension.
//
// Thread-safety is for external producers (event sources, CLI input
// loading) enqueueing while the engine runs; the engine drains it once
// per tick from its single thread. Arrival order is preserved.
type pendingQueue struct {
	mu    sync.Mutex
	facts []term.Tuple
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{
		facts: make([]term.Tuple, 0, 16),
	}
}

// enqueue adds a fact to the back of the queue.
// Safe to call from any goroutine.
func (q *pendingQueue) enqueue(t term.Tuple) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.facts = append(q.facts, t)
}

// drain removes and returns all queued facts in arrival order.
// The backing array is released so drained tuples can be collected
// once the relation no longer references them.
func (q *pendingQueue) drain() []term.Tuple {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.facts) == 0 {
		return nil
	}
	out := q.facts
	q.facts = make([]term.Tuple, 0, 16)
	return out
}

// size returns the current queue length.
func (q *pendingQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.facts)
}
