// Outbound queue owned by every live game viewer.

package sse

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gammazero/deque"
)

var (
	// ErrQueueClosed is returned once the queue has been closed and drained of nothing more to give.
	ErrQueueClosed = errors.New("sse: queue closed")
	// ErrQueueFull is returned by Push when a depth limit is set and reached.
	ErrQueueFull = errors.New("sse: queue full")
	// ErrWaitTimeout is returned by Next when nothing arrived within the wait bound.
	ErrWaitTimeout = errors.New("sse: wait timed out")
)

// Queue is a FIFO of serialized events.
// Push never blocks, Next blocks until an item arrives, the wait bound elapses or the queue closes.
// A limit of 0 leaves the queue unbounded, a stalled viewer then grows it until it disconnects.
type Queue struct {
	mu     sync.Mutex
	items  *deque.Deque[[]byte]
	limit  int
	closed bool
	// notify holds at most one pending wake up for the single reader.
	notify chan struct{}
}

func NewQueue(limit int) *Queue {
	if limit < 0 {
		limit = 0
	}
	return &Queue{
		items:  deque.New[[]byte](),
		limit:  limit,
		notify: make(chan struct{}, 1),
	}
}

// Push appends item without blocking.
func (q *Queue) Push(item []byte) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if q.limit > 0 && q.items.Len() >= q.limit {
		q.mu.Unlock()
		return ErrQueueFull
	}
	q.items.PushBack(item)
	q.mu.Unlock()
	q.wake()
	return nil
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Next pops the oldest item, waiting at most timeout for one to show up.
// Items pushed before Close are still handed out, ErrQueueClosed only follows an empty closed queue.
func (q *Queue) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	var timer *time.Timer
	for {
		q.mu.Lock()
		if q.items.Len() > 0 {
			item := q.items.PopFront()
			q.mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			return item, nil
		}
		if q.closed {
			q.mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			return nil, ErrQueueClosed
		}
		q.mu.Unlock()

		if timer == nil {
			timer = time.NewTimer(timeout)
		}
		select {
		case <-q.notify:
		case <-timer.C:
			// An item that raced the timer still wins over the heartbeat
			q.mu.Lock()
			defer q.mu.Unlock()
			if q.items.Len() > 0 {
				return q.items.PopFront(), nil
			}
			return nil, ErrWaitTimeout
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// Len reports how many items are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Close refuses every later Push and wakes the reader. Closing twice is a no-op.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
