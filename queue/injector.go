package queue

import (
	"sync"

	"github.com/gammazero/deque"
)

// Injector is a multi-producer, multi-consumer FIFO queue.
// Concurrent pushes may interleave in any order, but each push is atomic and
// each successful pop returns a distinct, previously pushed element.
type Injector[T any] struct {
	mu    sync.Mutex
	items deque.Deque[T]
}

// Push appends v to the tail of the queue.
func (q *Injector[T]) Push(v T) {
	q.mu.Lock()
	q.items.PushBack(v)
	q.mu.Unlock()
}

// TryPop removes and returns the head of the queue.
// It reports false when the queue is empty.
func (q *Injector[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}

// Len returns the number of queued elements at the time of the call.
func (q *Injector[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
