package queue

import (
	"sync"

	"github.com/gammazero/deque"
)

// Local is a worker-owned double-ended queue.
//
// PushOwn and PopOwn are meant for the owning worker and operate on the front.
// TrySteal is meant for every other worker and operates on the back, so thieves
// take the oldest element and rarely touch the element the owner is about to pop.
// All three operations are mutually exclusive.
type Local[T any] struct {
	mu    sync.Mutex
	items deque.Deque[T]
}

// PushOwn pushes v to the owner's end.
func (q *Local[T]) PushOwn(v T) {
	q.mu.Lock()
	q.items.PushFront(v)
	q.mu.Unlock()
}

// PopOwn pops the most recently pushed element from the owner's end.
func (q *Local[T]) PopOwn() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}

// TrySteal pops the oldest element from the thieves' end.
func (q *Local[T]) TrySteal() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopBack(), true
}

// Len returns the number of queued elements at the time of the call.
func (q *Local[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
