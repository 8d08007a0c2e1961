package stealpool

import (
	"context"
	"sync"
	"sync/atomic"
)

// Future is the one-shot handle returned by Submit.
//
// It starts pending and transitions exactly once to either fulfilled (value) or failed (error).
// The terminal state is published by closing Done, so it happens-before any Await, Get or
// TryGet that returns it. Consuming methods (Await, Get, TryGet) may return the terminal state
// only once; later calls fail with ErrAlreadyAwaited.
type Future[R any] struct {
	done     chan struct{}
	once     sync.Once
	consumed atomic.Bool

	result R
	err    error
}

func newFuture[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// settle records the terminal state. It reports whether this call performed the transition.
func (f *Future[R]) settle(result R, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result, f.err = result, err
		close(f.done)
		settled = true
	})
	return settled
}

// fail settles the Future with err and the zero value.
func (f *Future[R]) fail(err error) {
	var zero R
	f.settle(zero, err)
}

// Done returns a channel closed once the Future reaches a terminal state.
// Observing Done does not consume the Future.
func (f *Future[R]) Done() <-chan struct{} { return f.done }

// Ready reports whether the Future has reached a terminal state, without consuming it.
func (f *Future[R]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the Future reaches a terminal state or ctx is done.
//
// On a terminal state it returns the value or the task failure and consumes the Future.
// If ctx is done first, it returns ctx.Err() and the Future stays available for another Await.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	if f.Ready() {
		return f.consume()
	}
	select {
	case <-f.done:
		return f.consume()
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

// Get blocks until the Future reaches a terminal state and returns it.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.consume()
}

// TryGet polls the Future without blocking.
// ok is false while the Future is pending; otherwise the terminal state is returned and consumed.
func (f *Future[R]) TryGet() (result R, ok bool, err error) {
	select {
	case <-f.done:
		result, err = f.consume()
		return result, true, err
	default:
		return result, false, nil
	}
}

func (f *Future[R]) consume() (R, error) {
	if !f.consumed.CompareAndSwap(false, true) {
		var zero R
		return zero, ErrAlreadyAwaited
	}
	return f.result, f.err
}
