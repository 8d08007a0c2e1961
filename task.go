package stealpool

import (
	"context"
	"fmt"
)

// Task is the canonical task shape accepted by Submit.
// It takes a context and returns a result of type R and an error.
// Use TaskFunc / TaskValue / TaskError / TaskNoCtx helpers to adapt common function signatures.
//
// The context handed to a running task carries the identity of the worker executing it.
// Passing that context to Submit keeps child tasks on the same worker's local queue.
//
// Example:
//
//	t := TaskFunc(func(ctx context.Context) (int, error) { return 42, nil })
//	_ = t
type Task[R any] func(context.Context) (R, error)

// TaskFunc adapts func(ctx) (R, error) to Task[R].
func TaskFunc[R any](fn func(context.Context) (R, error)) Task[R] { return Task[R](fn) }

// TaskValue adapts func(ctx) R to Task[R].
func TaskValue[R any](fn func(context.Context) R) Task[R] {
	return func(ctx context.Context) (R, error) { return fn(ctx), nil }
}

// TaskError adapts func(ctx) error to Task[R].
// The returned Task yields the zero value of R alongside the error.
func TaskError[R any](fn func(context.Context) error) Task[R] {
	return func(ctx context.Context) (R, error) { var zero R; return zero, fn(ctx) }
}

// TaskNoCtx adapts a plain func() R to Task[R].
func TaskNoCtx[R any](fn func() R) Task[R] {
	return func(context.Context) (R, error) { return fn(), nil }
}

// callTask runs t in the calling goroutine and converts a panic into ErrTaskPanicked.
func callTask[R any](ctx context.Context, t Task[R]) (result R, err error) {
	defer func() {
		if ePanic := recover(); ePanic != nil {
			var zero R
			result = zero
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, ePanic)
		}
	}()

	return t(ctx)
}
