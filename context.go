package stealpool

import "context"

type workerKey struct{}

// binding identifies the worker whose goroutine is running the current task.
type binding struct {
	pool  *Pool
	index int
}

func withWorker(ctx context.Context, p *Pool, index int) context.Context {
	return context.WithValue(ctx, workerKey{}, binding{pool: p, index: index})
}

func bindingFrom(ctx context.Context) (binding, bool) {
	if ctx == nil {
		return binding{}, false
	}
	b, ok := ctx.Value(workerKey{}).(binding)
	return b, ok
}

// WorkerIndex returns the index of the worker executing the task that received ctx.
// It reports false for contexts that did not originate from a pool worker.
func WorkerIndex(ctx context.Context) (int, bool) {
	b, ok := bindingFrom(ctx)
	if !ok {
		return 0, false
	}
	return b.index, true
}
