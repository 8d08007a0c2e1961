package stealpool

import "context"

// Map fans out items through fn on p and returns results in input order and the aggregated error.
// Semantics follow RunAll.
func Map[T, R any](
	ctx context.Context,
	p *Pool,
	items []T,
	fn func(context.Context, T) (R, error),
) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	tasks := make([]Task[R], 0, len(items))
	for i := range items {
		item := items[i] // capture
		tasks = append(tasks, TaskFunc[R](func(c context.Context) (R, error) { return fn(c, item) }))
	}
	return RunAll[R](ctx, p, tasks)
}
