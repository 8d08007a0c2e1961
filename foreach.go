package stealpool

import "context"

// ForEach applies fn to each item concurrently on p.
// It returns the aggregated error (errors.Join) or nil when all succeed.
func ForEach[T any](ctx context.Context, p *Pool, items []T, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	tasks := make([]Task[struct{}], 0, len(items))
	for i := range items {
		item := items[i] // capture
		tasks = append(tasks, TaskError[struct{}](func(c context.Context) error { return fn(c, item) }))
	}
	_, err := RunAll[struct{}](ctx, p, tasks)
	return err
}
