package stealpool

import (
	"context"
	"errors"
)

// RunAll submits every task to p, then awaits all of them.
//
// Semantics:
// - Results are returned in input order; a failed task contributes the zero value of R.
// - The returned error is errors.Join of all task errors (nil if no errors).
// - If a submission fails (e.g. ErrPoolClosed), no further tasks are submitted.
// - Tasks accepted before a submission failure are still awaited; the submission error is joined in.
// - ctx bounds the wait and is the submission context: called from a task, children stay local.
func RunAll[R any](ctx context.Context, p *Pool, tasks []Task[R]) ([]R, error) {
	futures := make([]*Future[R], 0, len(tasks))
	var submitErr error
	for _, t := range tasks {
		f, err := Submit(ctx, p, t)
		if err != nil {
			submitErr = err
			break
		}
		futures = append(futures, f)
	}

	results, err := AwaitAll(ctx, futures...)
	if submitErr != nil {
		return results, errors.Join(err, submitErr)
	}
	return results, err
}

// AwaitAll awaits every future in order and returns their values.
// The returned error is errors.Join of all failures; if ctx is done, the futures not yet
// awaited contribute ctx.Err() once.
func AwaitAll[R any](ctx context.Context, futures ...*Future[R]) ([]R, error) {
	results := make([]R, len(futures))
	errs := make([]error, 0, len(futures))
	for i, f := range futures {
		r, err := f.Await(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				errs = append(errs, ctxErr)
				break
			}
			errs = append(errs, err)
			continue
		}
		results[i] = r
	}
	return results, errors.Join(errs...)
}
