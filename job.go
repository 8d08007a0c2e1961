package stealpool

import "context"

// job is the type-erased unit stored in the queues.
//
// A job is handed around by pointer and has one owner at a time: the queue holding it,
// or the worker executing it. run is the closure built by Submit; it settles the bound
// Future itself and reports the task error only for accounting. fail settles the same
// Future when the job is discarded before run was called.
type job struct {
	id   uint64
	run  func(ctx context.Context) error
	fail func(err error)
}

// newJob binds t to f. The job's closure runs t with panic recovery, tags a failure with
// the job id and worker index when tagging is set, and settles f.
func newJob[R any](t Task[R], f *Future[R], tagging bool) *job {
	j := &job{fail: f.fail}
	j.run = func(ctx context.Context) error {
		result, err := callTask(ctx, t)
		if err != nil && tagging {
			worker, _ := WorkerIndex(ctx)
			err = newTaskTaggedError(err, j.id, worker)
		}
		f.settle(result, err)
		return err
	}
	return j
}

// invoke calls the wrapped closure exactly once. Subsequent calls are no-ops.
func (j *job) invoke(ctx context.Context) error {
	run := j.run
	j.run, j.fail = nil, nil
	if run == nil {
		return nil
	}
	return run(ctx)
}

// drop fails the bound Future with err unless the job has already been invoked or dropped.
func (j *job) drop(err error) {
	fail := j.fail
	j.run, j.fail = nil, nil
	if fail != nil {
		fail(err)
	}
}

// pending reports whether the job still holds executable state.
func (j *job) pending() bool { return j.run != nil }
