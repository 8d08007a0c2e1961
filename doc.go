// Package stealpool provides a fixed-size, work-stealing worker pool with future-based
// task submission.
//
// Constructor
//   - New(ctx, opts ...Option): starts the workers; fails with ErrPoolConstruction (after
//     tearing down any started worker) if a worker cannot be spawned.
//
// Defaults
// Unless overridden, the following defaults apply to a newly created pool:
//   - Workers: runtime.GOMAXPROCS(0)
//   - Idle policy: IdleBlocking
//   - ErrorTagging: false
//   - Metrics: metrics.NoopProvider
//   - Logger: logrus standard logger, component=stealpool
//
// Submission
// Submit(ctx, pool, task) returns a *Future immediately. A task submitted with the context
// it received from the pool (i.e. from inside another task) is pushed to the running worker's
// local queue; any other submission goes to the shared injector queue.
//
// Scheduling
// Each worker takes work from its own queue (newest first), then from the injector queue,
// then steals from its peers (oldest first), scanning from the next worker index onward.
// With nothing to do it idles according to the IdlePolicy.
//
// Shutdown
// Shutdown stops accepting submissions (ErrPoolClosed), lets every queued and running task
// complete, and joins every worker before returning. It is idempotent.
//
// Failures
// Task errors and panics are delivered through the task's Future and never affect the
// worker that ran it or any other task.
package stealpool
