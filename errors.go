package stealpool

import "errors"

const Namespace = "stealpool"

var (
	ErrPoolConstruction = errors.New(Namespace + ": cannot start worker")
	ErrPoolClosed       = errors.New(Namespace + ": cannot submit a task to a pool that is shutting down")
	ErrNilTask          = errors.New(Namespace + ": task is nil")
	ErrTaskPanicked     = errors.New(Namespace + ": task execution panicked")
	ErrTaskDropped      = errors.New(Namespace + ": task dropped without being executed")
	ErrAlreadyAwaited   = errors.New(Namespace + ": future has already been awaited")
	ErrShutdownTimeout  = errors.New(Namespace + ": shutdown did not complete in time")
	// ErrShutdownFromWorker is returned when a task waits for the shutdown of its own pool.
	// The drain has started; observe completion through Pool.Done.
	ErrShutdownFromWorker = errors.New(Namespace + ": shutdown cannot wait from a task of the same pool")
	ErrInvalidConfig      = errors.New(Namespace + ": invalid configuration")
)
