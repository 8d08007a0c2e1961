package stealpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ygrebnov/stealpool/queue"
)

// State is the lifecycle state of a Pool.
type State uint32

const (
	// StateRunning accepts submissions.
	StateRunning State = iota
	// StateDraining rejects submissions; queued and running tasks still complete.
	StateDraining
	// StateStopped means every worker has exited.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Pool is a fixed-size work-stealing worker pool.
// Pool is a concrete struct; methods are safe for concurrent use.
// Instances must be created with New.
type Pool struct {
	// noCopy prevents accidental copying of the pool.
	//go:nocopy
	nc noCopy

	config  *config
	log     logrus.FieldLogger
	metrics instruments

	// base context handed (with worker identity) to every task
	ctx context.Context

	// mu orders state transitions after submissions that already passed the running check,
	// so a job can never be enqueued once workers may have observed an empty, draining pool.
	mu      sync.RWMutex
	state   atomic.Uint32
	pending atomic.Int64
	seq     atomic.Uint64

	injector queue.Injector[*job]
	locals   []*queue.Local[*job]
	idle     idler

	workers      sync.WaitGroup
	lifecycle    *lifecycleCoordinator
	shutdownOnce sync.Once
	done         chan struct{}
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
// It works with the "-copylocks" analyzer via the presence of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a Pool using functional options and starts its workers.
//
// ctx is the parent of the context passed to every task; canceling it is visible to tasks
// but does not shut the pool down. If a worker cannot be started, every worker started so far
// is stopped and joined before New returns an error wrapping ErrPoolConstruction.
func New(ctx context.Context, opts ...Option) (*Pool, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}

	p := &Pool{
		config:  &cfg,
		log:     cfg.Logger,
		metrics: newInstruments(cfg.Metrics),
		ctx:     ctx,
		idle:    newIdler(cfg.Idle),
		done:    make(chan struct{}),
	}
	p.lifecycle = newLifecycleCoordinator(
		p.beginDrain,
		p.idle.notifyAll,
		&p.workers,
		p.markStopped,
		func() { close(p.done) },
	)

	n := int(cfg.Workers)
	p.locals = make([]*queue.Local[*job], n)
	for i := range p.locals {
		p.locals[i] = &queue.Local[*job]{}
	}

	for i := 0; i < n; i++ {
		w := newWorker(p, i)
		p.workers.Add(1)
		if err := cfg.Spawn(i, w.run); err != nil {
			p.workers.Done()
			p.abortStart()
			p.log.WithError(err).WithField("worker", i).Error("cannot start worker, pool torn down")
			return nil, fmt.Errorf("%w %d: %w", ErrPoolConstruction, i, err)
		}
	}

	p.log.WithFields(logrus.Fields{"workers": n, "idle": cfg.Idle.String()}).Info("pool started")
	return p, nil
}

// abortStart tears down a partially constructed pool: stop, wake, join, release queues.
func (p *Pool) abortStart() {
	p.state.Store(uint32(StateStopped))
	p.idle.notifyAll()
	p.workers.Wait()
	p.locals = nil
	close(p.done)
}

// Submit schedules t on p and returns a Future for its result.
//
// Submit never blocks. When ctx is the context of a task running on p, the task is pushed to
// that worker's local queue; otherwise it goes to the shared injector queue.
// It returns ErrPoolClosed once shutdown has begun, and ErrNilTask for a nil task.
func Submit[R any](ctx context.Context, p *Pool, t Task[R]) (*Future[R], error) {
	if t == nil {
		return nil, ErrNilTask
	}

	f := newFuture[R]()
	j := newJob(t, f, p.config.ErrorTagging)
	if err := p.enqueue(ctx, j); err != nil {
		return nil, err
	}
	return f, nil
}

// Go schedules fn on p. The returned Future carries fn's error.
func (p *Pool) Go(ctx context.Context, fn func(context.Context) error) (*Future[struct{}], error) {
	if fn == nil {
		return nil, ErrNilTask
	}
	return Submit(ctx, p, TaskError[struct{}](fn))
}

func (p *Pool) enqueue(ctx context.Context, j *job) error {
	p.mu.RLock()
	if State(p.state.Load()) != StateRunning {
		p.mu.RUnlock()
		p.metrics.rejected.Add(1)
		return ErrPoolClosed
	}

	j.id = p.seq.Add(1)
	p.pending.Add(1)
	if b, ok := bindingFrom(ctx); ok && b.pool == p {
		p.locals[b.index].PushOwn(j)
	} else {
		p.injector.Push(j)
	}
	p.mu.RUnlock()

	p.metrics.submitted.Add(1)
	p.metrics.pending.Add(1)
	p.idle.notifyOne()
	return nil
}

// finish accounts for one job leaving the pool.
func (p *Pool) finish() {
	p.metrics.pending.Add(-1)
	if p.pending.Add(-1) == 0 && State(p.state.Load()) != StateRunning {
		p.idle.notifyAll()
	}
}

// drained reports whether workers may exit: no submissions accepted and nothing pending.
func (p *Pool) drained() bool {
	return State(p.state.Load()) != StateRunning && p.pending.Load() == 0
}

func (p *Pool) beginDrain() {
	p.mu.Lock()
	p.state.CompareAndSwap(uint32(StateRunning), uint32(StateDraining))
	p.mu.Unlock()
	p.log.WithField("pending", p.pending.Load()).Debug("pool draining")
}

func (p *Pool) markStopped() {
	p.state.Store(uint32(StateStopped))
	p.log.Info("pool stopped")
}

// Shutdown stops accepting submissions, waits for every queued and running task to finish,
// and joins every worker. It is idempotent and safe for concurrent use.
//
// Shutdown must not be called from a task running on p: the calling worker cannot exit
// while it waits. From a task, use ShutdownContext with the task's context.
func (p *Pool) Shutdown() {
	_ = p.ShutdownContext(context.Background())
}

// ShutdownContext is Shutdown with a bounded wait.
// If ctx is done before the pool has stopped, it returns an error wrapping ErrShutdownTimeout
// and ctx.Err(); draining continues in the background and no task is dropped.
// If ctx belongs to a task running on p, the drain starts and ErrShutdownFromWorker is
// returned without waiting.
func (p *Pool) ShutdownContext(ctx context.Context) error {
	p.shutdownOnce.Do(func() {
		go p.lifecycle.Close()
	})

	if b, ok := bindingFrom(ctx); ok && b.pool == p {
		p.log.WithField("worker", b.index).Warn("shutdown requested from a task, not waiting")
		return ErrShutdownFromWorker
	}

	select {
	case <-p.done:
		return nil
	default:
	}

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return errors.Join(ErrShutdownTimeout, ctx.Err())
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.locals) }

// State returns the current lifecycle state.
func (p *Pool) State() State { return State(p.state.Load()) }

// Pending returns the number of tasks submitted but not yet finished.
func (p *Pool) Pending() int { return int(p.pending.Load()) }

// Done returns a channel closed once the pool has stopped and every worker has exited.
func (p *Pool) Done() <-chan struct{} { return p.done }
