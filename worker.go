package stealpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ygrebnov/stealpool/queue"
)

// worker runs the scheduling loop for one local queue.
// Its identity (pool and index) is fixed when the pool spawns it and travels to tasks via ctx.
type worker struct {
	pool  *Pool
	index int
	local *queue.Local[*job]
	ctx   context.Context
	log   logrus.FieldLogger
}

func newWorker(p *Pool, index int) *worker {
	return &worker{
		pool:  p,
		index: index,
		local: p.locals[index],
		ctx:   withWorker(p.ctx, p, index),
		log:   p.log.WithField("worker", index),
	}
}

// run is the worker loop: seek, run, idle; exit once the pool is drained.
func (w *worker) run() {
	p := w.pool
	defer p.workers.Done()

	w.hook(p.config.Hooks.OnWorkerStart)
	w.log.Debug("worker started")

	// idling tracks the gauge state; it changes only on idle/busy transitions, not per spin
	idling := false
	setIdle := func(v bool) {
		if v == idling {
			return
		}
		idling = v
		if v {
			p.metrics.idle.Add(1)
		} else {
			p.metrics.idle.Add(-1)
		}
	}

	for {
		// snapshot before seeking so a submission racing with a failed seek cancels the wait
		epoch := p.idle.epoch()

		if j := w.seek(); j != nil {
			setIdle(false)
			w.execute(j)
			continue
		}

		if p.drained() {
			break
		}

		setIdle(true)
		p.idle.wait(epoch)
	}
	setIdle(false)

	w.log.Debug("worker stopped")
	w.hook(p.config.Hooks.OnWorkerStop)
}

// seek looks for work: own queue, then the injector, then peers starting at index+1.
func (w *worker) seek() *job {
	p := w.pool

	if j, ok := w.local.PopOwn(); ok {
		return j
	}
	if j, ok := p.injector.TryPop(); ok {
		return j
	}

	n := len(p.locals)
	for i := 1; i < n; i++ {
		victim := (w.index + i) % n
		if j, ok := p.locals[victim].TrySteal(); ok {
			p.metrics.stolen.Add(1)
			w.log.WithFields(logrus.Fields{"task": j.id, "victim": victim}).Debug("task stolen")
			return j
		}
	}
	return nil
}

// execute invokes j on the worker goroutine.
// Task panics are already converted into errors by the job closure; a panic here comes from
// a hook, and the job is dropped if it did not run yet.
func (w *worker) execute(j *job) {
	p := w.pool
	start := time.Now()

	var err error
	defer func() {
		if r := recover(); r != nil {
			if j.pending() {
				err = fmt.Errorf("%w: %v", ErrTaskDropped, r)
				j.drop(err)
				w.log.WithField("task", j.id).WithError(err).Warn("task dropped")
			} else {
				w.log.WithField("task", j.id).Warnf("task hook panicked: %v", r)
			}
		}

		p.metrics.duration.Record(time.Since(start).Seconds())
		if err != nil {
			p.metrics.failed.Add(1)
		} else {
			p.metrics.completed.Add(1)
		}
		p.finish()
	}()

	if h := p.config.Hooks.OnTaskStart; h != nil {
		h(w.index)
	}

	err = j.invoke(w.ctx)
	if errors.Is(err, ErrTaskPanicked) {
		w.log.WithField("task", j.id).WithError(err).Warn("task panicked")
	}

	if h := p.config.Hooks.OnTaskFinish; h != nil {
		h(w.index, err)
	}
}

// hook runs a worker lifecycle hook, containing any panic it raises.
func (w *worker) hook(h func(worker int)) {
	if h == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.log.Warnf("worker hook panicked: %v", r)
		}
	}()
	h(w.index)
}
