package stealpool

import (
	"sync"
)

// lifecycleCoordinator encapsulates the shutdown sequence of a Pool.
// It is a wiring helper: it doesn't own state; it orchestrates the drain transition,
// wakeups, joining and the final state change in a deterministic order.
//
// Close() is safe for concurrent calls; the sequence executes exactly once.
type lifecycleCoordinator struct {
	beginDrain  func()
	wakeAll     func()
	workers     *sync.WaitGroup
	markStopped func()
	closeDone   func()

	once sync.Once
}

func newLifecycleCoordinator(
	beginDrain func(),
	wakeAll func(),
	workers *sync.WaitGroup,
	markStopped func(),
	closeDone func(),
) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		beginDrain:  beginDrain,
		wakeAll:     wakeAll,
		workers:     workers,
		markStopped: markStopped,
		closeDone:   closeDone,
	}
}

// Close executes the shutdown sequence exactly once:
// 1) stop accepting submissions (running -> draining)
// 2) wake every idle worker so it re-checks the drain condition
// 3) wait for every worker to exit; workers exit only once nothing is pending
// 4) mark the pool stopped
// 5) close the done channel, releasing Shutdown callers
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.beginDrain != nil {
			lc.beginDrain()
		}
		if lc.wakeAll != nil {
			lc.wakeAll()
		}
		if lc.workers != nil {
			lc.workers.Wait()
		}
		if lc.markStopped != nil {
			lc.markStopped()
		}
		if lc.closeDone != nil {
			lc.closeDone()
		}
	})
}
