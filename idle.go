package stealpool

import (
	"runtime"
	"strings"
	"sync"

	"github.com/ygrebnov/errorc"
)

// IdlePolicy selects what a worker does when it finds no work anywhere.
type IdlePolicy int

const (
	// IdleBlocking parks idle workers on a condition variable until a submission or shutdown wakes them.
	IdleBlocking IdlePolicy = iota
	// IdleSpinning yields the processor and retries immediately. Lower wake latency, constant CPU use.
	IdleSpinning
)

func (p IdlePolicy) String() string {
	switch p {
	case IdleBlocking:
		return "blocking"
	case IdleSpinning:
		return "spinning"
	default:
		return "unknown"
	}
}

// ParseIdlePolicy converts "blocking" or "spinning" (case-insensitive) to an IdlePolicy.
func ParseIdlePolicy(s string) (IdlePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blocking", "block", "notify":
		return IdleBlocking, nil
	case "spinning", "spin", "yield":
		return IdleSpinning, nil
	default:
		return 0, errorc.With(ErrInvalidConfig, errorc.String("idle policy", s))
	}
}

// idler implements an IdlePolicy.
//
// A worker takes an epoch snapshot before it starts seeking work. If the seek fails it calls
// wait with that snapshot; wait returns immediately when any notification happened since the
// snapshot was taken, so a submission racing with an unsuccessful seek is never missed.
type idler interface {
	epoch() uint64
	wait(epoch uint64)
	notifyOne()
	notifyAll()
}

func newIdler(p IdlePolicy) idler {
	if p == IdleSpinning {
		return spinningIdler{}
	}
	b := &blockingIdler{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

type blockingIdler struct {
	mu   sync.Mutex
	cond *sync.Cond
	seq  uint64
}

func (b *blockingIdler) epoch() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

func (b *blockingIdler) wait(epoch uint64) {
	b.mu.Lock()
	for b.seq == epoch {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

func (b *blockingIdler) notifyOne() {
	b.mu.Lock()
	b.seq++
	b.cond.Signal()
	b.mu.Unlock()
}

func (b *blockingIdler) notifyAll() {
	b.mu.Lock()
	b.seq++
	b.cond.Broadcast()
	b.mu.Unlock()
}

type spinningIdler struct{}

func (spinningIdler) epoch() uint64 { return 0 }
func (spinningIdler) wait(uint64)   { runtime.Gosched() }
func (spinningIdler) notifyOne()    {}
func (spinningIdler) notifyAll()    {}
