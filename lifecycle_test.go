package stealpool

import (
	"sync"
	"testing"
	"time"
)

// helper to read a string from a channel with timeout
func recvStep(t *testing.T, ch <-chan string, d time.Duration) (string, bool) {
	t.Helper()
	select {
	case s := <-ch:
		return s, true
	case <-time.After(d):
		return "", false
	}
}

func TestLifecycle_OrderAndSignals(t *testing.T) {
	steps := make(chan string, 10)

	// workers starts at 1 so we control when shutdown proceeds beyond Wait
	var workers sync.WaitGroup
	workers.Add(1)

	lc := newLifecycleCoordinator(
		func() { steps <- "beginDrain" },
		func() { steps <- "wakeAll" },
		&workers,
		func() { steps <- "markStopped" },
		func() { steps <- "closeDone" },
	)

	done := make(chan struct{})
	go func() { lc.Close(); close(done) }()

	for _, want := range []string{"beginDrain", "wakeAll"} {
		if s, ok := recvStep(t, steps, 200*time.Millisecond); !ok || s != want {
			t.Fatalf("expected step %q, got=%q ok=%v", want, s, ok)
		}
	}

	// nothing else may happen while a worker is still running
	if s, ok := recvStep(t, steps, 50*time.Millisecond); ok {
		t.Fatalf("step %q happened before workers were joined", s)
	}

	workers.Done()

	for _, want := range []string{"markStopped", "closeDone"} {
		if s, ok := recvStep(t, steps, 200*time.Millisecond); !ok || s != want {
			t.Fatalf("expected step %q, got=%q ok=%v", want, s, ok)
		}
	}
	<-done
}

func TestLifecycle_Idempotent_ConcurrentClose(t *testing.T) {
	steps := make(chan string, 64)

	var workers sync.WaitGroup
	lc := newLifecycleCoordinator(
		func() { steps <- "beginDrain" },
		func() { steps <- "wakeAll" },
		&workers,
		func() { steps <- "markStopped" },
		func() { steps <- "closeDone" },
	)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() { defer wg.Done(); lc.Close() }()
	}
	wg.Wait()

	expected := map[string]int{
		"beginDrain":  0,
		"wakeAll":     0,
		"markStopped": 0,
		"closeDone":   0,
	}
	for {
		select {
		case s := <-steps:
			if _, ok := expected[s]; ok {
				expected[s]++
			}
		default:
			goto done
		}
	}

done:
	for k, v := range expected {
		if v != 1 {
			t.Fatalf("expected step %q exactly once, got %d", k, v)
		}
	}
}

func TestLifecycle_NilStepsAreSkipped(t *testing.T) {
	lc := newLifecycleCoordinator(nil, nil, nil, nil, nil)

	done := make(chan struct{})
	go func() { lc.Close(); close(done) }()

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("Close with nil steps did not return")
	}
}
