package metrics

import (
	"runtime"
	"sync"
	"testing"
)

func TestBasicProvider_SameNameSameInstrument(t *testing.T) {
	p := NewBasicProvider()

	if p.Counter("tasks_submitted_total") != p.Counter("tasks_submitted_total") {
		t.Fatalf("expected same counter instance for same name")
	}
	if p.Counter("tasks_submitted_total") == p.Counter("tasks_failed_total") {
		t.Fatalf("expected different counter instances for different names")
	}
	if p.UpDownCounter("tasks_pending") != p.UpDownCounter("tasks_pending") {
		t.Fatalf("expected same up/down instance for same name")
	}
	if p.Histogram("task_duration_seconds") != p.Histogram("task_duration_seconds") {
		t.Fatalf("expected same histogram instance for same name")
	}
}

func TestBasicProvider_FirstOptionsWin(t *testing.T) {
	p := NewBasicProvider()

	p.Counter("tasks_stolen_total", WithDescription("first"), WithUnit("1"))
	p.Counter("tasks_stolen_total", WithDescription("second"))

	cfg, ok := p.Config("tasks_stolen_total")
	if !ok {
		t.Fatalf("Config not recorded")
	}
	if cfg.Description != "first" || cfg.Unit != "1" {
		t.Fatalf("Config = %+v; want options of the creating call", cfg)
	}
	if _, ok := p.Config("missing"); ok {
		t.Fatalf("Config(missing) reported ok")
	}
}

func TestBasicProvider_ReadBackByName(t *testing.T) {
	p := NewBasicProvider()

	p.Counter("tasks_completed_total").Add(4)
	p.UpDownCounter("workers_idle").Add(3)
	p.UpDownCounter("workers_idle").Add(-1)
	h := p.Histogram("task_duration_seconds")
	for _, v := range []float64{0.1, 0.3, 0.2} {
		h.Record(v)
	}

	if got := p.CounterValue("tasks_completed_total"); got != 4 {
		t.Fatalf("CounterValue = %d; want 4", got)
	}
	if got := p.CounterValue("missing"); got != 0 {
		t.Fatalf("CounterValue(missing) = %d; want 0", got)
	}
	if got := p.UpDownValue("workers_idle"); got != 2 {
		t.Fatalf("UpDownValue = %d; want 2", got)
	}

	s, ok := p.HistogramSnapshot("task_duration_seconds")
	if !ok || s.Count != 3 {
		t.Fatalf("HistogramSnapshot = %+v, %v; want three records", s, ok)
	}
	if s.Min != 0.1 || s.Max != 0.3 {
		t.Fatalf("min/max = (%v,%v); want (0.1,0.3)", s.Min, s.Max)
	}
	if s.Mean < 0.19 || s.Mean > 0.21 {
		t.Fatalf("mean = %v; want ~0.2", s.Mean)
	}
	if _, ok := p.HistogramSnapshot("missing"); ok {
		t.Fatalf("HistogramSnapshot(missing) reported ok")
	}
}

func TestBasicProvider_ConcurrentRecording(t *testing.T) {
	goroutines := runtime.NumCPU() * 2
	const iters = 1000

	tests := []struct {
		name   string
		record func(p *BasicProvider, g, i int)
		check  func(t *testing.T, p *BasicProvider)
	}{
		{
			name:   "counter",
			record: func(p *BasicProvider, _, _ int) { p.Counter("tasks_submitted_total").Add(1) },
			check: func(t *testing.T, p *BasicProvider) {
				if got, want := p.CounterValue("tasks_submitted_total"), int64(goroutines*iters); got != want {
					t.Fatalf("counter = %d; want %d", got, want)
				}
			},
		},
		{
			name: "up/down balances",
			record: func(p *BasicProvider, _, i int) {
				if i%2 == 0 {
					p.UpDownCounter("tasks_pending").Add(1)
				} else {
					p.UpDownCounter("tasks_pending").Add(-1)
				}
			},
			check: func(t *testing.T, p *BasicProvider) {
				if got := p.UpDownValue("tasks_pending"); got != 0 {
					t.Fatalf("up/down = %d; want 0", got)
				}
			},
		},
		{
			name: "histogram",
			record: func(p *BasicProvider, g, i int) {
				p.Histogram("task_duration_seconds").Record(float64(g%10+i%10) / 100)
			},
			check: func(t *testing.T, p *BasicProvider) {
				s, _ := p.HistogramSnapshot("task_duration_seconds")
				if want := int64(goroutines * iters); s.Count != want {
					t.Fatalf("hist count = %d; want %d", s.Count, want)
				}
				if s.Min < 0 || s.Min > 0.09 || s.Max > 0.19 {
					t.Fatalf("min/max out of expected range: (%v,%v)", s.Min, s.Max)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewBasicProvider()
			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < iters; i++ {
						tt.record(p, g, i)
					}
				}()
			}
			wg.Wait()
			tt.check(t, p)
		})
	}
}

func TestNewInstrumentConfig(t *testing.T) {
	attrs := map[string]string{"pool": "a"}
	cfg := NewInstrumentConfig(
		WithDescription("d"),
		nil,
		WithAttributes(attrs),
		WithAttributes(map[string]string{"zone": "b"}),
		WithAttributes(nil),
	)
	attrs["pool"] = "mutated"

	if cfg.Description != "d" {
		t.Fatalf("Description = %q; want d", cfg.Description)
	}
	if len(cfg.Attributes) != 2 || cfg.Attributes["pool"] != "a" || cfg.Attributes["zone"] != "b" {
		t.Fatalf("Attributes = %v; want merged copy", cfg.Attributes)
	}
}

func TestNoopProvider_Discards(t *testing.T) {
	var p Provider = NewNoopProvider()
	p.Counter("c").Add(1)
	p.UpDownCounter("u").Add(-1)
	p.Histogram("h").Record(1)
}
