package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// BasicProvider keeps instruments in memory, keyed by name.
// It is safe for concurrent use. Tests and small programs read values back by name with
// CounterValue, UpDownValue and HistogramSnapshot instead of holding on to the instruments
// a pool requested.
type BasicProvider struct {
	mu         sync.RWMutex
	counters   map[string]*BasicCounter
	updowns    map[string]*BasicUpDownCounter
	histograms map[string]*BasicHistogram
	meta       map[string]InstrumentConfig
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   make(map[string]*BasicCounter),
		updowns:    make(map[string]*BasicUpDownCounter),
		histograms: make(map[string]*BasicHistogram),
		meta:       make(map[string]InstrumentConfig),
	}
}

// Counter returns the counter called name, creating it on first use.
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return instrument(p, p.counters, name, opts, func() *BasicCounter { return &BasicCounter{} })
}

// UpDownCounter returns the up/down counter called name, creating it on first use.
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return instrument(p, p.updowns, name, opts, func() *BasicUpDownCounter { return &BasicUpDownCounter{} })
}

// Histogram returns the histogram called name, creating it on first use.
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return instrument(p, p.histograms, name, opts, func() *BasicHistogram {
		return &BasicHistogram{min: math.Inf(1), max: math.Inf(-1)}
	})
}

// instrument looks name up in m under the read lock and creates it under the write lock.
// Options are recorded only by the call that creates the instrument.
func instrument[I any](p *BasicProvider, m map[string]I, name string, opts []InstrumentOption, create func() I) I {
	p.mu.RLock()
	i, ok := m[name]
	p.mu.RUnlock()
	if ok {
		return i
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if i, ok = m[name]; ok {
		return i
	}
	p.meta[name] = NewInstrumentConfig(opts...)
	i = create()
	m[name] = i
	return i
}

// Config returns the options recorded for the instrument called name.
func (p *BasicProvider) Config(name string) (InstrumentConfig, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cfg, ok := p.meta[name]
	return cfg, ok
}

// CounterValue returns the current value of the counter called name, or 0 if it does not exist.
func (p *BasicProvider) CounterValue(name string) int64 {
	p.mu.RLock()
	c, ok := p.counters[name]
	p.mu.RUnlock()
	if !ok {
		return 0
	}
	return c.Snapshot()
}

// UpDownValue returns the current value of the up/down counter called name, or 0 if it does not exist.
func (p *BasicProvider) UpDownValue(name string) int64 {
	p.mu.RLock()
	u, ok := p.updowns[name]
	p.mu.RUnlock()
	if !ok {
		return 0
	}
	return u.Snapshot()
}

// HistogramSnapshot returns a snapshot of the histogram called name.
func (p *BasicProvider) HistogramSnapshot(name string) (HistSnapshot, bool) {
	p.mu.RLock()
	h, ok := p.histograms[name]
	p.mu.RUnlock()
	if !ok {
		return HistSnapshot{}, false
	}
	return h.Snapshot(), true
}

// BasicCounter is a monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

// Add increments the counter by n.
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a counter that may decrease.
type BasicUpDownCounter struct {
	val atomic.Int64
}

// Add adds n (positive or negative) to the current value.
func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram aggregates count, sum and extremes. It keeps no buckets.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

// Record adds a measurement to the histogram.
func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	h.min = math.Min(h.min, v)
	h.max = math.Max(h.max, v)
	h.count++
	h.sum += v
	h.mu.Unlock()
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram state at the time of call.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	s := HistSnapshot{Count: h.count, Sum: h.sum, Min: h.min, Max: h.max}
	h.mu.Unlock()
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}
	return s
}
