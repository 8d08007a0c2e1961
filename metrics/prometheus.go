package metrics

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider adapts Provider to github.com/prometheus/client_golang.
//
// Counters map to prometheus counters, up/down counters to gauges and histograms to
// histograms with prometheus.DefBuckets. Instruments are registered on the given Registerer
// once per name; InstrumentConfig.Description becomes the help text and Attributes become
// constant labels.
type PrometheusProvider struct {
	reg       prometheus.Registerer
	namespace string
	subsystem string

	mu         sync.Mutex
	counters   map[string]*PrometheusCounter
	gauges     map[string]*PrometheusUpDownCounter
	histograms map[string]*PrometheusHistogram
}

// NewPrometheusProvider constructs a provider registering on reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewPrometheusProvider(reg prometheus.Registerer, namespace, subsystem string) *PrometheusProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusProvider{
		reg:        reg,
		namespace:  namespace,
		subsystem:  subsystem,
		counters:   make(map[string]*PrometheusCounter),
		gauges:     make(map[string]*PrometheusUpDownCounter),
		histograms: make(map[string]*PrometheusHistogram),
	}
}

// Counter returns a counter instrument for the given name (registered once).
func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return c
	}
	cfg := NewInstrumentConfig(opts...)
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        name,
		Help:        helpText(name, cfg),
		ConstLabels: cfg.Attributes,
	})
	pc := &PrometheusCounter{c: register(p.reg, c)}
	p.counters[name] = pc
	return pc
}

// UpDownCounter returns a gauge-backed instrument for the given name (registered once).
func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.gauges[name]; ok {
		return g
	}
	cfg := NewInstrumentConfig(opts...)
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        name,
		Help:        helpText(name, cfg),
		ConstLabels: cfg.Attributes,
	})
	pg := &PrometheusUpDownCounter{g: register(p.reg, g)}
	p.gauges[name] = pg
	return pg
}

// Histogram returns a histogram instrument for the given name (registered once).
func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return h
	}
	cfg := NewInstrumentConfig(opts...)
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   p.namespace,
		Subsystem:   p.subsystem,
		Name:        name,
		Help:        helpText(name, cfg),
		ConstLabels: cfg.Attributes,
		Buckets:     prometheus.DefBuckets,
	})
	ph := &PrometheusHistogram{h: register(p.reg, h)}
	p.histograms[name] = ph
	return ph
}

func helpText(name string, cfg InstrumentConfig) string {
	if cfg.Description != "" {
		return cfg.Description
	}
	return name
}

// register registers c on reg. If an identical collector is already registered
// (e.g. by another pool sharing the registry), the existing one is reused.
// Any other registration failure leaves c unregistered but usable.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	err := reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	return c
}

// PrometheusCounter is a Counter backed by a prometheus.Counter.
type PrometheusCounter struct {
	c prometheus.Counter
}

// Add increments the counter by n. Negative values are ignored; prometheus counters are monotonic.
func (c *PrometheusCounter) Add(n int64) {
	if n < 0 {
		return
	}
	c.c.Add(float64(n))
}

// Collector returns the underlying prometheus collector.
func (c *PrometheusCounter) Collector() prometheus.Counter { return c.c }

// PrometheusUpDownCounter is an UpDownCounter backed by a prometheus.Gauge.
type PrometheusUpDownCounter struct {
	g prometheus.Gauge
}

// Add adds n (positive or negative) to the gauge.
func (u *PrometheusUpDownCounter) Add(n int64) { u.g.Add(float64(n)) }

// Collector returns the underlying prometheus collector.
func (u *PrometheusUpDownCounter) Collector() prometheus.Gauge { return u.g }

// PrometheusHistogram is a Histogram backed by a prometheus.Histogram.
type PrometheusHistogram struct {
	h prometheus.Histogram
}

// Record observes v.
func (h *PrometheusHistogram) Record(v float64) { h.h.Observe(v) }

// Collector returns the underlying prometheus collector.
func (h *PrometheusHistogram) Collector() prometheus.Histogram { return h.h }
