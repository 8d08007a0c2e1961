// Package metrics defines the instruments a stealpool.Pool records and ships three providers:
// NoopProvider (the default), BasicProvider (in-memory, for tests and small programs)
// and PrometheusProvider (client_golang).
//
// The pool requests its instruments once, at construction, by name (see the stealpool
// Metric* constants) and records on them from worker goroutines.
package metrics

import "maps"

// Provider constructs instruments by name.
// Implementations and their instruments must be safe for concurrent use,
// and the same name must yield the same instrument.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that move both ways, such as pending tasks or idle workers.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of measurements, such as task durations in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries optional instrument metadata.
// BasicProvider only stores it; PrometheusProvider turns it into help text and constant labels.
type InstrumentConfig struct {
	Description string
	Unit        string
	Attributes  map[string]string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// NewInstrumentConfig applies opts in order, skipping nil options.
// Provider implementations outside this package use it to read the options they receive.
func NewInstrumentConfig(opts ...InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g., "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// WithAttributes attaches static attributes to the instrument. Keep their cardinality bounded.
// attrs is copied; repeated options merge.
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(attrs) == 0 {
			return
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		maps.Copy(c.Attributes, attrs)
	}
}
