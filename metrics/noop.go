package metrics

var (
	_ Provider      = NoopProvider{}
	_ Counter       = noop{}
	_ UpDownCounter = noop{}
	_ Histogram     = noop{}
)

// NoopProvider hands out instruments that discard every measurement. It is the pool default.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(string, ...InstrumentOption) Counter             { return noop{} }
func (NoopProvider) UpDownCounter(string, ...InstrumentOption) UpDownCounter { return noop{} }
func (NoopProvider) Histogram(string, ...InstrumentOption) Histogram         { return noop{} }

// noop serves as every instrument kind.
type noop struct{}

func (noop) Add(int64)      {}
func (noop) Record(float64) {}
