package stealpool

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/stealpool/metrics"
)

// Spawner starts run on a new goroutine for the worker with the given index.
// A non-nil error aborts pool construction; run must not have been started in that case.
type Spawner func(index int, run func()) error

// Hooks let callers observe worker and task lifecycle events.
// Hooks run on the worker goroutine and must not block for long.
// A panicking task hook makes the task fail with ErrTaskDropped; the worker survives.
type Hooks struct {
	OnWorkerStart func(worker int)
	OnWorkerStop  func(worker int)
	OnTaskStart   func(worker int)
	OnTaskFinish  func(worker int, err error)
}

// config holds Pool configuration.
type config struct {
	// Workers defines the fixed number of workers.
	// Default: runtime.GOMAXPROCS(0).
	Workers uint

	// Idle defines what workers do when no work is available.
	// Default: IdleBlocking.
	Idle IdlePolicy

	// ErrorTagging enables wrapping task errors with task metadata (ID and worker index).
	// Default: false (disabled).
	ErrorTagging bool

	// Metrics receives pool instruments.
	// Default: metrics.NoopProvider.
	Metrics metrics.Provider

	// Logger receives pool and worker log entries.
	// Default: logrus standard logger with component=stealpool.
	Logger logrus.FieldLogger

	// Hooks are optional lifecycle callbacks.
	Hooks Hooks

	// Spawn starts worker goroutines.
	// Default: a plain go statement.
	Spawn Spawner
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Workers:      uint(runtime.GOMAXPROCS(0)),
		Idle:         IdleBlocking,
		ErrorTagging: false,
		Metrics:      metrics.NewNoopProvider(),
		Logger:       logrus.StandardLogger().WithField("component", Namespace),
		Spawn:        goSpawner,
	}
}

func goSpawner(_ int, run func()) error {
	go run()
	return nil
}

// validateConfig checks invariants that options cannot enforce on their own.
func validateConfig(cfg *config) error {
	switch {
	case cfg.Workers == 0:
		return errorc.With(ErrInvalidConfig, errorc.String("", "at least one worker is required"))
	case cfg.Idle != IdleBlocking && cfg.Idle != IdleSpinning:
		return errorc.With(ErrInvalidConfig, errorc.String("idle policy", cfg.Idle.String()))
	case cfg.Metrics == nil:
		return errorc.With(ErrInvalidConfig, errorc.String("", "metrics provider is nil"))
	case cfg.Logger == nil:
		return errorc.With(ErrInvalidConfig, errorc.String("", "logger is nil"))
	case cfg.Spawn == nil:
		return errorc.With(ErrInvalidConfig, errorc.String("", "spawner is nil"))
	}
	return nil
}

// Option configures a Pool. Use New(ctx, opts...) to construct a Pool via options.
type Option func(*config) error

// WithWorkers sets the fixed number of workers (must be > 0).
func WithWorkers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithWorkers requires n > 0"))
		}
		cfg.Workers = n
		return nil
	}
}

// WithIdlePolicy selects the idling policy.
func WithIdlePolicy(p IdlePolicy) Option {
	return func(cfg *config) error {
		if p != IdleBlocking && p != IdleSpinning {
			return errorc.With(ErrInvalidConfig, errorc.String("idle policy", p.String()))
		}
		cfg.Idle = p
		return nil
	}
}

// WithErrorTagging enables wrapping task errors with task metadata (ID and worker index).
func WithErrorTagging() Option {
	return func(cfg *config) error { cfg.ErrorTagging = true; return nil }
}

// WithMetrics sets the metrics provider.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetrics requires a provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithLogger sets the logger used by the pool and its workers.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithHooks installs lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(cfg *config) error { cfg.Hooks = h; return nil }
}

// WithSpawner replaces the function used to start worker goroutines.
func WithSpawner(s Spawner) Option {
	return func(cfg *config) error {
		if s == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithSpawner requires a spawner"))
		}
		cfg.Spawn = s
		return nil
	}
}
