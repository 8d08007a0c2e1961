package stealpool

import (
	"errors"
	"runtime"
	"testing"

	"github.com/ygrebnov/stealpool/metrics"
)

func TestValidateConfig_Defaults(t *testing.T) {
	cfg := defaultConfig()
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validateConfig returned error for defaults: %v", err)
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := defaultConfig()
	if want := uint(runtime.GOMAXPROCS(0)); cfg.Workers != want {
		t.Fatalf("Workers default = %d; want %d", cfg.Workers, want)
	}
	if cfg.Idle != IdleBlocking {
		t.Fatalf("Idle default = %v; want %v", cfg.Idle, IdleBlocking)
	}
	if cfg.ErrorTagging {
		t.Fatalf("ErrorTagging default = true; want false")
	}
	if _, ok := cfg.Metrics.(metrics.NoopProvider); !ok {
		t.Fatalf("Metrics default = %T; want metrics.NoopProvider", cfg.Metrics)
	}
	if cfg.Logger == nil {
		t.Fatalf("Logger default is nil")
	}
	if cfg.Spawn == nil {
		t.Fatalf("Spawn default is nil")
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config)
	}{
		{name: "zero workers", mutate: func(c *config) { c.Workers = 0 }},
		{name: "unknown idle policy", mutate: func(c *config) { c.Idle = IdlePolicy(42) }},
		{name: "nil metrics", mutate: func(c *config) { c.Metrics = nil }},
		{name: "nil logger", mutate: func(c *config) { c.Logger = nil }},
		{name: "nil spawner", mutate: func(c *config) { c.Spawn = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := validateConfig(&cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("validateConfig error = %v; want ErrInvalidConfig", err)
			}
		})
	}
}
