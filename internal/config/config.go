// Package config loads pool settings for embedding programs from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/stealpool"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultMetricsAddress  = ":9090"
)

// FileConfig is the layout of a configuration file.
type FileConfig struct {
	Pool    *Pool    `yaml:"pool,omitempty" json:"pool,omitempty"`
	Logging *Logging `yaml:"logging,omitempty" json:"logging,omitempty"`
	Metrics *Metrics `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// Pool holds worker pool settings. Zero values keep the library defaults.
type Pool struct {
	Workers         uint   `yaml:"workers,omitempty" json:"workers,omitempty"`
	Idle            string `yaml:"idle,omitempty" json:"idle,omitempty"`
	ErrorTagging    bool   `yaml:"error-tagging,omitempty" json:"error-tagging,omitempty"`
	ShutdownTimeout string `yaml:"shutdown-timeout,omitempty" json:"shutdown-timeout,omitempty"`

	idle            stealpool.IdlePolicy
	shutdownTimeout time.Duration
}

type Logging struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty"`

	level logrus.Level
}

type Metrics struct {
	Enabled   bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Address   string `yaml:"address,omitempty" json:"address,omitempty"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *FileConfig {
	c := new(FileConfig)
	// defaults never fail validation
	_ = c.validateSetDefaults()
	return c
}

// LoadFile reads path, decoding it as YAML or JSON by extension, and applies defaults.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	c := new(FileConfig)
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %q", ext)
	}

	if err := c.validateSetDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileConfig) validateSetDefaults() error {
	if c.Pool == nil {
		c.Pool = new(Pool)
	}
	if err := c.Pool.validateSetDefaults(); err != nil {
		return err
	}
	if c.Logging == nil {
		c.Logging = new(Logging)
	}
	if err := c.Logging.validateSetDefaults(); err != nil {
		return err
	}
	if c.Metrics == nil {
		c.Metrics = new(Metrics)
	}
	c.Metrics.validateSetDefaults()
	return nil
}

func (p *Pool) validateSetDefaults() error {
	p.idle = stealpool.IdleBlocking
	if p.Idle != "" {
		idle, err := stealpool.ParseIdlePolicy(p.Idle)
		if err != nil {
			return err
		}
		p.idle = idle
	}

	p.shutdownTimeout = defaultShutdownTimeout
	if p.ShutdownTimeout != "" {
		d, err := time.ParseDuration(p.ShutdownTimeout)
		if err != nil {
			return errorc.With(stealpool.ErrInvalidConfig, errorc.String("shutdown-timeout", err.Error()))
		}
		if d <= 0 {
			return errorc.With(stealpool.ErrInvalidConfig, errorc.String("shutdown-timeout", p.ShutdownTimeout))
		}
		p.shutdownTimeout = d
	}
	return nil
}

func (l *Logging) validateSetDefaults() error {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	lvl, err := logrus.ParseLevel(l.Level)
	if err != nil {
		return errorc.With(stealpool.ErrInvalidConfig, errorc.String("logging level", l.Level))
	}
	l.level = lvl
	return nil
}

func (m *Metrics) validateSetDefaults() {
	if m.Address == "" {
		m.Address = defaultMetricsAddress
	}
	if m.Namespace == "" {
		m.Namespace = stealpool.Namespace
	}
}

// Options converts the pool section into pool options.
// Logger and metrics options are left to the caller, which owns those resources.
func (p *Pool) Options() []stealpool.Option {
	opts := []stealpool.Option{stealpool.WithIdlePolicy(p.idle)}
	if p.Workers > 0 {
		opts = append(opts, stealpool.WithWorkers(p.Workers))
	}
	if p.ErrorTagging {
		opts = append(opts, stealpool.WithErrorTagging())
	}
	return opts
}

// IdlePolicy returns the parsed idle policy.
func (p *Pool) IdlePolicy() stealpool.IdlePolicy { return p.idle }

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (p *Pool) ShutdownTimeoutDuration() time.Duration { return p.shutdownTimeout }

// LogLevel returns the parsed log level.
func (l *Logging) LogLevel() logrus.Level { return l.level }
