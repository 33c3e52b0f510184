package wavesolve

import (
	"errors"
	"time"

	"github.com/warelogic/wavesolve/engine"
)

// DefaultTimeLimit is the wall-clock ceiling on the engine's search per
// request. It bounds the solve step only and is not reported in the output.
const DefaultTimeLimit = 300 * time.Second

// Option alters the behavior of Solve and Run. See the descriptions of
// functions returning instances of this type for implemented options.
type Option func(*Config) error

// Config is the solve configuration with the options applied.
type Config struct {
	TimeLimit time.Duration
	Engine    engine.Engine
}

// NewConfig returns a default Config with the given options applied.
func NewConfig(opts ...Option) (Config, error) {
	cfg := Config{
		TimeLimit: DefaultTimeLimit,
		Engine:    engine.NewMaxSat(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// WithTimeLimit replaces the default wall-clock budget for the solve step.
func WithTimeLimit(d time.Duration) Option {
	return func(cfg *Config) error {
		if d <= 0 {
			return errors.New("time limit must be positive")
		}
		cfg.TimeLimit = d
		return nil
	}
}

// WithEngine substitutes the solving engine.
func WithEngine(e engine.Engine) Option {
	return func(cfg *Config) error {
		if e == nil {
			return errors.New("engine must not be nil")
		}
		cfg.Engine = e
		return nil
	}
}
