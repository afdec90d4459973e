package engine

import (
	"github.com/sirupsen/logrus"

	"pipelined.dev/engine/config"
	"pipelined.dev/engine/thread"
)

// Option provides a way to set functional parameters to engine.
type Option func(*Engine)

// WithConfig sets configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithLogger sets logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers sets n workers with default thread configuration.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.cfg.Workers = make([]thread.Config, n)
		for i := range e.cfg.Workers {
			e.cfg.Workers[i] = thread.Default
		}
	}
}

// WithMetric enables expvar counters of processed periods.
func WithMetric() Option {
	return func(e *Engine) {
		e.metric = true
	}
}
