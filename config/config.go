// Package config provides engine configuration loaded from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pipelined.dev/engine/thread"
)

// ErrInvalid is returned when configuration values are inconsistent.
var ErrInvalid = errors.New("invalid config")

// Config of the engine.
type Config struct {
	SampleRate int `yaml:"sample_rate"`
	// PeriodSize is the number of frames processed per run.
	PeriodSize int `yaml:"period_size"`
	// MaxPeriodSize bounds period size. Buffers are allocated for it.
	MaxPeriodSize int `yaml:"max_period_size"`
	// EventsPerPort is the number of events reserved per event output.
	// Arenas leave room for one doubling, so an output can take up to
	// 2*EventsPerPort events per period. More than that panics with
	// arena exhausted.
	EventsPerPort int `yaml:"events_per_port"`
	// StackCapacity of the ready stack. Zero derives it from the graph.
	StackCapacity int             `yaml:"stack_capacity"`
	Main          thread.Config   `yaml:"main"`
	Workers       []thread.Config `yaml:"workers"`
	Debug         bool            `yaml:"debug"`
}

// Default returns single-threaded configuration for 48kHz and 256 frames.
func Default() Config {
	return Config{
		SampleRate:    48000,
		PeriodSize:    256,
		MaxPeriodSize: 1024,
		EventsPerPort: 16,
		Main:          thread.Default,
	}
}

// Load reads configuration from YAML file. Missing values are defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML. Missing values are defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that values are consistent.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalid, c.SampleRate)
	case c.PeriodSize <= 0:
		return fmt.Errorf("%w: period size %d", ErrInvalid, c.PeriodSize)
	case c.MaxPeriodSize < c.PeriodSize:
		return fmt.Errorf("%w: max period size %d is less than period size %d", ErrInvalid, c.MaxPeriodSize, c.PeriodSize)
	case c.EventsPerPort <= 0:
		return fmt.Errorf("%w: events per port %d", ErrInvalid, c.EventsPerPort)
	case c.StackCapacity < 0:
		return fmt.Errorf("%w: stack capacity %d", ErrInvalid, c.StackCapacity)
	}
	for i, w := range append([]thread.Config{c.Main}, c.Workers...) {
		if w.Priority < 0 || w.Priority > 99 {
			return fmt.Errorf("%w: thread %d priority %d", ErrInvalid, i, w.Priority)
		}
	}
	return nil
}
