package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/engine/config"
	"pipelined.dev/engine/thread"
)

func TestDefault(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
sample_rate: 44100
period_size: 128
stack_capacity: 32
main:
  cpu: 0
  priority: 80
workers:
  - cpu: 1
    priority: 70
  - cpu: 2
debug: true
`))
	require.NoError(t, err)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.Equal(t, 128, cfg.PeriodSize)
	assert.Equal(t, config.Default().MaxPeriodSize, cfg.MaxPeriodSize)
	assert.Equal(t, 32, cfg.StackCapacity)
	assert.Equal(t, thread.Config{CPU: 0, Priority: 80}, cfg.Main)
	assert.Equal(t, []thread.Config{{CPU: 1, Priority: 70}, {CPU: 2}}, cfg.Workers)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		description string
		yaml        string
	}{
		{description: "sample rate", yaml: "sample_rate: 0"},
		{description: "period size", yaml: "period_size: -1"},
		{description: "max period size", yaml: "period_size: 2048"},
		{description: "events", yaml: "events_per_port: 0"},
		{description: "stack", yaml: "stack_capacity: -2"},
		{description: "priority", yaml: "workers: [{priority: 100}]"},
	}
	for _, test := range tests {
		_, err := config.Parse([]byte(test.yaml))
		assert.ErrorIs(t, err, config.ErrInvalid, test.description)
	}

	_, err := config.Parse([]byte("sample_rate: [1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, config.ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("period_size: 64\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.PeriodSize)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
