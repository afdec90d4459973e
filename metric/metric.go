// Package metric publishes engine counters with expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/engine/signal"
)

const componentsLabel = "engine.components"

const (
	// RunCounter measures number of processed periods.
	RunCounter = "Runs"
	// SampleCounter measures number of processed frames.
	SampleCounter = "Samples"
	// TaskCounter measures number of executed tasks.
	TaskCounter = "Tasks"
	// ProcessingCounter is cumulative time spent processing.
	ProcessingCounter = "Processing"
	// DurationCounter counts what's the duration of signal.
	DurationCounter = "Duration"
	// OverrunCounter counts periods processed slower than real time.
	OverrunCounter = "Overruns"
	// LatencyCounter measures latency between processing calls.
	LatencyCounter = "Latency"
	// ComponentCounter counts number of meters.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		RunCounter,
		SampleCounter,
		TaskCounter,
		ProcessingCounter,
		DurationCounter,
		OverrunCounter,
		LatencyCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone metrics
// capture until component is actually running.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when a period is processed. It doesn't
// allocate and is safe to call from the real-time thread.
type MeasureFunc func(bufferSize, tasks int, elapsed time.Duration)

// Meter creates new meter closure to capture component counters.
func Meter(component interface{}, sampleRate int) ResetFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			bufferSize     int
			bufferDuration time.Duration
		)
		return func(s, tasks int, elapsed time.Duration) {
			now := time.Now()
			metric.latency.set(now.Sub(calledAt))
			metric.runs.Add(1)
			metric.samples.Add(int64(s))
			metric.tasks.Add(int64(tasks))
			metric.processing.add(elapsed)
			// recalculate buffer duration only when buffer size has changed
			if bufferSize != s {
				bufferSize = s
				bufferDuration = signal.DurationOf(sampleRate, int64(s))
			}
			metric.duration.add(bufferDuration)
			if elapsed > bufferDuration {
				metric.overruns.Add(1)
			}
			calledAt = now
		}
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	components *expvar.Int
	runs       *expvar.Int
	samples    *expvar.Int
	tasks      *expvar.Int
	overruns   *expvar.Int
	processing *duration
	duration   *duration
	latency    *duration
}

func newMetric(componentType string) metric {
	m := metric{
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		runs:       expvar.NewInt(key(componentType, RunCounter)),
		samples:    expvar.NewInt(key(componentType, SampleCounter)),
		tasks:      expvar.NewInt(key(componentType, TaskCounter)),
		overruns:   expvar.NewInt(key(componentType, OverrunCounter)),
		processing: &duration{},
		duration:   &duration{},
		latency:    &duration{},
	}
	expvar.Publish(key(componentType, ProcessingCounter), m.processing)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d atomic.Int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(v.d.Load()))
}

func (v *duration) add(delta time.Duration) {
	v.d.Add(int64(delta))
}

func (v *duration) set(value time.Duration) {
	v.d.Store(int64(value))
}
