package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"pipelined.dev/engine/config"
	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/log"
	"pipelined.dev/engine/metric"
	"pipelined.dev/engine/thread"
)

// ErrClosed is returned when engine is used after Close.
var ErrClosed = errors.New("engine closed")

// Engine rebuilds executors from graphs and runs them one period at a time.
type Engine struct {
	cfg     config.Config
	logger  logrus.FieldLogger
	metric  bool
	pool    *thread.Pool
	measure metric.MeasureFunc

	// current is owned by the goroutine calling Process.
	current *executor
	next    atomic.Pointer[executor]
	retired chan *executor
	started atomic.Bool

	// guarded by mu, control side only.
	mu        sync.Mutex
	installed *executor
	closed    bool
}

// New creates engine and starts its workers.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		cfg:     config.Default(),
		retired: make(chan *executor, 1),
	}
	for _, option := range options {
		option(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.logger == nil {
		l := log.GetLogger()
		if e.cfg.Debug {
			log.SetDebug(l, true)
		}
		e.logger = l
	}
	if e.metric {
		e.measure = metric.Meter(e, e.cfg.SampleRate)()
	}
	e.pool = thread.NewPool(e.cfg.Workers, e.logger)
	e.logger.WithFields(logrus.Fields{
		"workers":     e.pool.Len(),
		"sample_rate": e.cfg.SampleRate,
		"period_size": e.cfg.PeriodSize,
	}).Debug("engine created")
	return e, nil
}

// Config returns engine configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Rebuild compiles g and installs the new executor. The graph is copied,
// it can be modified after Rebuild returns. If the engine is started, the
// call blocks until the previous executor is retired by Process or ctx is
// done. Build errors keep the running executor.
func (e *Engine) Rebuild(ctx context.Context, g *graph.Graph) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	fingerprint := graph.Fingerprint(g)
	if e.installed != nil && e.installed.fingerprint == fingerprint {
		e.logger.WithField("fingerprint", fingerprint).Debug("graph unchanged")
		return nil
	}
	x, err := e.newExecutor(g, fingerprint)
	if err != nil {
		e.logger.WithError(err).Warn("graph rebuild failed")
		return fmt.Errorf("rebuild: %w", err)
	}
	if err := e.install(ctx, x); err != nil {
		return err
	}
	e.logger.WithFields(logrus.Fields{
		"executor":    x.kind(),
		"tasks":       x.Len(),
		"workers":     x.workers,
		"fingerprint": fingerprint,
	}).Info("executor installed")
	return nil
}

func (e *Engine) install(ctx context.Context, x *executor) error {
	if !e.started.Load() {
		e.retire(e.swap(x))
		e.installed = x
		return nil
	}

	e.next.Store(x)
	if !e.started.Load() && e.next.CompareAndSwap(x, nil) {
		// stopped meanwhile
		e.retire(e.swap(x))
		e.installed = x
		return nil
	}
	select {
	case prev := <-e.retired:
		e.retire(prev)
	case <-ctx.Done():
		if e.next.CompareAndSwap(x, nil) {
			return fmt.Errorf("executor not picked up: %w", ctx.Err())
		}
		// picked up concurrently
		e.retire(<-e.retired)
	}
	e.installed = x
	return nil
}

// swap makes x current and returns the previous executor.
func (e *Engine) swap(x *executor) *executor {
	prev := e.current
	e.current = x
	return prev
}

func (e *Engine) retire(x *executor) {
	if x == nil {
		return
	}
	x.wait()
	e.logger.WithField("fingerprint", x.fingerprint).Debug("executor retired")
}

// Process runs one period of bufferSize frames. It picks up the executor
// of a pending rebuild first. Process must not be called concurrently
// with itself, nor with Rebuild while the engine is stopped.
func (e *Engine) Process(bufferSize int) {
	if x := e.next.Swap(nil); x != nil {
		prev := e.swap(x)
		// workers can still be leaving the previous run; waking them
		// before they drained their queue would block
		prev.wait()
		select {
		case e.retired <- prev:
		default:
			panic("engine: previous executor wasn't collected")
		}
	}
	if e.current == nil {
		return
	}
	if bufferSize > e.cfg.MaxPeriodSize {
		panic(fmt.Sprintf("engine: buffer size %d exceeds max period size %d", bufferSize, e.cfg.MaxPeriodSize))
	}
	if e.measure == nil {
		e.current.Run(bufferSize)
		return
	}
	start := time.Now()
	e.current.Run(bufferSize)
	e.measure(bufferSize, e.current.Len(), time.Since(start))
}

// Start marks that Process is called by a device thread. Rebuilds will be
// handed over through Process.
func (e *Engine) Start() {
	e.started.Store(true)
}

// Stop marks that Process is no longer called by a device thread. It must
// be called after the last Process call returned.
func (e *Engine) Stop() {
	if !e.started.Swap(false) {
		return
	}
	// serve a rebuild waiting for a period which won't come
	if x := e.next.Swap(nil); x != nil {
		e.retired <- e.swap(x)
	}
}

// Started returns true if engine is started.
func (e *Engine) Started() bool {
	return e.started.Load()
}

// Tasks returns number of tasks in the installed executor.
func (e *Engine) Tasks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.installed == nil {
		return 0
	}
	return e.installed.Len()
}

// Dot returns the installed finalized graph in DOT format.
func (e *Engine) Dot() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.installed == nil {
		return graph.Dot(&graph.Graph{})
	}
	return graph.Dot(e.installed.graph)
}

// Close stops workers. Engine must be stopped.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.started.Load() {
		return fmt.Errorf("close: engine is started")
	}
	e.closed = true
	e.retire(e.swap(nil))
	e.installed = nil
	e.pool.Stop()
	e.logger.Debug("engine closed")
	return nil
}
