// Package thread provides workers bound to OS threads with optional CPU
// affinity and real-time priority.
package thread

import (
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type (
	// Config of an OS thread. Negative CPU leaves affinity unchanged and zero
	// priority keeps the default scheduling policy.
	Config struct {
		CPU      int `yaml:"cpu"`
		Priority int `yaml:"priority"`
	}

	// Worker executes functions on its own locked OS thread. It sleeps
	// between wakeups.
	Worker struct {
		wake chan func()
		done chan struct{}
	}
)

// Default config doesn't change affinity or scheduling.
var Default = Config{CPU: -1}

// UnmarshalYAML decodes config on top of Default.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	p := plain(Default)
	if err := value.Decode(&p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// NewWorker starts a worker.
func NewWorker(cfg Config, logger logrus.FieldLogger) *Worker {
	w := &Worker{
		wake: make(chan func(), 1),
		done: make(chan struct{}),
	}
	started := make(chan struct{})
	go w.run(cfg, logger, started)
	<-started
	return w
}

func (w *Worker) run(cfg Config, logger logrus.FieldLogger, started chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)
	if err := Configure(cfg); err != nil {
		logger.WithError(err).WithField("cpu", cfg.CPU).Warn("failed to configure worker thread")
	}
	close(started)
	for fn := range w.wake {
		fn()
	}
}

// Wakeup schedules fn. It blocks only if a previous function wasn't
// picked up yet.
func (w *Worker) Wakeup(fn func()) {
	w.wake <- fn
}

// Stop waits for the pending function and stops the worker.
func (w *Worker) Stop() {
	close(w.wake)
	<-w.done
}

// Pool is a fixed set of workers.
type Pool struct {
	workers []*Worker
}

// NewPool starts one worker per config.
func NewPool(configs []Config, logger logrus.FieldLogger) *Pool {
	p := &Pool{workers: make([]*Worker, len(configs))}
	for i, cfg := range configs {
		p.workers[i] = NewWorker(cfg, logger.WithField("worker", i+1))
	}
	return p
}

// Workers returns workers of the pool.
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// Len returns number of workers.
func (p *Pool) Len() int {
	return len(p.workers)
}

// Stop stops all workers.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
}
