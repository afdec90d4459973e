package engine

import (
	"pipelined.dev/engine/compiler"
	"pipelined.dev/engine/dag"
	"pipelined.dev/engine/graph"
)

// runner is a dag executor.
type runner interface {
	Run(bufferSize int)
	Len() int
}

// executor is a compiled graph ready to run.
type executor struct {
	runner
	graph       *graph.Graph
	program     *compiler.Program
	fingerprint string
	workers     int
}

func (e *Engine) newExecutor(g *graph.Graph, fingerprint string) (*executor, error) {
	finalized := g.Clone()
	graph.Finalize(finalized)
	program, err := compiler.Compile(finalized, compiler.Options{
		MaxBufferSize: e.cfg.MaxPeriodSize,
		EventsPerPort: e.cfg.EventsPerPort,
	})
	if err != nil {
		return nil, err
	}

	x := executor{
		graph:       finalized,
		program:     program,
		fingerprint: fingerprint,
	}
	if e.pool.Len() == 0 {
		x.runner = dag.NewSingleThreaded(program.DAG, program.ArenaSize)
		return &x, nil
	}
	workers := make([]dag.Worker, e.pool.Len())
	for i, w := range e.pool.Workers() {
		workers[i] = w
	}
	multi, err := dag.NewMultiThreaded(program.DAG, workers, program.ArenaSize, e.cfg.StackCapacity)
	if err != nil {
		return nil, err
	}
	x.runner = multi
	x.workers = len(workers)
	return &x, nil
}

// wait blocks until workers left the last run. Nil executor doesn't wait.
func (x *executor) wait() {
	if m, ok := x.multi(); ok {
		m.Wait()
	}
}

// idle returns true if no worker is in the last run.
func (x *executor) idle() bool {
	if m, ok := x.multi(); ok {
		return m.Idle()
	}
	return true
}

func (x *executor) multi() (*dag.MultiThreaded, bool) {
	if x == nil {
		return nil, false
	}
	m, ok := x.runner.(*dag.MultiThreaded)
	return m, ok
}

func (x *executor) kind() string {
	if x.workers == 0 {
		return "single-threaded"
	}
	return "multi-threaded"
}
