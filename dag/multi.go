package dag

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"pipelined.dev/engine/event"
)

// spinBudget is the number of empty pops before a consumer yields.
const spinBudget = 128

// Worker runs functions on a dedicated goroutine. Wakeup must not block
// while the worker has no pending function. Executors sharing workers must
// not overlap: a run starts only after every worker left the previous run
// of any executor.
type Worker interface {
	Wakeup(fn func())
}

// MultiThreaded runs tasks on the calling goroutine and a set of workers.
// Ready tasks are shared through a lock-free stack.
type MultiThreaded struct {
	nodes     []node
	roots     []int32
	ready     *stack
	workers   []Worker
	runs      []func()
	contexts  []ThreadContext
	remaining atomic.Int64
	active    atomic.Int32
}

// NewMultiThreaded compiles d for workers. Every consumer owns an arena of
// arenaSize bytes. Zero capacity derives the ready stack capacity from d; a
// smaller non-zero capacity returns ErrStackCapacity.
func NewMultiThreaded(d *DAG, workers []Worker, arenaSize, capacity int) (*MultiThreaded, error) {
	required := d.StackCapacity()
	if capacity == 0 {
		capacity = required
	}
	if capacity < required {
		return nil, fmt.Errorf("%w: %d configured, %d required", ErrStackCapacity, capacity, required)
	}
	e := &MultiThreaded{
		nodes:    compile(d),
		ready:    newStack(d.Len(), capacity),
		workers:  workers,
		runs:     make([]func(), len(workers)),
		contexts: make([]ThreadContext, len(workers)+1),
	}
	for _, id := range d.Roots() {
		e.roots = append(e.roots, int32(id))
	}
	for i := range e.contexts {
		e.contexts[i] = ThreadContext{Arena: event.NewArena(arenaSize), Worker: i}
	}
	for i := range e.runs {
		ctx := &e.contexts[i+1]
		e.runs[i] = func() {
			e.consume(ctx)
			e.active.Add(-1)
		}
	}
	return e, nil
}

// Run executes every task once in dependency order. It returns when all
// tasks are done; workers may still be releasing their arenas.
func (e *MultiThreaded) Run(bufferSize int) {
	e.Wait()

	for i := range e.nodes {
		n := &e.nodes[i]
		n.pending.Store(n.parents)
	}
	e.ready.reset()
	for _, r := range e.roots {
		e.ready.push(r)
	}
	for i := range e.contexts {
		e.contexts[i].BufferSize = bufferSize
	}
	e.remaining.Store(int64(len(e.nodes)))

	e.active.Store(int32(len(e.workers)))
	for i, w := range e.workers {
		w.Wakeup(e.runs[i])
	}
	e.consume(&e.contexts[0])
}

// Wait blocks until all workers left the previous run.
func (e *MultiThreaded) Wait() {
	for spins := 0; e.active.Load() != 0; spins++ {
		if spins > spinBudget {
			runtime.Gosched()
			spins = 0
		}
	}
}

// Idle returns true if no worker is in the previous run.
func (e *MultiThreaded) Idle() bool {
	return e.active.Load() == 0
}

// Len returns number of tasks.
func (e *MultiThreaded) Len() int {
	return len(e.nodes)
}

// Workers returns number of workers.
func (e *MultiThreaded) Workers() int {
	return len(e.workers)
}

func (e *MultiThreaded) consume(ctx *ThreadContext) {
	spins := 0
	for e.remaining.Load() > 0 {
		i, ok := e.ready.pop()
		if !ok {
			if spins++; spins > spinBudget {
				runtime.Gosched()
				spins = 0
			}
			continue
		}
		spins = 0
		for i >= 0 {
			i = e.execute(i, ctx)
		}
	}
	ctx.Arena.Reset()
}

// execute runs node i and returns the single child to continue with, or -1.
// Other children that became ready are pushed.
func (e *MultiThreaded) execute(i int32, ctx *ThreadContext) int32 {
	n := &e.nodes[i]
	n.task(ctx)
	next := int32(-1)
	for _, c := range n.children {
		if e.nodes[c].pending.Add(-1) != 0 {
			continue
		}
		if next < 0 {
			next = c
		} else {
			e.ready.push(c)
		}
	}
	e.remaining.Add(-1)
	return next
}
