package dag

import "pipelined.dev/engine/event"

// SingleThreaded runs tasks on the calling goroutine. Ready tasks are kept
// in a LIFO list.
type SingleThreaded struct {
	nodes []node
	ready []int32
	ctx   ThreadContext
}

// NewSingleThreaded compiles d. Tasks share one arena of arenaSize bytes.
func NewSingleThreaded(d *DAG, arenaSize int) *SingleThreaded {
	nodes := compile(d)
	return &SingleThreaded{
		nodes: nodes,
		ready: make([]int32, 0, len(nodes)),
		ctx:   ThreadContext{Arena: event.NewArena(arenaSize)},
	}
}

// Run executes every task once in dependency order.
func (e *SingleThreaded) Run(bufferSize int) {
	e.ctx.BufferSize = bufferSize
	for i := range e.nodes {
		n := &e.nodes[i]
		n.pending.Store(n.parents)
		if n.parents == 0 {
			e.ready = append(e.ready, int32(i))
		}
	}
	for len(e.ready) > 0 {
		i := e.ready[len(e.ready)-1]
		e.ready = e.ready[:len(e.ready)-1]
		n := &e.nodes[i]
		n.task(&e.ctx)
		for _, c := range n.children {
			if e.nodes[c].pending.Add(-1) == 0 {
				e.ready = append(e.ready, c)
			}
		}
	}
	e.ctx.Arena.Reset()
}

// Len returns number of tasks.
func (e *SingleThreaded) Len() int {
	return len(e.nodes)
}
