// Package processor defines the contract of graph nodes and provides the
// standard processors used to build an engine graph.
package processor

import (
	"fmt"

	"github.com/rs/xid"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

type (
	// Processor is a unit of work executed once per period. Process must
	// not block, allocate unbounded memory or panic.
	Processor interface {
		ID() string
		Name() string
		TypeName() string
		NumInputs() int
		NumOutputs() int
		EventInputs() []event.Port
		EventOutputs() []event.Port
		Process(*Context)
	}

	// Passthrough is implemented by processors that forward their inputs
	// unchanged. They are removed from a graph before it's compiled.
	Passthrough interface {
		Processor
		Passthrough()
	}

	// Context bundles everything a processor reads and writes in a single
	// invocation.
	Context struct {
		// Inputs has one slice per audio input, silence if not connected.
		Inputs []slice.Slice[float32]
		// Outputs are writable buffers of BufferSize frames.
		Outputs [][]float32
		// Results must be set per output to an input, a constant or the
		// output buffer. Initially every result references its output.
		Results      []slice.Slice[float32]
		EventInputs  event.InputBuffers
		EventOutputs event.OutputBuffers
		BufferSize   int
	}

	// Named provides identity for processors.
	Named struct {
		id   string
		name string
	}
)

// Silence is the value of unconnected audio inputs.
var Silence = slice.Constant[float32](0)

// NewNamed returns identity with unique id.
func NewNamed(name string) Named {
	return Named{
		id:   xid.New().String(),
		name: name,
	}
}

// ID returns unique processor id. Ids are ordered by creation time.
func (n Named) ID() string {
	return n.id
}

// Name returns processor name.
func (n Named) Name() string {
	return n.name
}

// Verify panics if context doesn't match processor ports.
func Verify(p Processor, ctx *Context) {
	switch {
	case len(ctx.Inputs) != p.NumInputs():
		panic(mismatch(p, "inputs", len(ctx.Inputs), p.NumInputs()))
	case len(ctx.Outputs) != p.NumOutputs():
		panic(mismatch(p, "outputs", len(ctx.Outputs), p.NumOutputs()))
	case len(ctx.Results) != p.NumOutputs():
		panic(mismatch(p, "results", len(ctx.Results), p.NumOutputs()))
	case len(ctx.EventInputs) != len(p.EventInputs()):
		panic(mismatch(p, "event inputs", len(ctx.EventInputs), len(p.EventInputs())))
	case len(ctx.EventOutputs) != len(p.EventOutputs()):
		panic(mismatch(p, "event outputs", len(ctx.EventOutputs), len(p.EventOutputs())))
	}
}

func mismatch(p Processor, what string, got, expected int) string {
	return fmt.Sprintf("processor %s %s: %d %s, expected %d", p.TypeName(), p.Name(), got, what, expected)
}

// String returns a short description of processor for diagnostics.
func String(p Processor) string {
	if p.Name() == "" {
		return p.TypeName()
	}
	return fmt.Sprintf("%s %s", p.TypeName(), p.Name())
}
