// Package mock provides processors for tests.
package mock

import (
	"sync/atomic"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/slice"
)

type (
	// Processor is a configurable processor which counts its calls. Audio
	// results are the inputs summed plus Offset, written to every output.
	Processor struct {
		processor.Named
		Inputs      int
		Outputs     int
		EventIn     []event.Port
		EventOut    []event.Port
		Offset      float32
		ProcessFunc func(*processor.Context)
		calls       atomic.Int64
	}

	// Sink copies its single input on every call.
	Sink struct {
		processor.Named
		Buffer []float32
		calls  atomic.Int64
	}
)

// New returns processor with audio ports.
func New(name string, inputs, outputs int) *Processor {
	return &Processor{
		Named:   processor.NewNamed(name),
		Inputs:  inputs,
		Outputs: outputs,
	}
}

// NewEvents returns processor with event ports only.
func NewEvents(name string, in, out []event.Port) *Processor {
	return &Processor{
		Named:    processor.NewNamed(name),
		EventIn:  in,
		EventOut: out,
	}
}

func (*Processor) TypeName() string             { return "mock" }
func (p *Processor) NumInputs() int             { return p.Inputs }
func (p *Processor) NumOutputs() int            { return p.Outputs }
func (p *Processor) EventInputs() []event.Port  { return p.EventIn }
func (p *Processor) EventOutputs() []event.Port { return p.EventOut }

// Calls returns number of Process calls.
func (p *Processor) Calls() int64 {
	return p.calls.Load()
}

// Process implements processor.Processor.
func (p *Processor) Process(ctx *processor.Context) {
	processor.Verify(p, ctx)
	p.calls.Add(1)
	if p.ProcessFunc != nil {
		p.ProcessFunc(ctx)
		return
	}
	for i, out := range ctx.Outputs {
		res := slice.Constant(p.Offset)
		for _, in := range ctx.Inputs {
			res = slice.Add(res, in, out)
		}
		slice.Copy(res, out)
		ctx.Results[i] = slice.Buffer(out)
	}
}

// NewSink returns sink.
func NewSink(name string) *Sink {
	return &Sink{Named: processor.NewNamed(name)}
}

func (*Sink) TypeName() string           { return "sink" }
func (*Sink) NumInputs() int             { return 1 }
func (*Sink) NumOutputs() int            { return 0 }
func (*Sink) EventInputs() []event.Port  { return nil }
func (*Sink) EventOutputs() []event.Port { return nil }

// Calls returns number of Process calls.
func (s *Sink) Calls() int64 {
	return s.calls.Load()
}

// Process copies input.
func (s *Sink) Process(ctx *processor.Context) {
	processor.Verify(s, ctx)
	s.calls.Add(1)
	if len(s.Buffer) != ctx.BufferSize {
		s.Buffer = make([]float32, ctx.BufferSize)
	}
	slice.Copy(ctx.Inputs[0], s.Buffer)
}
