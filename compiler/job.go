package compiler

import (
	"pipelined.dev/engine/dag"
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/slice"
)

func newJob(p processor.Processor, opts Options) *Job {
	j := Job{
		proc:    p,
		inputs:  make([]*slice.Slice[float32], p.NumInputs()),
		outputs: make([][]float32, p.NumOutputs()),
		ctx: processor.Context{
			Inputs:       make([]slice.Slice[float32], p.NumInputs()),
			Outputs:      make([][]float32, p.NumOutputs()),
			Results:      make([]slice.Slice[float32], p.NumOutputs()),
			EventInputs:  make(event.InputBuffers, len(p.EventInputs())),
			EventOutputs: make(event.OutputBuffers, len(p.EventOutputs())),
		},
	}
	for i := range j.inputs {
		j.inputs[i] = &silence
	}
	for i := range j.outputs {
		j.outputs[i] = slice.Make[float32](opts.MaxBufferSize)
		j.ctx.Results[i] = processor.Silence
	}
	for i, port := range p.EventInputs() {
		j.ctx.EventInputs[i] = port.Empty()
	}
	for i, port := range p.EventOutputs() {
		j.ctx.EventOutputs[i] = port.NewBuffer(opts.EventsPerPort)
	}
	return &j
}

// Processor returns the processor run by the job.
func (j *Job) Processor() processor.Processor {
	return j.proc
}

// Result returns audio result i of the last run.
func (j *Job) Result(i int) slice.Slice[float32] {
	return j.ctx.Results[i]
}

// Run gathers inputs and processes one period. Event outputs are allocated
// from the thread arena.
func (j *Job) Run(tc *dag.ThreadContext) {
	bs := tc.BufferSize
	for i, in := range j.inputs {
		j.ctx.Inputs[i] = *in
	}
	for i, out := range j.outputs {
		j.ctx.Outputs[i] = out[:bs]
		j.ctx.Results[i] = slice.Buffer(j.ctx.Outputs[i])
	}
	j.ctx.BufferSize = bs
	j.ctx.EventOutputs.SetArena(tc.Arena)
	j.ctx.EventOutputs.Clear()
	j.proc.Process(&j.ctx)
}
