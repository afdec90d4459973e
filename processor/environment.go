package processor

import (
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// Environment runs a single processor outside of a graph. Inputs are
// silent and event inputs empty until set.
type Environment struct {
	proc    Processor
	Arena   *event.Arena
	ctx     Context
	outputs [][]float32
}

const environmentArena = 1 << 16

// NewEnvironment allocates buffers for p and bufferSize frames.
func NewEnvironment(p Processor, bufferSize int) *Environment {
	arena := event.NewArena(environmentArena)
	env := &Environment{
		proc:    p,
		Arena:   arena,
		outputs: make([][]float32, p.NumOutputs()),
		ctx: Context{
			Inputs:       make([]slice.Slice[float32], p.NumInputs()),
			Outputs:      make([][]float32, p.NumOutputs()),
			Results:      make([]slice.Slice[float32], p.NumOutputs()),
			EventInputs:  make(event.InputBuffers, len(p.EventInputs())),
			EventOutputs: make(event.OutputBuffers, len(p.EventOutputs())),
			BufferSize:   bufferSize,
		},
	}
	for i := range env.ctx.Inputs {
		env.ctx.Inputs[i] = Silence
	}
	for i := range env.outputs {
		env.outputs[i] = slice.Make[float32](bufferSize)
	}
	for i, port := range p.EventInputs() {
		b := port.NewBuffer(0)
		b.SetArena(arena)
		env.ctx.EventInputs[i] = b
	}
	for i, port := range p.EventOutputs() {
		env.ctx.EventOutputs[i] = port.NewBuffer(0)
	}
	return env
}

// SetInput sets audio input i.
func (env *Environment) SetInput(i int, s slice.Slice[float32]) {
	env.ctx.Inputs[i] = s
}

// EventInputs returns event inputs to insert events into.
func (env *Environment) EventInputs() event.InputBuffers {
	return env.ctx.EventInputs
}

// EventOutputs returns event outputs of the last run.
func (env *Environment) EventOutputs() event.OutputBuffers {
	return env.ctx.EventOutputs
}

// Result returns result i of the last run.
func (env *Environment) Result(i int) slice.Slice[float32] {
	return env.ctx.Results[i]
}

// Output returns output buffer i.
func (env *Environment) Output(i int) []float32 {
	return env.outputs[i]
}

// Process runs processor once. Event outputs are cleared before the run.
func (env *Environment) Process() {
	for i, out := range env.outputs {
		env.ctx.Outputs[i] = out
		env.ctx.Results[i] = slice.Buffer(out)
	}
	env.ctx.EventOutputs.SetArena(env.Arena)
	env.ctx.EventOutputs.Clear()
	env.proc.Process(&env.ctx)
}

// Reset clears event inputs and reclaims the arena.
func (env *Environment) Reset() {
	for _, b := range env.ctx.EventInputs {
		b.Clear()
	}
	env.ctx.EventOutputs.Clear()
	env.Arena.Reset()
}
