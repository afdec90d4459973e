package processor

import (
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// Amplify multiplies its input by a gain. Gain changes arrive as events and
// take effect at the event offset.
type Amplify struct {
	Named
	ports []event.Port
	gain  float32
}

// NewAmplify returns amplifier with unity gain.
func NewAmplify(name string) *Amplify {
	return &Amplify{
		Named: NewNamed(name),
		ports: []event.Port{event.NewPort[float32]("gain")},
		gain:  1,
	}
}

func (*Amplify) TypeName() string            { return "amplify" }
func (*Amplify) NumInputs() int              { return 1 }
func (*Amplify) NumOutputs() int             { return 1 }
func (a *Amplify) EventInputs() []event.Port { return a.ports }
func (*Amplify) EventOutputs() []event.Port  { return nil }

// Process applies gain.
func (a *Amplify) Process(ctx *Context) {
	Verify(a, ctx)
	in, out := ctx.Inputs[0], ctx.Outputs[0]
	gains := event.Input[float32](ctx.EventInputs, 0)
	if gains.Empty() {
		ctx.Results[0] = slice.Multiply(in, slice.Constant(a.gain), out)
		return
	}
	if in.IsConstant() && in.Constant() == 0 {
		a.gain, _ = gains.Last()
		ctx.Results[0] = Silence
		return
	}

	var offset int
	for _, e := range gains.Events() {
		a.amplify(in, out, offset, e.Offset)
		a.gain, offset = e.Value, e.Offset
	}
	a.amplify(in, out, offset, ctx.BufferSize)
	ctx.Results[0] = slice.Buffer(out)
}

func (a *Amplify) amplify(in slice.Slice[float32], out []float32, from, to int) {
	dst := out[from:to]
	slice.Copy(slice.Multiply(slice.Subslice(in, from, to-from), slice.Constant(a.gain), dst), dst)
}
