package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// Multiply returns the product of its inputs.
type Multiply struct {
	Named
	numInputs int
}

// NewMultiply returns multiplier of n inputs.
func NewMultiply(n int) *Multiply {
	if n < 2 {
		panic(fmt.Sprintf("processor: multiply of %d inputs", n))
	}
	return &Multiply{
		Named:     NewNamed(fmt.Sprintf("multiply %d", n)),
		numInputs: n,
	}
}

func (*Multiply) TypeName() string           { return "multiply" }
func (m *Multiply) NumInputs() int           { return m.numInputs }
func (*Multiply) NumOutputs() int            { return 1 }
func (*Multiply) EventInputs() []event.Port  { return nil }
func (*Multiply) EventOutputs() []event.Port { return nil }

// Process multiplies inputs.
func (m *Multiply) Process(ctx *Context) {
	Verify(m, ctx)
	out := ctx.Outputs[0]
	res := ctx.Inputs[0]
	for _, in := range ctx.Inputs[1:] {
		res = slice.Multiply(res, in, out)
	}
	ctx.Results[0] = res
}
