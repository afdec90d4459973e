package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// Mix sums its inputs into a single output. Silent inputs are skipped and a
// single non-silent input is passed through by reference.
type Mix struct {
	Named
	numInputs int
}

// NewMix returns a mixer with n inputs. It panics if n < 2.
func NewMix(n int) *Mix {
	if n < 2 {
		panic(fmt.Sprintf("processor: mix of %d inputs", n))
	}
	return &Mix{
		Named:     NewNamed(fmt.Sprintf("mix %d", n)),
		numInputs: n,
	}
}

func (*Mix) TypeName() string           { return "mix" }
func (m *Mix) NumInputs() int           { return m.numInputs }
func (*Mix) NumOutputs() int            { return 1 }
func (*Mix) EventInputs() []event.Port  { return nil }
func (*Mix) EventOutputs() []event.Port { return nil }

// Process sums inputs.
func (m *Mix) Process(ctx *Context) {
	Verify(m, ctx)
	out := ctx.Outputs[0]
	res := ctx.Inputs[0]
	for _, in := range ctx.Inputs[1:] {
		res = slice.Add(res, in, out)
	}
	ctx.Results[0] = res
}
