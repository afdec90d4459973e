package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// Select forwards one of its inputs. The selected index arrives as events;
// an index out of range selects silence.
type Select struct {
	Named
	ports     []event.Port
	numInputs int
	selected  int
}

// NewSelect returns selector of n inputs with first input selected.
func NewSelect(name string, n int) *Select {
	if n < 1 {
		panic(fmt.Sprintf("processor: select of %d inputs", n))
	}
	return &Select{
		Named:     NewNamed(name),
		ports:     []event.Port{event.NewPort[int]("select")},
		numInputs: n,
	}
}

func (*Select) TypeName() string            { return "select" }
func (s *Select) NumInputs() int            { return s.numInputs }
func (*Select) NumOutputs() int             { return 1 }
func (s *Select) EventInputs() []event.Port { return s.ports }
func (*Select) EventOutputs() []event.Port  { return nil }

// Process forwards the selected input.
func (s *Select) Process(ctx *Context) {
	Verify(s, ctx)
	selects := event.Input[int](ctx.EventInputs, 0)
	if selects.Empty() {
		ctx.Results[0] = s.current(ctx)
		return
	}

	out := ctx.Outputs[0]
	var offset int
	for _, e := range selects.Events() {
		slice.Copy(slice.Subslice(s.current(ctx), offset, e.Offset-offset), out[offset:e.Offset])
		s.selected, offset = e.Value, e.Offset
	}
	slice.Copy(slice.Subslice(s.current(ctx), offset, ctx.BufferSize-offset), out[offset:ctx.BufferSize])
	ctx.Results[0] = slice.Buffer(out)
}

func (s *Select) current(ctx *Context) slice.Slice[float32] {
	if s.selected < 0 || s.selected >= s.numInputs {
		return Silence
	}
	return ctx.Inputs[s.selected]
}
