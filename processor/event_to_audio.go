package processor

import (
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// EventToAudio turns value events into an audio signal which holds the last
// value until the next event.
type EventToAudio struct {
	Named
	ports []event.Port
	value float32
}

// NewEventToAudio returns converter with initial value 0.
func NewEventToAudio(name string) *EventToAudio {
	return &EventToAudio{
		Named: NewNamed(name),
		ports: []event.Port{event.NewPort[float32]("value")},
	}
}

func (*EventToAudio) TypeName() string            { return "event_to_audio" }
func (*EventToAudio) NumInputs() int              { return 0 }
func (*EventToAudio) NumOutputs() int             { return 1 }
func (p *EventToAudio) EventInputs() []event.Port { return p.ports }
func (*EventToAudio) EventOutputs() []event.Port  { return nil }

// Process renders held values.
func (p *EventToAudio) Process(ctx *Context) {
	Verify(p, ctx)
	values := event.Input[float32](ctx.EventInputs, 0)
	if values.Empty() {
		ctx.Results[0] = slice.Constant(p.value)
		return
	}
	out := ctx.Outputs[0]
	var offset int
	for _, e := range values.Events() {
		slice.Copy(slice.Constant(p.value), out[offset:e.Offset])
		p.value, offset = e.Value, e.Offset
	}
	slice.Copy(slice.Constant(p.value), out[offset:ctx.BufferSize])
	ctx.Results[0] = slice.Buffer(out)
}
