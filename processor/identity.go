package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
)

type (
	// Identity forwards n audio inputs to n outputs.
	Identity struct {
		Named
		channels int
	}

	// EventIdentity forwards events of type T.
	EventIdentity[T any] struct {
		Named
		ports []event.Port
	}
)

// NewIdentity returns audio identity with n channels.
func NewIdentity(n int) *Identity {
	return &Identity{
		Named:    NewNamed(fmt.Sprintf("identity %d", n)),
		channels: n,
	}
}

func (*Identity) TypeName() string           { return "identity" }
func (i *Identity) NumInputs() int           { return i.channels }
func (i *Identity) NumOutputs() int          { return i.channels }
func (*Identity) EventInputs() []event.Port  { return nil }
func (*Identity) EventOutputs() []event.Port { return nil }
func (*Identity) Passthrough()               {}

// Process forwards inputs by reference.
func (i *Identity) Process(ctx *Context) {
	Verify(i, ctx)
	copy(ctx.Results, ctx.Inputs)
}

// NewEventIdentity returns identity for events of type T.
func NewEventIdentity[T any](name string) *EventIdentity[T] {
	return &EventIdentity[T]{
		Named: NewNamed(name),
		ports: []event.Port{event.NewPort[T](name)},
	}
}

func (*EventIdentity[T]) TypeName() string             { return "event_identity" }
func (*EventIdentity[T]) NumInputs() int               { return 0 }
func (*EventIdentity[T]) NumOutputs() int              { return 0 }
func (p *EventIdentity[T]) EventInputs() []event.Port  { return p.ports }
func (p *EventIdentity[T]) EventOutputs() []event.Port { return p.ports }
func (*EventIdentity[T]) Passthrough()                 {}

// Process copies input events to the output.
func (p *EventIdentity[T]) Process(ctx *Context) {
	Verify(p, ctx)
	out := event.Output[T](ctx.EventOutputs, 0)
	for _, e := range event.Input[T](ctx.EventInputs, 0).Events() {
		out.Insert(e.Offset, e.Value)
	}
}
