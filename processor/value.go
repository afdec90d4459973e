package processor

import (
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/param"
)

type (
	// ValueInput emits the latest value of a parameter slot as an event at
	// offset 0 whenever the value changes.
	ValueInput[T any] struct {
		Named
		ports []event.Port
		slot  *param.Slot[T]
	}

	// ValueOutput publishes the last received event value to the control
	// side.
	ValueOutput[T any] struct {
		Named
		ports []event.Port
		slot  *param.Slot[T]
	}
)

// NewValueInput returns value input reading slot.
func NewValueInput[T any](name string, slot *param.Slot[T]) *ValueInput[T] {
	return &ValueInput[T]{
		Named: NewNamed(name),
		ports: []event.Port{event.NewPort[T](name)},
		slot:  slot,
	}
}

func (*ValueInput[T]) TypeName() string             { return "value_input" }
func (*ValueInput[T]) NumInputs() int               { return 0 }
func (*ValueInput[T]) NumOutputs() int              { return 0 }
func (*ValueInput[T]) EventInputs() []event.Port    { return nil }
func (p *ValueInput[T]) EventOutputs() []event.Port { return p.ports }

// Process emits pending value.
func (p *ValueInput[T]) Process(ctx *Context) {
	Verify(p, ctx)
	p.slot.Consume(func(v T) {
		event.Output[T](ctx.EventOutputs, 0).Insert(0, v)
	})
}

// NewValueOutput returns value output.
func NewValueOutput[T any](name string) *ValueOutput[T] {
	var zero T
	slot := param.NewSlot(zero)
	slot.Pull()
	return &ValueOutput[T]{
		Named: NewNamed(name),
		ports: []event.Port{event.NewPort[T](name)},
		slot:  slot,
	}
}

func (*ValueOutput[T]) TypeName() string            { return "value_output" }
func (*ValueOutput[T]) NumInputs() int              { return 0 }
func (*ValueOutput[T]) NumOutputs() int             { return 0 }
func (p *ValueOutput[T]) EventInputs() []event.Port { return p.ports }
func (*ValueOutput[T]) EventOutputs() []event.Port  { return nil }

// Process publishes received values.
func (p *ValueOutput[T]) Process(ctx *Context) {
	Verify(p, ctx)
	if v, ok := event.Input[T](ctx.EventInputs, 0).Last(); ok {
		p.slot.Push(v)
	}
}

// Get returns the last published value if it wasn't read yet.
func (p *ValueOutput[T]) Get() (T, bool) {
	return p.slot.Pull()
}
