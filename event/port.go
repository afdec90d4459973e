package event

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Port is a typed event port of a processor.
type Port struct {
	name      string
	typ       reflect.Type
	eventSize uintptr
	newBuffer func(capacity int) Untyped
	empty     Untyped
}

// NewPort returns a port for events of type T. T must not contain pointers.
func NewPort[T any](name string) Port {
	var e Event[T]
	return Port{
		name:      name,
		typ:       reflect.TypeOf((*T)(nil)).Elem(),
		eventSize: unsafe.Sizeof(e),
		newBuffer: func(capacity int) Untyped { return NewBuffer[T](capacity) },
		empty:     NewBuffer[T](0),
	}
}

// Name of the port.
func (p Port) Name() string {
	return p.name
}

// Type returns the event value type.
func (p Port) Type() reflect.Type {
	return p.typ
}

// NewBuffer returns a buffer for this port's events.
func (p Port) NewBuffer(capacity int) Untyped {
	return p.newBuffer(capacity)
}

// Empty returns a shared buffer without events. It is read by unconnected
// inputs and must never be inserted into.
func (p Port) Empty() Untyped {
	return p.empty
}

// ArenaBytes returns arena bytes required by one output buffer of this port
// holding up to capacity events: the initial reservation and one doubling.
// A buffer is guaranteed room for 2*capacity events per period; the next
// insert may exhaust the arena.
func (p Port) ArenaBytes(capacity int) int {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return int(p.eventSize)*capacity*3 + 2*cacheLine
}

func (p Port) String() string {
	return fmt.Sprintf("%s(%s)", p.name, p.typ)
}

type (
	// InputBuffers are the event inputs of one processor invocation.
	InputBuffers []Untyped
	// OutputBuffers are the event outputs of one processor invocation.
	OutputBuffers []Untyped
)

// SetArena sets arena for all output buffers.
func (o OutputBuffers) SetArena(a *Arena) {
	for _, b := range o {
		b.SetArena(a)
	}
}

// Clear clears all output buffers.
func (o OutputBuffers) Clear() {
	for _, b := range o {
		b.Clear()
	}
}

// Input returns the typed input buffer i. It panics on type mismatch.
func Input[T any](in InputBuffers, i int) *Buffer[T] {
	return typed[T](in[i])
}

// Output returns the typed output buffer i. It panics on type mismatch.
func Output[T any](out OutputBuffers, i int) *Buffer[T] {
	return typed[T](out[i])
}

func typed[T any](b Untyped) *Buffer[T] {
	tb, ok := b.(*Buffer[T])
	if !ok {
		panic(fmt.Sprintf("event: buffer of %v requested as %v", b.Type(), reflect.TypeOf((*T)(nil)).Elem()))
	}
	return tb
}
