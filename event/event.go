// Package event provides timestamped events which are delivered to
// processors within a single period.
package event

import (
	"reflect"
	"sort"
)

// DefaultCapacity is the number of events a buffer reserves on first insert.
const DefaultCapacity = 16

type (
	// Event is a value at frame offset within the current period.
	Event[T any] struct {
		Offset int
		Value  T
	}

	// Untyped is an event buffer of any value type.
	Untyped interface {
		Type() reflect.Type
		Len() int
		SetArena(*Arena)
		Clear()
	}

	// Buffer is a sequence of events ordered by offset. Events with equal
	// offsets keep insertion order. Storage is carved from an arena.
	Buffer[T any] struct {
		arena    *Arena
		capacity int
		events   []Event[T]
	}
)

// NewBuffer returns a buffer which reserves capacity events on first insert.
func NewBuffer[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer[T]{capacity: capacity}
}

// Type returns the event value type.
func (b *Buffer[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SetArena sets the arena used by consecutive inserts.
func (b *Buffer[T]) SetArena(a *Arena) {
	b.arena = a
}

// Clear removes all events. Storage is reclaimed by the arena reset.
func (b *Buffer[T]) Clear() {
	b.events = nil
}

// Len returns number of events.
func (b *Buffer[T]) Len() int {
	return len(b.events)
}

// Empty returns true if buffer has no events.
func (b *Buffer[T]) Empty() bool {
	return len(b.events) == 0
}

// Events returns events in offset order. The result must not be modified.
func (b *Buffer[T]) Events() []Event[T] {
	return b.events
}

// Insert adds value at offset. It panics if the buffer has no arena or the
// arena is exhausted.
func (b *Buffer[T]) Insert(offset int, value T) {
	if b.arena == nil {
		panic("event: insert into buffer without arena")
	}
	n := len(b.events)
	if n == cap(b.events) {
		size := b.capacity
		if n > 0 {
			size = 2 * n
		}
		grown := Alloc[Event[T]](b.arena, size)
		b.events = append(grown, b.events...)
	}
	i := sort.Search(n, func(i int) bool { return b.events[i].Offset > offset })
	b.events = b.events[:n+1]
	copy(b.events[i+1:], b.events[i:n])
	b.events[i] = Event[T]{Offset: offset, Value: value}
}

// Last returns the value of the last event. ok is false if buffer is empty.
func (b *Buffer[T]) Last() (v T, ok bool) {
	if len(b.events) == 0 {
		return v, false
	}
	return b.events[len(b.events)-1].Value, true
}
