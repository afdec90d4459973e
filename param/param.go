package param

import (
	"fmt"

	"github.com/rs/xid"
)

type (
	// Param is a parameter with a unique id and a slot that delivers its
	// values to the engine.
	Param[T any] struct {
		id   string
		slot *Slot[T]
	}

	// Identifier is implemented by parameters.
	Identifier interface {
		ID() string
	}

	// Update is a deferred parameter change.
	Update struct {
		id    string
		apply func()
	}

	// Updates is a set of pending updates mapped to parameter ids. Only the
	// latest update per parameter is kept.
	Updates map[string]func()

	// Pusher collects updates of registered parameters and pushes them into
	// the engine.
	Pusher struct {
		params  map[string]struct{}
		pending Updates
	}
)

// New returns a parameter with initial value.
func New[T any](initial T) *Param[T] {
	return &Param[T]{
		id:   xid.New().String(),
		slot: NewSlot(initial),
	}
}

// ID returns parameter id.
func (p *Param[T]) ID() string {
	return p.id
}

// Slot returns the slot read by the engine.
func (p *Param[T]) Slot() *Slot[T] {
	return p.slot
}

// Set returns an update which sets v when pushed.
func (p *Param[T]) Set(v T) Update {
	return Update{
		id:    p.id,
		apply: func() { p.slot.Push(v) },
	}
}

// ID returns the id of updated parameter.
func (u Update) ID() string {
	return u.id
}

// Put adds update to the set, replacing previous update of the same param.
func (us Updates) Put(u Update) Updates {
	if us == nil {
		us = make(Updates)
	}
	us[u.id] = u.apply
	return us
}

// NewPusher returns a pusher for params.
func NewPusher(params ...Identifier) *Pusher {
	p := &Pusher{params: make(map[string]struct{}, len(params))}
	p.Add(params...)
	return p
}

// Add registers params.
func (p *Pusher) Add(params ...Identifier) {
	for _, param := range params {
		p.params[param.ID()] = struct{}{}
	}
}

// Remove unregisters params and drops their pending updates.
func (p *Pusher) Remove(params ...Identifier) {
	for _, param := range params {
		delete(p.params, param.ID())
		delete(p.pending, param.ID())
	}
}

// Put stages updates. It panics if update belongs to unknown param.
func (p *Pusher) Put(updates ...Update) {
	for _, u := range updates {
		if _, ok := p.params[u.id]; !ok {
			panic(fmt.Sprintf("param: update of unknown param %s", u.id))
		}
		p.pending = p.pending.Put(u)
	}
}

// Pending returns number of staged updates.
func (p *Pusher) Pending() int {
	return len(p.pending)
}

// Push applies staged updates and returns how many were pushed.
func (p *Pusher) Push() int {
	n := len(p.pending)
	for id, apply := range p.pending {
		apply()
		delete(p.pending, id)
	}
	return n
}
