// Package graph holds the routing of processors: audio wires and event
// wires between processor ports.
package graph

import (
	"cmp"
	"fmt"
	"slices"
	"sort"

	"pipelined.dev/engine/processor"
)

type (
	// Endpoint is a port of a processor. Depending on the side of a wire
	// it's an output or an input port.
	Endpoint struct {
		Proc processor.Processor
		Port int
	}

	// Wire connects source output to destination input.
	Wire struct {
		Src Endpoint
		Dst Endpoint
	}

	// Wires is a set of wires ordered by source, then destination.
	Wires struct {
		wires []Wire
	}

	// Graph is a set of audio and event wires. Processors are the ones
	// referenced by wires. No cycle checks are made.
	Graph struct {
		Audio Wires
		Event Wires
	}
)

// At returns endpoint of processor port.
func At(p processor.Processor, port int) Endpoint {
	return Endpoint{Proc: p, Port: port}
}

// Compare orders endpoints by processor id, then port.
func (e Endpoint) Compare(o Endpoint) int {
	if c := cmp.Compare(e.Proc.ID(), o.Proc.ID()); c != 0 {
		return c
	}
	return cmp.Compare(e.Port, o.Port)
}

// Equal returns true if endpoints are the same port of the same processor.
func (e Endpoint) Equal(o Endpoint) bool {
	return e.Proc.ID() == o.Proc.ID() && e.Port == o.Port
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", processor.String(e.Proc), e.Port)
}

// Compare orders wires by source, then destination.
func (w Wire) Compare(o Wire) int {
	if c := w.Src.Compare(o.Src); c != 0 {
		return c
	}
	return w.Dst.Compare(o.Dst)
}

func (w Wire) String() string {
	return fmt.Sprintf("%v -> %v", w.Src, w.Dst)
}

func (ws *Wires) search(w Wire) (int, bool) {
	return slices.BinarySearchFunc(ws.wires, w, Wire.Compare)
}

// Insert adds a wire. It returns false if the wire exists.
func (ws *Wires) Insert(src, dst Endpoint) bool {
	w := Wire{Src: src, Dst: dst}
	i, found := ws.search(w)
	if found {
		return false
	}
	ws.wires = slices.Insert(ws.wires, i, w)
	return true
}

// Remove deletes a wire. It returns false if the wire doesn't exist.
func (ws *Wires) Remove(src, dst Endpoint) bool {
	i, found := ws.search(Wire{Src: src, Dst: dst})
	if !found {
		return false
	}
	ws.wires = slices.Delete(ws.wires, i, i+1)
	return true
}

// RemoveIf deletes every wire matching fn and returns how many were removed.
func (ws *Wires) RemoveIf(fn func(src, dst Endpoint) bool) int {
	n := len(ws.wires)
	ws.wires = slices.DeleteFunc(ws.wires, func(w Wire) bool { return fn(w.Src, w.Dst) })
	return n - len(ws.wires)
}

// Has returns true if the wire exists.
func (ws *Wires) Has(src, dst Endpoint) bool {
	_, found := ws.search(Wire{Src: src, Dst: dst})
	return found
}

// Sources returns all sources connected to dst.
func (ws *Wires) Sources(dst Endpoint) []Endpoint {
	var sources []Endpoint
	for _, w := range ws.wires {
		if w.Dst.Equal(dst) {
			sources = append(sources, w.Src)
		}
	}
	return sources
}

// Source returns the first source connected to dst.
func (ws *Wires) Source(dst Endpoint) (Endpoint, bool) {
	for _, w := range ws.wires {
		if w.Dst.Equal(dst) {
			return w.Src, true
		}
	}
	return Endpoint{}, false
}

// Destinations returns all destinations connected to src.
func (ws *Wires) Destinations(src Endpoint) []Endpoint {
	i := sort.Search(len(ws.wires), func(i int) bool { return ws.wires[i].Src.Compare(src) >= 0 })
	var dsts []Endpoint
	for ; i < len(ws.wires) && ws.wires[i].Src.Equal(src); i++ {
		dsts = append(dsts, ws.wires[i].Dst)
	}
	return dsts
}

// All returns wires in order. The result must not be modified.
func (ws *Wires) All() []Wire {
	return ws.wires
}

// Len returns number of wires.
func (ws *Wires) Len() int {
	return len(ws.wires)
}

// Clone returns a copy of the wire set.
func (ws *Wires) Clone() Wires {
	return Wires{wires: slices.Clone(ws.wires)}
}

// Clone returns a copy of the graph. Processors are shared.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Audio: g.Audio.Clone(),
		Event: g.Event.Clone(),
	}
}

// Processors returns every processor referenced by a wire, ordered by id.
func (g *Graph) Processors() []processor.Processor {
	seen := make(map[string]processor.Processor)
	for _, ws := range []*Wires{&g.Audio, &g.Event} {
		for _, w := range ws.wires {
			seen[w.Src.Proc.ID()] = w.Src.Proc
			seen[w.Dst.Proc.ID()] = w.Dst.Proc
		}
	}
	procs := make([]processor.Processor, 0, len(seen))
	for _, p := range seen {
		procs = append(procs, p)
	}
	slices.SortFunc(procs, func(a, b processor.Processor) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return procs
}
