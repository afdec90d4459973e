package graph

import (
	"slices"

	"pipelined.dev/engine/processor"
)

// Connect adds an audio wire from src to dst. If dst is already connected,
// a mixer is inserted in front of it. A mixer that already feeds dst is
// replaced by a wider one unless it feeds other destinations too, so every
// destination has a single flat mixer.
// Mixers are updated with inserted processors; replaced ones are dropped.
func Connect(g *Graph, src, dst Endpoint, mixers *[]processor.Processor) {
	connected, ok := g.Audio.Source(dst)
	if !ok {
		g.Audio.Insert(src, dst)
		return
	}

	if prev, ok := connected.Proc.(*processor.Mix); ok && len(g.Audio.Destinations(connected)) == 1 {
		n := prev.NumInputs()
		mix := processor.NewMix(n + 1)
		for port := 0; port < n; port++ {
			in := At(prev, port)
			for _, s := range g.Audio.Sources(in) {
				g.Audio.Remove(s, in)
				g.Audio.Insert(s, At(mix, port))
			}
		}
		g.Audio.Insert(src, At(mix, n))
		g.Audio.Remove(connected, dst)
		g.Audio.Insert(At(mix, 0), dst)
		if i := mixerIndex(*mixers, prev); i >= 0 {
			(*mixers)[i] = mix
		} else {
			*mixers = append(*mixers, mix)
		}
		return
	}

	mix := processor.NewMix(2)
	g.Audio.Remove(connected, dst)
	g.Audio.Insert(connected, At(mix, 0))
	g.Audio.Insert(src, At(mix, 1))
	g.Audio.Insert(At(mix, 0), dst)
	*mixers = append(*mixers, mix)
}

func mixerIndex(mixers []processor.Processor, p processor.Processor) int {
	return slices.IndexFunc(mixers, func(m processor.Processor) bool {
		return m.ID() == p.ID()
	})
}

// Finalize resolves audio fan-in into mixers and removes passthrough
// processors from audio and event wires. It returns inserted mixers.
// Finalizing a finalized graph changes nothing.
func Finalize(g *Graph) []processor.Processor {
	mixers := ResolveFanIn(g)
	RemoveIdentities(g)
	RemoveEventIdentities(g)
	return mixers
}

// ResolveFanIn replaces multiple audio wires into one input with a mixer
// per input and returns inserted mixers.
func ResolveFanIn(g *Graph) []processor.Processor {
	var mixers []processor.Processor
	for {
		dst, sources := firstFanIn(&g.Audio)
		if sources == nil {
			return mixers
		}
		for _, src := range sources {
			g.Audio.Remove(src, dst)
		}
		// existing mixers first, so they are grown instead of nested
		slices.SortStableFunc(sources, func(a, b Endpoint) int {
			return boolRank(isMix(b.Proc)) - boolRank(isMix(a.Proc))
		})
		for _, src := range sources {
			Connect(g, src, dst, &mixers)
		}
	}
}

func isMix(p processor.Processor) bool {
	_, ok := p.(*processor.Mix)
	return ok
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func firstFanIn(ws *Wires) (Endpoint, []Endpoint) {
	for _, w := range ws.wires {
		if sources := ws.Sources(w.Dst); len(sources) > 1 {
			return w.Dst, sources
		}
	}
	return Endpoint{}, nil
}

// RemoveIdentities removes passthrough processors from audio wires.
func RemoveIdentities(g *Graph) {
	bypassPassthrough(&g.Audio)
}

// RemoveEventIdentities removes passthrough processors from event wires.
func RemoveEventIdentities(g *Graph) {
	bypassPassthrough(&g.Event)
}

// bypassPassthrough splices every wire that starts in a passthrough
// processor to each source of the matching passthrough input, then drops
// wires that still end in one. Several sources stay several wires, so a
// fan-in hidden behind a passthrough is still visible to the compiler.
func bypassPassthrough(ws *Wires) {
	for {
		i := slices.IndexFunc(ws.wires, func(w Wire) bool { return isPassthrough(w.Src.Proc) })
		if i < 0 {
			break
		}
		out := ws.wires[i]
		ws.wires = slices.Delete(ws.wires, i, i+1)
		for _, src := range ws.Sources(out.Src) {
			ws.Insert(src, out.Dst)
		}
	}
	ws.RemoveIf(func(src, dst Endpoint) bool {
		return isPassthrough(src.Proc) || isPassthrough(dst.Proc)
	})
}

func isPassthrough(p processor.Processor) bool {
	_, ok := p.(processor.Passthrough)
	return ok
}
