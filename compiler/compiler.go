// Package compiler turns a finalized graph into a task DAG. Every processor
// becomes one job which gathers its inputs from upstream jobs, runs the
// processor and publishes its results.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"pipelined.dev/engine/dag"
	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/slice"
)

var (
	// ErrUnresolvedFanIn is returned when an audio input has more than one
	// source. Finalize the graph to insert mixers.
	ErrUnresolvedFanIn = errors.New("audio input has multiple sources")
	// ErrEventFanIn is returned when an event input has more than one
	// source. Events are never merged.
	ErrEventFanIn = errors.New("event input has multiple sources")
	// ErrIdentity is returned when a passthrough processor is left in the
	// graph.
	ErrIdentity = errors.New("identity processor not removed")
	// ErrPortRange is returned when a wire references a port which the
	// processor doesn't have.
	ErrPortRange = errors.New("port out of range")
	// ErrEventType is returned when an event wire connects ports of
	// different types.
	ErrEventType = errors.New("event port type mismatch")
)

// Errors are the routing problems found in a graph.
type Errors []error

func (e Errors) Error() string {
	s := make([]string, 0, len(e))
	for _, err := range e {
		s = append(s, err.Error())
	}
	return strings.Join(s, "; ")
}

// Unwrap allows errors.Is to match any of the problems.
func (e Errors) Unwrap() []error {
	return e
}

// ret returns untyped nil if the list is empty.
func (e Errors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}

// Options of compilation.
type Options struct {
	// MaxBufferSize is the largest period the program can run.
	MaxBufferSize int
	// EventsPerPort is the number of events an event output reserves.
	EventsPerPort int
}

// Program is a compiled graph.
type Program struct {
	// DAG has one task per job, task ids match job indices.
	DAG *dag.DAG
	// ArenaSize is the number of arena bytes a thread needs to run every
	// job with EventsPerPort events per output.
	ArenaSize int
	Jobs      []*Job
}

// Job runs a single processor.
type Job struct {
	proc    processor.Processor
	inputs  []*slice.Slice[float32]
	outputs [][]float32
	ctx     processor.Context
}

// silence is referenced by unconnected audio inputs.
var silence = processor.Silence

// Compile validates g and builds the program. All problems are returned at
// once as Errors.
func Compile(g *graph.Graph, opts Options) (*Program, error) {
	if opts.MaxBufferSize <= 0 {
		return nil, fmt.Errorf("invalid max buffer size: %d", opts.MaxBufferSize)
	}
	procs := g.Processors()
	if err := validate(g, procs); err != nil {
		return nil, err
	}

	p := Program{
		DAG:  dag.New(),
		Jobs: make([]*Job, len(procs)),
	}
	index := make(map[string]int, len(procs))
	for i, proc := range procs {
		index[proc.ID()] = i
		p.Jobs[i] = newJob(proc, opts)
		p.DAG.AddTask(p.Jobs[i].Run)
		for _, port := range proc.EventOutputs() {
			p.ArenaSize += port.ArenaBytes(opts.EventsPerPort)
		}
	}

	var errs Errors
	for _, w := range g.Audio.All() {
		src, dst := index[w.Src.Proc.ID()], index[w.Dst.Proc.ID()]
		p.Jobs[dst].inputs[w.Dst.Port] = &p.Jobs[src].ctx.Results[w.Src.Port]
		if err := p.DAG.AddChild(dag.ID(src), dag.ID(dst)); err != nil {
			errs = append(errs, fmt.Errorf("audio %v: %w", w, err))
		}
	}
	for _, w := range g.Event.All() {
		src, dst := index[w.Src.Proc.ID()], index[w.Dst.Proc.ID()]
		p.Jobs[dst].ctx.EventInputs[w.Dst.Port] = p.Jobs[src].ctx.EventOutputs[w.Src.Port]
		if err := p.DAG.AddChild(dag.ID(src), dag.ID(dst)); err != nil {
			errs = append(errs, fmt.Errorf("event %v: %w", w, err))
		}
	}
	if err := errs.ret(); err != nil {
		return nil, err
	}
	return &p, nil
}

// key identifies an endpoint in maps.
type key struct {
	id   string
	port int
}

func keyOf(e graph.Endpoint) key {
	return key{id: e.Proc.ID(), port: e.Port}
}

func validate(g *graph.Graph, procs []processor.Processor) error {
	var errs Errors
	for _, p := range procs {
		if _, ok := p.(processor.Passthrough); ok {
			errs = append(errs, fmt.Errorf("%s: %w", processor.String(p), ErrIdentity))
		}
	}

	sources := make(map[key]int)
	for _, w := range g.Audio.All() {
		if w.Src.Port < 0 || w.Src.Port >= w.Src.Proc.NumOutputs() {
			errs = append(errs, fmt.Errorf("audio output %v: %w", w.Src, ErrPortRange))
		}
		if w.Dst.Port < 0 || w.Dst.Port >= w.Dst.Proc.NumInputs() {
			errs = append(errs, fmt.Errorf("audio input %v: %w", w.Dst, ErrPortRange))
		}
		k := keyOf(w.Dst)
		if sources[k]++; sources[k] == 2 {
			errs = append(errs, fmt.Errorf("audio input %v: %w", w.Dst, ErrUnresolvedFanIn))
		}
	}

	clear(sources)
	for _, w := range g.Event.All() {
		srcPorts, dstPorts := w.Src.Proc.EventOutputs(), w.Dst.Proc.EventInputs()
		srcOK := w.Src.Port >= 0 && w.Src.Port < len(srcPorts)
		dstOK := w.Dst.Port >= 0 && w.Dst.Port < len(dstPorts)
		if !srcOK {
			errs = append(errs, fmt.Errorf("event output %v: %w", w.Src, ErrPortRange))
		}
		if !dstOK {
			errs = append(errs, fmt.Errorf("event input %v: %w", w.Dst, ErrPortRange))
		}
		if srcOK && dstOK && srcPorts[w.Src.Port].Type() != dstPorts[w.Dst.Port].Type() {
			errs = append(errs, fmt.Errorf("event %v: %v into %v: %w", w, srcPorts[w.Src.Port], dstPorts[w.Dst.Port], ErrEventType))
		}
		k := keyOf(w.Dst)
		if sources[k]++; sources[k] == 2 {
			errs = append(errs, fmt.Errorf("event input %v: %w", w.Dst, ErrEventFanIn))
		}
	}
	return errs.ret()
}
