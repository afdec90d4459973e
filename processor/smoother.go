package processor

import (
	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

// DefaultSmoothLength is the number of frames a Smoother ramps over.
const DefaultSmoothLength = 128

// Smoother turns value events into an audio signal which ramps linearly
// from the current value to every new one. Once settled the result is a
// constant.
type Smoother struct {
	Named
	ports     []event.Port
	length    int
	current   float32
	target    float32
	step      float32
	remaining int
}

// NewSmoother returns smoother starting at initial. Zero length jumps to
// new values immediately.
func NewSmoother(name string, initial float32, length int) *Smoother {
	return &Smoother{
		Named:   NewNamed(name),
		ports:   []event.Port{event.NewPort[float32](name)},
		length:  length,
		current: initial,
		target:  initial,
	}
}

func (*Smoother) TypeName() string            { return "smoother" }
func (*Smoother) NumInputs() int              { return 0 }
func (*Smoother) NumOutputs() int             { return 1 }
func (s *Smoother) EventInputs() []event.Port { return s.ports }
func (*Smoother) EventOutputs() []event.Port  { return nil }

// Running returns true while the value is ramping.
func (s *Smoother) Running() bool {
	return s.remaining > 0
}

// Process renders the ramp.
func (s *Smoother) Process(ctx *Context) {
	Verify(s, ctx)
	values := event.Input[float32](ctx.EventInputs, 0)
	if values.Empty() && !s.Running() {
		ctx.Results[0] = slice.Constant(s.current)
		return
	}
	out := ctx.Outputs[0][:ctx.BufferSize]
	var offset int
	for _, e := range values.Events() {
		s.ramp(out[offset:e.Offset])
		s.set(e.Value)
		offset = e.Offset
	}
	s.ramp(out[offset:])
	ctx.Results[0] = slice.Buffer(out)
}

// set starts a ramp to v. The same target doesn't restart it.
func (s *Smoother) set(v float32) {
	if v == s.target {
		return
	}
	s.target = v
	if s.length <= 0 {
		s.current, s.step, s.remaining = v, 0, 0
		return
	}
	s.step = (v - s.current) / float32(s.length)
	s.remaining = s.length
}

func (s *Smoother) ramp(out []float32) {
	for i := range out {
		if s.remaining > 0 {
			s.remaining--
			if s.remaining == 0 {
				s.current = s.target
			} else {
				s.current += s.step
			}
		}
		out[i] = s.current
	}
}
