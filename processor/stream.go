package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/stream"
)

// Stream writes its inputs into a ring consumed on the control side.
// Frames that don't fit into the ring are dropped.
type Stream struct {
	Named
	ring    *stream.Ring
	dropped int64
}

// NewStream returns stream with one input per ring channel.
func NewStream(name string, ring *stream.Ring) *Stream {
	return &Stream{
		Named: NewNamed(fmt.Sprintf("%s %d", name, ring.NumChannels())),
		ring:  ring,
	}
}

func (*Stream) TypeName() string           { return "stream" }
func (s *Stream) NumInputs() int           { return s.ring.NumChannels() }
func (*Stream) NumOutputs() int            { return 0 }
func (*Stream) EventInputs() []event.Port  { return nil }
func (*Stream) EventOutputs() []event.Port { return nil }

// Process writes a period into the ring.
func (s *Stream) Process(ctx *Context) {
	Verify(s, ctx)
	s.dropped += int64(ctx.BufferSize - s.ring.Write(ctx.Inputs, ctx.BufferSize))
}

// Dropped returns number of frames that didn't fit into the ring. It must
// be called while the stream isn't processed.
func (s *Stream) Dropped() int64 {
	return s.dropped
}
