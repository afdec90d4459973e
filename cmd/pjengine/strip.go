package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/param"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
	"pipelined.dev/engine/stream"
)

// strip routes device inputs through pan and volume into a stereo output.
// A mono input feeds both sides. Gain changes are smoothed.
type strip struct {
	pan    *param.Param[float32]
	volume *param.Param[float32]
	pusher *param.Pusher
	// last pushed values, smoothers start from them
	panValue    float32
	volumeValue float32
	meter       *meter
}

func newStrip() *strip {
	s := strip{
		pan:         param.New[float32](0),
		volume:      param.New[float32](1),
		volumeValue: 1,
	}
	s.pusher = param.NewPusher(s.pan, s.volume)
	return &s
}

// withMeter taps the strip output into a ring of frames per channel.
func (s *strip) withMeter(frames int) *strip {
	s.meter = newMeter(stream.NewRing(2, frames))
	return s
}

// set pushes pan and volume to the engine.
func (s *strip) set(pan, volume float32) {
	s.panValue, s.volumeValue = pan, volume
	s.pusher.Put(s.pan.Set(pan), s.volume.Set(volume))
	s.pusher.Push()
}

func (s *strip) graph(in *processor.Input, out *processor.Output) *graph.Graph {
	pan := processor.NewValueInput("pan", s.pan.Slot())
	volume := processor.NewValueInput("volume", s.volume.Slot())
	gains := processor.NewPanVolume("strip")
	l, r := processor.Pan(s.panValue)
	leftGain := processor.NewSmoother("gain L", l*s.volumeValue, processor.DefaultSmoothLength)
	rightGain := processor.NewSmoother("gain R", r*s.volumeValue, processor.DefaultSmoothLength)
	left, right := processor.NewMultiply(2), processor.NewMultiply(2)
	bus := processor.NewIdentity(2)

	g := graph.Graph{}
	g.Event.Insert(graph.At(pan, 0), graph.At(gains, 0))
	g.Event.Insert(graph.At(volume, 0), graph.At(gains, 1))
	g.Event.Insert(graph.At(gains, 0), graph.At(leftGain, 0))
	g.Event.Insert(graph.At(gains, 1), graph.At(rightGain, 0))
	g.Audio.Insert(graph.At(leftGain, 0), graph.At(left, 1))
	g.Audio.Insert(graph.At(rightGain, 0), graph.At(right, 1))

	if in.NumOutputs() > 0 {
		g.Audio.Insert(graph.At(in, 0), graph.At(left, 0))
		g.Audio.Insert(graph.At(in, min(1, in.NumOutputs()-1)), graph.At(right, 0))
	}
	g.Audio.Insert(graph.At(left, 0), graph.At(bus, 0))
	g.Audio.Insert(graph.At(right, 0), graph.At(bus, 1))
	for c := 0; c < min(2, out.NumInputs()); c++ {
		g.Audio.Insert(graph.At(bus, c), graph.At(out, c))
	}
	if s.meter != nil {
		tap := processor.NewStream("meter", s.meter.ring)
		g.Audio.Insert(graph.At(bus, 0), graph.At(tap, 0))
		g.Audio.Insert(graph.At(bus, 1), graph.At(tap, 1))
	}
	return &g
}

// meter tracks peak levels streamed out of the engine.
type meter struct {
	ring  *stream.Ring
	peaks []float32
}

func newMeter(ring *stream.Ring) *meter {
	return &meter{
		ring:  ring,
		peaks: make([]float32, ring.NumChannels()),
	}
}

func (m *meter) update() {
	for c, samples := range m.ring.Consume() {
		for _, v := range samples {
			m.peaks[c] = max(m.peaks[c], float32(math.Abs(float64(v))))
		}
	}
}

// run consumes the ring every interval until ctx is done.
func (m *meter) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.update()
			return nil
		case <-ticker.C:
			m.update()
		}
	}
}

func (m *meter) String() string {
	return fmt.Sprintf("peak: L %.3f R %.3f", m.peaks[0], m.peaks[1])
}

func readers(b *signal.Interleaved) []processor.InputConverter {
	converters := make([]processor.InputConverter, b.NumChannels)
	for c := range converters {
		converters[c] = b.Reader(c)
	}
	return converters
}

func writers(b *signal.Interleaved) []processor.OutputConverter {
	converters := make([]processor.OutputConverter, b.NumChannels)
	for c := range converters {
		converters[c] = b.Writer(c)
	}
	return converters
}
