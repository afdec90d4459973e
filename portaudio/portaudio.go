// Package portaudio is a real-time device: the portaudio callback drives
// the engine one period at a time.
package portaudio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/engine/signal"
)

type (
	// Engine runs periods on the device thread.
	Engine interface {
		Process(bufferSize int)
		Start()
		Stop()
	}

	// Device is a duplex stream of the default devices. Input converters
	// read the in buffer and output converters write the out buffer.
	Device struct {
		engine Engine
		stream *portaudio.Stream
		in     *signal.Interleaved
		out    *signal.Interleaved
	}
)

// Open initializes portaudio and opens the default stream with channels of
// in and out.
func Open(e Engine, sampleRate, periodSize int, in, out *signal.Interleaved) (*Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	d := &Device{
		engine: e,
		in:     in,
		out:    out,
	}
	stream, err := portaudio.OpenDefaultStream(in.NumChannels, out.NumChannels, float64(sampleRate), periodSize, d.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open default stream: %w", err)
	}
	d.stream = stream
	return d, nil
}

// process is the stream callback.
func (d *Device) process(in, out []float32) {
	d.in.Data = in
	d.out.Data = out
	frames := d.out.Frames()
	if d.out.NumChannels == 0 {
		frames = d.in.Frames()
	}
	d.out.Clear()
	d.engine.Process(frames)
}

// Start starts the engine and the stream.
func (d *Device) Start() error {
	d.engine.Start()
	if err := d.stream.Start(); err != nil {
		d.engine.Stop()
		return err
	}
	return nil
}

// Stop stops the stream and the engine.
func (d *Device) Stop() error {
	err := d.stream.Stop()
	d.engine.Stop()
	return err
}

// Close closes the stream and terminates portaudio.
func (d *Device) Close() error {
	if err := d.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}
