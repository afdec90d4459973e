package processor

import (
	"fmt"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/slice"
)

type (
	// InputConverter fills a channel buffer with device samples.
	InputConverter func(out []float32)

	// OutputConverter hands a channel signal to the device.
	OutputConverter func(in slice.Slice[float32])

	// Input is the device capture adapter. It has one output per channel.
	Input struct {
		Named
		converters []InputConverter
	}

	// Output is the device playback adapter. It has one input per channel.
	Output struct {
		Named
		converters []OutputConverter
	}
)

// NewInput returns capture adapter. Channels without converter are silent.
func NewInput(converters ...InputConverter) *Input {
	return &Input{
		Named:      NewNamed(fmt.Sprintf("input %d", len(converters))),
		converters: converters,
	}
}

func (*Input) TypeName() string           { return "input" }
func (*Input) NumInputs() int             { return 0 }
func (i *Input) NumOutputs() int          { return len(i.converters) }
func (*Input) EventInputs() []event.Port  { return nil }
func (*Input) EventOutputs() []event.Port { return nil }

// Process reads device samples.
func (i *Input) Process(ctx *Context) {
	Verify(i, ctx)
	for c, convert := range i.converters {
		if convert == nil {
			ctx.Results[c] = Silence
			continue
		}
		convert(ctx.Outputs[c])
	}
}

// NewOutput returns playback adapter.
func NewOutput(converters ...OutputConverter) *Output {
	return &Output{
		Named:      NewNamed(fmt.Sprintf("output %d", len(converters))),
		converters: converters,
	}
}

func (*Output) TypeName() string           { return "output" }
func (o *Output) NumInputs() int           { return len(o.converters) }
func (*Output) NumOutputs() int            { return 0 }
func (*Output) EventInputs() []event.Port  { return nil }
func (*Output) EventOutputs() []event.Port { return nil }

// Process writes signals to the device.
func (o *Output) Process(ctx *Context) {
	Verify(o, ctx)
	for c, convert := range o.converters {
		if convert != nil {
			convert(ctx.Inputs[c])
		}
	}
}
