package processor

import (
	"math"

	"pipelined.dev/engine/event"
)

// PanVolume converts pan and volume events into left and right gain events.
// Events of both inputs are merged by offset; every merged step produces one
// event per output.
type PanVolume struct {
	Named
	inputs  []event.Port
	outputs []event.Port
	pan     float32
	volume  float32
}

// NewPanVolume returns converter with centered pan and unity volume.
func NewPanVolume(name string) *PanVolume {
	return &PanVolume{
		Named: NewNamed(name),
		inputs: []event.Port{
			event.NewPort[float32]("pan"),
			event.NewPort[float32]("volume"),
		},
		outputs: []event.Port{
			event.NewPort[float32]("gain L"),
			event.NewPort[float32]("gain R"),
		},
		volume: 1,
	}
}

func (*PanVolume) TypeName() string             { return "pan_volume" }
func (*PanVolume) NumInputs() int               { return 0 }
func (*PanVolume) NumOutputs() int              { return 0 }
func (p *PanVolume) EventInputs() []event.Port  { return p.inputs }
func (p *PanVolume) EventOutputs() []event.Port { return p.outputs }

// Process emits gains at offsets of pan and volume changes.
func (p *PanVolume) Process(ctx *Context) {
	Verify(p, ctx)
	pans := event.Input[float32](ctx.EventInputs, 0)
	volumes := event.Input[float32](ctx.EventInputs, 1)
	if pans.Empty() && volumes.Empty() {
		return
	}
	left := event.Output[float32](ctx.EventOutputs, 0)
	right := event.Output[float32](ctx.EventOutputs, 1)
	p.pan, p.volume = event.Lockstep(func(offset int, pan, volume float32) {
		l, r := Pan(pan)
		left.Insert(offset, l*volume)
		right.Insert(offset, r*volume)
	}, p.pan, p.volume, pans, volumes)
}

// Pan returns sinusoidal constant power gains for pan position in [-1, 1].
func Pan(pos float32) (left, right float32) {
	sin, cos := math.Sincos(float64(pos) * math.Pi / 4)
	return float32((cos - sin) / math.Sqrt2), float32((cos + sin) / math.Sqrt2)
}
