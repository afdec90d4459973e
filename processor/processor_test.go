package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/engine/event"
	"pipelined.dev/engine/param"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/slice"
	"pipelined.dev/engine/stream"
)

const bufferSize = 8

func ramp(n int, start float32) []float32 {
	b := make([]float32, n)
	for i := range b {
		b[i] = start + float32(i)
	}
	return b
}

func TestMix(t *testing.T) {
	x := ramp(bufferSize, 1)
	tests := []struct {
		inputs   []slice.Slice[float32]
		expected slice.Slice[float32]
		same     bool
	}{
		{
			inputs:   []slice.Slice[float32]{processor.Silence, processor.Silence},
			expected: processor.Silence,
		},
		{
			inputs:   []slice.Slice[float32]{processor.Silence, slice.Buffer(x)},
			expected: slice.Buffer(x),
			same:     true,
		},
		{
			inputs:   []slice.Slice[float32]{slice.Constant[float32](1), slice.Constant[float32](2), slice.Constant[float32](3)},
			expected: slice.Constant[float32](6),
		},
		{
			inputs:   []slice.Slice[float32]{slice.Buffer(x), slice.Constant[float32](1), slice.Buffer(x), processor.Silence},
			expected: slice.Buffer([]float32{3, 5, 7, 9, 11, 13, 15, 17}),
		},
	}
	for _, test := range tests {
		env := processor.NewEnvironment(processor.NewMix(len(test.inputs)), bufferSize)
		for i, in := range test.inputs {
			env.SetInput(i, in)
		}
		env.Process()
		res := env.Result(0)
		assert.True(t, slice.Equal(test.expected, res))
		assert.Equal(t, test.expected.IsConstant(), res.IsConstant())
		if test.same {
			assert.True(t, slice.SameBuffer(x, res.Buffer()))
		}
	}
	assert.Panics(t, func() { processor.NewMix(1) })
}

func TestIdentity(t *testing.T) {
	x := ramp(bufferSize, 0)
	env := processor.NewEnvironment(processor.NewIdentity(2), bufferSize)
	env.SetInput(0, slice.Buffer(x))
	env.Process()
	assert.True(t, slice.SameBuffer(x, env.Result(0).Buffer()))
	assert.Equal(t, processor.Silence, env.Result(1))

	id := processor.NewEventIdentity[float32]("id")
	assert.Implements(t, (*processor.Passthrough)(nil), id)
	env = processor.NewEnvironment(id, bufferSize)
	event.Input[float32](env.EventInputs(), 0).Insert(2, 0.5)
	env.Process()
	assert.Equal(t, []event.Event[float32]{{Offset: 2, Value: 0.5}}, event.Output[float32](env.EventOutputs(), 0).Events())
}

func TestAmplify(t *testing.T) {
	x := ramp(bufferSize, 1)
	amp := processor.NewAmplify("amp")
	env := processor.NewEnvironment(amp, bufferSize)

	// unity gain passes input through
	env.SetInput(0, slice.Buffer(x))
	env.Process()
	assert.True(t, slice.SameBuffer(x, env.Result(0).Buffer()))

	gains := event.Input[float32](env.EventInputs(), 0)
	gains.Insert(2, 0.5)
	gains.Insert(6, 0)
	env.Process()
	assert.Equal(t, []float32{1, 2, 1.5, 2, 2.5, 3, 0, 0}, env.Result(0).Buffer())

	// gain 0 is kept for following periods
	env.Reset()
	env.Process()
	assert.True(t, env.Result(0).IsConstant())
	assert.Equal(t, float32(0), env.Result(0).Constant())

	// silent input stays silent
	env.SetInput(0, processor.Silence)
	event.Input[float32](env.EventInputs(), 0).Insert(1, 2)
	env.Process()
	assert.Equal(t, processor.Silence, env.Result(0))
}

func TestMultiply(t *testing.T) {
	x := ramp(bufferSize, 1)
	env := processor.NewEnvironment(processor.NewMultiply(3), bufferSize)
	env.SetInput(0, slice.Buffer(x))
	env.SetInput(1, slice.Constant[float32](2))
	env.SetInput(2, slice.Buffer(x))
	env.Process()
	assert.Equal(t, []float32{2, 8, 18, 32, 50, 72, 98, 128}, env.Result(0).Buffer())

	env.SetInput(1, processor.Silence)
	env.Process()
	assert.Equal(t, processor.Silence, env.Result(0))
}

func TestSelect(t *testing.T) {
	a, b := ramp(bufferSize, 1), ramp(bufferSize, 11)
	sel := processor.NewSelect("sel", 2)
	env := processor.NewEnvironment(sel, bufferSize)
	env.SetInput(0, slice.Buffer(a))
	env.SetInput(1, slice.Buffer(b))

	env.Process()
	assert.True(t, slice.SameBuffer(a, env.Result(0).Buffer()))

	selects := event.Input[int](env.EventInputs(), 0)
	selects.Insert(2, 1)
	selects.Insert(4, 5)
	selects.Insert(6, 0)
	env.Process()
	assert.Equal(t, []float32{1, 2, 13, 14, 0, 0, 7, 8}, env.Result(0).Buffer())
}

func TestPanVolume(t *testing.T) {
	pv := processor.NewPanVolume("pv")
	env := processor.NewEnvironment(pv, bufferSize)

	env.Process()
	assert.True(t, event.Output[float32](env.EventOutputs(), 0).Empty())
	assert.True(t, event.Output[float32](env.EventOutputs(), 1).Empty())

	event.Input[float32](env.EventInputs(), 0).Insert(1, 1)
	event.Input[float32](env.EventInputs(), 1).Insert(3, 0.5)
	env.Process()

	l1, r1 := processor.Pan(1)
	l3, r3 := processor.Pan(1)
	left := event.Output[float32](env.EventOutputs(), 0).Events()
	right := event.Output[float32](env.EventOutputs(), 1).Events()
	assert.Equal(t, []event.Event[float32]{{Offset: 1, Value: l1}, {Offset: 3, Value: l3 * 0.5}}, left)
	assert.Equal(t, []event.Event[float32]{{Offset: 1, Value: r1}, {Offset: 3, Value: r3 * 0.5}}, right)

	// state is carried to the next period
	env.Reset()
	event.Input[float32](env.EventInputs(), 0).Insert(0, 0)
	env.Process()
	l0, r0 := processor.Pan(0)
	assert.Equal(t, []event.Event[float32]{{Offset: 0, Value: l0 * 0.5}}, event.Output[float32](env.EventOutputs(), 0).Events())
	assert.Equal(t, []event.Event[float32]{{Offset: 0, Value: r0 * 0.5}}, event.Output[float32](env.EventOutputs(), 1).Events())
}

func TestPan(t *testing.T) {
	l, r := processor.Pan(0)
	assert.InDelta(t, 0.7071, l, 1e-4)
	assert.InDelta(t, 0.7071, r, 1e-4)
	l, r = processor.Pan(-1)
	assert.InDelta(t, 1, l, 1e-6)
	assert.InDelta(t, 0, r, 1e-6)
	l, r = processor.Pan(1)
	assert.InDelta(t, 0, l, 1e-6)
	assert.InDelta(t, 1, r, 1e-6)
}

func TestEventToAudio(t *testing.T) {
	env := processor.NewEnvironment(processor.NewEventToAudio("e2a"), bufferSize)
	env.Process()
	assert.Equal(t, processor.Silence, env.Result(0))

	event.Input[float32](env.EventInputs(), 0).Insert(3, 1)
	env.Process()
	assert.Equal(t, []float32{0, 0, 0, 1, 1, 1, 1, 1}, env.Result(0).Buffer())

	env.Reset()
	env.Process()
	assert.Equal(t, slice.Constant[float32](1), env.Result(0))
}

func TestSmoother(t *testing.T) {
	s := processor.NewSmoother("gain", 0, 4)
	env := processor.NewEnvironment(s, bufferSize)
	env.Process()
	assert.Equal(t, slice.Constant[float32](0), env.Result(0))

	event.Input[float32](env.EventInputs(), 0).Insert(2, 1)
	env.Process()
	assert.Equal(t, []float32{0, 0, 0.25, 0.5, 0.75, 1, 1, 1}, env.Result(0).Buffer())
	assert.False(t, s.Running())

	env.Reset()
	env.Process()
	assert.Equal(t, slice.Constant[float32](1), env.Result(0))

	// same target doesn't ramp
	event.Input[float32](env.EventInputs(), 0).Insert(0, 1)
	env.Process()
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1, 1, 1}, env.Result(0).Buffer())
	assert.False(t, s.Running())

	// ramp continues into the next period
	env.Reset()
	event.Input[float32](env.EventInputs(), 0).Insert(6, 3)
	env.Process()
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1, 1.5, 2}, env.Result(0).Buffer())
	assert.True(t, s.Running())
	env.Reset()
	env.Process()
	assert.Equal(t, []float32{2.5, 3, 3, 3, 3, 3, 3, 3}, env.Result(0).Buffer())
	env.Process()
	assert.Equal(t, slice.Constant[float32](3), env.Result(0))
}

func TestSmootherWithoutLength(t *testing.T) {
	env := processor.NewEnvironment(processor.NewSmoother("gain", 0, 0), bufferSize)
	event.Input[float32](env.EventInputs(), 0).Insert(4, 2)
	env.Process()
	assert.Equal(t, []float32{0, 0, 0, 0, 2, 2, 2, 2}, env.Result(0).Buffer())
}

func TestStream(t *testing.T) {
	ring := stream.NewRing(2, bufferSize)
	s := processor.NewStream("meter", ring)
	assert.Equal(t, 2, s.NumInputs())

	env := processor.NewEnvironment(s, bufferSize)
	env.SetInput(0, slice.Buffer(ramp(bufferSize, 1)))
	env.SetInput(1, slice.Constant[float32](0.5))
	env.Process()
	assert.Equal(t, [][]float32{ramp(bufferSize, 1), {0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}}, ring.Consume())

	env.Process()
	env.Process()
	assert.Equal(t, int64(bufferSize), s.Dropped())
	assert.Equal(t, bufferSize, ring.Available())
}

func TestValueInputOutput(t *testing.T) {
	volume := param.New[float32](0.5)
	in := processor.NewValueInput("volume", volume.Slot())
	env := processor.NewEnvironment(in, bufferSize)

	env.Process()
	assert.Equal(t, []event.Event[float32]{{Offset: 0, Value: 0.5}}, event.Output[float32](env.EventOutputs(), 0).Events())
	env.Process()
	assert.True(t, event.Output[float32](env.EventOutputs(), 0).Empty())

	volume.Slot().Push(0.75)
	env.Process()
	assert.Equal(t, []event.Event[float32]{{Offset: 0, Value: 0.75}}, event.Output[float32](env.EventOutputs(), 0).Events())

	out := processor.NewValueOutput[int]("level")
	_, ok := out.Get()
	assert.False(t, ok)
	env = processor.NewEnvironment(out, bufferSize)
	levels := event.Input[int](env.EventInputs(), 0)
	levels.Insert(1, 3)
	levels.Insert(5, 7)
	env.Process()
	v, ok := out.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestDevice(t *testing.T) {
	var captured []slice.Slice[float32]
	in := processor.NewInput(func(out []float32) { copy(out, ramp(bufferSize, 1)) }, nil)
	out := processor.NewOutput(
		func(s slice.Slice[float32]) { captured = append(captured, s) },
		nil,
	)

	env := processor.NewEnvironment(in, bufferSize)
	env.Process()
	assert.Equal(t, ramp(bufferSize, 1), env.Result(0).Buffer())
	assert.Equal(t, processor.Silence, env.Result(1))

	outEnv := processor.NewEnvironment(out, bufferSize)
	outEnv.SetInput(0, env.Result(0))
	outEnv.Process()
	assert.Equal(t, 1, len(captured))
	assert.Equal(t, ramp(bufferSize, 1), captured[0].Buffer())
}

func TestVerify(t *testing.T) {
	mix := processor.NewMix(2)
	assert.Panics(t, func() {
		mix.Process(&processor.Context{Inputs: make([]slice.Slice[float32], 3)})
	})
	assert.Equal(t, "mix mix 2", processor.String(mix))
}
