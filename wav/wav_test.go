package wav_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/engine"
	"pipelined.dev/engine/graph"
	"pipelined.dev/engine/log"
	"pipelined.dev/engine/processor"
	"pipelined.dev/engine/signal"
	"pipelined.dev/engine/wav"
)

const (
	sampleRate  = 44100
	numChannels = 2
	frames      = 1000
	periodSize  = 256
)

// ramp writes stereo file where left channel rises and right is constant.
func ramp(t *testing.T, path string, bitDepth signal.BitDepth) {
	t.Helper()
	w, err := wav.Create(path, sampleRate, numChannels, bitDepth)
	require.NoError(t, err)
	b := signal.NewInterleaved(numChannels, frames)
	for i := 0; i < frames; i++ {
		b.Data[i*numChannels] = float32(i) / frames
		b.Data[i*numChannels+1] = -0.5
	}
	require.NoError(t, w.Write(b, frames))
	require.NoError(t, w.Close())
}

func TestReadWrite(t *testing.T) {
	for _, bitDepth := range []signal.BitDepth{signal.BitDepth16, signal.BitDepth24, signal.BitDepth32} {
		path := filepath.Join(t.TempDir(), "ramp.wav")
		ramp(t, path, bitDepth)

		r, err := wav.Open(path)
		require.NoError(t, err)
		assert.Equal(t, sampleRate, r.SampleRate())
		assert.Equal(t, numChannels, r.NumChannels())
		assert.Equal(t, bitDepth, r.BitDepth())

		b := signal.NewInterleaved(numChannels, periodSize)
		read, periods := 0, 0
		for {
			n, err := r.Read(b)
			if err != nil {
				break
			}
			for i := 0; i < n; i++ {
				assert.InDelta(t, float32(read+i)/frames, b.Data[i*numChannels], 1e-3)
				assert.InDelta(t, -0.5, b.Data[i*numChannels+1], 1e-3)
			}
			read += n
			periods++
		}
		assert.Equal(t, frames, read)
		assert.Equal(t, 4, periods)
		// tail of the last period is silent
		assert.Zero(t, b.Data[len(b.Data)-1])
		require.NoError(t, r.Close())
	}
}

func TestUnsupported(t *testing.T) {
	_, err := wav.Create(filepath.Join(t.TempDir(), "out.wav"), sampleRate, 1, signal.BitDepth8)
	assert.ErrorIs(t, err, wav.ErrUnsupportedBitDepth)

	_, err = wav.Open(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "text.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0o600))
	_, err = wav.Open(path)
	assert.ErrorIs(t, err, wav.ErrInvalidFile)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	inPath, outPath := filepath.Join(dir, "in.wav"), filepath.Join(dir, "out.wav")
	ramp(t, inPath, signal.BitDepth16)

	r, err := wav.Open(inPath)
	require.NoError(t, err)
	defer r.Close()
	w, err := wav.Create(outPath, r.SampleRate(), r.NumChannels(), r.BitDepth())
	require.NoError(t, err)

	in := signal.NewInterleaved(r.NumChannels(), periodSize)
	out := signal.NewInterleaved(r.NumChannels(), periodSize)
	input := processor.NewInput(in.Reader(0), in.Reader(1))
	output := processor.NewOutput(out.Writer(1), out.Writer(0))
	amp := processor.NewMultiply(2)

	// swap channels and square the left one
	g := &graph.Graph{}
	g.Audio.Insert(graph.At(input, 0), graph.At(amp, 0))
	g.Audio.Insert(graph.At(input, 0), graph.At(amp, 1))
	g.Audio.Insert(graph.At(amp, 0), graph.At(output, 0))
	g.Audio.Insert(graph.At(input, 1), graph.At(output, 1))

	e, err := engine.New(engine.WithLogger(log.Discard()))
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.Rebuild(context.Background(), g))

	rendered, err := wav.Render(context.Background(), e, r, in, out, w)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, frames, rendered)

	result, err := wav.Open(outPath)
	require.NoError(t, err)
	defer result.Close()
	b := signal.NewInterleaved(numChannels, frames)
	n, err := result.Read(b)
	require.NoError(t, err)
	assert.Equal(t, frames, n)
	for i := 0; i < frames; i++ {
		v := float32(i) / frames
		assert.InDelta(t, -0.5, b.Data[i*numChannels], 1e-3)
		assert.InDelta(t, v*v, b.Data[i*numChannels+1], 1e-3)
	}
}

func TestRenderCanceled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	ramp(t, path, signal.BitDepth16)
	r, err := wav.Open(path)
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := signal.NewInterleaved(numChannels, periodSize)
	_, err = wav.Render(ctx, nil, r, in, in, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
