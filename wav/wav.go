// Package wav is an offline device: it reads and writes wav files period by
// period.
package wav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pipelined.dev/engine/signal"
)

// pcmFormat is the wav audio format of integer PCM.
const pcmFormat = 1

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depth is supported")
	// ErrInvalidFile is returned when file isn't a valid wav.
	ErrInvalidFile = errors.New("wav is not valid")
)

type (
	// Reader reads frames from wav file.
	Reader struct {
		file        *os.File
		decoder     *wav.Decoder
		buf         *audio.IntBuffer
		bitDepth    signal.BitDepth
		sampleRate  int
		numChannels int
	}

	// Writer saves frames to wav file.
	Writer struct {
		file     *os.File
		encoder  *wav.Encoder
		buf      *audio.IntBuffer
		bitDepth signal.BitDepth
	}

	// Processor processes one period of frames.
	Processor interface {
		Process(bufferSize int)
	}
)

func supported(bitDepth signal.BitDepth) bool {
	switch bitDepth {
	case signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
		return true
	}
	return false
}

// Open opens wav file for reading.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err := file.Close(); err != nil {
			return nil, fmt.Errorf("%w, failed to close the file %v: %v", ErrInvalidFile, path, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, path)
	}
	bitDepth := signal.BitDepth(decoder.BitDepth)
	if !supported(bitDepth) {
		file.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	return &Reader{
		file:        file,
		decoder:     decoder,
		bitDepth:    bitDepth,
		sampleRate:  int(decoder.SampleRate),
		numChannels: int(decoder.NumChans),
		buf: &audio.IntBuffer{
			Format:         decoder.Format(),
			SourceBitDepth: int(decoder.BitDepth),
		},
	}, nil
}

// SampleRate of the file.
func (r *Reader) SampleRate() int {
	return r.sampleRate
}

// NumChannels of the file.
func (r *Reader) NumChannels() int {
	return r.numChannels
}

// BitDepth of the file.
func (r *Reader) BitDepth() signal.BitDepth {
	return r.bitDepth
}

// Read fills b with next frames. Frames past the end of file are zeroed.
// It returns number of frames read and io.EOF when nothing is left.
func (r *Reader) Read(b *signal.Interleaved) (int, error) {
	n := len(b.Data)
	if cap(r.buf.Data) < n {
		r.buf.Data = make([]int, n)
	}
	r.buf.Data = r.buf.Data[:n]
	read, err := r.decoder.PCMBuffer(r.buf)
	if err != nil {
		return 0, err
	}
	if read == 0 {
		return 0, io.EOF
	}
	r.bitDepth.AsFloat32(r.buf.Data[:read], b.Data[:read])
	clear(b.Data[read:])
	return read / r.numChannels, nil
}

// Close closes the file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Create creates wav file for writing.
func Create(path string, sampleRate, numChannels int, bitDepth signal.BitDepth) (*Writer, error) {
	if !supported(bitDepth) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Writer{
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, int(bitDepth), numChannels, pcmFormat),
		bitDepth: bitDepth,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: numChannels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: int(bitDepth),
		},
	}, nil
}

// Write saves first frames of b.
func (w *Writer) Write(b *signal.Interleaved, frames int) error {
	n := frames * b.NumChannels
	if cap(w.buf.Data) < n {
		w.buf.Data = make([]int, n)
	}
	w.buf.Data = w.buf.Data[:n]
	w.bitDepth.AsInt(b.Data[:n], w.buf.Data)
	return w.encoder.Write(w.buf)
}

// Close flushes encoder and closes the file.
func (w *Writer) Close() error {
	if err := w.encoder.Close(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// Render processes the file read by r period by period and saves the
// result with w. The period size is the number of frames in. Device input
// converters read in and output converters write out. The last period is
// shortened to the frames left. It returns number of frames rendered.
func Render(ctx context.Context, p Processor, r *Reader, in, out *signal.Interleaved, w *Writer) (int, error) {
	var frames int
	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		n, err := r.Read(in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, fmt.Errorf("read: %w", err)
		}
		out.Clear()
		p.Process(n)
		if err := w.Write(out, n); err != nil {
			return frames, fmt.Errorf("write: %w", err)
		}
		frames += n
	}
}
