// Package wavio reads and writes PCM WAV files for the slicer and the
// offline renderer.
package wavio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-groovebox/dsp/slicer"
)

// DefaultBitDepth is the sample width used by the renderer.
const DefaultBitDepth = 16

var (
	// ErrInvalidFile is returned for streams without a RIFF/WAVE header.
	ErrInvalidFile = errors.New("wavio: not a WAV file")
	// ErrUnsupportedFormat is returned for non-PCM encodings.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
)

var _ slicer.Decoder = Decoder{}

// Decoder implements slicer.Decoder for PCM WAV.
type Decoder struct{}

// Decode reads the whole stream into a buffer.
func (Decoder) Decode(ctx context.Context, r io.Reader) (*slicer.Buffer, error) {
	return Read(ctx, r)
}

// Read decodes 8, 16, 24 or 32 bit integer PCM into samples in [-1, 1).
// Streams that cannot seek are read into memory first.
func Read(ctx context.Context, r io.Reader) (*slicer.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("wavio: read: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	d := wav.NewDecoder(rs)
	if !d.IsValidFile() {
		return nil, ErrInvalidFile
	}
	if d.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}

	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chans := int(d.NumChans)
	depth := int(d.BitDepth)
	if chans < 1 || depth < 8 || depth > 32 {
		return nil, fmt.Errorf("%w: %d channels, %d bits", ErrUnsupportedFormat, chans, depth)
	}

	frames := len(pcm.Data) / chans
	channels := make([][]float64, chans)
	for c := range channels {
		channels[c] = make([]float64, frames)
	}

	scale := 1 / math.Exp2(float64(depth-1))
	offset := 0
	if depth == 8 {
		offset = 128
	}
	for i := 0; i < frames; i++ {
		for c := range channels {
			channels[c][i] = float64(pcm.Data[i*chans+c]-offset) * scale
		}
	}
	return slicer.NewBuffer(float64(d.SampleRate), channels...)
}

// WriteInterleaved encodes interleaved float samples as integer PCM.
// Samples are clipped to [-1, 1].
func WriteInterleaved(w io.WriteSeeker, sampleRate, channels, bitDepth int, data []float32) error {
	if sampleRate <= 0 || channels < 1 {
		return fmt.Errorf("wavio: invalid stream %d Hz, %d channels", sampleRate, channels)
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedFormat, bitDepth)
	}

	full := math.Exp2(float64(bitDepth-1)) - 1
	ints := make([]int, len(data))
	for i, v := range data {
		x := math.Max(-1, math.Min(1, float64(v)))
		ints[i] = int(math.Round(x * full))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           ints,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// Write encodes planar channels of equal length.
func Write(w io.WriteSeeker, sampleRate, bitDepth int, channels ...[]float64) error {
	if len(channels) == 0 {
		return errors.New("wavio: no channels")
	}
	n := len(channels[0])
	data := make([]float32, 0, n*len(channels))
	for i := 0; i < n; i++ {
		for c, ch := range channels {
			if len(ch) != n {
				return fmt.Errorf("wavio: channel %d has %d frames, want %d", c, len(ch), n)
			}
			data = append(data, float32(ch[i]))
		}
	}
	return WriteInterleaved(w, sampleRate, len(channels), bitDepth, data)
}
