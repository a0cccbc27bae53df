package slicer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrDecode wraps every decoder failure returned by Load.
var ErrDecode = errors.New("slicer: decode failed")

// Buffer is decoded PCM audio. Channels hold samples in [-1, 1] and share
// one length.
type Buffer struct {
	SampleRate float64
	Channels   [][]float64
}

// NewBuffer validates channels and returns a buffer.
func NewBuffer(sampleRate float64, channels ...[]float64) (*Buffer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("slicer buffer sample rate must be > 0 and finite: %f", sampleRate)
	}
	if len(channels) == 0 {
		return nil, errors.New("slicer buffer needs at least one channel")
	}
	for i, ch := range channels {
		if len(ch) != len(channels[0]) {
			return nil, fmt.Errorf("slicer buffer channel %d has %d frames, want %d", i, len(ch), len(channels[0]))
		}
	}
	return &Buffer{SampleRate: sampleRate, Channels: channels}, nil
}

// Frames returns the length in frames.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the length in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.SampleRate
}

// Mono returns the average of all channels.
func (b *Buffer) Mono() []float64 {
	n := b.Frames()
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	for _, ch := range b.Channels {
		for i, v := range ch {
			out[i] += v
		}
	}
	scale := 1 / float64(len(b.Channels))
	for i := range out {
		out[i] *= scale
	}
	return out
}

// Decoder turns an encoded audio stream into a Buffer.
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (*Buffer, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, r io.Reader) (*Buffer, error)

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, r io.Reader) (*Buffer, error) {
	return f(ctx, r)
}
