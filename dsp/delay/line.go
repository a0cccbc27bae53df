package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/interp"
)

// Line is a circular delay line with fractional, Hermite-interpolated taps.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// NewSeconds returns a line long enough for maxSeconds of delay at
// sampleRate, plus the interpolation guard frames.
func NewSeconds(maxSeconds, sampleRate float64) (*Line, error) {
	if maxSeconds <= 0 || sampleRate <= 0 || math.IsNaN(maxSeconds*sampleRate) {
		return nil, fmt.Errorf("delay length must be > 0: %gs at %gHz", maxSeconds, sampleRate)
	}
	return New(int(math.Ceil(maxSeconds*sampleRate)) + 4)
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// MaxDelay returns the largest fractional delay that ReadFractional honours.
func (d *Line) MaxDelay() float64 {
	return float64(len(d.buffer) - 3)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. A delay of 1 returns the most
// recently written sample.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// ReadFractional reads a delay in samples, clamped to [1, MaxDelay], with
// cubic Hermite interpolation.
func (d *Line) ReadFractional(delay float64) float64 {
	if delay < 1 || math.IsNaN(delay) {
		delay = 1
	}
	if maxDelay := d.MaxDelay(); delay > maxDelay {
		delay = maxDelay
	}

	p := int(math.Floor(delay))
	t := delay - float64(p)

	// Larger delays are older samples, so the neighbours run backwards.
	return interp.Hermite4(t, d.Read(p-1), d.Read(p), d.Read(p+1), d.Read(p+2))
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
