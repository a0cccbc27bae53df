package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const (
	DefaultFFTSize   = 64
	DefaultSmoothing = 0.8

	// MinDecibels is reported for bins with zero energy.
	MinDecibels = -100.0
)

// Analyser keeps the most recent FFTSize input samples and turns them into a
// Blackman-windowed, time-smoothed magnitude spectrum of FFTSize/2 bins.
// Magnitudes are normalized by FFTSize, so a full-scale sine centred on a bin
// reads about 0.21 after windowing.
//
// Analyser is not safe for concurrent use.
type Analyser struct {
	size      int
	smoothing float64
	plan      *algofft.Plan[complex128]

	window []float64
	ring   []float64
	pos    int

	frame    []complex128
	spec     []complex128
	re, im   []float64
	mag      []float64
	smoothed []float64
}

// Option configures an Analyser.
type Option func(*Analyser) error

// WithFFTSize sets the analysis size, a power of two in [32, 32768].
func WithFFTSize(n int) Option {
	return func(a *Analyser) error {
		if n < 32 || n > 32768 || n&(n-1) != 0 {
			return fmt.Errorf("spectrum: fft size must be a power of two in [32, 32768]: %d", n)
		}
		a.size = n
		return nil
	}
}

// WithSmoothing sets the time-smoothing constant in [0, 1).
func WithSmoothing(s float64) Option {
	return func(a *Analyser) error {
		if s < 0 || s >= 1 || math.IsNaN(s) {
			return fmt.Errorf("spectrum: smoothing must be in [0, 1): %f", s)
		}
		a.smoothing = s
		return nil
	}
}

// NewAnalyser creates an analyser with a 64-point FFT and 0.8 smoothing
// unless overridden.
func NewAnalyser(opts ...Option) (*Analyser, error) {
	a := &Analyser{size: DefaultFFTSize, smoothing: DefaultSmoothing}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(a.size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	bins := a.size / 2
	a.plan = plan
	a.window = blackman(a.size)
	a.ring = make([]float64, a.size)
	a.frame = make([]complex128, a.size)
	a.spec = make([]complex128, a.size)
	a.re = make([]float64, bins)
	a.im = make([]float64, bins)
	a.mag = make([]float64, bins)
	a.smoothed = make([]float64, bins)
	return a, nil
}

// FFTSize returns the analysis size.
func (a *Analyser) FFTSize() int { return a.size }

// Bins returns the number of spectrum bins.
func (a *Analyser) Bins() int { return a.size / 2 }

// Write appends samples to the analysis window.
func (a *Analyser) Write(samples []float64) {
	for _, x := range samples {
		a.ring[a.pos] = x
		a.pos++
		if a.pos == a.size {
			a.pos = 0
		}
	}
}

// WriteStereo appends the mid (L+R)/2 signal of a stereo block.
func (a *Analyser) WriteStereo(l, r []float64) {
	for i := range l {
		a.ring[a.pos] = 0.5 * (l[i] + r[i])
		a.pos++
		if a.pos == a.size {
			a.pos = 0
		}
	}
}

// Update analyses the current window and folds it into the smoothed
// spectrum.
func (a *Analyser) Update() error {
	for i := range a.frame {
		x := a.ring[(a.pos+i)%a.size]
		a.frame[i] = complex(x*a.window[i], 0)
	}
	if err := a.plan.Forward(a.spec, a.frame); err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	scale := 1 / float64(a.size)
	for k := range a.re {
		a.re[k] = real(a.spec[k]) * scale
		a.im[k] = imag(a.spec[k]) * scale
	}
	vecmath.Magnitude(a.mag, a.re, a.im)

	for k, m := range a.mag {
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*m
	}
	return nil
}

// Magnitudes copies the smoothed linear magnitudes into dst and returns the
// number of bins written.
func (a *Analyser) Magnitudes(dst []float64) int {
	return copy(dst, a.smoothed)
}

// Decibels writes the smoothed magnitudes in dB, floored at MinDecibels.
func (a *Analyser) Decibels(dst []float64) int {
	n := len(dst)
	if n > len(a.smoothed) {
		n = len(a.smoothed)
	}
	for k := 0; k < n; k++ {
		m := a.smoothed[k]
		if m <= 0 {
			dst[k] = MinDecibels
			continue
		}
		dst[k] = math.Max(MinDecibels, 20*math.Log10(m))
	}
	return n
}

// Reset clears the window and the smoothed spectrum.
func (a *Analyser) Reset() {
	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
}

func blackman(n int) []float64 {
	const alpha = 0.16
	a0, a1, a2 := (1-alpha)/2, 0.5, alpha/2
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
