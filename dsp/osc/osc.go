package osc

import (
	"math"
	"strings"
)

// Waveform selects the oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
	Sawtooth
)

var waveformNames = [...]string{"sine", "triangle", "square", "sawtooth"}

// String returns the lowercase waveform name.
func (w Waveform) String() string {
	if w < Sine || w > Sawtooth {
		return "unknown"
	}
	return waveformNames[w]
}

// ParseWaveform resolves a waveform by name. "saw" is accepted as an alias
// for sawtooth.
func ParseWaveform(name string) (Waveform, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "saw" {
		return Sawtooth, true
	}
	for i, n := range waveformNames {
		if n == name {
			return Waveform(i), true
		}
	}
	return Sine, false
}

// Oscillator is a phase-accumulating periodic source. All shapes start at
// zero phase with a rising zero crossing, except Square which starts high.
// Square and Sawtooth are band-limited with PolyBLEP residuals.
type Oscillator struct {
	sampleRate float64
	wave       Waveform
	phase      float64
}

// New returns an oscillator at phase 0.
func New(sampleRate float64, wave Waveform) *Oscillator {
	return &Oscillator{sampleRate: sampleRate, wave: wave}
}

// Waveform returns the current shape.
func (o *Oscillator) Waveform() Waveform { return o.wave }

// SetWaveform changes the shape without resetting phase.
func (o *Oscillator) SetWaveform(w Waveform) { o.wave = w }

// Phase returns the normalized phase in [0, 1).
func (o *Oscillator) Phase() float64 { return o.phase }

// Reset sets the normalized phase, wrapped into [0, 1).
func (o *Oscillator) Reset(phase float64) {
	o.phase = phase - math.Floor(phase)
}

// Next returns the current sample and advances the phase by freq/sampleRate.
// Negative frequencies run the phase backwards.
func (o *Oscillator) Next(freq float64) float64 {
	inc := freq / o.sampleRate
	dt := math.Min(math.Abs(inc), 0.5)
	p := o.phase

	var y float64
	switch o.wave {
	case Triangle:
		switch {
		case p < 0.25:
			y = 4 * p
		case p < 0.75:
			y = 2 - 4*p
		default:
			y = 4*p - 4
		}
	case Square:
		if p < 0.5 {
			y = 1
		} else {
			y = -1
		}
		y += polyBLEP(p, dt) - polyBLEP(wrap(p+0.5), dt)
	case Sawtooth:
		t := wrap(p + 0.5)
		y = 2*t - 1 - polyBLEP(t, dt)
	default:
		y = math.Sin(2 * math.Pi * p)
	}

	o.phase = wrap(p + inc)
	return y
}

// Fill writes successive samples at a fixed frequency into dst.
func (o *Oscillator) Fill(dst []float64, freq float64) {
	for i := range dst {
		dst[i] = o.Next(freq)
	}
}

func wrap(p float64) float64 {
	return p - math.Floor(p)
}

// polyBLEP returns the band-limited step residual around a unit
// discontinuity at t = 0 for phase increment dt.
func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
