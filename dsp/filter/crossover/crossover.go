package crossover

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/filter/biquad"
	"github.com/cwbudde/algo-groovebox/dsp/filter/design"
)

// DefaultQ is the per-section quality factor of the 24 dB/oct split.
const DefaultQ = 0.5

// Crossover is a two-way split built from two identical cascaded biquads per
// side (24 dB/oct). The lowpass and highpass sides can be driven with the
// same input or with independent inputs.
type Crossover struct {
	lp   *biquad.Chain
	hp   *biquad.Chain
	freq float64
	q    float64
	sr   float64
}

// Option configures a Crossover.
type Option func(*Crossover) error

// WithQ overrides the per-section quality factor.
func WithQ(q float64) Option {
	return func(c *Crossover) error {
		if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("crossover: q must be > 0 and finite: %v", q)
		}
		c.q = q
		return nil
	}
}

// New creates a crossover at freq Hz.
func New(freq, sampleRate float64, opts ...Option) (*Crossover, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("crossover: sample rate must be positive, got %v", sampleRate)
	}
	if freq <= 0 || freq >= sampleRate/2 {
		return nil, fmt.Errorf("crossover: frequency must be in (0, %v), got %v", sampleRate/2, freq)
	}

	c := &Crossover{
		lp: biquad.NewChain(biquad.Coefficients{}, biquad.Coefficients{}),
		hp: biquad.NewChain(biquad.Coefficients{}, biquad.Coefficients{}),
		q:  DefaultQ,
		sr: sampleRate,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.SetFrequency(freq)

	return c, nil
}

// SetFrequency redesigns both sides at freq, clamped to [10 Hz, 0.49*fs].
// Filter state is kept so the split can be swept while running.
func (c *Crossover) SetFrequency(freq float64) {
	freq = design.ClampFrequency(freq, 10, c.sr)
	if freq == c.freq {
		return
	}
	c.freq = freq
	c.lp.SetAll(design.Lowpass(freq, c.q, c.sr))
	c.hp.SetAll(design.Highpass(freq, c.q, c.sr))
}

// ProcessSample feeds x to both sides and returns the low and high outputs.
func (c *Crossover) ProcessSample(x float64) (lo, hi float64) {
	return c.lp.ProcessSample(x), c.hp.ProcessSample(x)
}

// Lowpass filters x through the low side only.
func (c *Crossover) Lowpass(x float64) float64 { return c.lp.ProcessSample(x) }

// Highpass filters x through the high side only.
func (c *Crossover) Highpass(x float64) float64 { return c.hp.ProcessSample(x) }

// LP returns the lowpass chain for inspection or analysis.
func (c *Crossover) LP() *biquad.Chain { return c.lp }

// HP returns the highpass chain for inspection or analysis.
func (c *Crossover) HP() *biquad.Chain { return c.hp }

// Freq returns the crossover frequency in Hz.
func (c *Crossover) Freq() float64 { return c.freq }

// Reset clears the internal filter states of both sides.
func (c *Crossover) Reset() {
	c.lp.Reset()
	c.hp.Reset()
}
