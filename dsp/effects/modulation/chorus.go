package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/delay"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	defaultChorusSpeedHz = 1.5
	defaultChorusDepth   = 0.002
	defaultChorusWidth   = 0.5
	defaultChorusMix     = 0.5

	minChorusSpeedHz = 0.1
	maxChorusSpeedHz = 10.0
	maxChorusDepth   = 0.02

	// ChorusMaxDelay is the capacity of each channel's delay line in seconds.
	ChorusMaxDelay = 0.1
	// ChorusRamp is the smoothing time constant for all chorus controls.
	ChorusRamp = 0.05
)

// ChorusOption mutates chorus construction parameters.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	speedHz float64
	depth   float64
	width   float64
	mix     float64
}

func defaultChorusConfig() chorusConfig {
	return chorusConfig{
		speedHz: defaultChorusSpeedHz,
		depth:   defaultChorusDepth,
		width:   defaultChorusWidth,
		mix:     defaultChorusMix,
	}
}

// WithChorusSpeed sets the LFO rate in Hz, in [0.1, 10].
func WithChorusSpeed(speedHz float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if speedHz < minChorusSpeedHz || speedHz > maxChorusSpeedHz || math.IsNaN(speedHz) {
			return fmt.Errorf("chorus speed must be in [%g, %g]: %f", minChorusSpeedHz, maxChorusSpeedHz, speedHz)
		}
		cfg.speedHz = speedHz
		return nil
	}
}

// WithChorusDepth sets the modulation depth in seconds, in [0, 0.02].
func WithChorusDepth(depth float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if depth < 0 || depth > maxChorusDepth || math.IsNaN(depth) {
			return fmt.Errorf("chorus depth must be in [0, %g]: %f", maxChorusDepth, depth)
		}
		cfg.depth = depth
		return nil
	}
}

// WithChorusWidth sets the stereo width in [0, 1].
func WithChorusWidth(width float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if width < 0 || width > 1 || math.IsNaN(width) {
			return fmt.Errorf("chorus width must be in [0, 1]: %f", width)
		}
		cfg.width = width
		return nil
	}
}

// WithChorusMix sets the wet amount in [0, 1].
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("chorus mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// Chorus is a stereo modulated-delay chorus. One sine LFO drives a delay
// line per channel:
//
//	dL(t) = depth * (1 + sin(phase))
//	dR(t) = depth * (1 - width) * (1 + sin(phase))
//
// so width 1 leaves the right channel unmodulated.
type Chorus struct {
	sampleRate float64

	speed, depth, width, mix *param.Smoothed

	lines    [2]*delay.Line
	lfoPhase float64
}

// NewChorus creates a stereo chorus.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultChorusConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Chorus{
		sampleRate: sampleRate,
		speed:      param.NewSmoothed(sampleRate, cfg.speedHz),
		depth:      param.NewSmoothed(sampleRate, cfg.depth),
		width:      param.NewSmoothed(sampleRate, cfg.width),
		mix:        param.NewSmoothed(sampleRate, cfg.mix),
	}
	for i := range c.lines {
		line, err := delay.NewSeconds(ChorusMaxDelay, sampleRate)
		if err != nil {
			return nil, err
		}
		c.lines[i] = line
	}
	return c, nil
}

// SetSpeed ramps the LFO rate, clamped to [0.1, 10] Hz.
func (c *Chorus) SetSpeed(speedHz float64) error {
	return setClamped(c.speed, "chorus speed", speedHz, minChorusSpeedHz, maxChorusSpeedHz, ChorusRamp)
}

// SetDepth ramps the modulation depth, clamped to [0, 0.02] s.
func (c *Chorus) SetDepth(depth float64) error {
	return setClamped(c.depth, "chorus depth", depth, 0, maxChorusDepth, ChorusRamp)
}

// SetWidth ramps the stereo width, clamped to [0, 1].
func (c *Chorus) SetWidth(width float64) error {
	return setClamped(c.width, "chorus width", width, 0, 1, ChorusRamp)
}

// SetMix ramps the wet amount, clamped to [0, 1].
func (c *Chorus) SetMix(mix float64) error {
	return setClamped(c.mix, "chorus mix", mix, 0, 1, ChorusRamp)
}

// Speed returns the target LFO rate in Hz.
func (c *Chorus) Speed() float64 { return c.speed.Target() }

// Depth returns the target modulation depth in seconds.
func (c *Chorus) Depth() float64 { return c.depth.Target() }

// Width returns the target stereo width.
func (c *Chorus) Width() float64 { return c.width.Target() }

// Mix returns the target wet amount.
func (c *Chorus) Mix() float64 { return c.mix.Target() }

// SampleRate returns the sample rate in Hz.
func (c *Chorus) SampleRate() float64 { return c.sampleRate }

// Reset clears delay lines and LFO phase.
func (c *Chorus) Reset() {
	for _, line := range c.lines {
		line.Reset()
	}
	c.lfoPhase = 0
}

// Process applies the chorus to a stereo block in place.
func (c *Chorus) Process(l, r []float64) {
	for i := range l {
		speed := c.speed.Next()
		depth := c.depth.Next()
		width := c.width.Next()
		mix := c.mix.Next()

		mod := 1 + math.Sin(c.lfoPhase)
		dl := depth * mod * c.sampleRate
		dr := depth * (1 - width) * mod * c.sampleRate

		c.lines[0].Write(l[i])
		c.lines[1].Write(r[i])

		// Delay 1 on the line is the sample just written.
		wl := c.lines[0].ReadFractional(dl + 1)
		wr := c.lines[1].ReadFractional(dr + 1)

		l[i] = l[i]*(1-mix) + wl*mix
		r[i] = r[i]*(1-mix) + wr*mix

		c.lfoPhase += 2 * math.Pi * speed / c.sampleRate
		if c.lfoPhase >= 2*math.Pi {
			c.lfoPhase -= 2 * math.Pi
		}
	}
}

func setClamped(p *param.Smoothed, name string, v, lo, hi, ramp float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("%s must be finite: %f", name, v)
	}
	p.SetTarget(core.Clamp(v, lo, hi), ramp)
	return nil
}
