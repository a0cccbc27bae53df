package modulation

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/filter/biquad"
	"github.com/cwbudde/algo-groovebox/dsp/filter/design"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	defaultPhaserRateHz   = 0.5
	defaultPhaserDepthHz  = 1000.0
	defaultPhaserBaseFreq = 600.0
	defaultPhaserFeedback = 0.7
	defaultPhaserMix      = 0.5

	minPhaserRateHz   = 0.1
	maxPhaserRateHz   = 10.0
	maxPhaserDepthHz  = 2000.0
	minPhaserBaseFreq = 100.0
	maxPhaserBaseFreq = 5000.0

	// PhaserStages is the number of allpass sections per channel.
	PhaserStages = 6
	// PhaserQ is the quality factor of every allpass section.
	PhaserQ = 0.5
	// PhaserRamp is the smoothing time constant for all phaser controls.
	PhaserRamp = 0.05
	// MaxPhaserFeedback bounds the stage-6 to stage-1 loop gain.
	MaxPhaserFeedback = 0.95

	minPhaserFreqHz    = 10.0
	phaserNyquistRatio = 0.45
	phaserControlBlock = 16
)

// PhaserOption mutates phaser construction parameters.
type PhaserOption func(*phaserConfig) error

type phaserConfig struct {
	rateHz   float64
	depthHz  float64
	baseFreq float64
	feedback float64
	mix      float64
}

func defaultPhaserConfig() phaserConfig {
	return phaserConfig{
		rateHz:   defaultPhaserRateHz,
		depthHz:  defaultPhaserDepthHz,
		baseFreq: defaultPhaserBaseFreq,
		feedback: defaultPhaserFeedback,
		mix:      defaultPhaserMix,
	}
}

// WithPhaserRateHz sets modulation speed in Hz, in [0.1, 10].
func WithPhaserRateHz(rateHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if rateHz < minPhaserRateHz || rateHz > maxPhaserRateHz || math.IsNaN(rateHz) {
			return fmt.Errorf("phaser rate must be in [%g, %g]: %f", minPhaserRateHz, maxPhaserRateHz, rateHz)
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithPhaserDepthHz sets the sweep depth in Hz, in [0, 2000].
func WithPhaserDepthHz(depthHz float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if depthHz < 0 || depthHz > maxPhaserDepthHz || math.IsNaN(depthHz) {
			return fmt.Errorf("phaser depth must be in [0, %g]: %f", maxPhaserDepthHz, depthHz)
		}
		cfg.depthHz = depthHz
		return nil
	}
}

// WithPhaserBaseFrequency sets the sweep centre in Hz, in [100, 5000].
func WithPhaserBaseFrequency(freq float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if freq < minPhaserBaseFreq || freq > maxPhaserBaseFreq || math.IsNaN(freq) {
			return fmt.Errorf("phaser base frequency must be in [%g, %g]: %f", minPhaserBaseFreq, maxPhaserBaseFreq, freq)
		}
		cfg.baseFreq = freq
		return nil
	}
}

// WithPhaserFeedback sets feedback amount in [0, 0.95].
func WithPhaserFeedback(feedback float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if feedback < 0 || feedback > MaxPhaserFeedback || math.IsNaN(feedback) {
			return fmt.Errorf("phaser feedback must be in [0, %g]: %f", MaxPhaserFeedback, feedback)
		}
		cfg.feedback = feedback
		return nil
	}
}

// WithPhaserMix sets wet amount in [0, 1].
func WithPhaserMix(mix float64) PhaserOption {
	return func(cfg *phaserConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("phaser mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

type phaserChannel struct {
	chain *biquad.Chain
	fb    float64
}

func (ch *phaserChannel) process(x, feedback float64) float64 {
	y := ch.chain.ProcessSample(x + ch.fb*feedback)
	ch.fb = y
	return y
}

// Phaser is a stereo six-stage allpass phaser. Every section sits at
//
//	f(t) = baseFreq + depth * sin(phase)
//
// clamped into (10 Hz, 0.45*fs). The last stage output is fed back into the
// first stage input with a one-sample delay.
type Phaser struct {
	sampleRate float64

	rate, depth, baseFreq, feedback, mix *param.Smoothed

	ch       [2]phaserChannel
	lfoPhase float64
	counter  int
}

// NewPhaser creates a phaser with practical defaults and optional overrides.
func NewPhaser(sampleRate float64, opts ...PhaserOption) (*Phaser, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("phaser sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultPhaserConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &Phaser{
		sampleRate: sampleRate,
		rate:       param.NewSmoothed(sampleRate, cfg.rateHz),
		depth:      param.NewSmoothed(sampleRate, cfg.depthHz),
		baseFreq:   param.NewSmoothed(sampleRate, cfg.baseFreq),
		feedback:   param.NewSmoothed(sampleRate, cfg.feedback),
		mix:        param.NewSmoothed(sampleRate, cfg.mix),
	}

	c := design.Allpass(p.stageFrequency(cfg.baseFreq), PhaserQ, sampleRate)
	for i := range p.ch {
		coeffs := make([]biquad.Coefficients, PhaserStages)
		for s := range coeffs {
			coeffs[s] = c
		}
		p.ch[i].chain = biquad.NewChain(coeffs...)
	}
	return p, nil
}

// SetRateHz ramps the LFO rate, clamped to [0.1, 10] Hz.
func (p *Phaser) SetRateHz(rateHz float64) error {
	return setClamped(p.rate, "phaser rate", rateHz, minPhaserRateHz, maxPhaserRateHz, PhaserRamp)
}

// SetDepthHz ramps the sweep depth, clamped to [0, 2000] Hz.
func (p *Phaser) SetDepthHz(depthHz float64) error {
	return setClamped(p.depth, "phaser depth", depthHz, 0, maxPhaserDepthHz, PhaserRamp)
}

// SetBaseFrequency ramps the sweep centre, clamped to [100, 5000] Hz.
func (p *Phaser) SetBaseFrequency(freq float64) error {
	return setClamped(p.baseFreq, "phaser base frequency", freq, minPhaserBaseFreq, maxPhaserBaseFreq, PhaserRamp)
}

// SetFeedback ramps the loop gain, clamped to [0, 0.95].
func (p *Phaser) SetFeedback(feedback float64) error {
	return setClamped(p.feedback, "phaser feedback", feedback, 0, MaxPhaserFeedback, PhaserRamp)
}

// SetMix ramps the wet amount, clamped to [0, 1].
func (p *Phaser) SetMix(mix float64) error {
	return setClamped(p.mix, "phaser mix", mix, 0, 1, PhaserRamp)
}

// RateHz returns the target LFO rate.
func (p *Phaser) RateHz() float64 { return p.rate.Target() }

// DepthHz returns the target sweep depth.
func (p *Phaser) DepthHz() float64 { return p.depth.Target() }

// BaseFrequency returns the target sweep centre.
func (p *Phaser) BaseFrequency() float64 { return p.baseFreq.Target() }

// Feedback returns the target loop gain.
func (p *Phaser) Feedback() float64 { return p.feedback.Target() }

// Mix returns the target wet amount.
func (p *Phaser) Mix() float64 { return p.mix.Target() }

// Stages returns the number of allpass sections per channel.
func (p *Phaser) Stages() int { return PhaserStages }

// SampleRate returns sample rate in Hz.
func (p *Phaser) SampleRate() float64 { return p.sampleRate }

// Reset clears allpass and modulation state.
func (p *Phaser) Reset() {
	for i := range p.ch {
		p.ch[i].chain.Reset()
		p.ch[i].fb = 0
	}
	p.lfoPhase = 0
	p.counter = 0
}

// Process applies phasing to a stereo block in place.
func (p *Phaser) Process(l, r []float64) {
	for i := range l {
		rate := p.rate.Next()
		depth := p.depth.Next()
		base := p.baseFreq.Next()
		fb := math.Min(p.feedback.Next(), MaxPhaserFeedback)
		mix := p.mix.Next()

		if p.counter == 0 {
			c := design.Allpass(p.stageFrequency(base+depth*math.Sin(p.lfoPhase)), PhaserQ, p.sampleRate)
			p.ch[0].chain.SetAll(c)
			p.ch[1].chain.SetAll(c)
		}
		p.counter = (p.counter + 1) % phaserControlBlock

		yl := p.ch[0].process(l[i], fb)
		yr := p.ch[1].process(r[i], fb)
		l[i] = l[i]*(1-mix) + yl*mix
		r[i] = r[i]*(1-mix) + yr*mix

		p.lfoPhase += 2 * math.Pi * rate / p.sampleRate
		if p.lfoPhase >= 2*math.Pi {
			p.lfoPhase -= 2 * math.Pi
		}
	}
}

// StageFrequency returns the clamped centre frequency for the current LFO
// position.
func (p *Phaser) StageFrequency() float64 {
	return p.stageFrequency(p.baseFreq.Value() + p.depth.Value()*math.Sin(p.lfoPhase))
}

func (p *Phaser) stageFrequency(freq float64) float64 {
	maxHz := phaserNyquistRatio * p.sampleRate
	if freq <= minPhaserFreqHz || math.IsNaN(freq) {
		return minPhaserFreqHz
	}
	if freq >= maxHz {
		return maxHz
	}
	return freq
}
