package synth

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

// BellParams controls the Bell voice. Times are in seconds.
type BellParams struct {
	Wave    osc.Waveform
	Attack  float64
	Decay   float64
	Release float64
	// Detune shifts the carrier in cents.
	Detune float64
	// FMRatio is the modulator frequency as a multiple of the note.
	FMRatio float64
	// FMDepth is the modulation index in Hz.
	FMDepth float64
}

// DefaultBellParams returns the factory Bell settings.
func DefaultBellParams() BellParams {
	return BellParams{
		Wave:    osc.Sine,
		Attack:  0.01,
		Decay:   0.4,
		Release: 0.8,
		Detune:  5,
		FMRatio: 2.5,
		FMDepth: 50,
	}
}

// Bell is a two-operator FM voice: a sine modulator at freq*FMRatio adds
// FMDepth Hz of deviation to the carrier, which is then detuned.
//
//	gain: 0 -> vel at +atk -> 0.01 at +atk+dec -> 0 at +atk+dec+rel
//	stop: +atk+dec+rel+0.1
type Bell struct {
	*Voices

	mu     sync.RWMutex
	params BellParams
}

// NewBell returns a Bell instrument.
func NewBell(sampleRate float64) *Bell {
	return &Bell{Voices: NewVoices(sampleRate, ChokePoly), params: DefaultBellParams()}
}

// SetParams replaces the parameters used by future triggers.
func (b *Bell) SetParams(p BellParams) {
	b.mu.Lock()
	b.params = p
	b.mu.Unlock()
}

// Params returns the current parameters.
func (b *Bell) Params() BellParams {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.params
}

// Release has no effect.
func (b *Bell) Release(float64) {}

// Trigger schedules a note at time t.
func (b *Bell) Trigger(freq, t, velocity float64) {
	p := b.Params()
	atk, dec, rel := p.Attack, p.Decay, p.Release

	gain := param.NewAutomation(0)
	gain.SetValueAt(0, t)
	gain.LinearRampTo(velocity, t+atk)
	gain.ExponentialRampTo(0.01, t+atk+dec)
	gain.LinearRampTo(0, t+atk+dec+rel)

	sr := b.SampleRate()
	b.Start(&bellVoice{
		Lifetime: NewLifetime(t, t+atk+dec+rel+0.1),
		carrier:  osc.New(sr, p.Wave),
		mod:      osc.New(sr, osc.Sine),
		freq:     freq,
		modFreq:  freq * p.FMRatio,
		depth:    p.FMDepth,
		detune:   math.Pow(2, p.Detune/1200),
		gain:     gain,
	})
}

type bellVoice struct {
	Lifetime
	carrier, mod  *osc.Oscillator
	freq, modFreq float64
	depth, detune float64
	gain          *param.Automation
}

func (v *bellVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		f := (v.freq + v.depth*v.mod.Next(v.modFreq)) * v.detune
		dst[i] += v.carrier.Next(f) * v.gain.ValueAt(t0+float64(i)*dt)
	}
}
