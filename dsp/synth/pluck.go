package synth

import (
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/filter/biquad"
	"github.com/cwbudde/algo-groovebox/dsp/filter/design"
	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	// PluckFilterFloor is where the lowpass sweep ends, in Hz.
	PluckFilterFloor = 100.0

	// Frames between lowpass coefficient updates.
	pluckControlBlock = 16
)

// PluckParams controls the Pluck voice.
type PluckParams struct {
	// Decay is the envelope and sweep length in seconds.
	Decay float64
	// Filter is the lowpass start frequency in Hz.
	Filter float64
	// Mix scales the envelope peak.
	Mix float64
}

// DefaultPluckParams returns the factory Pluck settings.
func DefaultPluckParams() PluckParams {
	return PluckParams{Decay: 0.15, Filter: 1000, Mix: 0.8}
}

// Pluck is a monophonic sawtooth through a lowpass that sweeps
// exponentially from Filter down to 100 Hz over Decay:
//
//	gain: 0 -> vel*mix at +5 ms -> 0.001 at +decay
//	stop: +decay+0.1
//
// A new trigger stops the previous note at its start time.
type Pluck struct {
	*Voices

	mu     sync.RWMutex
	params PluckParams
}

// NewPluck returns a Pluck instrument.
func NewPluck(sampleRate float64) *Pluck {
	return &Pluck{Voices: NewVoices(sampleRate, ChokeMono), params: DefaultPluckParams()}
}

// SetParams replaces the parameters used by future triggers.
func (p *Pluck) SetParams(params PluckParams) {
	p.mu.Lock()
	p.params = params
	p.mu.Unlock()
}

// Params returns the current parameters.
func (p *Pluck) Params() PluckParams {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.params
}

// Release has no effect.
func (p *Pluck) Release(float64) {}

// Trigger schedules a note at time t.
func (p *Pluck) Trigger(freq, t, velocity float64) {
	params := p.Params()

	cutoff := param.NewAutomation(params.Filter)
	cutoff.SetValueAt(params.Filter, t)
	cutoff.ExponentialRampTo(PluckFilterFloor, t+params.Decay)

	gain := param.NewAutomation(0)
	gain.SetValueAt(0, t)
	gain.LinearRampTo(velocity*params.Mix, t+0.005)
	gain.ExponentialRampTo(0.001, t+params.Decay)

	p.Start(&pluckVoice{
		Lifetime:   NewLifetime(t, t+params.Decay+0.1),
		sampleRate: p.SampleRate(),
		osc:        osc.New(p.SampleRate(), osc.Sawtooth),
		freq:       freq,
		lp:         biquad.NewSection(biquad.Coefficients{}),
		cutoff:     cutoff,
		gain:       gain,
	})
}

type pluckVoice struct {
	Lifetime
	sampleRate float64
	osc        *osc.Oscillator
	freq       float64
	lp         *biquad.Section
	cutoff     *param.Automation
	gain       *param.Automation
	counter    int
}

func (v *pluckVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		t := t0 + float64(i)*dt
		if v.counter == 0 {
			fc := design.ClampFrequency(v.cutoff.ValueAt(t), 10, v.sampleRate)
			v.lp.SetCoefficients(design.Lowpass(fc, design.ButterworthQ, v.sampleRate))
		}
		v.counter = (v.counter + 1) % pluckControlBlock

		dst[i] += v.lp.ProcessSample(v.osc.Next(v.freq)) * v.gain.ValueAt(t)
	}
}
