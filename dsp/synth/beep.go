package synth

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

// BeepParams controls the Beep voice.
type BeepParams struct {
	// Shape in [0, 1] selects sine, triangle or square in three bins.
	Shape float64
	// LFO in [0, 1] sets vibrato rate (LFO*10 Hz) and depth (LFO*20 Hz).
	LFO float64
	// Reverb in [0.01, 1] lengthens the decay tail.
	Reverb float64
}

// DefaultBeepParams returns the factory Beep settings.
func DefaultBeepParams() BeepParams {
	return BeepParams{Shape: 0, LFO: 0, Reverb: 0.1}
}

// Waveform returns the oscillator shape selected by Shape.
func (p BeepParams) Waveform() osc.Waveform {
	switch idx := int(math.Floor(p.Shape * 2.9)); {
	case idx <= 0:
		return osc.Sine
	case idx == 1:
		return osc.Triangle
	default:
		return osc.Square
	}
}

// Beep is a single oscillator with vibrato and a linear-attack,
// exponential-decay envelope:
//
//	gain: 0 -> vel*0.5 at +10 ms -> 0.001 at +0.1+reverb*3
//	stop: +0.2 + reverb*3.1
type Beep struct {
	*Voices

	mu     sync.RWMutex
	params BeepParams
}

// NewBeep returns a Beep instrument.
func NewBeep(sampleRate float64) *Beep {
	return &Beep{Voices: NewVoices(sampleRate, ChokePoly), params: DefaultBeepParams()}
}

// SetParams replaces the parameters used by future triggers.
func (b *Beep) SetParams(p BeepParams) {
	b.mu.Lock()
	b.params = p
	b.mu.Unlock()
}

// Params returns the current parameters.
func (b *Beep) Params() BeepParams {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.params
}

// Release has no effect.
func (b *Beep) Release(float64) {}

// Trigger schedules a note at time t.
func (b *Beep) Trigger(freq, t, velocity float64) {
	p := b.Params()

	gain := param.NewAutomation(0)
	gain.SetValueAt(0, t)
	gain.LinearRampTo(velocity*0.5, t+0.01)
	gain.ExponentialRampTo(0.001, t+0.1+p.Reverb*3)

	sr := b.SampleRate()
	b.Start(&beepVoice{
		Lifetime: NewLifetime(t, t+0.2+p.Reverb*3.1),
		osc:      osc.New(sr, p.Waveform()),
		lfo:      osc.New(sr, osc.Sine),
		freq:     freq,
		lfoRate:  p.LFO * 10,
		lfoDepth: p.LFO * 20,
		gain:     gain,
	})
}

type beepVoice struct {
	Lifetime
	osc, lfo          *osc.Oscillator
	freq              float64
	lfoRate, lfoDepth float64
	gain              *param.Automation
}

func (v *beepVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		f := v.freq + v.lfoDepth*v.lfo.Next(v.lfoRate)
		dst[i] += v.osc.Next(f) * v.gain.ValueAt(t0+float64(i)*dt)
	}
}
