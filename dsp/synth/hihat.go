package synth

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/filter/biquad"
	"github.com/cwbudde/algo-groovebox/dsp/filter/design"
	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	// HiHatBaseFreq is multiplied by HiHatRatios to tune the six squares.
	HiHatBaseFreq = 300.0
	// HiHatHighpass is the corner of the highpass stage in Hz.
	HiHatHighpass = 7000.0

	minBandpassQ = 1e-4
)

// HiHatRatios are the inharmonic partial ratios of the metallic source.
var HiHatRatios = [6]float64{2, 3, 4.16, 5.43, 6.79, 8.21}

// HiHatParams controls the HiHat voice.
type HiHatParams struct {
	// Decay is the envelope length in seconds.
	Decay float64
	// Sizzle in [0, 1] sets the bandpass Q to Sizzle*20.
	Sizzle float64
	// Pitch is the bandpass centre in Hz.
	Pitch float64
	// Volume scales the envelope peak.
	Volume float64
}

// DefaultHiHatParams returns the factory HiHat settings.
func DefaultHiHatParams() HiHatParams {
	return HiHatParams{Decay: 0.05, Sizzle: 0.5, Pitch: 4000, Volume: 0.7}
}

// HiHat sums six squares at inharmonic ratios, applies the envelope, then
// filters through a 7 kHz highpass and a resonant bandpass:
//
//	gain: 0 -> vel*volume at +2 ms -> 0.001 at +decay
//	stop: +decay+0.1
type HiHat struct {
	*Voices

	mu     sync.RWMutex
	params HiHatParams
}

// NewHiHat returns a HiHat instrument.
func NewHiHat(sampleRate float64) *HiHat {
	return &HiHat{Voices: NewVoices(sampleRate, ChokePoly), params: DefaultHiHatParams()}
}

// SetParams replaces the parameters used by future triggers.
func (h *HiHat) SetParams(p HiHatParams) {
	h.mu.Lock()
	h.params = p
	h.mu.Unlock()
}

// Params returns the current parameters.
func (h *HiHat) Params() HiHatParams {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.params
}

// Release has no effect.
func (h *HiHat) Release(float64) {}

// Trigger schedules a hit at time t. The note frequency is ignored.
func (h *HiHat) Trigger(_, t, velocity float64) {
	p := h.Params()
	sr := h.SampleRate()

	gain := param.NewAutomation(0)
	gain.SetValueAt(0, t)
	gain.LinearRampTo(velocity*p.Volume, t+0.002)
	gain.ExponentialRampTo(0.001, t+p.Decay)

	v := &hiHatVoice{
		Lifetime: NewLifetime(t, t+p.Decay+0.1),
		gain:     gain,
		filters: biquad.NewChain(
			design.Highpass(design.ClampFrequency(HiHatHighpass, 10, sr), design.ButterworthQ, sr),
			design.Bandpass(design.ClampFrequency(p.Pitch, 10, sr), math.Max(p.Sizzle*20, minBandpassQ), sr),
		),
	}
	for i, r := range HiHatRatios {
		v.oscs[i] = osc.New(sr, osc.Square)
		v.freqs[i] = HiHatBaseFreq * r
	}
	h.Start(v)
}

type hiHatVoice struct {
	Lifetime
	oscs    [6]*osc.Oscillator
	freqs   [6]float64
	gain    *param.Automation
	filters *biquad.Chain
}

func (v *hiHatVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		x := 0.0
		for k, o := range v.oscs {
			x += o.Next(v.freqs[k])
		}
		x *= v.gain.ValueAt(t0 + float64(i)*dt)
		dst[i] += v.filters.ProcessSample(x)
	}
}
