package synth

import (
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/effects"
	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

// KickParams controls the Kick voice.
type KickParams struct {
	// Tone is the pitch-drop time in seconds.
	Tone float64
	// Release is the amplitude decay time in seconds.
	Release float64
	// Pitch is the resting frequency in Hz; the drop starts an octave up.
	Pitch float64
	// Dist in [0, 1] sets the waveshaper drive.
	Dist float64
}

// DefaultKickParams returns the factory Kick settings.
func DefaultKickParams() KickParams {
	return KickParams{Tone: 0.1, Release: 0.8, Pitch: 55, Dist: 0.2}
}

// Kick is an 808-style sine kick: pitch falls exponentially from 2*Pitch to
// Pitch over Tone, the sine is driven through the kick curve, and the
// amplitude decays exponentially from velocity to 0.001 over Release. The
// note frequency is ignored.
type Kick struct {
	*Voices

	mu     sync.RWMutex
	params KickParams
	shaper *effects.Waveshaper
}

// NewKick returns a Kick instrument.
func NewKick(sampleRate float64) *Kick {
	p := DefaultKickParams()
	return &Kick{
		Voices: NewVoices(sampleRate, ChokePoly),
		params: p,
		shaper: effects.NewWaveshaper(effects.KickCurve(p.Dist)),
	}
}

// SetParams replaces the parameters used by future triggers. The drive
// curve is rebuilt only when Dist changes.
func (k *Kick) SetParams(p KickParams) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if p.Dist != k.params.Dist {
		k.shaper = effects.NewWaveshaper(effects.KickCurve(p.Dist))
	}
	k.params = p
}

// Params returns the current parameters.
func (k *Kick) Params() KickParams {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.params
}

// Release has no effect.
func (k *Kick) Release(float64) {}

// Trigger schedules a kick at time t.
func (k *Kick) Trigger(_, t, velocity float64) {
	k.mu.RLock()
	p, shaper := k.params, k.shaper
	k.mu.RUnlock()

	pitch := param.NewAutomation(p.Pitch * 2)
	pitch.SetValueAt(p.Pitch*2, t)
	pitch.ExponentialRampTo(p.Pitch, t+p.Tone)

	gain := param.NewAutomation(velocity)
	gain.SetValueAt(velocity, t)
	gain.ExponentialRampTo(0.001, t+p.Release)

	k.Start(&kickVoice{
		Lifetime: NewLifetime(t, t+p.Release+0.1),
		osc:      osc.New(k.SampleRate(), osc.Sine),
		shaper:   shaper,
		pitch:    pitch,
		gain:     gain,
	})
}

type kickVoice struct {
	Lifetime
	osc         *osc.Oscillator
	shaper      *effects.Waveshaper
	pitch, gain *param.Automation
}

func (v *kickVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		t := t0 + float64(i)*dt
		x := v.shaper.ProcessSample(v.osc.Next(v.pitch.ValueAt(t)))
		dst[i] += x * v.gain.ValueAt(t)
	}
}
