package synth

import (
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/filter/biquad"
	"github.com/cwbudde/algo-groovebox/dsp/filter/design"
	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/param"
	"github.com/cwbudde/algo-groovebox/dsp/signal"
)

const (
	// SnareNoiseCutoff is the highpass corner of the snap noise in Hz.
	SnareNoiseCutoff = 1200.0
	// SnareNoiseSeconds is the length of the noise table. Every hit plays
	// it from the start; past its end the noise layer is silent.
	SnareNoiseSeconds = 2.0
)

// SnareParams controls the Snare voice.
type SnareParams struct {
	// Tone is the body length in seconds.
	Tone float64
	// Pitch is the body start frequency in Hz.
	Pitch float64
	// Snap in [0, 1] is the noise level.
	Snap float64
	// Decay is the noise length in seconds.
	Decay float64
}

// DefaultSnareParams returns the factory Snare settings.
func DefaultSnareParams() SnareParams {
	return SnareParams{Tone: 0.3, Pitch: 180, Snap: 0.5, Decay: 0.2}
}

// Snare layers a triangle body and highpassed white noise:
//
//	body:  pitch -> 0.01 Hz over tone*0.2, gain vel*0.4 -> 0.001 over tone
//	noise: HP 1200 Hz, gain vel*snap -> 0.001 over decay
//
// Each layer stops 0.1 s after its envelope ends.
type Snare struct {
	*Voices

	mu     sync.RWMutex
	params SnareParams
	noise  []float64
}

// NewSnare returns a Snare instrument. seed fixes the noise table.
func NewSnare(sampleRate float64, seed int64) *Snare {
	vs := NewVoices(sampleRate, ChokePoly)
	noise, _ := signal.WhiteNoise(seed, 1, max(1, int(SnareNoiseSeconds*vs.SampleRate())))
	return &Snare{
		Voices: vs,
		params: DefaultSnareParams(),
		noise:  noise,
	}
}

// SetParams replaces the parameters used by future triggers.
func (s *Snare) SetParams(p SnareParams) {
	s.mu.Lock()
	s.params = p
	s.mu.Unlock()
}

// Params returns the current parameters.
func (s *Snare) Params() SnareParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Release has no effect.
func (s *Snare) Release(float64) {}

// Trigger schedules a hit at time t. The note frequency is ignored.
func (s *Snare) Trigger(_, t, velocity float64) {
	p := s.Params()
	sr := s.SampleRate()

	pitch := param.NewAutomation(p.Pitch)
	pitch.SetValueAt(p.Pitch, t)
	pitch.ExponentialRampTo(0.01, t+p.Tone*0.2)

	bodyGain := param.NewAutomation(velocity * 0.4)
	bodyGain.SetValueAt(velocity*0.4, t)
	bodyGain.ExponentialRampTo(0.001, t+p.Tone)

	noiseGain := param.NewAutomation(velocity * p.Snap)
	noiseGain.SetValueAt(velocity*p.Snap, t)
	noiseGain.ExponentialRampTo(0.001, t+p.Decay)

	bodyStop, noiseStop := t+p.Tone+0.1, t+p.Decay+0.1
	s.Start(&snareVoice{
		Lifetime:  NewLifetime(t, max(bodyStop, noiseStop)),
		body:      osc.New(sr, osc.Triangle),
		pitch:     pitch,
		bodyGain:  bodyGain,
		bodyStop:  bodyStop,
		noise:     s.noise,
		hp:        biquad.NewSection(design.Highpass(design.ClampFrequency(SnareNoiseCutoff, 10, sr), design.ButterworthQ, sr)),
		noiseGain: noiseGain,
		noiseStop: noiseStop,
	})
}

type snareVoice struct {
	Lifetime

	body     *osc.Oscillator
	pitch    *param.Automation
	bodyGain *param.Automation
	bodyStop float64

	// Read only; shared by every voice of the instrument.
	noise     []float64
	pos       int
	hp        *biquad.Section
	noiseGain *param.Automation
	noiseStop float64
}

func (v *snareVoice) Render(dst []float64, t0, dt float64) {
	_, stop := v.Span()
	for i := range dst {
		t := t0 + float64(i)*dt
		if t < v.bodyStop && t < stop {
			dst[i] += v.body.Next(v.pitch.ValueAt(t)) * v.bodyGain.ValueAt(t)
		}
		if t < v.noiseStop && t < stop {
			x := 0.0
			if v.pos < len(v.noise) {
				x = v.noise[v.pos]
				v.pos++
			}
			dst[i] += v.hp.ProcessSample(x) * v.noiseGain.ValueAt(t)
		}
	}
}
