package synth

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

// MaxVoices bounds the number of simultaneous voices per instrument. When a
// trigger would exceed it, the oldest voice is dropped.
const MaxVoices = 64

// ChokePolicy declares how a new trigger treats voices still sounding.
type ChokePolicy int

const (
	// ChokePoly lets earlier voices ring out.
	ChokePoly ChokePolicy = iota
	// ChokeMono stops earlier voices at the new trigger time.
	ChokeMono
)

// String returns "poly" or "mono".
func (p ChokePolicy) String() string {
	if p == ChokeMono {
		return "mono"
	}
	return "poly"
}

// Instrument is a note-triggered sound source.
type Instrument interface {
	// Trigger schedules a voice at absolute time t (seconds).
	Trigger(freq, t, velocity float64)
	// Release is accepted for every instrument and has no effect; voices end
	// on their own envelopes.
	Release(t float64)
	// Render adds all voices into l and r, whose first frame is at time t0.
	Render(l, r []float64, t0 float64)
	// Choke reports the instrument's retrigger policy.
	Choke() ChokePolicy
	// Reset drops all voices.
	Reset()
}

// Voice is one scheduled note.
type Voice interface {
	// Span returns the start and stop times.
	Span() (start, stop float64)
	// Choke moves the stop time to t if t is earlier.
	Choke(t float64)
	// Render adds the voice into dst. dst[0] is at time t0 and frames are dt
	// apart; every frame lies inside the span.
	Render(dst []float64, t0, dt float64)
}

// Lifetime implements the Span and Choke parts of Voice.
type Lifetime struct {
	start, stop float64
}

// NewLifetime returns a span from start to stop.
func NewLifetime(start, stop float64) Lifetime {
	return Lifetime{start: start, stop: math.Max(start, stop)}
}

// Span returns the start and stop times.
func (l *Lifetime) Span() (start, stop float64) { return l.start, l.stop }

// Choke moves the stop time to t if t is earlier.
func (l *Lifetime) Choke(t float64) {
	if t < l.stop {
		l.stop = math.Max(t, l.start)
	}
}

// Voices is the voice pool shared by all instruments. It applies the choke
// policy, caps polyphony and renders voices sample-accurately.
type Voices struct {
	mu         sync.Mutex
	sampleRate float64
	policy     ChokePolicy
	voices     []Voice
	scratch    []float64
}

// NewVoices returns an empty pool.
func NewVoices(sampleRate float64, policy ChokePolicy) *Voices {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		sampleRate = core.DefaultProcessorConfig().SampleRate
	}
	return &Voices{
		sampleRate: sampleRate,
		policy:     policy,
		voices:     make([]Voice, 0, MaxVoices),
	}
}

// SampleRate returns the rendering sample rate in Hz.
func (vs *Voices) SampleRate() float64 { return vs.sampleRate }

// Choke returns the pool's retrigger policy.
func (vs *Voices) Choke() ChokePolicy { return vs.policy }

// Start adds v. Under ChokeMono every earlier voice is stopped at v's start.
func (vs *Voices) Start(v Voice) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.policy == ChokeMono {
		start, _ := v.Span()
		for _, old := range vs.voices {
			old.Choke(start)
		}
	}
	if len(vs.voices) >= MaxVoices {
		copy(vs.voices, vs.voices[1:])
		vs.voices[len(vs.voices)-1] = nil
		vs.voices = vs.voices[:len(vs.voices)-1]
	}
	vs.voices = append(vs.voices, v)
}

// Len returns the number of scheduled or sounding voices.
func (vs *Voices) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.voices)
}

// Reset drops all voices.
func (vs *Voices) Reset() {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	clear(vs.voices)
	vs.voices = vs.voices[:0]
}

// Render adds every voice overlapping the block into l and r and drops
// voices that have finished. Voices are mono and land equally on both
// channels.
func (vs *Voices) Render(l, r []float64, t0 float64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	n := len(l)
	if n == 0 {
		return
	}
	dt := 1 / vs.sampleRate
	tEnd := t0 + float64(n)*dt

	vs.scratch = core.EnsureLen(vs.scratch, n)
	core.Zero(vs.scratch)

	keep := vs.voices[:0]
	for _, v := range vs.voices {
		start, stop := v.Span()
		if start < tEnd && stop > t0 {
			i0, i1 := vs.frame(start, t0, n), vs.frame(stop, t0, n)
			if i1 > i0 {
				v.Render(vs.scratch[i0:i1], t0+float64(i0)*dt, dt)
			}
		}
		if stop > tEnd {
			keep = append(keep, v)
		}
	}
	clear(vs.voices[len(keep):])
	vs.voices = keep

	for i, x := range vs.scratch {
		l[i] += x
		r[i] += x
	}
}

// frame returns the first frame index at or after time t, clamped to [0, n].
func (vs *Voices) frame(t, t0 float64, n int) int {
	pos := math.Ceil((t-t0)*vs.sampleRate - 1e-9)
	if pos <= 0 {
		return 0
	}
	if pos >= float64(n) {
		return n
	}
	return int(pos)
}
