// Package host runs the step sequencer on top of a rack. It owns the
// transport, the per-instrument 16-step patterns and the groove setting,
// and renders interleaved stereo for the browser bridge and the CLI.
package host

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/groove"
	"github.com/cwbudde/algo-groovebox/dsp/rack"
)

const (
	// StepCount is the pattern length.
	StepCount = groove.Steps
	// DefaultTempo is the initial tempo in BPM.
	DefaultTempo = 110.0
	// Lookahead is how far past the end of a block steps are scheduled, in
	// seconds. It covers groove offsets that pull a step early.
	Lookahead = 0.1

	defaultStepFreq = 110.0
	minTempo        = 20.0
	maxTempo        = 300.0
)

// Step is one cell of a pattern.
type Step struct {
	Enabled bool    `json:"enabled"`
	Freq    float64 `json:"freq,omitempty"`
	// Velocity in (0, 1]; zero means full velocity.
	Velocity float64 `json:"velocity,omitempty"`
}

// Pattern is one bar of steps.
type Pattern [StepCount]Step

type scheduled struct {
	step int
	time float64
}

// Engine sequences patterns onto a rack.
type Engine struct {
	rack *rack.Rack

	mu       sync.Mutex
	tempoBPM float64
	running  bool
	profile  groove.Profile
	amount   float64
	patterns map[rack.Handle]*Pattern

	nextStep     int
	nextStepTime float64
	recent       []scheduled
}

// NewEngine creates a stopped engine for r.
func NewEngine(r *rack.Rack) (*Engine, error) {
	if r == nil {
		return nil, errors.New("host: nil rack")
	}
	return &Engine{
		rack:     r,
		tempoBPM: DefaultTempo,
		patterns: make(map[rack.Handle]*Pattern),
	}, nil
}

// Rack returns the rack driven by the engine.
func (e *Engine) Rack() *rack.Rack { return e.rack }

// Add creates a plugin and, for instruments, an empty pattern.
func (e *Engine) Add(pluginType string) (rack.Handle, error) {
	h, err := e.rack.Add(pluginType)
	if err != nil {
		return 0, err
	}
	if p, _ := e.rack.Get(h); isInstrument(p) {
		e.mu.Lock()
		e.patterns[h] = newPattern(nil)
		e.mu.Unlock()
	}
	return h, nil
}

// Remove disposes a plugin and drops its pattern.
func (e *Engine) Remove(h rack.Handle) error {
	if err := e.rack.Remove(h); err != nil {
		return err
	}
	e.mu.Lock()
	delete(e.patterns, h)
	e.mu.Unlock()
	return nil
}

// SetTransport sets the tempo, clamped to [20, 300] BPM.
func (e *Engine) SetTransport(tempoBPM float64) error {
	if !core.IsFinite(tempoBPM) || tempoBPM <= 0 {
		return fmt.Errorf("host: tempo must be > 0 and finite: %f", tempoBPM)
	}
	e.mu.Lock()
	e.tempoBPM = core.Clamp(tempoBPM, minTempo, maxTempo)
	e.mu.Unlock()
	return nil
}

// Tempo returns the tempo in BPM.
func (e *Engine) Tempo() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tempoBPM
}

// SetRunning starts or stops step triggering. Starting rewinds to step 0 at
// the current clock time.
func (e *Engine) SetRunning(running bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if running && !e.running {
		e.nextStep = 0
		e.nextStepTime = e.rack.Clock().Now()
		e.recent = e.recent[:0]
	}
	e.running = running
}

// Running reports whether the transport is running.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SetGroove selects a groove profile by name with an amount in [0, 1]. An
// empty name or "straight" disables swing.
func (e *Engine) SetGroove(name string, amount float64) error {
	var p groove.Profile
	if n := strings.TrimSpace(name); n != "" && !strings.EqualFold(n, "straight") {
		var ok bool
		if p, ok = groove.Lookup(n); !ok {
			return fmt.Errorf("host: unknown groove %q", name)
		}
	}
	e.mu.Lock()
	e.profile = p
	e.amount = core.Clamp(amount, 0, 1)
	e.mu.Unlock()
	return nil
}

// Groove returns the selected profile and amount.
func (e *Engine) Groove() (groove.Profile, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile, e.amount
}

// SetSteps replaces up to StepCount steps of instrument h. Missing
// frequencies default to 110 Hz and velocities are clamped to [0, 1].
func (e *Engine) SetSteps(h rack.Handle, steps []Step) error {
	p, ok := e.rack.Get(h)
	if !ok {
		return fmt.Errorf("%w: %d", rack.ErrUnknownHandle, h)
	}
	if !isInstrument(p) {
		return fmt.Errorf("%w: %d", rack.ErrNotInstrument, h)
	}

	pat := newPattern(steps)
	e.mu.Lock()
	e.patterns[h] = pat
	e.mu.Unlock()
	return nil
}

// Steps returns the pattern of h.
func (e *Engine) Steps(h rack.Handle) (Pattern, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.patterns[h]
	if !ok {
		return Pattern{}, false
	}
	return *p, true
}

// CurrentStep returns the most recent step whose time has been reached, or
// -1 when the transport is stopped or no step has sounded yet.
func (e *Engine) CurrentStep() int {
	now := e.rack.Clock().Now()
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return -1
	}
	cur := -1
	for _, s := range e.recent {
		if s.time <= now {
			cur = s.step
		}
	}
	return cur
}

// StepDuration returns the length of a sixteenth note in seconds.
func (e *Engine) StepDuration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepDuration()
}

// Render fills dst with interleaved stereo frames and returns the number of
// frames rendered. Steps due before the end of the block plus Lookahead are
// triggered first.
func (e *Engine) Render(dst []float32) int {
	frames := len(dst) / 2
	if frames == 0 {
		return 0
	}
	clock := e.rack.Clock()
	t0 := clock.Now()
	e.schedule(t0, t0+float64(frames)/clock.SampleRate()+Lookahead)

	bus := e.rack.Render(frames)
	return bus.Interleave(dst)
}

func (e *Engine) schedule(now, horizon float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}

	for e.nextStepTime < horizon {
		step := e.nextStep
		t := math.Max(now, e.nextStepTime+e.profile.Seconds(step, e.amount, e.tempoBPM))
		for h, pat := range e.patterns {
			s := pat[step]
			if !s.Enabled {
				continue
			}
			vel := s.Velocity
			if vel <= 0 {
				vel = 1
			}
			if err := e.rack.Trigger(h, s.Freq, t, vel); errors.Is(err, rack.ErrUnknownHandle) {
				delete(e.patterns, h)
			}
		}

		e.recent = append(e.recent, scheduled{step: step, time: t})
		if len(e.recent) > StepCount {
			e.recent = e.recent[1:]
		}
		e.nextStep = (step + 1) % StepCount
		e.nextStepTime += e.stepDuration()
	}
}

func (e *Engine) stepDuration() float64 {
	return 60.0 / e.tempoBPM / 4.0
}

// newPattern sanitizes every cell, so steps past the end of the slice still
// carry the default frequency.
func newPattern(steps []Step) *Pattern {
	var pat Pattern
	for i := range pat {
		if i < len(steps) {
			pat[i] = steps[i]
		}
		pat[i] = sanitizeStep(pat[i])
	}
	return &pat
}

func sanitizeStep(s Step) Step {
	if s.Freq <= 0 || !core.IsFinite(s.Freq) {
		s.Freq = defaultStepFreq
	}
	if !core.IsFinite(s.Velocity) {
		s.Velocity = 0
	}
	s.Velocity = core.Clamp(s.Velocity, 0, 1)
	return s
}

func isInstrument(p rack.Plugin) bool {
	_, ok := p.(rack.Instrument)
	return ok
}
