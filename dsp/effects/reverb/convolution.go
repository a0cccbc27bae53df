package reverb

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-groovebox/dsp/conv"
	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	DefaultRoomSize = 2.5
	DefaultDamping  = 0.5
	DefaultWet      = 0.4

	maxRoomSize = 8.0
	maxDamping  = 0.95

	// WetRamp is the wet/dry crossfade time constant.
	WetRamp = 0.05

	// BlockSize is the partition length of the convolution engines and
	// therefore the wet-path latency in frames.
	BlockSize = conv.DefaultBlockSize
)

// Option mutates reverb construction parameters.
type Option func(*config) error

type config struct {
	roomSize float64
	damping  float64
	wet      float64
	seed     int64
}

func defaultConfig() config {
	return config{
		roomSize: DefaultRoomSize,
		damping:  DefaultDamping,
		wet:      DefaultWet,
		seed:     1,
	}
}

// WithRoomSize sets the impulse length in seconds, in [0.1, 8].
func WithRoomSize(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < minRoomSize || seconds > maxRoomSize || math.IsNaN(seconds) {
			return fmt.Errorf("reverb: room size must be in [%g, %g]: %f", minRoomSize, maxRoomSize, seconds)
		}
		cfg.roomSize = seconds
		return nil
	}
}

// WithDamping sets the decay shape in [0, 0.95].
func WithDamping(damping float64) Option {
	return func(cfg *config) error {
		if damping < 0 || damping > maxDamping || math.IsNaN(damping) {
			return fmt.Errorf("reverb: damping must be in [0, %g]: %f", maxDamping, damping)
		}
		cfg.damping = damping
		return nil
	}
}

// WithWet sets the wet amount in [0, 1]. The dry path gets 1-wet.
func WithWet(wet float64) Option {
	return func(cfg *config) error {
		if wet < 0 || wet > 1 || math.IsNaN(wet) {
			return fmt.Errorf("reverb: wet must be in [0, 1]: %f", wet)
		}
		cfg.wet = wet
		return nil
	}
}

// WithSeed fixes the noise seed of the first impulse. Later impulses use
// successive seeds.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// impulse is one generated room: the normalized kernels and their engines.
type impulse struct {
	roomSize, damping float64
	kernel            [2][]float64
	engine            [2]*conv.Partitioned
}

// Reverb is a stereo convolution reverb over a synthetic noise impulse.
//
// Room size and damping changes rebuild the impulse on the calling goroutine
// and publish it atomically; the audio goroutine picks it up at the next
// Process call. Wet changes ramp through a smoothed crossfade.
type Reverb struct {
	sampleRate float64

	mu         sync.Mutex // serializes rebuilds
	seed       int64
	generation atomic.Uint64
	current    atomic.Pointer[impulse]

	wet  *param.Smoothed
	wetL []float64
	wetR []float64
}

// New creates a reverb and generates its first impulse.
func New(sampleRate float64, opts ...Option) (*Reverb, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reverb: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	r := &Reverb{
		sampleRate: sampleRate,
		seed:       cfg.seed,
		wet:        param.NewSmoothed(sampleRate, cfg.wet),
	}
	if err := r.rebuild(cfg.roomSize, cfg.damping); err != nil {
		return nil, err
	}
	return r, nil
}

// SetRoom regenerates the impulse when roomSize or damping differ from the
// current ones. Values are clamped to their ranges.
func (r *Reverb) SetRoom(roomSize, damping float64) error {
	if !core.IsFinite(roomSize) || !core.IsFinite(damping) {
		return fmt.Errorf("reverb: room size and damping must be finite: %f, %f", roomSize, damping)
	}
	roomSize = core.Clamp(roomSize, minRoomSize, maxRoomSize)
	damping = core.Clamp(damping, 0, maxDamping)

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.current.Load()
	if cur.roomSize == roomSize && cur.damping == damping {
		return nil
	}
	r.seed++
	return r.rebuildLocked(roomSize, damping)
}

// SetWet ramps the wet amount, clamped to [0, 1].
func (r *Reverb) SetWet(wet float64) error {
	if !core.IsFinite(wet) {
		return fmt.Errorf("reverb: wet must be finite: %f", wet)
	}
	r.wet.SetTarget(core.Clamp(wet, 0, 1), WetRamp)
	return nil
}

// RoomSize returns the room size of the published impulse.
func (r *Reverb) RoomSize() float64 { return r.current.Load().roomSize }

// Damping returns the damping of the published impulse.
func (r *Reverb) Damping() float64 { return r.current.Load().damping }

// Wet returns the target wet amount.
func (r *Reverb) Wet() float64 { return r.wet.Target() }

// Generation counts impulse rebuilds, starting at 1.
func (r *Reverb) Generation() uint64 { return r.generation.Load() }

// Impulse returns the normalized stereo kernel currently published.
func (r *Reverb) Impulse() (left, right []float64) {
	cur := r.current.Load()
	return cur.kernel[0], cur.kernel[1]
}

// Latency returns the wet-path delay in frames.
func (r *Reverb) Latency() int { return BlockSize }

// SampleRate returns the sample rate in Hz.
func (r *Reverb) SampleRate() float64 { return r.sampleRate }

// Process mixes the reverb into a stereo block in place:
//
//	out = (1-wet)*x + wet*(x*h)
//
// Process, Reset and the engines belong to the audio goroutine.
func (r *Reverb) Process(left, right []float64) {
	imp := r.current.Load()
	n := len(left)
	r.wetL = core.EnsureLen(r.wetL, n)
	r.wetR = core.EnsureLen(r.wetR, n)

	imp.engine[0].Process(r.wetL, left)
	imp.engine[1].Process(r.wetR, right)

	for i := 0; i < n; i++ {
		w := r.wet.Next()
		left[i] = left[i]*(1-w) + r.wetL[i]*w
		right[i] = right[i]*(1-w) + r.wetR[i]*w
	}
}

// Reset clears convolution state of the active impulse.
func (r *Reverb) Reset() {
	imp := r.current.Load()
	for _, e := range imp.engine {
		e.Reset()
	}
}

func (r *Reverb) rebuild(roomSize, damping float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebuildLocked(roomSize, damping)
}

func (r *Reverb) rebuildLocked(roomSize, damping float64) error {
	l, rr := SyntheticImpulse(r.sampleRate, roomSize, damping, r.seed)
	scale := NormalizationScale(r.sampleRate, l, rr)
	for i := range l {
		l[i] *= scale
		rr[i] *= scale
	}

	imp := &impulse{roomSize: roomSize, damping: damping, kernel: [2][]float64{l, rr}}
	for c, k := range imp.kernel {
		engine, err := conv.NewPartitioned(k, BlockSize)
		if err != nil {
			return fmt.Errorf("reverb: failed to create convolution engine: %w", err)
		}
		imp.engine[c] = engine
	}

	r.current.Store(imp)
	r.generation.Add(1)
	return nil
}
