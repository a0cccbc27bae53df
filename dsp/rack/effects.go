package rack

import (
	"context"
	"time"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/effects"
	"github.com/cwbudde/algo-groovebox/dsp/effects/dynamics"
	"github.com/cwbudde/algo-groovebox/dsp/effects/modulation"
	"github.com/cwbudde/algo-groovebox/dsp/effects/reverb"
	"github.com/cwbudde/algo-groovebox/dsp/filter/crossover"
)

var (
	bitCrusherSchema = Schema{
		{Name: "amount", Min: 1, Max: 10, Default: 1},
		{Name: "bitDepth", Min: 1, Max: 16, Default: 8},
		{Name: "sampleRate", Min: 0.01, Max: 1, Default: 0.5},
		{Name: "mix", Min: 0, Max: 1, Default: 1},
	}
	chorusSchema = Schema{
		{Name: "speed", Min: 0.1, Max: 10, Default: 1.5},
		{Name: "depth", Min: 0, Max: 0.02, Default: 0.002},
		{Name: "width", Min: 0, Max: 1, Default: 0.5},
		{Name: "mix", Min: 0, Max: 1, Default: 0.5},
	}
	phaserSchema = Schema{
		{Name: "rate", Min: 0.1, Max: 10, Default: 0.5},
		{Name: "depth", Min: 0, Max: 2000, Default: 1000},
		{Name: "baseFreq", Min: 100, Max: 5000, Default: 600},
		{Name: "feedback", Min: 0, Max: modulation.MaxPhaserFeedback, Default: 0.7},
		{Name: "mix", Min: 0, Max: 1, Default: 0.5},
	}
	reverbSchema = Schema{
		{Name: "roomSize", Min: 0.1, Max: 8, Default: reverb.DefaultRoomSize},
		{Name: "damping", Min: 0, Max: 0.95, Default: reverb.DefaultDamping},
		{Name: "wet", Min: 0, Max: 1, Default: reverb.DefaultWet},
	}
	isolatorSchema = Schema{
		{Name: "low", Min: 0, Max: 1, Default: 1},
		{Name: "mid", Min: 0, Max: 1, Default: 1},
		{Name: "high", Min: 0, Max: 1, Default: 1},
		{Name: "lowFreq", Min: 20, Max: 2000, Default: crossover.DefaultIsolatorLowFreq},
		{Name: "highFreq", Min: 200, Max: 16000, Default: crossover.DefaultIsolatorHighFreq},
	}
	limiterSchema = Schema{
		{Name: "thresh", Min: -48, Max: 0, Default: dynamics.DefaultThresholdDB},
		{Name: "makeup", Min: 0, Max: 4, Default: dynamics.DefaultMakeup},
	}
)

// effect adapts a stereo in-place kernel to the rack contract.
type effect struct {
	base
	in, out *core.Bus
	process func(l, r []float64)
}

func (e *effect) Input() *core.Bus  { return e.in }
func (e *effect) Output() *core.Bus { return e.out }

func (e *effect) Process(frames int) {
	frames = min(frames, e.in.Frames())
	e.out.Resize(frames)
	copy(e.out.L, e.in.L[:frames])
	copy(e.out.R, e.in.R[:frames])
	e.process(e.out.L, e.out.R)
}

func (e *effect) Dispose() {
	e.in.Resize(0)
	e.out.Resize(0)
}

func newEffect(ctx Context, process func(l, r []float64)) *effect {
	e := &effect{}
	e.setup(ctx, process)
	return e
}

func (e *effect) setup(ctx Context, process func(l, r []float64)) {
	e.in = core.NewBus(ctx.BlockSize)
	e.out = core.NewBus(ctx.BlockSize)
	e.process = process
}

func newBitCrusher(ctx Context) (Plugin, error) {
	fx, err := effects.NewBitCrusher(ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	e := newEffect(ctx, fx.Process)
	return e, e.init(TypeBitCrusher, bitCrusherSchema, func(p Params) error {
		return firstErr(
			fx.SetAmount(p.GetNum("amount", 1)),
			fx.SetBitDepth(p.GetNum("bitDepth", 8)),
			fx.SetRate(p.GetNum("sampleRate", 0.5)),
			fx.SetMix(p.GetNum("mix", 1)),
		)
	})
}

func newChorus(ctx Context) (Plugin, error) {
	fx, err := modulation.NewChorus(ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	e := newEffect(ctx, fx.Process)
	return e, e.init(TypeChorus, chorusSchema, func(p Params) error {
		return firstErr(
			fx.SetSpeed(p.GetNum("speed", 1.5)),
			fx.SetDepth(p.GetNum("depth", 0.002)),
			fx.SetWidth(p.GetNum("width", 0.5)),
			fx.SetMix(p.GetNum("mix", 0.5)),
		)
	})
}

func newPhaser(ctx Context) (Plugin, error) {
	fx, err := modulation.NewPhaser(ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	e := newEffect(ctx, fx.Process)
	return e, e.init(TypePhaser, phaserSchema, func(p Params) error {
		return firstErr(
			fx.SetRateHz(p.GetNum("rate", 0.5)),
			fx.SetDepthHz(p.GetNum("depth", 1000)),
			fx.SetBaseFrequency(p.GetNum("baseFreq", 600)),
			fx.SetFeedback(p.GetNum("feedback", 0.7)),
			fx.SetMix(p.GetNum("mix", 0.5)),
		)
	})
}

// newReverb rebuilds the impulse only when roomSize or damping change;
// SetRoom ignores unchanged values.
func newReverb(ctx Context) (Plugin, error) {
	fx, err := reverb.New(ctx.SampleRate, reverb.WithSeed(ctx.Seed))
	if err != nil {
		return nil, err
	}
	e := newEffect(ctx, fx.Process)
	return e, e.init(TypeReverb, reverbSchema, func(p Params) error {
		return firstErr(
			fx.SetRoom(p.GetNum("roomSize", reverb.DefaultRoomSize), p.GetNum("damping", reverb.DefaultDamping)),
			fx.SetWet(p.GetNum("wet", reverb.DefaultWet)),
		)
	})
}

func newIsolator(ctx Context) (Plugin, error) {
	fx, err := crossover.NewIsolator(ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	e := newEffect(ctx, fx.Process)
	return e, e.init(TypeIsolator, isolatorSchema, func(p Params) error {
		return firstErr(
			fx.SetGains(p.GetNum("low", 1), p.GetNum("mid", 1), p.GetNum("high", 1)),
			fx.SetSplits(
				p.GetNum("lowFreq", crossover.DefaultIsolatorLowFreq),
				p.GetNum("highFreq", crossover.DefaultIsolatorHighFreq),
			),
		)
	})
}

// LimiterPlugin is the rack adapter of the mastering limiter. It exposes
// the input meter.
type LimiterPlugin struct {
	effect
	lim *dynamics.Limiter
}

func newLimiter(ctx Context) (Plugin, error) {
	lim, err := dynamics.NewLimiter(ctx.SampleRate)
	if err != nil {
		return nil, err
	}
	lp := &LimiterPlugin{lim: lim}
	lp.setup(ctx, lim.Process)
	return lp, lp.init(TypeLimiter, limiterSchema, func(p Params) error {
		return firstErr(
			lim.SetThreshold(p.GetNum("thresh", dynamics.DefaultThresholdDB)),
			lim.SetMakeup(p.GetNum("makeup", dynamics.DefaultMakeup)),
		)
	})
}

// Levels returns the latest meter reading.
func (lp *LimiterPlugin) Levels() dynamics.Levels { return lp.lim.Levels() }

// WatchLevels calls fn with meter readings every interval until ctx ends or
// the plugin is disposed.
func (lp *LimiterPlugin) WatchLevels(ctx context.Context, interval time.Duration, fn func(dynamics.Levels)) {
	lp.lim.WatchLevels(ctx, interval, fn)
}

// Dispose stops meter watchers and releases the buses.
func (lp *LimiterPlugin) Dispose() {
	lp.lim.Dispose()
	lp.effect.Dispose()
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
