package rack

import (
	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/dsp/slicer"
	"github.com/cwbudde/algo-groovebox/dsp/synth"
)

var (
	beepSchema = Schema{
		{Name: "shape", Min: 0, Max: 1, Default: 0},
		{Name: "lfo", Min: 0, Max: 1, Default: 0},
		{Name: "reverb", Min: 0.01, Max: 1, Default: 0.1},
	}
	bellSchema = Schema{
		{Name: "wave", Choices: []string{"sine", "square", "sawtooth", "triangle"}},
		{Name: "attack", Min: 0.001, Max: 0.5, Default: 0.01},
		{Name: "decay", Min: 0.1, Max: 2, Default: 0.4},
		{Name: "release", Min: 0.1, Max: 3, Default: 0.8},
		{Name: "detune", Min: -100, Max: 100, Default: 5},
		{Name: "fmRatio", Min: 0.5, Max: 10, Default: 2.5},
		{Name: "fmDepth", Min: 0, Max: 500, Default: 50},
	}
	kickSchema = Schema{
		{Name: "tone", Min: 0.01, Max: 0.3, Default: 0.1},
		{Name: "release", Min: 0.1, Max: 2, Default: 0.8},
		{Name: "pitch", Min: 30, Max: 100, Default: 55},
		{Name: "dist", Min: 0, Max: 1, Default: 0.2},
	}
	snareSchema = Schema{
		{Name: "tone", Min: 0.01, Max: 0.5, Default: 0.3},
		{Name: "pitch", Min: 80, Max: 400, Default: 180},
		{Name: "snap", Min: 0, Max: 1, Default: 0.5},
		{Name: "decay", Min: 0.01, Max: 1, Default: 0.2},
	}
	hiHatSchema = Schema{
		{Name: "decay", Min: 0.01, Max: 0.5, Default: 0.05},
		{Name: "sizzle", Min: 0, Max: 1, Default: 0.5},
		{Name: "pitch", Min: 2000, Max: 12000, Default: 4000},
		{Name: "volume", Min: 0, Max: 1.5, Default: 0.7},
	}
	pluckSchema = Schema{
		{Name: "decay", Min: 0.05, Max: 1, Default: 0.15},
		{Name: "filter", Min: 100, Max: 5000, Default: 1000},
		{Name: "mix", Min: 0, Max: 1, Default: 0.8},
	}
	slicerSchema = Schema{
		{Name: "volume", Min: 0, Max: 1, Default: slicer.DefaultVolume},
	}
)

// instrument adapts a synth.Instrument to the rack contract.
type instrument struct {
	base
	voices synth.Instrument
	out    *core.Bus
}

func (in *instrument) Trigger(freq, t, velocity float64) { in.voices.Trigger(freq, t, velocity) }
func (in *instrument) Release(t float64)                 { in.voices.Release(t) }
func (in *instrument) Output() *core.Bus                 { return in.out }

// Choke reports the retrigger policy of the underlying voices.
func (in *instrument) Choke() synth.ChokePolicy { return in.voices.Choke() }

func (in *instrument) Render(frames int, t0 float64) {
	in.out.Resize(frames)
	in.out.Clear()
	in.voices.Render(in.out.L, in.out.R, t0)
}

func (in *instrument) Dispose() {
	in.voices.Reset()
	in.out.Resize(0)
}

func newInstrument(ctx Context, voices synth.Instrument) *instrument {
	return &instrument{voices: voices, out: core.NewBus(ctx.BlockSize)}
}

func newBeep(ctx Context) (Plugin, error) {
	k := synth.NewBeep(ctx.SampleRate)
	in := newInstrument(ctx, k)
	return in, in.init(TypeBeep, beepSchema, func(p Params) error {
		k.SetParams(synth.BeepParams{
			Shape:  p.GetNum("shape", 0),
			LFO:    p.GetNum("lfo", 0),
			Reverb: p.GetNum("reverb", 0.1),
		})
		return nil
	})
}

func newBell(ctx Context) (Plugin, error) {
	k := synth.NewBell(ctx.SampleRate)
	in := newInstrument(ctx, k)
	return in, in.init(TypeBell, bellSchema, func(p Params) error {
		wave, _ := osc.ParseWaveform(p.GetStr("wave", "sine"))
		k.SetParams(synth.BellParams{
			Wave:    wave,
			Attack:  p.GetNum("attack", 0.01),
			Decay:   p.GetNum("decay", 0.4),
			Release: p.GetNum("release", 0.8),
			Detune:  p.GetNum("detune", 5),
			FMRatio: p.GetNum("fmRatio", 2.5),
			FMDepth: p.GetNum("fmDepth", 50),
		})
		return nil
	})
}

func newKick(ctx Context) (Plugin, error) {
	k := synth.NewKick(ctx.SampleRate)
	in := newInstrument(ctx, k)
	return in, in.init(TypeKick, kickSchema, func(p Params) error {
		k.SetParams(synth.KickParams{
			Tone:    p.GetNum("tone", 0.1),
			Release: p.GetNum("release", 0.8),
			Pitch:   p.GetNum("pitch", 55),
			Dist:    p.GetNum("dist", 0.2),
		})
		return nil
	})
}

func newSnare(ctx Context) (Plugin, error) {
	k := synth.NewSnare(ctx.SampleRate, ctx.Seed)
	in := newInstrument(ctx, k)
	return in, in.init(TypeSnare, snareSchema, func(p Params) error {
		k.SetParams(synth.SnareParams{
			Tone:  p.GetNum("tone", 0.3),
			Pitch: p.GetNum("pitch", 180),
			Snap:  p.GetNum("snap", 0.5),
			Decay: p.GetNum("decay", 0.2),
		})
		return nil
	})
}

func newHiHat(ctx Context) (Plugin, error) {
	k := synth.NewHiHat(ctx.SampleRate)
	in := newInstrument(ctx, k)
	return in, in.init(TypeHiHat, hiHatSchema, func(p Params) error {
		k.SetParams(synth.HiHatParams{
			Decay:  p.GetNum("decay", 0.05),
			Sizzle: p.GetNum("sizzle", 0.5),
			Pitch:  p.GetNum("pitch", 4000),
			Volume: p.GetNum("volume", 0.7),
		})
		return nil
	})
}

func newPluck(ctx Context) (Plugin, error) {
	k := synth.NewPluck(ctx.SampleRate)
	in := newInstrument(ctx, k)
	return in, in.init(TypePluck, pluckSchema, func(p Params) error {
		k.SetParams(synth.PluckParams{
			Decay:  p.GetNum("decay", 0.15),
			Filter: p.GetNum("filter", 1000),
			Mix:    p.GetNum("mix", 0.8),
		})
		return nil
	})
}

// SlicerPlugin is the rack adapter of slicer.Slicer. Its state carries the
// chop points.
type SlicerPlugin struct {
	instrument
	s *slicer.Slicer
}

func newSlicer(ctx Context) (Plugin, error) {
	opts := []slicer.Option{}
	if ctx.Logger != nil {
		opts = append(opts, slicer.WithLogger(ctx.Logger))
	}
	s, err := slicer.New(ctx.SampleRate, opts...)
	if err != nil {
		return nil, err
	}
	sp := &SlicerPlugin{
		instrument: instrument{voices: s, out: core.NewBus(ctx.BlockSize)},
		s:          s,
	}
	return sp, sp.init(TypeSlicer, slicerSchema, func(p Params) error {
		return s.SetVolume(p.GetNum("volume", slicer.DefaultVolume))
	})
}

// Slicer returns the underlying slicer for loading and chop editing.
func (sp *SlicerPlugin) Slicer() *slicer.Slicer { return sp.s }

// State includes the chop points.
func (sp *SlicerPlugin) State() SlotState {
	st := sp.instrument.State()
	st.Chops = sp.s.Chops()
	return st
}

// SetState restores parameters and chop points. Missing chops reset to [0].
func (sp *SlicerPlugin) SetState(s SlotState) error {
	if err := sp.instrument.SetState(s); err != nil {
		return err
	}
	sp.s.SetChops(s.Chops)
	return nil
}

// Dispose drops the buffer and all playback.
func (sp *SlicerPlugin) Dispose() {
	sp.s.Dispose()
	sp.out.Resize(0)
}
