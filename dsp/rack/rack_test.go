package rack

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/slicer"
)

const testRate = 48000.0

func newTestRack(t *testing.T) *Rack {
	t.Helper()
	r, err := New(Context{SampleRate: testRate, BlockSize: 256, Seed: 1},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

// midpoint moves every field off its default so a round trip is
// observable.
func midpoint(s Schema) Params {
	p := Params{Num: map[string]float64{}, Str: map[string]string{}}
	for _, f := range s {
		if f.IsString() {
			p.Str[f.Name] = f.Choices[len(f.Choices)-1]
			continue
		}
		p.Num[f.Name] = (f.Min + f.Max) / 2
	}
	return p
}

func TestNewValidation(t *testing.T) {
	_, err := New(Context{})
	assert.Error(t, err)
	_, err = New(Context{SampleRate: testRate, BlockSize: -1})
	assert.Error(t, err)
	_, err = New(Context{SampleRate: testRate}, WithRegistry(nil))
	assert.Error(t, err)

	r, err := New(Context{SampleRate: testRate})
	require.NoError(t, err)
	assert.Equal(t, core.DefaultProcessorConfig().BlockSize, r.Context().BlockSize)
	assert.NotNil(t, r.Clock())
}

func TestDefaultRegistryTypes(t *testing.T) {
	assert.Equal(t, []string{
		"beep", "bell", "bitcrusher", "chorus", "hihat", "isolator", "kick",
		"limiter", "phaser", "pluck", "reverb", "slicer", "snare",
	}, DefaultRegistry().Types())

	r := NewRegistry()
	require.NoError(t, r.Register("x", newBeep))
	assert.Error(t, r.Register("x", newBeep))
	assert.Error(t, r.Register("", newBeep))
	assert.Error(t, r.Register("y", nil))
	assert.Panics(t, func() { r.MustRegister("x", newBeep) })
}

func TestStateRoundTripForEveryType(t *testing.T) {
	for _, typ := range DefaultRegistry().Types() {
		t.Run(typ, func(t *testing.T) {
			src := newTestRack(t)
			h, err := src.Add(typ)
			require.NoError(t, err)

			p, ok := src.Get(h)
			require.True(t, ok)
			assert.Equal(t, p.Schema().Defaults(), p.Parameters())

			require.NoError(t, src.SetParameters(h, midpoint(p.Schema())))
			if sp, ok := p.(*SlicerPlugin); ok {
				sp.Slicer().SetChops([]float64{0.25, 0.5})
			}

			data, err := json.Marshal(src.Snapshot())
			require.NoError(t, err)

			var states []SlotState
			require.NoError(t, json.Unmarshal(data, &states))

			dst := newTestRack(t)
			handles, err := dst.Restore(states)
			require.NoError(t, err)
			require.Len(t, handles, 1)

			q, ok := dst.Get(handles[0])
			require.True(t, ok)
			assert.Equal(t, typ, q.Type())
			assert.Equal(t, p.Parameters(), q.Parameters())
			assert.Equal(t, p.State(), q.State())
		})
	}
}

func TestSetParametersClamps(t *testing.T) {
	r := newTestRack(t)
	kick, err := r.Add(TypeKick)
	require.NoError(t, err)
	bell, err := r.Add(TypeBell)
	require.NoError(t, err)

	require.NoError(t, r.SetParameters(kick, NumParams(map[string]float64{
		"pitch": 1000, "dist": math.NaN(), "bogus": 3,
	})))
	p, _ := r.Get(kick)
	got := p.Parameters()
	assert.Equal(t, 100.0, got.Num["pitch"])
	assert.Equal(t, 0.2, got.Num["dist"])
	assert.NotContains(t, got.Num, "bogus")

	require.NoError(t, r.SetParameters(bell, Params{Str: map[string]string{"wave": "SQUARE"}}))
	p, _ = r.Get(bell)
	assert.Equal(t, "square", p.Parameters().Str["wave"])

	require.NoError(t, r.SetParameters(bell, Params{Str: map[string]string{"wave": "noise"}}))
	assert.Equal(t, "sine", p.Parameters().Str["wave"])

	assert.ErrorIs(t, p.SetState(SlotState{Type: TypeKick}), ErrTypeMismatch)
}

func TestHandles(t *testing.T) {
	r := newTestRack(t)

	_, err := r.Add("theremin")
	assert.ErrorIs(t, err, ErrUnknownType)

	a, err := r.Add(TypeBeep)
	require.NoError(t, err)
	fx, err := r.Add(TypeChorus)
	require.NoError(t, err)
	assert.Equal(t, []Handle{a, fx}, r.Handles())

	require.NoError(t, r.Remove(a))
	assert.ErrorIs(t, r.Remove(a), ErrUnknownHandle)
	b, err := r.Add(TypeBeep)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, []Handle{fx, b}, r.Handles())

	assert.ErrorIs(t, r.Trigger(fx, 440, 0, 1), ErrNotInstrument)
	assert.ErrorIs(t, r.Trigger(a, 440, 0, 1), ErrUnknownHandle)
	assert.ErrorIs(t, r.SetParameters(a, Params{}), ErrUnknownHandle)
	assert.NoError(t, r.Release(b, 0))
}

func TestRenderRoutesInstrumentsThroughEffects(t *testing.T) {
	r := newTestRack(t)
	kick, err := r.Add(TypeKick)
	require.NoError(t, err)
	crush, err := r.Add(TypeBitCrusher)
	require.NoError(t, err)
	require.NoError(t, r.SetParameters(crush, NumParams(map[string]float64{"bitDepth": 1, "mix": 1})))

	require.NoError(t, r.Trigger(kick, 0, 0, 1))
	out := r.Render(2048)
	assert.Equal(t, int64(2048), r.Clock().Frame())
	require.Equal(t, 2048, out.Frames())

	assert.Positive(t, out.Peak())
	for i := range out.L {
		require.Contains(t, []float64{-0.5, 0, 0.5}, out.L[i])
	}
	assert.Equal(t, out.L, out.R)
}

func TestRenderEmptyRackIsSilent(t *testing.T) {
	r := newTestRack(t)
	out := r.Render(64)
	assert.Zero(t, out.Peak())
	assert.Equal(t, int64(64), r.Clock().Frame())
}

func TestRestoreFailureKeepsRack(t *testing.T) {
	r := newTestRack(t)
	h, err := r.Add(TypePluck)
	require.NoError(t, err)

	_, err = r.Restore([]SlotState{{Type: TypeBeep}, {Type: "nope"}})
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, []Handle{h}, r.Handles())
}

func TestSlicerThroughRack(t *testing.T) {
	r := newTestRack(t)
	h, err := r.Add(TypeSlicer)
	require.NoError(t, err)
	p, _ := r.Get(h)
	sp := p.(*SlicerPlugin)

	require.NoError(t, r.Trigger(h, 440, 0, 1))
	assert.Zero(t, r.Render(256).Peak())

	data := make([]float64, 4800)
	for i := range data {
		data[i] = 0.5
	}
	buf, err := slicer.NewBuffer(testRate, data)
	require.NoError(t, err)
	require.NoError(t, sp.Slicer().SetBuffer(buf))

	now := r.Clock().Now()
	require.NoError(t, r.Trigger(h, core.FrequencyFromMIDI(36), now, 1))
	assert.InDelta(t, 0.5*slicer.DefaultVolume, r.Render(1024).Peak(), 1e-9)
	assert.Equal(t, []float64{0}, sp.State().Chops)
}

func TestLimiterPluginMeters(t *testing.T) {
	r := newTestRack(t)
	h, err := r.Add(TypeLimiter)
	require.NoError(t, err)
	p, _ := r.Get(h)
	lp, ok := p.(*LimiterPlugin)
	require.True(t, ok)

	lp.Input().Resize(512)
	for i := range lp.Input().L {
		lp.Input().L[i] = 0.25
		lp.Input().R[i] = 0.25
	}
	lp.Process(512)
	assert.InDelta(t, 0.25, lp.Levels().Peak, 1e-9)

	require.NoError(t, r.Remove(h))
}

func TestParamsJSON(t *testing.T) {
	var p Params
	require.NoError(t, json.Unmarshal([]byte(`{"wave":"square","attack":0.1,"flag":true}`), &p))
	assert.Equal(t, map[string]float64{"attack": 0.1}, p.Num)
	assert.Equal(t, map[string]string{"wave": "square"}, p.Str)

	data, err := json.Marshal(SlotState{Type: TypeBell, Params: p})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"bell","params":{"wave":"square","attack":0.1}}`, string(data))

	assert.Equal(t, 3.0, p.GetNum("missing", 3))
	assert.Equal(t, "x", p.GetStr("missing", "x"))
}
