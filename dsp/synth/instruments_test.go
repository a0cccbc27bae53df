package synth

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-groovebox/dsp/osc"
	"github.com/cwbudde/algo-groovebox/internal/testutil"
)

const testRate = 48000.0

func render(inst Instrument, seconds float64) []float64 {
	n := int(seconds * testRate)
	l := make([]float64, n)
	r := make([]float64, n)
	const block = 512
	for off := 0; off < n; off += block {
		end := min(off+block, n)
		inst.Render(l[off:end], r[off:end], float64(off)/testRate)
	}
	return l
}

func peakIn(x []float64, from, to float64) float64 {
	p := 0.0
	for i := int(from * testRate); i < int(to*testRate) && i < len(x); i++ {
		p = math.Max(p, math.Abs(x[i]))
	}
	return p
}

func TestChokePolicies(t *testing.T) {
	tests := []struct {
		name string
		inst Instrument
		want ChokePolicy
	}{
		{"beep", NewBeep(testRate), ChokePoly},
		{"bell", NewBell(testRate), ChokePoly},
		{"kick", NewKick(testRate), ChokePoly},
		{"snare", NewSnare(testRate, 1), ChokePoly},
		{"hihat", NewHiHat(testRate), ChokePoly},
		{"pluck", NewPluck(testRate), ChokeMono},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Choke(); got != tt.want {
				t.Fatalf("Choke() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeepWaveformBins(t *testing.T) {
	tests := []struct {
		shape float64
		want  osc.Waveform
	}{
		{0, osc.Sine},
		{0.34, osc.Sine},
		{0.35, osc.Triangle},
		{0.68, osc.Triangle},
		{0.69, osc.Square},
		{1, osc.Square},
	}
	for _, tt := range tests {
		if got := (BeepParams{Shape: tt.shape}).Waveform(); got != tt.want {
			t.Fatalf("Shape %v -> %v, want %v", tt.shape, got, tt.want)
		}
	}
}

func TestInstrumentsStopOnTime(t *testing.T) {
	tests := []struct {
		name string
		inst Instrument
		stop float64
		peak float64
	}{
		{"beep", NewBeep(testRate), 0.2 + 0.1*3.1, 0.5},
		{"bell", NewBell(testRate), 0.01 + 0.4 + 0.8 + 0.1, 1},
		{"kick", NewKick(testRate), 0.8 + 0.1, 0.36},
		{"snare", NewSnare(testRate, 3), 0.3 + 0.1, 4},
		{"hihat", NewHiHat(testRate), 0.05 + 0.1, 20},
		{"pluck", NewPluck(testRate), 0.15 + 0.1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.inst.Trigger(220, 0.01, 1)
			tt.inst.Release(0.02)
			out := render(tt.inst, tt.stop+0.2)
			testutil.RequireFinite(t, out)

			if p := peakIn(out, 0, 0.01); p != 0 {
				t.Fatalf("output before trigger: %v", p)
			}
			if p := peakIn(out, 0.01, 0.01+tt.stop); p == 0 || p > tt.peak {
				t.Fatalf("peak while sounding = %v, want in (0, %v]", p, tt.peak)
			}
			if p := peakIn(out, 0.01+tt.stop+1/testRate, tt.stop+0.2); p != 0 {
				t.Fatalf("output after stop: %v", p)
			}
		})
	}
}

func TestKickIgnoresNoteFrequency(t *testing.T) {
	a, b := NewKick(testRate), NewKick(testRate)
	a.Trigger(110, 0, 1)
	b.Trigger(880, 0, 1)
	testutil.RequireSliceNearlyEqual(t, render(a, 0.5), render(b, 0.5), 0)
}

func TestKickDistRebuildsCurve(t *testing.T) {
	k := NewKick(testRate)
	before := k.shaper
	p := k.Params()
	p.Release = 1.2
	k.SetParams(p)
	if k.shaper != before {
		t.Fatal("curve rebuilt without a Dist change")
	}
	p.Dist = 0.9
	k.SetParams(p)
	if k.shaper == before {
		t.Fatal("curve not rebuilt after Dist change")
	}
}

func TestSnareSeedIsDeterministic(t *testing.T) {
	a, b := NewSnare(testRate, 9), NewSnare(testRate, 9)
	a.Trigger(0, 0, 0.8)
	b.Trigger(0, 0, 0.8)
	testutil.RequireSliceNearlyEqual(t, render(a, 0.3), render(b, 0.3), 0)
}

func TestSnareHitsReplayNoiseTable(t *testing.T) {
	one, two := NewSnare(testRate, 4), NewSnare(testRate, 4)
	one.Trigger(0, 0, 1)
	two.Trigger(0, 0, 1)
	two.Trigger(0, 0, 1)

	a, b := render(one, 0.3), render(two, 0.3)
	if peakIn(a, 0, 0.3) == 0 {
		t.Fatal("snare is silent")
	}
	for i := range a {
		if math.Abs(b[i]-2*a[i]) > 1e-9 {
			t.Fatalf("sample %d: two hits = %v, want %v", i, b[i], 2*a[i])
		}
	}
}

func TestPluckRetriggerChokes(t *testing.T) {
	p := NewPluck(testRate)
	p.Trigger(220, 0, 1)
	p.Trigger(330, 0.05, 1)
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 scheduled", p.Len())
	}
	render(p, 0.06)
	if p.Len() != 1 {
		t.Fatalf("Len() = %d after first note choked, want 1", p.Len())
	}
}

func TestBellEnvelopeShape(t *testing.T) {
	b := NewBell(testRate)
	bp := DefaultBellParams()
	bp.FMDepth = 0
	bp.Detune = 0
	bp.Attack = 0.1
	b.SetParams(bp)
	b.Trigger(1000, 0, 1)

	out := render(b, 0.5)
	early := peakIn(out, 0, 0.02)
	top := peakIn(out, 0.09, 0.11)
	late := peakIn(out, 0.45, 0.5)
	if !(early < top && late < top) {
		t.Fatalf("envelope peaks early=%v top=%v late=%v, want rise then fall", early, top, late)
	}
	if math.Abs(top-1) > 0.05 {
		t.Fatalf("attack peak = %v, want ~1", top)
	}
}
