package modulation

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-groovebox/internal/testutil"
)

func TestNewChorusValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opts []ChorusOption
	}{
		{name: "zero sample rate", sr: 0},
		{name: "speed too high", sr: 48000, opts: []ChorusOption{WithChorusSpeed(20)}},
		{name: "depth too large", sr: 48000, opts: []ChorusOption{WithChorusDepth(0.05)}},
		{name: "negative width", sr: 48000, opts: []ChorusOption{WithChorusWidth(-0.1)}},
		{name: "nan mix", sr: 48000, opts: []ChorusOption{WithChorusMix(math.NaN())}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChorus(tt.sr, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestChorusMixZeroIsDry(t *testing.T) {
	c, err := NewChorus(48000, WithChorusMix(0))
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	l := testutil.DeterministicNoise(3, 0.5, 1024)
	r := testutil.DeterministicNoise(4, 0.5, 1024)
	wantL := append([]float64(nil), l...)
	wantR := append([]float64(nil), r...)
	c.Process(l, r)

	testutil.RequireSliceNearlyEqual(t, l, wantL, 0)
	testutil.RequireSliceNearlyEqual(t, r, wantR, 0)
}

func TestChorusFullWidthLeavesRightUnmodulated(t *testing.T) {
	c, err := NewChorus(48000, WithChorusMix(1), WithChorusWidth(1), WithChorusDepth(0.01))
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	l := testutil.DeterministicSine(440, 48000, 0.5, 2048)
	r := testutil.DeterministicSine(440, 48000, 0.5, 2048)
	want := append([]float64(nil), r...)
	c.Process(l, r)

	testutil.RequireSliceNearlyEqual(t, r, want, 1e-12)
	d, err := testutil.MaxAbsDiff(l, want)
	if err != nil {
		t.Fatalf("MaxAbsDiff() error = %v", err)
	}
	if d < 0.1 {
		t.Fatalf("left channel barely modulated: max diff %v", d)
	}
}

func TestChorusDelaysImpulseByDepth(t *testing.T) {
	const sr = 48000.0
	c, err := NewChorus(sr, WithChorusMix(1), WithChorusDepth(0.01), WithChorusSpeed(0.1))
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	l := testutil.Impulse(2048, 0)
	r := make([]float64, 2048)
	c.Process(l, r)

	peak := 0
	for i := range l {
		if math.Abs(l[i]) > math.Abs(l[peak]) {
			peak = i
		}
	}
	// At phase ~0 the delay is depth*(1+sin(0)) = 480 samples.
	if peak < 470 || peak > 500 {
		t.Fatalf("impulse peak at %d, want ~480", peak)
	}
}

func TestChorusSettersClamp(t *testing.T) {
	c, err := NewChorus(48000)
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}
	if err := c.SetDepth(1); err != nil {
		t.Fatalf("SetDepth() error = %v", err)
	}
	if got := c.Depth(); got != maxChorusDepth {
		t.Fatalf("Depth() = %v, want %v", got, maxChorusDepth)
	}
	if err := c.SetSpeed(math.Inf(1)); err == nil {
		t.Fatal("expected error for infinite speed")
	}
}
