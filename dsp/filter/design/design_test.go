package design

import (
	"math"
	"math/cmplx"
	"testing"
)

const sr = 48000.0

func TestLowpassHighpassGains(t *testing.T) {
	lp := Lowpass(1000, ButterworthQ, sr)
	hp := Highpass(1000, ButterworthQ, sr)

	tests := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{name: "lp passband", got: lp.MagnitudeDB(20, sr), want: 0, tol: 0.01},
		{name: "lp cutoff", got: lp.MagnitudeDB(1000, sr), want: -3.01, tol: 0.05},
		{name: "hp passband", got: hp.MagnitudeDB(20000, sr), want: 0, tol: 0.05},
		{name: "hp cutoff", got: hp.MagnitudeDB(1000, sr), want: -3.01, tol: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > tt.tol {
				t.Fatalf("gain = %v dB, want %v dB", tt.got, tt.want)
			}
		})
	}
}

func TestBandpassUnityPeak(t *testing.T) {
	for _, q := range []float64{0.5, 2, 10, 20} {
		c := Bandpass(4000, q, sr)
		if g := cmplx.Abs(c.Response(4000, sr)); math.Abs(g-1) > 1e-9 {
			t.Fatalf("Q=%v: centre gain = %v, want 1", q, g)
		}
	}
}

func TestAllpassFlatMagnitude(t *testing.T) {
	c := Allpass(600, 0.5, sr)
	for _, f := range []float64{20, 200, 600, 5000, 20000} {
		if g := cmplx.Abs(c.Response(f, sr)); math.Abs(g-1) > 1e-9 {
			t.Fatalf("|H(%v)| = %v, want 1", f, g)
		}
	}
}

func TestInvalidFrequencyReturnsZero(t *testing.T) {
	for _, f := range []float64{0, -10, sr / 2, math.NaN()} {
		if c := Lowpass(f, 1, sr); c.B0 != 0 || c.A1 != 0 {
			t.Fatalf("Lowpass(%v) = %+v, want zero", f, c)
		}
	}
}

func TestClampFrequency(t *testing.T) {
	if got := ClampFrequency(5, 10, sr); got != 10 {
		t.Fatalf("ClampFrequency low = %v", got)
	}
	if got := ClampFrequency(30000, 10, sr); got != 0.49*sr {
		t.Fatalf("ClampFrequency high = %v", got)
	}
}
