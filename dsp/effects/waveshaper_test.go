package effects

import (
	"math"
	"testing"
)

func TestWaveshaperInterpolates(t *testing.T) {
	w := NewWaveshaper([]float64{-1, 0, 4})

	tests := []struct {
		in, want float64
	}{
		{-2, -1},
		{-1, -1},
		{-0.5, -0.5},
		{0, 0},
		{0.25, 1},
		{1, 4},
		{3, 4},
	}
	for _, tt := range tests {
		if got := w.ProcessSample(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("ProcessSample(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := NewWaveshaper(nil).ProcessSample(0.3); got != 0.3 {
		t.Fatalf("empty curve: got %v, want passthrough", got)
	}
}

func TestKickCurve(t *testing.T) {
	flat := KickCurve(0)
	if len(flat) != KickCurveSize {
		t.Fatalf("len = %d, want %d", len(flat), KickCurveSize)
	}
	// dist 0 is the line x/3.
	if got := flat[0]; math.Abs(got+1.0/3) > 1e-12 {
		t.Fatalf("curve[0] = %v, want -1/3", got)
	}

	driven := KickCurve(1)
	w := NewWaveshaper(driven)
	buf := []float64{-1, -0.1, 0, 0.1, 1}
	w.ProcessInPlace(buf)
	for i := 1; i < len(buf); i++ {
		if buf[i] < buf[i-1] {
			t.Fatalf("curve not monotonic: %v", buf)
		}
	}
	if buf[2] != 0 && math.Abs(buf[2]) > 1e-3 {
		t.Fatalf("shape(0) = %v, want ~0", buf[2])
	}
	if buf[4] > 0.36 {
		t.Fatalf("shape(1) = %v, want <= 0.36", buf[4])
	}
}

func TestKickCurveLinearAtZeroDrive(t *testing.T) {
	curve := KickCurve(0)
	for _, i := range []int{0, 1000, KickCurveSize / 2, KickCurveSize - 1} {
		x := float64(i)*2/KickCurveSize - 1
		if want := x / 3; math.Abs(curve[i]-want) > 1e-12 {
			t.Fatalf("curve[%d] = %v, want %v", i, curve[i], want)
		}
	}
}

func TestKickCurveDriveIsOdd(t *testing.T) {
	curve := KickCurve(0.8)
	for i := 1; i < len(curve); i++ {
		if curve[i] < curve[i-1] {
			t.Fatalf("curve not monotonic at %d", i)
		}
	}
	w := NewWaveshaper(curve)
	if a, b := w.ProcessSample(0.5), w.ProcessSample(-0.5); math.Abs(a+b) > 1e-3 {
		t.Fatalf("shape(0.5) = %v, shape(-0.5) = %v, want odd symmetry", a, b)
	}
	if got := w.ProcessSample(4); got != curve[len(curve)-1] {
		t.Fatalf("shape(4) = %v, want end value", got)
	}
}
