package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestAt(t *testing.T) {
	buf := []float64{0, 1, 2, 3, 4, 5}
	if got := At(buf, 2.5); got < 2.5-1e-12 || got > 2.5+1e-12 {
		t.Fatalf("At(2.5) = %v, want 2.5", got)
	}
	if got := At(buf, 3); got != 3 {
		t.Fatalf("At(3) = %v, want 3", got)
	}
	if got := At(buf, 10); got != 0 {
		t.Fatalf("At(out of range) = %v, want 0", got)
	}
}
