package signal

import (
	"math"
	"testing"
)

func TestNoiseDeterministic(t *testing.T) {
	a := NewNoise(42)
	b := NewNoise(42)
	for i := 0; i < 64; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("sample %d mismatch: %v != %v", i, x, y)
		}
		if x < -1 || x >= 1 {
			t.Fatalf("sample %d out of range: %v", i, x)
		}
	}
}

func TestWhiteNoiseAmplitude(t *testing.T) {
	n, err := WhiteNoise(7, 0.25, 1024)
	if err != nil {
		t.Fatalf("WhiteNoise() error = %v", err)
	}
	for i, v := range n {
		if math.Abs(v) > 0.25 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, v)
		}
	}

	if _, err := WhiteNoise(1, -1, 8); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
	if _, err := WhiteNoise(1, 1, 0); err == nil {
		t.Fatal("expected error for empty length")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	want := []float64{-0.4, 0.2, 0.8}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}
