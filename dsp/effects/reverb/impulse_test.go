package reverb

import (
	"math"
	"testing"
)

func TestImpulseLength(t *testing.T) {
	tests := []struct {
		sr, room float64
		want     int
	}{
		{48000, 2.5, 120000},
		{44100, 2.5, 110250},
		{44100, 0.01, 4410},
		{22050, 1.00001, 22050},
	}
	for _, tt := range tests {
		if got := ImpulseLength(tt.sr, tt.room); got != tt.want {
			t.Fatalf("ImpulseLength(%v, %v) = %d, want %d", tt.sr, tt.room, got, tt.want)
		}
	}
}

func TestSyntheticImpulseDecays(t *testing.T) {
	const sr = 48000.0
	l, r := SyntheticImpulse(sr, 2.5, 0.5, 42)
	if len(l) != int(math.Round(sr*2.5)) || len(r) != len(l) {
		t.Fatalf("len = %d/%d, want %d", len(l), len(r), int(math.Round(sr*2.5)))
	}
	if got := DecayExponent(0.5); math.Abs(got-1/0.55) > 1e-12 {
		t.Fatalf("DecayExponent(0.5) = %v, want %v", got, 1/0.55)
	}

	const windows = 10
	w := len(l) / windows
	prev := math.Inf(1)
	for k := 0; k < windows; k++ {
		e := 0.0
		for _, v := range l[k*w : (k+1)*w] {
			e += v * v
		}
		rms := math.Sqrt(e / float64(w))
		if rms > prev*1.05 {
			t.Fatalf("window %d rms %v rises above previous %v", k, rms, prev)
		}
		prev = rms
	}

	for j, v := range l {
		if env := math.Pow(1-float64(j)/float64(len(l)), DecayExponent(0.5)); math.Abs(v) > env {
			t.Fatalf("sample %d = %v exceeds envelope %v", j, v, env)
		}
	}
}

func TestSyntheticImpulseChannelsDiffer(t *testing.T) {
	l, r := SyntheticImpulse(8000, 0.5, 0, 7)
	same := 0
	for i := range l {
		if l[i] == r[i] {
			same++
		}
	}
	if same > len(l)/100 {
		t.Fatalf("%d of %d samples identical across channels", same, len(l))
	}
}

func TestNormalizationScale(t *testing.T) {
	ones := make([]float64, 100)
	for i := range ones {
		ones[i] = 2
	}
	if got, want := NormalizationScale(44100, ones, ones), 0.00125/2; math.Abs(got-want) > 1e-15 {
		t.Fatalf("NormalizationScale() = %v, want %v", got, want)
	}
	if got, want := NormalizationScale(88200, ones), 0.00125/2/2; math.Abs(got-want) > 1e-15 {
		t.Fatalf("NormalizationScale() = %v, want %v", got, want)
	}
	if got := NormalizationScale(44100, make([]float64, 10)); math.Abs(got-10) > 1e-9 {
		t.Fatalf("silent impulse scale = %v, want 10", got)
	}
}
