package spectrum

import (
	"testing"

	"github.com/cwbudde/algo-groovebox/internal/testutil"
)

func TestAnalyserFindsSinePeak(t *testing.T) {
	a, err := NewAnalyser(WithSmoothing(0))
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	if a.Bins() != 32 {
		t.Fatalf("Bins() = %d, want 32", a.Bins())
	}

	// Bin 8 of a 64-point FFT at 6.4 kHz is 800 Hz.
	a.Write(testutil.DeterministicSine(800, 6400, 1, 256))
	if err := a.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	mags := make([]float64, a.Bins())
	a.Magnitudes(mags)
	peak := 0
	for k := range mags {
		if mags[k] > mags[peak] {
			peak = k
		}
	}
	if peak != 8 {
		t.Fatalf("peak bin = %d, want 8", peak)
	}
}

func TestAnalyserSilenceAndSmoothing(t *testing.T) {
	a, err := NewAnalyser()
	if err != nil {
		t.Fatalf("NewAnalyser() error = %v", err)
	}
	if err := a.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	db := make([]float64, a.Bins())
	a.Decibels(db)
	for k, v := range db {
		if v != MinDecibels {
			t.Fatalf("bin %d = %v dB, want floor", k, v)
		}
	}

	a.WriteStereo(testutil.DC(1, 64), testutil.DC(1, 64))
	if err := a.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	mags := make([]float64, a.Bins())
	a.Magnitudes(mags)
	// One update with smoothing 0.8 keeps 20% of the raw DC magnitude.
	if mags[0] <= 0 || mags[0] > 0.2 {
		t.Fatalf("smoothed DC bin = %v, want in (0, 0.2]", mags[0])
	}
}

func TestAnalyserOptionValidation(t *testing.T) {
	if _, err := NewAnalyser(WithFFTSize(100)); err == nil {
		t.Fatal("expected error for non power of two")
	}
	if _, err := NewAnalyser(WithSmoothing(1)); err == nil {
		t.Fatal("expected error for smoothing 1")
	}
}
