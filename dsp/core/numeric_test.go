package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestMIDIFromFrequency(t *testing.T) {
	tests := []struct {
		freq float64
		want int
	}{
		{freq: 440, want: 69},
		{freq: 65.40639, want: 36},
		{freq: 261.6256, want: 60},
		{freq: 0, want: 0},
	}

	for _, tt := range tests {
		if got := MIDIFromFrequency(tt.freq); got != tt.want {
			t.Fatalf("MIDIFromFrequency(%v) = %d, want %d", tt.freq, got, tt.want)
		}
	}

	if f := FrequencyFromMIDI(69); !NearlyEqual(f, 440, 1e-12) {
		t.Fatalf("FrequencyFromMIDI(69) = %v, want 440", f)
	}
}
