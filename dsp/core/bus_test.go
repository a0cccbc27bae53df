package core

import "testing"

func TestBusMixAndScale(t *testing.T) {
	a := NewBus(4)
	b := NewBus(4)
	a.Clear()
	for i := range b.L {
		b.L[i] = float64(i)
		b.R[i] = -float64(i)
	}

	a.Mix(b)
	a.Mix(b)
	a.Scale(0.5)

	for i := range a.L {
		if a.L[i] != float64(i) || a.R[i] != -float64(i) {
			t.Fatalf("frame %d = (%v, %v), want (%v, %v)", i, a.L[i], a.R[i], float64(i), -float64(i))
		}
	}
	if got := a.Peak(); got != 3 {
		t.Fatalf("Peak() = %v, want 3", got)
	}
}

func TestBusInterleaveClips(t *testing.T) {
	b := NewBus(2)
	b.L[0], b.R[0] = 2, -0.5
	b.L[1], b.R[1] = 0.25, -3

	dst := make([]float32, 4)
	if n := b.Interleave(dst); n != 2 {
		t.Fatalf("Interleave() = %d, want 2", n)
	}

	want := []float32{1, -0.5, 0.25, -1}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestClockAdvance(t *testing.T) {
	c := NewClock(48000)
	c.Advance(24000)
	if got := c.Now(); got != 0.5 {
		t.Fatalf("Now() = %v, want 0.5", got)
	}
	c.Reset()
	if c.Frame() != 0 {
		t.Fatalf("Frame() = %d after Reset, want 0", c.Frame())
	}
	if NewClock(0).SampleRate() != DefaultProcessorConfig().SampleRate {
		t.Fatal("expected default sample rate for invalid input")
	}
}
