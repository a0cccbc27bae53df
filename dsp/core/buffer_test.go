package core

import "testing"

func TestEnsureLen(t *testing.T) {
	buf := make([]float64, 4, 8)

	out := EnsureLen(buf, 6)
	if len(out) != 6 || cap(out) != cap(buf) {
		t.Fatalf("EnsureLen(6): len=%d cap=%d, want reuse of cap %d", len(out), cap(out), cap(buf))
	}
	if out = EnsureLen(buf, 16); len(out) != 16 {
		t.Fatalf("EnsureLen(16): len=%d", len(out))
	}
	if out = EnsureLen(buf, -1); len(out) != 0 {
		t.Fatalf("EnsureLen(-1): len=%d", len(out))
	}
}

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}
