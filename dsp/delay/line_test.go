package delay

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}
	if _, err := NewSeconds(0, 48000); err == nil {
		t.Fatal("expected error for zero seconds")
	}

	d, err := NewSeconds(0.1, 48000)
	if err != nil {
		t.Fatalf("NewSeconds() error = %v", err)
	}
	if d.MaxDelay() < 4800 {
		t.Fatalf("MaxDelay() = %v, want >= 4800", d.MaxDelay())
	}
}

func TestIntegerRead(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		d.Write(float64(i))
	}
	if got := d.Read(1); got != 5 {
		t.Fatalf("Read(1) = %v, want 5", got)
	}
	if got := d.Read(3); got != 3 {
		t.Fatalf("Read(3) = %v, want 3", got)
	}
}

func TestFractionalReadOnRamp(t *testing.T) {
	d, err := New(32)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 32; i++ {
		d.Write(float64(i))
	}

	// Most recent sample is 31 at delay 1; delay 4.5 sits between 28 and 27.
	if got := d.ReadFractional(4.5); math.Abs(got-27.5) > 1e-12 {
		t.Fatalf("ReadFractional(4.5) = %v, want 27.5", got)
	}

	d.Reset()
	if got := d.ReadFractional(2); got != 0 {
		t.Fatalf("ReadFractional after Reset = %v, want 0", got)
	}
}
