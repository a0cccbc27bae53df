package biquad

import (
	"math/cmplx"
	"testing"
)

func TestSectionIdentity(t *testing.T) {
	s := NewSection(Coefficients{B0: 1})
	for _, x := range []float64{1, -2, 0.5} {
		if y := s.ProcessSample(x); y != x {
			t.Fatalf("ProcessSample(%v) = %v", x, y)
		}
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0, B1: 1})
	s.ProcessSample(1)
	s.SetCoefficients(Coefficients{B0: 0, B1: 1})
	if y := s.ProcessSample(0); y != 1 {
		t.Fatalf("delayed output = %v, want 1", y)
	}
	s.Reset()
	if y := s.ProcessSample(0); y != 0 {
		t.Fatalf("output after Reset = %v, want 0", y)
	}
}

func TestChainResponseIsProduct(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.5}
	chain := NewChain(c, c)
	want := c.Response(1000, 48000) * c.Response(1000, 48000)
	if got := chain.Response(1000, 48000); cmplx.Abs(got-want) > 1e-12 {
		t.Fatalf("Response() = %v, want %v", got, want)
	}
	if chain.Len() != 2 {
		t.Fatalf("Len() = %d", chain.Len())
	}
}
