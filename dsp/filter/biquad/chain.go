package biquad

import (
	"math"
	"math/cmplx"
)

// Chain runs biquad sections in series. Swapping coefficients keeps the
// delay state so a cascade can be swept while it plays.
type Chain []Section

// NewChain returns a cascade with one section per coefficient set.
func NewChain(coeffs ...Coefficients) *Chain {
	c := make(Chain, len(coeffs))
	for i, k := range coeffs {
		c[i].Coefficients = k
	}
	return &c
}

// Len returns the number of sections.
func (c *Chain) Len() int { return len(*c) }

// ProcessSample feeds x through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range *c {
		x = (*c)[i].ProcessSample(x)
	}
	return x
}

// SetAll gives every section the same coefficients.
func (c *Chain) SetAll(k Coefficients) {
	for i := range *c {
		(*c)[i].Coefficients = k
	}
}

// Reset silences every section.
func (c *Chain) Reset() {
	for i := range *c {
		(*c)[i].Reset()
	}
}

// Response evaluates H(e^jw) of the whole cascade at freqHz.
func (c *Chain) Response(freqHz, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range *c {
		h *= (*c)[i].Response(freqHz, sampleRate)
	}
	return h
}

// MagnitudeDB is the cascade gain at freqHz in decibels.
func (c *Chain) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return decibels(c.Response(freqHz, sampleRate))
}

// Response evaluates H(e^jw) of one section at freqHz.
func (k Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Rect(1, -2*math.Pi*freqHz/sampleRate)
	z2 := z1 * z1
	num := complex(k.B0, 0) + complex(k.B1, 0)*z1 + complex(k.B2, 0)*z2
	den := 1 + complex(k.A1, 0)*z1 + complex(k.A2, 0)*z2
	return num / den
}

// MagnitudeDB is the section gain at freqHz in decibels.
func (k Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return decibels(k.Response(freqHz, sampleRate))
}

func decibels(h complex128) float64 {
	return 20 * math.Log10(cmplx.Abs(h))
}
