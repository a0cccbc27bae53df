package param

import (
	"math"
	"sync/atomic"
)

const settleEpsilon = 1e-9

// Smoothed is a continuously controlled value that approaches its target
// with a one-pole exponential curve:
//
//	v(n) = target + (v(n0) - target) * exp(-(n-n0) / (timeConstant*sampleRate))
//
// The target and time constant may be written from a control goroutine while
// the audio goroutine calls Next. Only the audio goroutine may call Next or
// Fill.
type Smoothed struct {
	sampleRate float64

	target  atomic.Uint64
	coeff   atomic.Uint64
	jump    atomic.Bool
	current atomic.Uint64
}

// NewSmoothed returns a smoothed value that starts settled at initial.
func NewSmoothed(sampleRate, initial float64) *Smoothed {
	s := &Smoothed{sampleRate: sampleRate}
	s.Snap(initial)
	return s
}

// SetTarget starts an exponential approach toward value. timeConstant is the
// time in seconds to cover ~63% of the distance. Non-positive time constants
// make the next sample jump straight to value.
func (s *Smoothed) SetTarget(value, timeConstant float64) {
	c := 0.0
	if timeConstant > 0 && s.sampleRate > 0 {
		c = mathExp(-1 / (timeConstant * s.sampleRate))
	}
	s.coeff.Store(math.Float64bits(c))
	s.target.Store(math.Float64bits(value))
	s.jump.Store(c == 0)
}

// Snap sets both target and current value without a ramp.
func (s *Smoothed) Snap(value float64) {
	s.target.Store(math.Float64bits(value))
	s.current.Store(math.Float64bits(value))
	s.jump.Store(true)
}

// Target returns the value being approached.
func (s *Smoothed) Target() float64 {
	return math.Float64frombits(s.target.Load())
}

// Value returns the most recently produced value.
func (s *Smoothed) Value() float64 {
	return math.Float64frombits(s.current.Load())
}

// Settled reports whether the current value has reached the target.
func (s *Smoothed) Settled() bool {
	return s.Value() == s.Target()
}

// Next advances one sample and returns the new value.
func (s *Smoothed) Next() float64 {
	target := math.Float64frombits(s.target.Load())
	if s.jump.Swap(false) {
		s.current.Store(math.Float64bits(target))
		return target
	}

	cur := math.Float64frombits(s.current.Load())
	if cur == target {
		return cur
	}

	c := math.Float64frombits(s.coeff.Load())
	cur = target + (cur-target)*c
	if math.Abs(cur-target) < settleEpsilon {
		cur = target
	}
	s.current.Store(math.Float64bits(cur))
	return cur
}

// Fill writes len(dst) successive values into dst.
func (s *Smoothed) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.Next()
	}
}
