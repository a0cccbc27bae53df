package core

import "sync/atomic"

// Clock is a monotonic audio-frame counter shared by everything scheduled
// against the same output stream. Time is derived from the frame count, so
// events scheduled in seconds land on exact sample positions.
//
// Advance is called from the render goroutine; Now and Frame may be called
// from any goroutine.
type Clock struct {
	sampleRate float64
	frame      atomic.Int64
}

// NewClock returns a clock at frame 0. Non-positive sample rates fall back
// to the default processor sample rate.
func NewClock(sampleRate float64) *Clock {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		sampleRate = DefaultProcessorConfig().SampleRate
	}
	return &Clock{sampleRate: sampleRate}
}

// SampleRate returns the clock rate in Hz.
func (c *Clock) SampleRate() float64 { return c.sampleRate }

// Frame returns the index of the next frame to be rendered.
func (c *Clock) Frame() int64 { return c.frame.Load() }

// Now returns the current time in seconds.
func (c *Clock) Now() float64 {
	return float64(c.frame.Load()) / c.sampleRate
}

// TimeOf converts a frame index to seconds.
func (c *Clock) TimeOf(frame int64) float64 {
	return float64(frame) / c.sampleRate
}

// Advance moves the clock forward by n frames and returns the new frame.
func (c *Clock) Advance(n int) int64 {
	return c.frame.Add(int64(n))
}

// Reset rewinds the clock to frame 0.
func (c *Clock) Reset() {
	c.frame.Store(0)
}
