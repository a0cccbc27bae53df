package core

import "github.com/cwbudde/algo-vecmath"

// Bus is a planar stereo audio block. L and R always have equal length.
type Bus struct {
	L []float64
	R []float64
}

// NewBus allocates a silent stereo bus with n frames.
func NewBus(n int) *Bus {
	b := &Bus{}
	b.Resize(n)
	return b
}

// Frames returns the number of frames held by the bus.
func (b *Bus) Frames() int { return len(b.L) }

// Resize sets the frame count, reusing capacity when possible.
// Newly exposed frames are not cleared.
func (b *Bus) Resize(n int) {
	b.L = EnsureLen(b.L, n)
	b.R = EnsureLen(b.R, n)
}

// Clear zeroes both channels.
func (b *Bus) Clear() {
	Zero(b.L)
	Zero(b.R)
}

// CopyFrom copies src into b, resizing b to src's length.
func (b *Bus) CopyFrom(src *Bus) {
	b.Resize(src.Frames())
	copy(b.L, src.L)
	copy(b.R, src.R)
}

// Mix adds src into b frame by frame. src must be at least as long as b.
func (b *Bus) Mix(src *Bus) {
	n := b.Frames()
	vecmath.AddBlockInPlace(b.L, src.L[:n])
	vecmath.AddBlockInPlace(b.R, src.R[:n])
}

// Scale multiplies both channels by g.
func (b *Bus) Scale(g float64) {
	if g == 1 {
		return
	}
	vecmath.ScaleBlock(b.L, b.L, g)
	vecmath.ScaleBlock(b.R, b.R, g)
}

// Peak returns the largest absolute sample value across both channels.
func (b *Bus) Peak() float64 {
	peak := 0.0
	for i := range b.L {
		if v := abs(b.L[i]); v > peak {
			peak = v
		}
		if v := abs(b.R[i]); v > peak {
			peak = v
		}
	}
	return peak
}

// Interleave writes the bus as interleaved LR float32 frames into dst,
// hard-clipping to [-1, 1]. It returns the number of frames written.
func (b *Bus) Interleave(dst []float32) int {
	n := len(dst) / 2
	if n > b.Frames() {
		n = b.Frames()
	}
	for i := 0; i < n; i++ {
		dst[2*i] = float32(Clamp(b.L[i], -1, 1))
		dst[2*i+1] = float32(Clamp(b.R[i], -1, 1))
	}
	return n
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
