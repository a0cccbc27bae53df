package interp

import "math"

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}

// At reads buf at a fractional position with Hermite interpolation. Points
// outside the buffer read as zero.
func At(buf []float64, pos float64) float64 {
	if len(buf) == 0 || pos < -1 || pos >= float64(len(buf)) || math.IsNaN(pos) {
		return 0
	}

	i := int(math.Floor(pos))
	t := pos - float64(i)
	return Hermite4(t, sample(buf, i-1), sample(buf, i), sample(buf, i+1), sample(buf, i+2))
}

func sample(buf []float64, i int) float64 {
	if i < 0 || i >= len(buf) {
		return 0
	}
	return buf[i]
}
