package effects

import "math"

// KickCurveSize is the table length of the kick drive curve.
const KickCurveSize = 44100

// Waveshaper maps input samples through a lookup curve spanning [-1, 1],
// interpolating linearly between table entries. Inputs beyond the range
// take the end values.
type Waveshaper struct {
	curve []float64
}

// NewWaveshaper returns a shaper for curve. A curve with fewer than two
// points passes the input through unchanged.
func NewWaveshaper(curve []float64) *Waveshaper {
	return &Waveshaper{curve: curve}
}

// Curve returns the lookup table.
func (w *Waveshaper) Curve() []float64 { return w.curve }

// ProcessSample shapes one sample.
func (w *Waveshaper) ProcessSample(x float64) float64 {
	n := len(w.curve)
	if n < 2 {
		return x
	}

	v := float64(n-1) * (x + 1) / 2
	if v <= 0 {
		return w.curve[0]
	}
	if v >= float64(n-1) {
		return w.curve[n-1]
	}

	k := int(v)
	f := v - float64(k)
	return (1-f)*w.curve[k] + f*w.curve[k+1]
}

// ProcessInPlace shapes buf in place.
func (w *Waveshaper) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = w.ProcessSample(x)
	}
}

// KickCurve builds the kick drum drive curve for dist in [0, 1]:
//
//	curve(x) = (3+k) * x * 20deg / (pi + k*|x|),  k = dist*100
//
// sampled at x = i*2/KickCurveSize - 1. At dist = 0 the curve is the
// straight line 60/180 * x.
func KickCurve(dist float64) []float64 {
	k := dist * 100
	deg := math.Pi / 180
	curve := make([]float64, KickCurveSize)
	for i := range curve {
		x := float64(i)*2/KickCurveSize - 1
		curve[i] = (3 + k) * x * 20 * deg / (math.Pi + k*math.Abs(x))
	}
	return curve
}
