//go:build fastmath

package param

import "github.com/meko-christian/algo-approx"

func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathPow is only called with a positive base.
func mathPow(x, y float64) float64 {
	return approx.FastExp(y * approx.FastLog(x))
}
