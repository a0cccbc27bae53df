//go:build !fastmath

package param

import "math"

func mathExp(x float64) float64 {
	return math.Exp(x)
}

func mathPow(x, y float64) float64 {
	return math.Pow(x, y)
}
