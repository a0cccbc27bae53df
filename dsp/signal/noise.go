package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Noise is a seeded source of uniform white noise in [-1, 1).
type Noise struct {
	rng *rand.Rand
}

// NewNoise returns a noise source. Equal seeds give equal sequences.
func NewNoise(seed int64) *Noise {
	return &Noise{rng: rand.New(rand.NewSource(seed))}
}

// Next returns the next noise sample.
func (n *Noise) Next() float64 {
	return n.rng.Float64()*2 - 1
}

// Fill writes len(dst) noise samples into dst.
func (n *Noise) Fill(dst []float64) {
	for i := range dst {
		dst[i] = n.Next()
	}
}

// Int63 returns a non-negative pseudo-random number, used to derive seeds
// for child sources.
func (n *Noise) Int63() int64 {
	return n.rng.Int63()
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func WhiteNoise(seed int64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	NewNoise(seed).Fill(out)
	for i := range out {
		out[i] *= amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
