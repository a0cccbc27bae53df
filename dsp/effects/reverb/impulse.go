package reverb

import (
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/signal"
)

const (
	minRoomSize = 0.1

	// Browser convolvers scale normalized impulses by this calibration gain
	// at 44.1 kHz.
	normGainCalibration = 0.00125
	normCalibrationRate = 44100.0
	normMinPower        = 0.000125
)

// ImpulseLength returns the synthetic impulse length in frames for a room
// size in seconds. Room sizes below 0.1 s are raised to 0.1 s.
func ImpulseLength(sampleRate, roomSize float64) int {
	return int(math.Round(sampleRate * math.Max(minRoomSize, roomSize)))
}

// DecayExponent returns the envelope exponent 1/(1-0.9*damping).
func DecayExponent(damping float64) float64 {
	return 1 / (1 - damping*0.9)
}

// SyntheticImpulse builds a stereo decaying-noise impulse response:
//
//	h[j] = U(-1, 1) * (1 - j/len)^(1/(1-0.9*damping))
//
// Each channel draws its own noise from a stream seeded with seed.
func SyntheticImpulse(sampleRate, roomSize, damping float64, seed int64) (l, r []float64) {
	n := ImpulseLength(sampleRate, roomSize)
	exp := DecayExponent(damping)
	noise := signal.NewNoise(seed)

	l = make([]float64, n)
	r = make([]float64, n)
	for _, ch := range [][]float64{l, r} {
		for j := range ch {
			env := math.Pow(1-float64(j)/float64(n), exp)
			ch[j] = noise.Next() * env
		}
	}
	return l, r
}

// NormalizationScale returns the gain a browser convolver applies to a
// normalized impulse: the inverse RMS across all channels, times the
// calibration gain, corrected for sample rate.
func NormalizationScale(sampleRate float64, channels ...[]float64) float64 {
	power := 0.0
	frames := 0
	for _, ch := range channels {
		for _, v := range ch {
			power += v * v
		}
		frames += len(ch)
	}
	if frames > 0 {
		power = math.Sqrt(power / float64(frames))
	}
	if !(power >= normMinPower) || math.IsInf(power, 0) {
		power = normMinPower
	}

	scale := normGainCalibration / power
	if sampleRate > 0 {
		scale *= normCalibrationRate / sampleRate
	}
	return scale
}
