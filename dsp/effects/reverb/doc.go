// Package reverb provides a stereo convolution reverb over a synthetic
// decaying-noise impulse response.
//
// The impulse is regenerated only when room size or damping change. Wet
// level changes crossfade without touching the impulse.
package reverb
