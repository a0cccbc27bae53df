// Package effects provides the small stateless and lo-fi kernels shared by
// the instruments and the effect rack.
//
// Subpackages:
//   - github.com/cwbudde/algo-groovebox/dsp/effects/dynamics
//   - github.com/cwbudde/algo-groovebox/dsp/effects/modulation
//   - github.com/cwbudde/algo-groovebox/dsp/effects/reverb
//
// Effects remaining in this package:
//   - BitCrusher: Sample rate and bit-depth reduction for lo-fi aesthetics.
//   - Waveshaper: Table lookup distortion with linear interpolation.
//
// Process methods do not allocate.
package effects
