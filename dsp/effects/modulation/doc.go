// Package modulation provides the stereo time-varying effects of the rack.
//
// Included processors:
//   - Chorus: LFO-modulated delay per channel with stereo width.
//   - Phaser: six-stage allpass cascade with feedback.
package modulation
