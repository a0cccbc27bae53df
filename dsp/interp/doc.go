// Package interp provides interpolation primitives used by delay-based blocks
// and by sample playback at a foreign sample rate.
package interp
