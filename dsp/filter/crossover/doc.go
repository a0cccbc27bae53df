// Package crossover splits audio into frequency bands.
//
// [Crossover] is a two-way split made of two cascaded second-order sections
// per side. [Isolator] combines two of them into the low/mid/high band
// isolator with per-band gains and smoothly movable split points.
//
//	iso, _ := crossover.NewIsolator(48000)
//	iso.SetGains(1, 0, 1) // kill the mids
//	iso.Process(left, right)
package crossover
