// Package osc provides the periodic sources used by the synthesis voices:
// sine, triangle, band-limited square and band-limited sawtooth.
package osc
