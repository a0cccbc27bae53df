// Package biquad implements second-order IIR sections in Direct Form II
// Transposed and serial cascades of them.
//
// Coefficients may be replaced between blocks without clearing state, which
// is how swept filters (phaser stages, pluck and hi-hat filters, isolator
// crossovers) are driven.
package biquad
