// Package param provides the two ways a control value can change over time.
//
// [Smoothed] follows its target asymptotically with a one-pole curve and is
// used for continuously adjustable effect controls. [Automation] holds values
// and ramps scheduled at absolute times and is used for envelopes and pitch
// sweeps.
//
// Build with the fastmath tag to evaluate exponentials through algo-approx.
package param
