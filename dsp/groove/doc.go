// Package groove maps sequencer steps to timing offsets.
//
// A Profile is a pure function of a step in a 16-step bar and a swing
// amount in [0, 1]. The returned offset is a fraction of a beat; positive
// values delay the step.
package groove
