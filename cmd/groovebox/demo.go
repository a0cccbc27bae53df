package main

import (
	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/internal/host"
)

// demoSession is a boom-bap pattern with a bass pluck, run through the
// isolator and limiter.
func demoSession() host.Session {
	return host.Session{
		Tempo:  92,
		Groove: "mpc",
		Swing:  0.5,
		Slots: []host.Slot{
			{SlotState: rack.SlotState{Type: rack.TypeKick}, Steps: pattern(map[int]float64{0: 0, 7: 0, 10: 0})},
			{SlotState: rack.SlotState{Type: rack.TypeSnare}, Steps: pattern(map[int]float64{4: 0, 12: 0})},
			{SlotState: rack.SlotState{Type: rack.TypeHiHat}, Steps: pattern(map[int]float64{
				0: 0, 2: 0, 4: 0, 6: 0, 8: 0, 10: 0, 12: 0, 14: 0,
			})},
			{SlotState: rack.SlotState{Type: rack.TypePluck}, Steps: notes(map[int]int{
				0: 33, 3: 33, 6: 36, 10: 38, 14: 31,
			})},
			{SlotState: rack.SlotState{Type: rack.TypeIsolator}},
			{SlotState: rack.SlotState{Type: rack.TypeLimiter}},
		},
	}
}

func pattern(on map[int]float64) []host.Step {
	steps := make([]host.Step, host.StepCount)
	for i, f := range on {
		steps[i] = host.Step{Enabled: true, Freq: f}
	}
	return steps
}

// notes maps step index to MIDI note.
func notes(on map[int]int) []host.Step {
	freqs := make(map[int]float64, len(on))
	for i, n := range on {
		freqs[i] = core.FrequencyFromMIDI(n)
	}
	return pattern(freqs)
}
