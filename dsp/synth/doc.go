// Package synth implements the note-triggered voices of the groovebox:
// Beep, Bell, Kick, Snare, HiHat and Pluck.
//
// Every instrument schedules voices at absolute clock times. A voice owns
// its oscillators, filters and envelopes and has a bounded stop time, after
// which it is dropped. Render adds all active voices into a stereo block.
//
// Instruments are safe for concurrent use: Trigger and parameter changes may
// come from a control goroutine while the audio goroutine calls Render.
package synth
