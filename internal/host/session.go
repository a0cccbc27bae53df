package host

import (
	"fmt"

	"github.com/cwbudde/algo-groovebox/dsp/rack"
)

// Slot is the persisted form of one rack slot with its pattern.
type Slot struct {
	rack.SlotState
	Steps []Step `json:"steps,omitempty"`
}

// Session is the persisted form of the whole engine.
type Session struct {
	Tempo  float64 `json:"tempo"`
	Groove string  `json:"groove,omitempty"`
	Swing  float64 `json:"swing,omitempty"`
	Slots  []Slot  `json:"slots"`
}

// Session captures the transport, groove, rack and patterns.
func (e *Engine) Session() Session {
	handles := e.rack.Handles()
	states := e.rack.Snapshot()

	e.mu.Lock()
	defer e.mu.Unlock()

	s := Session{
		Tempo:  e.tempoBPM,
		Groove: e.profile.Name,
		Swing:  e.amount,
		Slots:  make([]Slot, len(states)),
	}
	for i, st := range states {
		s.Slots[i].SlotState = st
		if i < len(handles) {
			if pat, ok := e.patterns[handles[i]]; ok {
				s.Slots[i].Steps = append([]Step(nil), pat[:]...)
			}
		}
	}
	return s
}

// Restore rebuilds the rack and patterns from s. The transport keeps its
// running state.
func (e *Engine) Restore(s Session) error {
	if s.Tempo > 0 {
		if err := e.SetTransport(s.Tempo); err != nil {
			return err
		}
	}
	if err := e.SetGroove(s.Groove, s.Swing); err != nil {
		return err
	}

	states := make([]rack.SlotState, len(s.Slots))
	for i, sl := range s.Slots {
		states[i] = sl.SlotState
	}
	handles, err := e.rack.Restore(states)
	if err != nil {
		return fmt.Errorf("host: restore: %w", err)
	}

	patterns := make(map[rack.Handle]*Pattern, len(handles))
	for i, h := range handles {
		p, _ := e.rack.Get(h)
		if !isInstrument(p) {
			continue
		}
		patterns[h] = newPattern(s.Slots[i].Steps)
	}

	e.mu.Lock()
	e.patterns = patterns
	e.mu.Unlock()
	return nil
}
