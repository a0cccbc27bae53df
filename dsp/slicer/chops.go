package slicer

import (
	"math"
	"slices"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

// Chops returns a copy of the chop points in seconds. The first is always 0
// and the rest strictly increase.
func (s *Slicer) Chops() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chops)
}

// SetChops replaces the chop points. Points that are not finite, not
// positive or not inside the buffer are dropped, duplicates collapse and
// the list is sorted with 0 first. Without a buffer any positive point is
// kept, so state can be restored before a sample is loaded.
func (s *Slicer) SetChops(chops []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	duration := s.buffer.Duration()
	out := make([]float64, 1, len(chops)+1)
	for _, c := range chops {
		if !core.IsFinite(c) || c <= 0 || (duration > 0 && c >= duration) {
			continue
		}
		out = append(out, c)
	}
	slices.Sort(out)
	s.chops = slices.Compact(out)
	s.dragIdx = -1
	s.dirty = true
}

// Mode returns the click mode.
func (s *Slicer) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode sets the click mode.
func (s *Slicer) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m != s.mode {
		s.mode = m
		s.dirty = true
	}
}

// ToggleMode switches between ModeEdit and ModeDelete and returns the new
// mode.
func (s *Slicer) ToggleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeDelete {
		s.mode = ModeEdit
	} else {
		s.mode = ModeDelete
	}
	s.dirty = true
	return s.mode
}

// Click handles a click at time t. The nearest chop other than the first,
// closer than tolerance, is the target. In ModeDelete the target is
// removed. In ModeEdit the target is grabbed for dragging, or a new chop is
// added at t when there is none. Without a buffer nothing happens.
func (s *Slicer) Click(t, tolerance float64) ClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buffer == nil {
		return ClickIgnored
	}
	idx := s.nearestLocked(t, tolerance)
	if s.mode == ModeDelete {
		if s.deleteLocked(idx) {
			return ClickDeleted
		}
		return ClickIgnored
	}
	if idx > 0 {
		s.dragIdx = idx
		return ClickDrag
	}
	if s.addLocked(t) {
		return ClickAdded
	}
	return ClickIgnored
}

// AddChop inserts a chop at t. It reports false when t is outside
// (0, duration) or already present.
func (s *Slicer) AddChop(t float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(t)
}

// MoveChop moves chop i to t and returns its index after re-sorting, or -1
// when the move is ignored. Chop 0 never moves.
func (s *Slicer) MoveChop(i int, t float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(i, t)
}

// DeleteChop removes chop i. Chop 0 cannot be removed.
func (s *Slicer) DeleteChop(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(i)
}

// BeginDrag grabs chop i for DragTo.
func (s *Slicer) BeginDrag(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 1 || i >= len(s.chops) {
		return false
	}
	s.dragIdx = i
	return true
}

// DragTo moves the grabbed chop to t. Positions outside the buffer are
// ignored for this update.
func (s *Slicer) DragTo(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dragIdx < 1 {
		return
	}
	if idx := s.moveLocked(s.dragIdx, t); idx > 0 {
		s.dragIdx = idx
	}
}

// EndDrag releases the grabbed chop.
func (s *Slicer) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragIdx = -1
	s.dirty = true
}

// Dragging returns the index of the grabbed chop, or -1.
func (s *Slicer) Dragging() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragIdx
}

func (s *Slicer) validLocked(t float64) bool {
	return core.IsFinite(t) && t > 0 && t < s.buffer.Duration() && !slices.Contains(s.chops, t)
}

func (s *Slicer) addLocked(t float64) bool {
	if !s.validLocked(t) {
		return false
	}
	s.chops = append(s.chops, t)
	slices.Sort(s.chops)
	s.dirty = true
	return true
}

func (s *Slicer) moveLocked(i int, t float64) int {
	if i < 1 || i >= len(s.chops) {
		return -1
	}
	if s.chops[i] == t {
		return i
	}
	if !s.validLocked(t) {
		return -1
	}
	s.chops[i] = t
	slices.Sort(s.chops)
	s.dirty = true
	return slices.Index(s.chops, t)
}

func (s *Slicer) deleteLocked(i int) bool {
	if i < 1 || i >= len(s.chops) {
		return false
	}
	s.chops = slices.Delete(s.chops, i, i+1)
	switch {
	case s.dragIdx == i:
		s.dragIdx = -1
	case s.dragIdx > i:
		s.dragIdx--
	}
	s.dirty = true
	return true
}

func (s *Slicer) nearestLocked(t, tolerance float64) int {
	best, bestDist := -1, math.Inf(1)
	for i := 1; i < len(s.chops); i++ {
		d := math.Abs(s.chops[i] - t)
		if d < bestDist && d < tolerance {
			best, bestDist = i, d
		}
	}
	return best
}
