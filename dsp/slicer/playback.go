package slicer

import (
	"math"
	"slices"
)

// Playback describes one triggered slice.
type Playback struct {
	// Active reports whether the slice is sounding at the queried time.
	Active bool
	// Slice is the slice index.
	Slice int
	// Start is the trigger time on the audio clock.
	Start float64
	// Offset is the slice start within the buffer, in seconds.
	Offset float64
	// Duration is the slice length in seconds.
	Duration float64
	// Position is the playhead within the buffer at the queried time.
	Position float64
}

// Playback returns the slice sounding at time now. When nothing is
// sounding Active is false and the rest is the most recent playback that
// started at or before now.
func (s *Slicer) Playback(now float64) Playback {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.playbacks) - 1; i >= 0; i-- {
		p := s.playbacks[i]
		if p.Start > now {
			continue
		}
		end := p.Start + p.Duration
		if i+1 < len(s.playbacks) {
			end = math.Min(end, s.playbacks[i+1].Start)
		}
		if now < end {
			p.Active = true
			p.Position = p.Offset + now - p.Start
		}
		return p
	}
	return Playback{}
}

// Peak is the sample range of one overview column.
type Peak struct {
	Min, Max float64
}

// Overview is a min/max waveform summary with chop markers.
type Overview struct {
	Width   int
	Columns []Peak
	// Markers holds the column of each chop point.
	Markers []int
	Mode    Mode
}

// Peaks returns an overview of the first channel width columns wide. The
// result is cached until the buffer, the chops, the mode or width change.
func (s *Slicer) Peaks(width int) Overview {
	if width < 1 {
		return Overview{}
	}

	s.mu.RLock()
	if !s.dirty && s.overview.Width == width {
		ov := s.overview.clone()
		s.mu.RUnlock()
		return ov
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overview = s.buildOverviewLocked(width)
	s.dirty = false
	return s.overview.clone()
}

// Dirty reports whether the next Peaks call recomputes the overview.
func (s *Slicer) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *Slicer) buildOverviewLocked(width int) Overview {
	ov := Overview{Width: width, Columns: make([]Peak, width), Mode: s.mode}
	if s.buffer == nil {
		return ov
	}

	data := s.buffer.Channels[0]
	step := (len(data) + width - 1) / width
	for i := range ov.Columns {
		lo := min(i*step, len(data))
		hi := min(lo+step, len(data))
		if lo == hi {
			continue
		}
		p := Peak{Min: data[lo], Max: data[lo]}
		for _, v := range data[lo+1 : hi] {
			p.Min = math.Min(p.Min, v)
			p.Max = math.Max(p.Max, v)
		}
		ov.Columns[i] = p
	}

	duration := s.buffer.Duration()
	ov.Markers = make([]int, len(s.chops))
	for i, c := range s.chops {
		ov.Markers[i] = min(int(c/duration*float64(width)), width-1)
	}
	return ov
}

func (o Overview) clone() Overview {
	o.Columns = slices.Clone(o.Columns)
	o.Markers = slices.Clone(o.Markers)
	return o
}
