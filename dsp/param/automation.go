package param

import (
	"math"
	"sort"
)

// ExpFloor replaces exponential ramp targets that are too close to zero to be
// reached by an exponential curve.
const ExpFloor = 1e-3

type eventKind uint8

const (
	kindSet eventKind = iota
	kindLinear
	kindExp
)

type event struct {
	kind  eventKind
	time  float64
	value float64
}

// Automation is a timeline of value changes scheduled at absolute clock
// times, used for envelopes and pitch sweeps. A ramp runs from the previous
// event's time and value to its own time and value.
//
// Automation is not safe for concurrent use.
type Automation struct {
	initial float64
	events  []event
}

// NewAutomation returns an empty timeline whose value is initial everywhere.
func NewAutomation(initial float64) *Automation {
	return &Automation{initial: initial, events: make([]event, 0, 4)}
}

// SetValueAt jumps to value at time t.
func (a *Automation) SetValueAt(value, t float64) {
	a.insert(event{kind: kindSet, time: t, value: value})
}

// LinearRampTo ramps linearly from the previous event to value, arriving at t.
func (a *Automation) LinearRampTo(value, t float64) {
	a.insert(event{kind: kindLinear, time: t, value: value})
}

// ExponentialRampTo ramps exponentially from the previous event to value,
// arriving at t. Targets with magnitude below ExpFloor use ExpFloor instead.
func (a *Automation) ExponentialRampTo(value, t float64) {
	if math.Abs(value) < ExpFloor {
		if value < 0 {
			value = -ExpFloor
		} else {
			value = ExpFloor
		}
	}
	a.insert(event{kind: kindExp, time: t, value: value})
}

// Len returns the number of scheduled events.
func (a *Automation) Len() int { return len(a.events) }

// EndTime returns the time of the last scheduled event, or 0 when empty.
func (a *Automation) EndTime() float64 {
	if len(a.events) == 0 {
		return 0
	}
	return a.events[len(a.events)-1].time
}

// ValueAt evaluates the timeline at time t.
func (a *Automation) ValueAt(t float64) float64 {
	v, vt := a.initial, 0.0
	for _, e := range a.events {
		if e.time > t {
			switch e.kind {
			case kindLinear:
				return linearSegment(v, vt, e.value, e.time, t)
			case kindExp:
				return expSegment(v, vt, e.value, e.time, t)
			}
			return v
		}
		v, vt = e.value, e.time
	}
	return v
}

// Fill writes the timeline sampled at t0, t0+dt, t0+2dt, ... into dst.
func (a *Automation) Fill(dst []float64, t0, dt float64) {
	for i := range dst {
		dst[i] = a.ValueAt(t0 + float64(i)*dt)
	}
}

// Reset clears all events and sets a new initial value.
func (a *Automation) Reset(initial float64) {
	a.initial = initial
	a.events = a.events[:0]
}

func (a *Automation) insert(e event) {
	i := sort.Search(len(a.events), func(i int) bool { return a.events[i].time > e.time })
	a.events = append(a.events, event{})
	copy(a.events[i+1:], a.events[i:])
	a.events[i] = e
}

func linearSegment(v0, t0, v1, t1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

func expSegment(v0, t0, v1, t1, t float64) float64 {
	if v0 == 0 || (v0 < 0) != (v1 < 0) {
		return v0
	}
	if t1 <= t0 {
		return v1
	}
	return v0 * mathPow(v1/v0, (t-t0)/(t1-t0))
}
