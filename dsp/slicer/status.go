package slicer

import "fmt"

// Status is the load state.
type Status int

const (
	StatusNoSample Status = iota
	StatusDecoding
	StatusReady
	StatusError
)

// String returns the short state name.
func (s Status) String() string {
	switch s {
	case StatusDecoding:
		return "decoding"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "no-sample"
	}
}

// Text formats the status line for a buffer of the given duration.
func (s Status) Text(duration float64) string {
	switch s {
	case StatusDecoding:
		return "DECODING..."
	case StatusReady:
		return fmt.Sprintf("READY // %.2fs", duration)
	case StatusError:
		return "ERROR"
	default:
		return "NO SAMPLE"
	}
}

// Mode selects what a click on the waveform does.
type Mode int

const (
	// ModeEdit adds a chop, or grabs one for dragging.
	ModeEdit Mode = iota
	// ModeDelete removes the chop nearest the click.
	ModeDelete
)

// String returns "EDIT" or "DEL".
func (m Mode) String() string {
	if m == ModeDelete {
		return "DEL"
	}
	return "EDIT"
}

// ClickResult reports what Click did.
type ClickResult int

const (
	ClickIgnored ClickResult = iota
	ClickAdded
	ClickDeleted
	ClickDrag
)
