// Package slicer implements a sample chopper: a decoded buffer, a sorted
// list of chop points that split it into slices, and a monophonic player
// that maps note numbers onto slices.
//
// Chop edits and loads happen on a control goroutine. Render runs on the
// audio goroutine. A playing slice holds its own copy of its window, so
// edits never change a slice that is already scheduled.
package slicer
