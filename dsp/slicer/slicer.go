package slicer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/interp"
	"github.com/cwbudde/algo-groovebox/dsp/synth"
)

const (
	// BaseNote is the MIDI note that plays the first slice.
	BaseNote = 36
	// Fade is the length of the linear fade at each end of a slice, in
	// seconds.
	Fade = 0.005
	// DefaultVolume is the initial output level.
	DefaultVolume = 0.8

	playbackHistory = 8
)

var _ synth.Instrument = (*Slicer)(nil)

// Option configures a Slicer.
type Option func(*config) error

type config struct {
	volume float64
	logger *slog.Logger
}

// WithVolume sets the initial volume in [0, 1].
func WithVolume(v float64) Option {
	return func(c *config) error {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("slicer volume must be in [0, 1]: %f", v)
		}
		c.volume = v
		return nil
	}
}

// WithLogger sets the logger used for load failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l == nil {
			return errors.New("slicer logger must not be nil")
		}
		c.logger = l
		return nil
	}
}

// Slicer plays slices of a loaded buffer. Triggers choke the previous slice.
type Slicer struct {
	*synth.Voices

	logger *slog.Logger

	mu      sync.RWMutex
	buffer  *Buffer
	mono    []float64
	status  Status
	lastErr error
	volume  float64
	chops   []float64
	mode    Mode
	dragIdx int

	dirty     bool
	overview  Overview
	playbacks []Playback
}

// New returns an empty slicer with chops [0].
func New(sampleRate float64, opts ...Option) (*Slicer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("slicer sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := config{volume: DefaultVolume, logger: slog.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Slicer{
		Voices:  synth.NewVoices(sampleRate, synth.ChokeMono),
		logger:  cfg.logger,
		volume:  cfg.volume,
		chops:   []float64{0},
		dragIdx: -1,
		dirty:   true,
	}, nil
}

// Load decodes r and replaces the buffer. On success the chops reset to [0].
// On failure the previous buffer is kept, the status becomes StatusError and
// the returned error wraps ErrDecode.
func (s *Slicer) Load(ctx context.Context, r io.Reader, dec Decoder) error {
	s.mu.Lock()
	s.status = StatusDecoding
	s.mu.Unlock()

	buf, err := dec.Decode(ctx, r)
	if err == nil && buf.Frames() == 0 {
		err = errors.New("no audio frames")
	}
	if err == nil {
		err = s.SetBuffer(buf)
	}
	if err != nil {
		s.mu.Lock()
		s.status = StatusError
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("slicer decode failed", "err", err)
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// SetBuffer installs an already decoded buffer and resets the chops.
func (s *Slicer) SetBuffer(buf *Buffer) error {
	if buf.Frames() == 0 || buf.SampleRate <= 0 {
		return errors.New("slicer buffer is empty")
	}
	mono := buf.Mono()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = buf
	s.mono = mono
	s.chops = []float64{0}
	s.dragIdx = -1
	s.status = StatusReady
	s.lastErr = nil
	s.dirty = true
	return nil
}

// Buffer returns the loaded buffer or nil.
func (s *Slicer) Buffer() *Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer
}

// Duration returns the buffer length in seconds, 0 without a buffer.
func (s *Slicer) Duration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffer.Duration()
}

// Status returns the load state.
func (s *Slicer) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// StatusText returns the status line, e.g. "READY // 1.23s".
func (s *Slicer) StatusText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status.Text(s.buffer.Duration())
}

// Err returns the last load error, if the status is StatusError.
func (s *Slicer) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SetVolume sets the level of future triggers, clamped to [0, 1].
func (s *Slicer) SetVolume(v float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("slicer volume must be finite: %f", v)
	}
	s.mu.Lock()
	s.volume = core.Clamp(v, 0, 1)
	s.mu.Unlock()
	return nil
}

// Volume returns the output level.
func (s *Slicer) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// SliceIndex maps a MIDI note to a slice index in [0, count). count <= 0
// yields 0.
func SliceIndex(midi, count int) int {
	if count <= 0 {
		return 0
	}
	return ((midi-BaseNote)%count + count) % count
}

// Trigger plays the slice selected by freq at time t. Without a buffer it
// does nothing. The previous slice stops at t.
func (s *Slicer) Trigger(freq, t, velocity float64) {
	if freq <= 0 || !core.IsFinite(freq) || !core.IsFinite(t) {
		return
	}

	s.mu.Lock()
	if s.buffer == nil {
		s.mu.Unlock()
		return
	}
	duration := s.buffer.Duration()
	idx := SliceIndex(core.MIDIFromFrequency(freq), len(s.chops))
	start, end := s.chops[idx], duration
	if idx+1 < len(s.chops) {
		end = math.Min(s.chops[idx+1], duration)
	}
	if start >= end {
		s.mu.Unlock()
		return
	}

	length := end - start
	v := &sliceVoice{
		Lifetime: synth.NewLifetime(t, t+length),
		data:     s.mono,
		rate:     s.buffer.SampleRate,
		offset:   start,
		start:    t,
		end:      t + length,
		peak:     velocity * s.volume,
	}
	s.playbacks = append(s.playbacks, Playback{Slice: idx, Start: t, Offset: start, Duration: length})
	if len(s.playbacks) > playbackHistory {
		s.playbacks = slices.Delete(s.playbacks, 0, len(s.playbacks)-playbackHistory)
	}
	s.mu.Unlock()

	s.Start(v)
}

// Release has no effect; slices end on their own.
func (s *Slicer) Release(float64) {}

// Reset stops all playback.
func (s *Slicer) Reset() {
	s.Voices.Reset()
	s.mu.Lock()
	s.playbacks = nil
	s.mu.Unlock()
}

// Dispose drops the buffer and all playback.
func (s *Slicer) Dispose() {
	s.Reset()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = nil
	s.mono = nil
	s.status = StatusNoSample
	s.overview = Overview{}
	s.dirty = true
}

type sliceVoice struct {
	synth.Lifetime
	data       []float64
	rate       float64
	offset     float64
	start, end float64
	peak       float64
}

func (v *sliceVoice) Render(dst []float64, t0, dt float64) {
	for i := range dst {
		t := t0 + float64(i)*dt
		g := math.Min(1, math.Min((t-v.start)/Fade, (v.end-t)/Fade))
		if g <= 0 {
			continue
		}
		pos := (v.offset + t - v.start) * v.rate
		dst[i] += interp.At(v.data, pos) * g * v.peak
	}
}
