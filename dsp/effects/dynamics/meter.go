package dynamics

import (
	"context"
	"sync"
	"time"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/spectrum"
)

// Levels is a snapshot of the limiter meter.
type Levels struct {
	// Peak and RMS of the most recent input block, linear.
	Peak float64
	RMS  float64
	// GainReductionDB is the deepest reduction in the block, <= 0.
	GainReductionDB float64
	// Spectrum holds the smoothed input magnitude spectrum in dB.
	Spectrum []float64
}

type meter struct {
	mu      sync.Mutex
	levels  Levels
	scratch []float64
}

func newMeter(bins int) *meter {
	m := &meter{scratch: make([]float64, bins)}
	m.levels.Spectrum = make([]float64, bins)
	m.reset()
	return m
}

func (m *meter) publish(an *spectrum.Analyser, peak, rms, minGain float64) {
	an.Decibels(m.scratch)

	m.mu.Lock()
	m.levels.Peak = peak
	m.levels.RMS = rms
	m.levels.GainReductionDB = core.LinearToDB(minGain)
	copy(m.levels.Spectrum, m.scratch)
	m.mu.Unlock()
}

func (m *meter) snapshot() Levels {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.levels
	out.Spectrum = append([]float64(nil), m.levels.Spectrum...)
	return out
}

func (m *meter) reset() {
	m.mu.Lock()
	m.levels.Peak, m.levels.RMS, m.levels.GainReductionDB = 0, 0, 0
	for i := range m.levels.Spectrum {
		m.levels.Spectrum[i] = spectrum.MinDecibels
	}
	m.mu.Unlock()
}

// Levels returns the latest meter snapshot. Safe to call from any goroutine.
func (l *Limiter) Levels() Levels {
	return l.meter.snapshot()
}

// WatchLevels calls fn with a fresh snapshot every interval until ctx is
// cancelled or the limiter is disposed.
func (l *Limiter) WatchLevels(ctx context.Context, interval time.Duration, fn func(Levels)) {
	if interval <= 0 || fn == nil {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.ctx.Done():
				return
			case <-ticker.C:
				fn(l.Levels())
			}
		}
	}()
}
