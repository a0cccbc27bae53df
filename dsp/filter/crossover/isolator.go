package crossover

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/param"
)

const (
	// DefaultIsolatorLowFreq is the factory low/mid split in Hz.
	DefaultIsolatorLowFreq = 320.0
	// DefaultIsolatorHighFreq is the factory mid/high split in Hz.
	DefaultIsolatorHighFreq = 3200.0

	// IsolatorRamp is the smoothing time constant for gains and split points.
	IsolatorRamp = 0.02

	minIsolatorLowFreq  = 20.0
	maxIsolatorLowFreq  = 2000.0
	minIsolatorHighFreq = 200.0
	maxIsolatorHighFreq = 16000.0

	// controlBlock is the number of frames between coefficient updates while
	// a split point is moving.
	controlBlock = 32
)

type isolatorChannel struct {
	lowSplit  *Crossover
	highSplit *Crossover
}

// Isolator is a stereo three-band kill EQ. The low band is the lowpass side
// of the low split, the mid band is the highpass side of the low split fed
// through the lowpass side of the high split, and the high band is the
// highpass side of the high split applied to the input. The bands are
// weighted by their gains and summed.
type Isolator struct {
	sampleRate float64
	ch         [2]isolatorChannel

	low, mid, high    *param.Smoothed
	lowFreq, highFreq *param.Smoothed

	counter int
}

// NewIsolator returns an isolator with unity gains and the default split
// points.
func NewIsolator(sampleRate float64) (*Isolator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("isolator sample rate must be > 0 and finite: %f", sampleRate)
	}

	iso := &Isolator{
		sampleRate: sampleRate,
		low:        param.NewSmoothed(sampleRate, 1),
		mid:        param.NewSmoothed(sampleRate, 1),
		high:       param.NewSmoothed(sampleRate, 1),
		lowFreq:    param.NewSmoothed(sampleRate, DefaultIsolatorLowFreq),
		highFreq:   param.NewSmoothed(sampleRate, DefaultIsolatorHighFreq),
	}
	for i := range iso.ch {
		lo, err := New(DefaultIsolatorLowFreq, sampleRate)
		if err != nil {
			return nil, err
		}
		hi, err := New(DefaultIsolatorHighFreq, sampleRate)
		if err != nil {
			return nil, err
		}
		iso.ch[i] = isolatorChannel{lowSplit: lo, highSplit: hi}
	}
	return iso, nil
}

// SetGains ramps the three band gains toward new values in [0, 1].
func (iso *Isolator) SetGains(low, mid, high float64) error {
	for _, g := range []float64{low, mid, high} {
		if !core.IsFinite(g) {
			return fmt.Errorf("isolator gain must be finite: %f", g)
		}
	}
	iso.low.SetTarget(core.Clamp(low, 0, 1), IsolatorRamp)
	iso.mid.SetTarget(core.Clamp(mid, 0, 1), IsolatorRamp)
	iso.high.SetTarget(core.Clamp(high, 0, 1), IsolatorRamp)
	return nil
}

// SetSplits ramps the low and high split frequencies.
func (iso *Isolator) SetSplits(lowFreq, highFreq float64) error {
	if !core.IsFinite(lowFreq) || !core.IsFinite(highFreq) {
		return fmt.Errorf("isolator split frequencies must be finite: %f, %f", lowFreq, highFreq)
	}
	iso.lowFreq.SetTarget(core.Clamp(lowFreq, minIsolatorLowFreq, maxIsolatorLowFreq), IsolatorRamp)
	iso.highFreq.SetTarget(core.Clamp(highFreq, minIsolatorHighFreq, maxIsolatorHighFreq), IsolatorRamp)
	return nil
}

// Gains returns the target band gains.
func (iso *Isolator) Gains() (low, mid, high float64) {
	return iso.low.Target(), iso.mid.Target(), iso.high.Target()
}

// Splits returns the target split frequencies.
func (iso *Isolator) Splits() (lowFreq, highFreq float64) {
	return iso.lowFreq.Target(), iso.highFreq.Target()
}

// Process filters a stereo block in place. l and r must have equal length.
func (iso *Isolator) Process(l, r []float64) {
	for i := range l {
		lf := iso.lowFreq.Next()
		hf := iso.highFreq.Next()
		if iso.counter == 0 {
			for c := range iso.ch {
				iso.ch[c].lowSplit.SetFrequency(lf)
				iso.ch[c].highSplit.SetFrequency(hf)
			}
		}
		iso.counter = (iso.counter + 1) % controlBlock

		gl, gm, gh := iso.low.Next(), iso.mid.Next(), iso.high.Next()
		l[i] = iso.ch[0].process(l[i], gl, gm, gh)
		r[i] = iso.ch[1].process(r[i], gl, gm, gh)
	}
}

// Reset clears filter state. Parameter values are kept.
func (iso *Isolator) Reset() {
	for c := range iso.ch {
		iso.ch[c].lowSplit.Reset()
		iso.ch[c].highSplit.Reset()
	}
	iso.counter = 0
}

func (ch *isolatorChannel) process(x, gl, gm, gh float64) float64 {
	lo, rest := ch.lowSplit.ProcessSample(x)
	mid := ch.highSplit.Lowpass(rest)
	hi := ch.highSplit.Highpass(x)
	return lo*gl + mid*gm + hi*gh
}
