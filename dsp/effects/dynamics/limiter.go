package dynamics

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/dsp/core"
	"github.com/cwbudde/algo-groovebox/dsp/param"
	"github.com/cwbudde/algo-groovebox/dsp/spectrum"
)

const (
	DefaultThresholdDB = -1.0
	DefaultMakeup      = 1.0

	// Fixed detector and gain-computer settings.
	LimiterRatio     = 20.0
	LimiterAttackMs  = 1.0
	LimiterReleaseMs = 100.0

	// LimiterRamp is the smoothing time constant for threshold and makeup.
	LimiterRamp = 0.01

	minThresholdDB = -48.0
	maxThresholdDB = 0.0
	maxMakeup      = 4.0

	// log2(10) / 20
	log2Of10Div20 = 0.166096404744
)

// LimiterOption mutates limiter construction parameters.
type LimiterOption func(*limiterConfig) error

type limiterConfig struct {
	thresholdDB float64
	makeup      float64
	analyser    []spectrum.Option
}

// WithThreshold sets the limiting threshold in dBFS, in [-48, 0].
func WithThreshold(dB float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if dB < minThresholdDB || dB > maxThresholdDB || math.IsNaN(dB) {
			return fmt.Errorf("limiter threshold must be in [%g, %g]: %f", minThresholdDB, maxThresholdDB, dB)
		}
		cfg.thresholdDB = dB
		return nil
	}
}

// WithMakeup sets the linear output gain in [0, 4].
func WithMakeup(gain float64) LimiterOption {
	return func(cfg *limiterConfig) error {
		if gain < 0 || gain > maxMakeup || math.IsNaN(gain) {
			return fmt.Errorf("limiter makeup must be in [0, %g]: %f", maxMakeup, gain)
		}
		cfg.makeup = gain
		return nil
	}
}

// WithAnalyser forwards options to the input spectrum analyser.
func WithAnalyser(opts ...spectrum.Option) LimiterOption {
	return func(cfg *limiterConfig) error {
		cfg.analyser = append(cfg.analyser, opts...)
		return nil
	}
}

// Limiter is a stereo-linked hard-knee mastering limiter with an input
// meter. The detector follows the louder channel with a 1 ms attack and
// 100 ms release; above threshold the gain is
//
//	g = 2^(-(log2(env) - log2(threshold)) * (1 - 1/ratio))
//
// with ratio 20, followed by the makeup gain.
type Limiter struct {
	sampleRate float64

	threshold *param.Smoothed // dB
	makeup    *param.Smoothed // linear

	envelope     float64
	attackCoeff  float64
	releaseCoeff float64

	analyser *spectrum.Analyser
	meter    *meter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLimiter creates a limiter.
func NewLimiter(sampleRate float64, opts ...LimiterOption) (*Limiter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("limiter sample rate must be positive and finite: %f", sampleRate)
	}

	cfg := limiterConfig{thresholdDB: DefaultThresholdDB, makeup: DefaultMakeup}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	an, err := spectrum.NewAnalyser(cfg.analyser...)
	if err != nil {
		return nil, fmt.Errorf("limiter analyser: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &Limiter{
		sampleRate: sampleRate,
		threshold:  param.NewSmoothed(sampleRate, cfg.thresholdDB),
		makeup:     param.NewSmoothed(sampleRate, cfg.makeup),
		// 1 - exp(-ln2 / (attack_sec * sample_rate))
		attackCoeff: 1 - math.Exp(-math.Ln2/(LimiterAttackMs*0.001*sampleRate)),
		// exp(-ln2 / (release_sec * sample_rate))
		releaseCoeff: math.Exp(-math.Ln2 / (LimiterReleaseMs * 0.001 * sampleRate)),
		analyser:     an,
		meter:        newMeter(an.Bins()),
		ctx:          ctx,
		cancel:       cancel,
	}
	return l, nil
}

// SetThreshold ramps the threshold, clamped to [-48, 0] dB.
func (l *Limiter) SetThreshold(dB float64) error {
	if !core.IsFinite(dB) {
		return fmt.Errorf("limiter threshold must be finite: %f", dB)
	}
	l.threshold.SetTarget(core.Clamp(dB, minThresholdDB, maxThresholdDB), LimiterRamp)
	return nil
}

// SetMakeup ramps the makeup gain, clamped to [0, 4].
func (l *Limiter) SetMakeup(gain float64) error {
	if !core.IsFinite(gain) {
		return fmt.Errorf("limiter makeup must be finite: %f", gain)
	}
	l.makeup.SetTarget(core.Clamp(gain, 0, maxMakeup), LimiterRamp)
	return nil
}

// Threshold returns the target threshold in dB.
func (l *Limiter) Threshold() float64 { return l.threshold.Target() }

// Makeup returns the target makeup gain.
func (l *Limiter) Makeup() float64 { return l.makeup.Target() }

// SampleRate returns the sample rate in Hz.
func (l *Limiter) SampleRate() float64 { return l.sampleRate }

// Process limits a stereo block in place and refreshes the meter.
func (l *Limiter) Process(left, right []float64) {
	l.analyser.WriteStereo(left, right)

	peak, sum := 0.0, 0.0
	minGain := 1.0
	for i := range left {
		xl, xr := left[i], right[i]
		level := math.Max(math.Abs(xl), math.Abs(xr))
		peak = math.Max(peak, level)
		sum += 0.5 * (xl*xl + xr*xr)

		if level > l.envelope {
			l.envelope += (level - l.envelope) * l.attackCoeff
		} else {
			l.envelope = level + (l.envelope-level)*l.releaseCoeff
		}

		g := l.gain(l.envelope, l.threshold.Next())
		minGain = math.Min(minGain, g)

		m := l.makeup.Next()
		left[i] = xl * g * m
		right[i] = xr * g * m
	}

	rms := 0.0
	if n := len(left); n > 0 {
		rms = mathSqrt(sum / float64(n))
	}
	if err := l.analyser.Update(); err != nil {
		return
	}
	l.meter.publish(l.analyser, peak, rms, minGain)
}

// Gain returns the static gain the limiter applies to a settled envelope at
// the current threshold, excluding makeup.
func (l *Limiter) Gain(envelope float64) float64 {
	return l.gain(math.Abs(envelope), l.threshold.Value())
}

func (l *Limiter) gain(env, thresholdDB float64) float64 {
	if env <= 0 {
		return 1
	}
	overshoot := mathLog2(env) - thresholdDB*log2Of10Div20
	if overshoot <= 0 {
		return 1
	}
	return mathPower2(-overshoot * (1 - 1/LimiterRatio))
}

// Reset clears the detector and analyser. Parameters are kept.
func (l *Limiter) Reset() {
	l.envelope = 0
	l.analyser.Reset()
	l.meter.reset()
}

// Dispose stops every meter watcher and waits for them to exit.
func (l *Limiter) Dispose() {
	l.cancel()
	l.wg.Wait()
}
