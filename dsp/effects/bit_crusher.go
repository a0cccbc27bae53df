package effects

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-groovebox/dsp/core"
)

const (
	// BitCrusherBlockSize is the number of frames between parameter latches.
	BitCrusherBlockSize = 1024

	defaultBitCrusherAmount   = 1.0
	defaultBitCrusherBitDepth = 8.0
	defaultBitCrusherRate     = 0.5
	defaultBitCrusherMix      = 1.0

	minBitCrusherAmount   = 1.0
	maxBitCrusherAmount   = 10.0
	minBitCrusherBitDepth = 1.0
	maxBitCrusherBitDepth = 16.0
	minBitCrusherRate     = 0.01
	maxBitCrusherRate     = 1.0
)

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	amount   float64
	bitDepth float64
	rate     float64
	mix      float64
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		amount:   defaultBitCrusherAmount,
		bitDepth: defaultBitCrusherBitDepth,
		rate:     defaultBitCrusherRate,
		mix:      defaultBitCrusherMix,
	}
}

// WithBitCrusherAmount sets the pre-quantization drive in [1, 10].
func WithBitCrusherAmount(amount float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := checkRange("amount", amount, minBitCrusherAmount, maxBitCrusherAmount); err != nil {
			return err
		}
		cfg.amount = amount
		return nil
	}
}

// WithBitCrusherBitDepth sets the quantization bit depth in [1, 16].
// Fractional values are supported for smooth sweeps.
func WithBitCrusherBitDepth(bitDepth float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := checkRange("bit depth", bitDepth, minBitCrusherBitDepth, maxBitCrusherBitDepth); err != nil {
			return err
		}
		cfg.bitDepth = bitDepth
		return nil
	}
}

// WithBitCrusherRate sets the hold-phasor increment per frame in [0.01, 1].
// 1 updates every frame, 0.25 every fourth.
func WithBitCrusherRate(rate float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := checkRange("rate", rate, minBitCrusherRate, maxBitCrusherRate); err != nil {
			return err
		}
		cfg.rate = rate
		return nil
	}
}

// WithBitCrusherMix sets the dry/wet mix in [0, 1].
func WithBitCrusherMix(mix float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if err := checkRange("mix", mix, 0, 1); err != nil {
			return err
		}
		cfg.mix = mix
		return nil
	}
}

// BitCrusher reduces amplitude resolution and effective sample rate of a
// stereo signal.
//
// A phasor advances by Rate each frame; whenever it wraps, both channels
// latch a new held value
//
//	held = step * floor(x*amount/step + 0.5),  step = 0.5^bitDepth
//
// and the output is mix*held + (1-mix)*x. Parameters may be set from any
// goroutine and take effect at the next BitCrusherBlockSize boundary.
type BitCrusher struct {
	sampleRate float64

	amount   atomic.Uint64
	bitDepth atomic.Uint64
	rate     atomic.Uint64
	mix      atomic.Uint64

	// Latched per block.
	cur      bitCrusherConfig
	step     float64
	blockPos int

	phasor       float64
	heldL, heldR float64
}

// NewBitCrusher creates a bit crusher with the given sample rate and optional
// configuration overrides.
func NewBitCrusher(sampleRate float64, opts ...BitCrusherOption) (*BitCrusher, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bit crusher sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	bc := &BitCrusher{sampleRate: sampleRate}
	storeFloat(&bc.amount, cfg.amount)
	storeFloat(&bc.bitDepth, cfg.bitDepth)
	storeFloat(&bc.rate, cfg.rate)
	storeFloat(&bc.mix, cfg.mix)
	return bc, nil
}

// SetAmount sets the drive, clamped to [1, 10].
func (bc *BitCrusher) SetAmount(amount float64) error {
	return bc.set(&bc.amount, "amount", amount, minBitCrusherAmount, maxBitCrusherAmount)
}

// SetBitDepth sets the bit depth, clamped to [1, 16].
func (bc *BitCrusher) SetBitDepth(bitDepth float64) error {
	return bc.set(&bc.bitDepth, "bit depth", bitDepth, minBitCrusherBitDepth, maxBitCrusherBitDepth)
}

// SetRate sets the hold-phasor increment, clamped to [0.01, 1].
func (bc *BitCrusher) SetRate(rate float64) error {
	return bc.set(&bc.rate, "rate", rate, minBitCrusherRate, maxBitCrusherRate)
}

// SetMix sets the dry/wet mix, clamped to [0, 1].
func (bc *BitCrusher) SetMix(mix float64) error {
	return bc.set(&bc.mix, "mix", mix, 0, 1)
}

// Amount returns the configured drive.
func (bc *BitCrusher) Amount() float64 { return loadFloat(&bc.amount) }

// BitDepth returns the configured bit depth.
func (bc *BitCrusher) BitDepth() float64 { return loadFloat(&bc.bitDepth) }

// Rate returns the configured hold-phasor increment.
func (bc *BitCrusher) Rate() float64 { return loadFloat(&bc.rate) }

// Mix returns the configured dry/wet mix.
func (bc *BitCrusher) Mix() float64 { return loadFloat(&bc.mix) }

// SampleRate returns the sample rate in Hz.
func (bc *BitCrusher) SampleRate() float64 { return bc.sampleRate }

// Reset clears the phasor and held values.
func (bc *BitCrusher) Reset() {
	bc.phasor = 0
	bc.heldL, bc.heldR = 0, 0
	bc.blockPos = 0
}

// Process crushes a stereo block in place. l and r must have equal length.
func (bc *BitCrusher) Process(l, r []float64) {
	for i := range l {
		if bc.blockPos == 0 {
			bc.latch()
		}
		bc.blockPos++
		if bc.blockPos == BitCrusherBlockSize {
			bc.blockPos = 0
		}

		bc.phasor += bc.cur.rate
		if bc.phasor >= 1 {
			bc.phasor--
			bc.heldL = quantizeStep(l[i], bc.cur.amount, bc.step)
			bc.heldR = quantizeStep(r[i], bc.cur.amount, bc.step)
		}

		mix := bc.cur.mix
		l[i] = bc.heldL*mix + l[i]*(1-mix)
		r[i] = bc.heldR*mix + r[i]*(1-mix)
	}
}

func (bc *BitCrusher) latch() {
	bc.cur = bitCrusherConfig{
		amount:   loadFloat(&bc.amount),
		bitDepth: loadFloat(&bc.bitDepth),
		rate:     loadFloat(&bc.rate),
		mix:      loadFloat(&bc.mix),
	}
	bc.step = QuantizationStep(bc.cur.bitDepth)
}

func (bc *BitCrusher) set(dst *atomic.Uint64, name string, v, lo, hi float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("bit crusher %s must be finite: %f", name, v)
	}
	storeFloat(dst, core.Clamp(v, lo, hi))
	return nil
}

// QuantizationStep returns the grid spacing 0.5^bitDepth.
func QuantizationStep(bitDepth float64) float64 {
	return math.Pow(0.5, bitDepth)
}

// Quantize applies drive and rounds x to the grid for bitDepth.
func Quantize(x, amount, bitDepth float64) float64 {
	return quantizeStep(x, amount, QuantizationStep(bitDepth))
}

func quantizeStep(x, amount, step float64) float64 {
	return step * math.Floor(x*amount/step+0.5)
}

func checkRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("bit crusher %s must be in [%g, %g]: %f", name, lo, hi, v)
	}
	return nil
}

func storeFloat(dst *atomic.Uint64, v float64) { dst.Store(math.Float64bits(v)) }

func loadFloat(src *atomic.Uint64) float64 { return math.Float64frombits(src.Load()) }
