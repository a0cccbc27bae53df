package core

import "fmt"

const (
	// DefaultSampleRate is the stream rate used when none is given.
	DefaultSampleRate = 48000.0
	// DefaultBlockSize is the render quantum in frames.
	DefaultBlockSize = 1024
	// MaxBlockSize bounds a single render call.
	MaxBlockSize = 1 << 16
)

// ProcessorConfig is the stream format shared by a rack, its clock and its
// plugins.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// DefaultProcessorConfig returns 48 kHz with 1024-frame blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: DefaultSampleRate,
		BlockSize:  DefaultBlockSize,
	}
}

// WithDefaults fills a zero block size with DefaultBlockSize.
func (c ProcessorConfig) WithDefaults() ProcessorConfig {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	return c
}

// Validate reports a non-finite or non-positive sample rate, or a block
// size outside [1, MaxBlockSize].
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || !IsFinite(c.SampleRate) {
		return fmt.Errorf("sample rate must be > 0 and finite: %f", c.SampleRate)
	}
	if c.BlockSize < 1 || c.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size must be in [1, %d]: %d", MaxBlockSize, c.BlockSize)
	}
	return nil
}

// BlockDuration returns the length of one block in seconds.
func (c ProcessorConfig) BlockDuration() float64 {
	return float64(c.BlockSize) / c.SampleRate
}
