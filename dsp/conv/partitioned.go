package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by convolver constructors.
var (
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// DefaultBlockSize is used when NewPartitioned receives a non-positive size.
const DefaultBlockSize = 512

// Partitioned is a uniformly partitioned overlap-save convolver. It is not
// safe for concurrent use.
type Partitioned struct {
	block   int
	fftSize int
	plan    *algofft.Plan[complex128]

	parts [][]complex128 // kernel spectra
	fdl   [][]complex128 // spectra of the most recent input windows
	head  int

	window []complex128 // previous block followed by current block
	acc    []complex128
	spec   []complex128

	in     []float64
	out    []float64
	pos    int
	kernel int
}

// NewPartitioned prepares a convolver for kernel. blockSize is rounded up to
// a power of two.
func NewPartitioned(kernel []float64, blockSize int) (*Partitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if blockSize > 1<<16 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	block := nextPowerOf2(blockSize)
	fftSize := 2 * block

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	count := (len(kernel) + block - 1) / block
	p := &Partitioned{
		block:   block,
		fftSize: fftSize,
		plan:    plan,
		parts:   make([][]complex128, count),
		fdl:     make([][]complex128, count),
		window:  make([]complex128, fftSize),
		acc:     make([]complex128, fftSize),
		spec:    make([]complex128, fftSize),
		in:      make([]float64, block),
		out:     make([]float64, block),
		kernel:  len(kernel),
	}

	padded := make([]complex128, fftSize)
	for k := 0; k < count; k++ {
		for i := range padded {
			padded[i] = 0
		}
		seg := kernel[k*block:]
		if len(seg) > block {
			seg = seg[:block]
		}
		for i, v := range seg {
			padded[i] = complex(v, 0)
		}

		p.parts[k] = make([]complex128, fftSize)
		if err := plan.Forward(p.parts[k], padded); err != nil {
			return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
		}
		p.fdl[k] = make([]complex128, fftSize)
	}

	return p, nil
}

// Latency returns the delay in samples between input and output.
func (p *Partitioned) Latency() int { return p.block }

// KernelLen returns the kernel length in samples.
func (p *Partitioned) KernelLen() int { return p.kernel }

// BlockSize returns the partition size.
func (p *Partitioned) BlockSize() int { return p.block }

// ProcessSample pushes one input sample and returns one output sample,
// delayed by Latency.
func (p *Partitioned) ProcessSample(x float64) float64 {
	p.in[p.pos] = x
	y := p.out[p.pos]
	p.pos++
	if p.pos == p.block {
		p.pos = 0
		p.processBlock()
	}
	return y
}

// Process convolves src into dst sample by sample. dst and src may alias.
func (p *Partitioned) Process(dst, src []float64) {
	for i, x := range src {
		dst[i] = p.ProcessSample(x)
	}
}

// Reset clears all history.
func (p *Partitioned) Reset() {
	for k := range p.fdl {
		clear(p.fdl[k])
	}
	clear(p.window)
	clear(p.in)
	clear(p.out)
	p.pos = 0
	p.head = 0
}

func (p *Partitioned) processBlock() {
	b := p.block

	// Slide the time window and append the new block.
	copy(p.window[:b], p.window[b:])
	for i, v := range p.in {
		p.window[b+i] = complex(v, 0)
	}

	p.head = (p.head + 1) % len(p.fdl)
	if err := p.plan.Forward(p.fdl[p.head], p.window); err != nil {
		clear(p.out)
		return
	}

	clear(p.acc)
	for k := range p.parts {
		idx := (p.head - k + len(p.fdl)) % len(p.fdl)
		x, h := p.fdl[idx], p.parts[k]
		for i := range p.acc {
			p.acc[i] += x[i] * h[i]
		}
	}

	if err := p.plan.Inverse(p.spec, p.acc); err != nil {
		clear(p.out)
		return
	}
	for i := range p.out {
		p.out[i] = real(p.spec[b+i])
	}
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
