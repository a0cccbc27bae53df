package main

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cwbudde/algo-groovebox/internal/host"
)

// output is a real-time sink that pulls audio from an engine.
type output interface {
	Start() error
	Close() error
}

// engineReader adapts an engine to an io.Reader of interleaved stereo
// float32 little-endian samples.
type engineReader struct {
	mu     sync.Mutex
	engine *host.Engine
	buf    []float32
}

func newEngineReader(e *host.Engine) *engineReader {
	return &engineReader{engine: e}
}

func (r *engineReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	if cap(r.buf) < 2*frames {
		r.buf = make([]float32, 2*frames)
	}
	samples := r.buf[:2*frames]
	r.engine.Render(samples)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return 8 * frames, nil
}
