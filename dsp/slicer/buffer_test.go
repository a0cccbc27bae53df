package slicer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func TestNewBuffer(t *testing.T) {
	_, err := NewBuffer(0, []float64{1})
	assert.Error(t, err)
	_, err = NewBuffer(44100)
	assert.Error(t, err)
	_, err = NewBuffer(44100, []float64{1, 2}, []float64{1})
	assert.Error(t, err)

	b, err := NewBuffer(4, []float64{1, 0, -1, 0}, []float64{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, 4, b.Frames())
	assert.Equal(t, 1.0, b.Duration())
	assert.Equal(t, []float64{0.5, 0, 0, 0.5}, b.Mono())

	var empty *Buffer
	assert.Zero(t, empty.Frames())
	assert.Zero(t, empty.Duration())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "NO SAMPLE", StatusNoSample.Text(0))
	assert.Equal(t, "DECODING...", StatusDecoding.Text(0))
	assert.Equal(t, "READY // 1.23s", StatusReady.Text(1.234))
	assert.Equal(t, "ERROR", StatusError.Text(3))
	assert.Equal(t, "DEL", ModeDelete.String())
	assert.Equal(t, "ready", StatusReady.String())
}
