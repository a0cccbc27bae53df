package wavio

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-groovebox/dsp/slicer"
	"github.com/cwbudde/algo-groovebox/internal/testutil"
)

func writeTemp(t *testing.T, sampleRate, bitDepth int, channels ...[]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(f, sampleRate, bitDepth, channels...))
	require.NoError(t, f.Close())
	return path
}

func TestWriteThenRead(t *testing.T) {
	left := testutil.DeterministicSine(440, 22050, 0.5, 2205)
	right := testutil.DeterministicNoise(3, 0.5, 2205)

	for _, depth := range []int{16, 24} {
		path := writeTemp(t, 22050, depth, left, right)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		buf, err := Decoder{}.Decode(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, 22050.0, buf.SampleRate)
		require.Len(t, buf.Channels, 2)
		assert.InDelta(t, 0.1, buf.Duration(), 1e-9)

		tol := 2.0 / float64(int(1)<<(depth-1))
		testutil.RequireSliceNearlyEqual(t, buf.Channels[0], left, tol)
		testutil.RequireSliceNearlyEqual(t, buf.Channels[1], right, tol)
	}
}

func TestReadFromNonSeekingStream(t *testing.T) {
	path := writeTemp(t, 8000, 16, []float64{0, 0.5, -0.5, 1})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	buf, err := Read(context.Background(), strings.NewReader(string(data)))
	require.NoError(t, err)
	require.Len(t, buf.Channels, 1)
	testutil.RequireSliceNearlyEqual(t, buf.Channels[0], []float64{0, 0.5, -0.5, 1}, 1e-4)
}

func TestWriteClips(t *testing.T) {
	path := writeTemp(t, 8000, 16, []float64{2, -2})
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	buf, err := Read(context.Background(), f)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, buf.Channels[0], []float64{1, -1}, 1e-4)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader("definitely not riff data"))
	assert.ErrorIs(t, err, ErrInvalidFile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Read(ctx, strings.NewReader(""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSlicerLoadsThroughDecoder(t *testing.T) {
	path := writeTemp(t, 1000, 16, make([]float64, 1500))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s, err := slicer.New(48000)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background(), f, Decoder{}))
	assert.Equal(t, "READY // 1.50s", s.StatusText())
}

func TestWriteValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Error(t, Write(f, 44100, 16))
	assert.Error(t, Write(f, 44100, 16, []float64{1}, []float64{}))
	assert.ErrorIs(t, WriteInterleaved(f, 44100, 1, 12, []float32{0}), ErrUnsupportedFormat)
	assert.Error(t, WriteInterleaved(f, 0, 1, 16, []float32{0}))
}
