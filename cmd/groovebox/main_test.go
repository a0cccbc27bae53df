package main

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/internal/host"
	"github.com/cwbudde/algo-groovebox/internal/wavio"
)

func demoEngine(t *testing.T) *host.Engine {
	t.Helper()
	r, err := rack.New(rack.Context{SampleRate: 16000, BlockSize: 256})
	require.NoError(t, err)
	t.Cleanup(r.Close)
	e, err := host.NewEngine(r)
	require.NoError(t, err)
	require.NoError(t, e.Restore(demoSession()))
	return e
}

func TestDemoSessionRestores(t *testing.T) {
	e := demoEngine(t)
	assert.Equal(t, 6, e.Rack().Len())
	assert.Equal(t, 92.0, e.Tempo())

	p, amt := e.Groove()
	assert.Equal(t, "mpc", p.Name)
	assert.Equal(t, 0.5, amt)
}

func TestRenderWAV(t *testing.T) {
	e := demoEngine(t)

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, renderWAV(e, 16000, 256, 16, f))
	require.NoError(t, f.Close())
	assert.False(t, e.Running())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	buf, err := wavio.Read(t.Context(), f)
	require.NoError(t, err)

	require.Len(t, buf.Channels, 2)
	assert.Equal(t, 16000, buf.Frames())
	peak := 0.0
	for _, v := range buf.Channels[0] {
		peak = math.Max(peak, math.Abs(v))
	}
	assert.Greater(t, peak, 0.01)

	assert.Error(t, renderWAV(e, 100, 0, 16, f))
}

func TestEngineReader(t *testing.T) {
	e := demoEngine(t)
	e.SetRunning(true)

	r := newEngineReader(e)
	p := make([]byte, 8*256+3)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 8*256, n)
	assert.Equal(t, int64(256), e.Rack().Clock().Frame())

	for i := 0; i < n; i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(p[i:]))
		assert.False(t, math.IsNaN(float64(v)))
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0)
	}

	n, err = r.Read(p[:7])
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSetupLogger(t *testing.T) {
	assert.NoError(t, setupLogger("debug"))
	assert.NoError(t, setupLogger("WARN"))
	assert.Error(t, setupLogger("loud"))
}

func TestLoadSession(t *testing.T) {
	s, err := loadSession("")
	require.NoError(t, err)
	assert.Len(t, s.Slots, 6)

	_, err = loadSession(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tempo":100,"slots":[{"type":"bell","params":{"attack":0.1}}]}`), 0o600))
	s, err = loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.Tempo)
	require.Len(t, s.Slots, 1)
	assert.Equal(t, "bell", s.Slots[0].Type)
}
