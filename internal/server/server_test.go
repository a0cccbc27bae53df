package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/internal/host"
	"github.com/cwbudde/algo-groovebox/internal/wavio"
)

func newTestServer(t *testing.T) (*httptest.Server, *host.Engine) {
	t.Helper()

	r, err := rack.New(rack.Context{SampleRate: 48000})
	require.NoError(t, err)
	e, err := host.NewEngine(r)
	require.NoError(t, err)

	s, err := New(Config{}, e, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, e
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestNewRejectsNilEngine(t *testing.T) {
	_, err := New(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestHealthAndTypes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	_, body = do(t, ts, http.MethodGet, "/types", nil)
	assert.Contains(t, body["plugins"], "slicer")
	assert.Equal(t, []any{"dilla", "mpc", "volca"}, body["grooves"])
}

func TestPluginLifecycle(t *testing.T) {
	ts, e := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "kick"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "kick", body["type"])
	assert.EqualValues(t, 1, body["handle"])

	resp, body = do(t, ts, http.MethodPatch, "/plugins/1/params", map[string]float64{"pitch": 1000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 100, body["params"].(map[string]any)["pitch"])

	resp, _ = do(t, ts, http.MethodPut, "/plugins/1/steps", []host.Step{{Enabled: true}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pat, ok := e.Steps(1)
	require.True(t, ok)
	assert.True(t, pat[0].Enabled)

	resp, body = do(t, ts, http.MethodPost, "/plugins/1/trigger", map[string]float64{"delay": 0.5})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.InDelta(t, 0.5, body["time"], 1e-9)

	resp, _ = do(t, ts, http.MethodDelete, "/plugins/1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodGet, "/plugins/1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrorStatuses(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "theremin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodGet, "/plugins/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPut, "/groove", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPut, "/groove", map[string]any{"name": "shuffle"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, _ = do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "reverb"})
	resp, _ = do(t, ts, http.MethodPut, "/plugins/1/steps", []host.Step{{Enabled: true}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, ts, http.MethodGet, "/plugins/1/meter", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransportGrooveAndState(t *testing.T) {
	ts, e := newTestServer(t)

	resp, body := do(t, ts, http.MethodPut, "/transport", map[string]any{"tempo": 128, "running": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 128, body["tempo"])
	assert.Equal(t, true, body["running"])
	assert.True(t, e.Running())

	_, body = do(t, ts, http.MethodPut, "/groove", map[string]any{"name": "drunk", "amount": 0.5})
	assert.Equal(t, "dilla", body["name"])
	assert.Equal(t, "J_DILLA_DRUNK", body["display"])

	_, _ = do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "snare"})

	_, state := do(t, ts, http.MethodGet, "/state", nil)
	assert.EqualValues(t, 128, state["tempo"])
	assert.Equal(t, "dilla", state["groove"])
	require.Len(t, state["slots"], 1)

	state["tempo"] = 90
	resp, restored := do(t, ts, http.MethodPut, "/state", state)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 90, restored["tempo"])
	assert.Equal(t, 90.0, e.Tempo())
	assert.Equal(t, []rack.Handle{2}, e.Rack().Handles())
}

func wavBytes(t *testing.T, seconds float64) []byte {
	t.Helper()

	const sr = 8000
	data := make([]float64, int(seconds*sr))
	for i := range data {
		data[i] = 0.5
	}
	path := filepath.Join(t.TempDir(), "s.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wavio.Write(f, sr, 16, data))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func TestSlicerEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "slicer"})

	resp, body := do(t, ts, http.MethodPost, "/plugins/1/sample", wavBytes(t, 2))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "READY // 2.00s", body["text"])

	_, body = do(t, ts, http.MethodPost, "/plugins/1/click", map[string]float64{"time": 1, "tolerance": 0.05})
	assert.Equal(t, []any{0.0, 1.0}, body["chops"])

	_, body = do(t, ts, http.MethodPost, "/plugins/1/click", map[string]float64{"time": 1.01, "tolerance": 0.05, "dragTo": 1.5})
	assert.Equal(t, []any{0.0, 1.5}, body["chops"])

	_, body = do(t, ts, http.MethodPut, "/plugins/1/chops", []float64{0.5, 3, -1})
	assert.Equal(t, []any{0.0, 0.5}, body["chops"])

	_, body = do(t, ts, http.MethodPost, "/plugins/1/mode", nil)
	assert.Equal(t, "DEL", body["mode"])
	_, body = do(t, ts, http.MethodPost, "/plugins/1/click", map[string]float64{"time": 0.5, "tolerance": 0.05})
	assert.Equal(t, []any{0.0}, body["chops"])

	resp, body = do(t, ts, http.MethodGet, "/plugins/1/view?width=100", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 100, body["width"])
	assert.Len(t, body["columns"], 100)

	resp, _ = do(t, ts, http.MethodGet, "/plugins/1/view?width=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, ts, http.MethodPost, "/plugins/1/sample", []byte(strings.Repeat("x", 64)))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestMeterEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	_, _ = do(t, ts, http.MethodPost, "/plugins", map[string]string{"type": "limiter"})

	resp, body := do(t, ts, http.MethodGet, "/plugins/1/meter", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "peak")
	assert.Contains(t, body, "reduction")
}
