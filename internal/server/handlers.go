package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cwbudde/algo-groovebox/dsp/groove"
	"github.com/cwbudde/algo-groovebox/dsp/rack"
	"github.com/cwbudde/algo-groovebox/dsp/slicer"
	"github.com/cwbudde/algo-groovebox/internal/host"
	"github.com/cwbudde/algo-groovebox/internal/wavio"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"plugins": s.engine.Rack().Registry().Types(),
		"grooves": groove.Names(),
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Session())
}

func (s *Server) handlePutState(w http.ResponseWriter, r *http.Request) {
	var sess host.Session
	if !s.decode(w, r, &sess) {
		return
	}
	if err := s.engine.Restore(sess); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Session())
}

type transportRequest struct {
	Tempo   *float64 `json:"tempo"`
	Running *bool    `json:"running"`
}

func (s *Server) handleTransport(w http.ResponseWriter, r *http.Request) {
	var req transportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Tempo != nil {
		if err := s.engine.SetTransport(*req.Tempo); err != nil {
			s.fail(w, err)
			return
		}
	}
	if req.Running != nil {
		s.engine.SetRunning(*req.Running)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tempo":   s.engine.Tempo(),
		"running": s.engine.Running(),
		"step":    s.engine.CurrentStep(),
	})
}

type grooveRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleGroove(w http.ResponseWriter, r *http.Request) {
	var req grooveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.engine.SetGroove(req.Name, req.Amount); err != nil {
		s.fail(w, err)
		return
	}
	p, amt := s.engine.Groove()
	writeJSON(w, http.StatusOK, map[string]any{"name": p.Name, "display": p.Display, "amount": amt})
}

type addRequest struct {
	Type string `json:"type"`
}

type pluginResponse struct {
	Handle rack.Handle `json:"handle"`
	rack.SlotState
	Steps []host.Step `json:"steps,omitempty"`
}

func (s *Server) handleAddPlugin(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if !s.decode(w, r, &req) {
		return
	}
	h, err := s.engine.Add(req.Type)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.plugin(h))
}

func (s *Server) handleGetPlugin(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.plugin(h))
}

func (s *Server) handleRemovePlugin(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	if err := s.engine.Remove(h); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	var p rack.Params
	if !s.decode(w, r, &p) {
		return
	}
	if err := s.engine.Rack().SetParameters(h, p); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.plugin(h))
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	var steps []host.Step
	if !s.decode(w, r, &steps) {
		return
	}
	if err := s.engine.SetSteps(h, steps); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.plugin(h))
}

type triggerRequest struct {
	Freq     float64 `json:"freq"`
	Velocity float64 `json:"velocity"`
	// Delay is added to the current clock time, in seconds.
	Delay float64 `json:"delay"`
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	var req triggerRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Velocity <= 0 {
		req.Velocity = 1
	}
	at := s.engine.Rack().Clock().Now() + max(req.Delay, 0)
	if err := s.engine.Rack().Trigger(h, req.Freq, at, req.Velocity); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]float64{"time": at})
}

func (s *Server) handleMeter(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	lp, err := s.engine.Limiter(h)
	if err != nil {
		s.fail(w, err)
		return
	}
	lv := lp.Levels()
	writeJSON(w, http.StatusOK, map[string]any{
		"peak":      lv.Peak,
		"rms":       lv.RMS,
		"reduction": lv.GainReductionDB,
		"spectrum":  lv.Spectrum,
	})
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handle(w, r)
	if !ok {
		return
	}
	body := http.MaxBytesReader(w, r.Body, s.config.MaxSampleBytes)
	if err := s.engine.LoadSample(r.Context(), h, body, wavio.Decoder{}); err != nil {
		s.fail(w, err)
		return
	}
	s.writeSlicer(w, h)
}

func (s *Server) handleChops(w http.ResponseWriter, r *http.Request) {
	sl, h, ok := s.slicer(w, r)
	if !ok {
		return
	}
	var chops []float64
	if !s.decode(w, r, &chops) {
		return
	}
	sl.SetChops(chops)
	s.writeSlicer(w, h)
}

type clickRequest struct {
	Time      float64  `json:"time"`
	Tolerance float64  `json:"tolerance"`
	DragTo    *float64 `json:"dragTo,omitempty"`
}

// handleClick applies a click and, when dragTo is set, completes a drag in
// the same request.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sl, h, ok := s.slicer(w, r)
	if !ok {
		return
	}
	var req clickRequest
	if !s.decode(w, r, &req) {
		return
	}
	res := sl.Click(req.Time, req.Tolerance)
	if res == slicer.ClickDrag && req.DragTo != nil {
		sl.DragTo(*req.DragTo)
		sl.EndDrag()
	}
	s.writeSlicer(w, h)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	sl, h, ok := s.slicer(w, r)
	if !ok {
		return
	}
	sl.ToggleMode()
	s.writeSlicer(w, h)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sl, h, ok := s.slicer(w, r)
	if !ok {
		return
	}
	width := 512
	if v := r.URL.Query().Get("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "width must be a positive integer")
			return
		}
		width = n
	}
	ov := sl.Peaks(width)
	pb, _ := s.engine.SlicerPlayhead(h)
	writeJSON(w, http.StatusOK, map[string]any{
		"width":    ov.Width,
		"columns":  ov.Columns,
		"markers":  ov.Markers,
		"mode":     ov.Mode.String(),
		"playback": pb,
	})
}

type slicerResponse struct {
	Handle   rack.Handle `json:"handle"`
	Status   string      `json:"status"`
	Text     string      `json:"text"`
	Duration float64     `json:"duration"`
	Mode     string      `json:"mode"`
	Chops    []float64   `json:"chops"`
}

func (s *Server) writeSlicer(w http.ResponseWriter, h rack.Handle) {
	sl, err := s.engine.Slicer(h)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slicerResponse{
		Handle:   h,
		Status:   sl.Status().String(),
		Text:     sl.StatusText(),
		Duration: sl.Duration(),
		Mode:     sl.Mode().String(),
		Chops:    sl.Chops(),
	})
}

func (s *Server) plugin(h rack.Handle) pluginResponse {
	resp := pluginResponse{Handle: h}
	if p, ok := s.engine.Rack().Get(h); ok {
		resp.SlotState = p.State()
	}
	if pat, ok := s.engine.Steps(h); ok {
		resp.Steps = pat[:]
	}
	return resp
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) (rack.Handle, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "handle"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid handle")
		return 0, false
	}
	h := rack.Handle(n)
	if _, ok := s.engine.Rack().Get(h); !ok {
		writeError(w, http.StatusNotFound, rack.ErrUnknownHandle.Error())
		return 0, false
	}
	return h, true
}

func (s *Server) slicer(w http.ResponseWriter, r *http.Request) (*slicer.Slicer, rack.Handle, bool) {
	h, ok := s.handle(w, r)
	if !ok {
		return nil, 0, false
	}
	sl, err := s.engine.Slicer(h)
	if err != nil {
		s.fail(w, err)
		return nil, 0, false
	}
	return sl, h, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// fail maps engine errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, rack.ErrUnknownHandle):
		status = http.StatusNotFound
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, slicer.ErrDecode):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, rack.ErrUnknownType),
		errors.Is(err, rack.ErrTypeMismatch),
		errors.Is(err, rack.ErrNotInstrument),
		errors.Is(err, host.ErrWrongType):
	default:
		s.logger.Warn("request failed", slog.Any("error", err))
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
