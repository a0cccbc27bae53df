// Package server exposes a host engine over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cwbudde/algo-groovebox/internal/host"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

// Config holds server configuration.
type Config struct {
	Addr string
	// MaxSampleBytes caps uploaded sample size. Zero means 64 MiB.
	MaxSampleBytes int64
}

// Server routes HTTP requests to an engine.
type Server struct {
	config Config
	engine *host.Engine
	router *chi.Mux
	logger *slog.Logger
}

// New creates a server for e. A nil logger uses slog.Default.
func New(cfg Config, e *host.Engine, logger *slog.Logger) (*Server, error) {
	if e == nil {
		return nil, errors.New("server: nil engine")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxSampleBytes <= 0 {
		cfg.MaxSampleBytes = 64 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		engine: e,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/types", s.handleTypes)

	r.Get("/state", s.handleGetState)
	r.Put("/state", s.handlePutState)
	r.Put("/transport", s.handleTransport)
	r.Put("/groove", s.handleGroove)

	r.Route("/plugins", func(r chi.Router) {
		r.Post("/", s.handleAddPlugin)
		r.Route("/{handle}", func(r chi.Router) {
			r.Get("/", s.handleGetPlugin)
			r.Delete("/", s.handleRemovePlugin)
			r.Patch("/params", s.handleParams)
			r.Put("/steps", s.handleSteps)
			r.Post("/trigger", s.handleTrigger)
			r.Get("/meter", s.handleMeter)

			r.Post("/sample", s.handleSample)
			r.Put("/chops", s.handleChops)
			r.Post("/click", s.handleClick)
			r.Post("/mode", s.handleMode)
			r.Get("/view", s.handleView)
		})
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()

		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	s.logger.Info("server starting", slog.String("addr", s.config.Addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
