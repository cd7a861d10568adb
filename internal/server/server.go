// Package server implements the seqdraw preview service.
//
// Editors that re-render on every keystroke post the current source to
// /render and display the returned markup. Rendering is deterministic, so
// repeated sources are answered from the artifact cache. Diagrams can also
// be shared: /diagrams stores a source under a generated id.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/seqdraw/pkg/config"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
	"github.com/matzehuels/seqdraw/pkg/store"
)

// Server holds the collaborators of the HTTP handlers.
type Server struct {
	Runner   *pipeline.Runner
	Store    store.Store
	Config   config.Config
	Logger   *log.Logger
	Gatherer prometheus.Gatherer
}

// New creates a server. Nil collaborators get in-memory or default
// implementations.
func New(runner *pipeline.Runner, st store.Store, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if st == nil {
		st = store.NewMemory()
	}
	return &Server{
		Runner:   runner,
		Store:    st,
		Config:   cfg,
		Logger:   logger,
		Gatherer: prometheus.DefaultGatherer,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Post("/render", s.handleRender)
	r.Post("/parse", s.handleParse)

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleListDiagrams)
		r.Post("/", s.handleCreateDiagram)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDiagram)
			r.Delete("/", s.handleDeleteDiagram)
			r.Get("/render", s.handleRenderDiagram)
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("preview service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.Logger.Info("preview service stopped")
	return nil
}
