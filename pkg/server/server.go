// Package server exposes the styling pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz                  liveness and build version
//	GET  /v1/brands                brand summaries grouped in registry order
//	GET  /v1/brands/{id}           full theme
//	POST /v1/brands/{id}/apply     body: .docx; response: styled .docx
//	POST /v1/validate              body: .docx; response: quality report
//	GET  /v1/runs                  recent run records
//	GET  /v1/runs/{id}             one run record
//
// Apply responses carry the verdict in X-Quality-Level and the run
// identifier in X-Run-ID; the full report is stored and served under
// /v1/runs/{id}. Errors are JSON objects {"code", "error"}.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/polisher/pkg/pipeline"
	"github.com/matzehuels/polisher/pkg/reportstore"
)

// Defaults.
const (
	DefaultMaxUpload = 32 << 20
	DefaultTimeout   = 60 * time.Second
	shutdownTimeout  = 10 * time.Second

	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Server serves the HTTP API.
type Server struct {
	runner    *pipeline.Runner
	store     reportstore.Store
	logger    *log.Logger
	maxUpload int64
	timeout   time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithStore sets where run records are kept. The default is an in-memory
// store.
func WithStore(s reportstore.Store) Option { return func(srv *Server) { srv.store = s } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// WithMaxUpload limits request bodies to n bytes.
func WithMaxUpload(n int64) Option { return func(srv *Server) { srv.maxUpload = n } }

// WithTimeout bounds the handling time of each request.
func WithTimeout(d time.Duration) Option { return func(srv *Server) { srv.timeout = d } }

// New creates a server running documents through runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:    runner,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		maxUpload: DefaultMaxUpload,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = reportstore.NewMemoryStore(0)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/brands", s.handleListBrands)
		r.Get("/brands/{id}", s.handleGetBrand)
		r.Post("/brands/{id}/apply", s.handleApply)
		r.Post("/validate", s.handleValidate)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}
