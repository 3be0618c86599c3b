// Package server exposes the scoring pipeline as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"chainscore/internal/observability"
	"chainscore/internal/service"
)

const (
	defaultListen          = ":8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 2 * time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// Options configure the HTTP server.
type Options struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server routes API requests into the pipeline service.
type Server struct {
	opts    Options
	logger  zerolog.Logger
	svc     *service.Service
	metrics *observability.Metrics
	router  *mux.Router
	http    *http.Server
}

// New constructs the server and its routing tree.
func New(opts Options, svc *service.Service, metrics *observability.Metrics, logger zerolog.Logger) *Server {
	if opts.Listen == "" {
		opts.Listen = defaultListen
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		// A cold-cache pipeline run can spend minutes in rate-limited
		// paging, so responses must be allowed to take that long.
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Server{
		opts:    opts,
		logger:  logger.With().Str("component", "server").Logger(),
		svc:     svc,
		metrics: metrics,
		router:  mux.NewRouter(),
	}
	s.routes()

	s.http = &http.Server{
		Addr:         opts.Listen,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes() {
	s.router.Use(s.accessLog)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/features", s.handleFeatures).Methods(http.MethodGet)
	s.router.HandleFunc("/score", s.handleScore).Methods(http.MethodGet)
	s.router.HandleFunc("/compare", s.handleCompare).Methods(http.MethodGet)
	s.router.HandleFunc("/trajectory", s.handleTrajectory).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
}

// Handler returns the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains open connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("listen", s.opts.Listen).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Msg("http server draining")
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
