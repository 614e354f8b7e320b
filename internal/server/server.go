// Package server exposes the analysis engine over HTTP.
//
// Two listeners run side by side: the API listener serves the analysis
// endpoints plus health probes, and a separate metrics listener serves the
// Prometheus /metrics endpoint so that scrapes never compete with analysis
// traffic. Both shut down gracefully when the run context is cancelled.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/tilawa-app/tilawa/internal/config"
	"github.com/tilawa-app/tilawa/internal/engine"
	"github.com/tilawa-app/tilawa/internal/health"
	"github.com/tilawa-app/tilawa/internal/match"
	"github.com/tilawa-app/tilawa/internal/observe"
)

// shutdownTimeout bounds graceful drain of in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server runs the HTTP API and metrics listeners.
type Server struct {
	cfg     config.ServerConfig
	metrics *observe.Metrics
	health  *health.Handler

	// engine and matcher are swappable at runtime so that a config reload
	// can retune thresholds without restarting the listeners.
	engine  atomic.Pointer[engine.Engine]
	matcher atomic.Pointer[match.Matcher]
}

// New creates a [Server] serving the given engine and matcher.
func New(cfg config.ServerConfig, eng *engine.Engine, m *match.Matcher, met *observe.Metrics) *Server {
	s := &Server{
		cfg:     cfg,
		metrics: met,
	}
	s.engine.Store(eng)
	s.matcher.Store(m)
	s.health = health.New(health.Checker{
		Name: "engine",
		Check: func(context.Context) error {
			if s.engine.Load() == nil {
				return errors.New("engine not initialised")
			}
			return nil
		},
	})
	return s
}

// SetEngine swaps the analysis engine. Safe to call while serving.
func (s *Server) SetEngine(eng *engine.Engine) {
	s.engine.Store(eng)
}

// SetMatcher swaps the verse matcher. Safe to call while serving.
func (s *Server) SetMatcher(m *match.Matcher) {
	s.matcher.Store(m)
}

// Run starts both listeners and blocks until ctx is cancelled or a listener
// fails. On cancellation it drains in-flight requests for up to
// [shutdownTimeout] before returning.
func (s *Server) Run(ctx context.Context) error {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /v1/explain", s.handleExplain)
	apiMux.HandleFunc("POST /v1/bestmatch", s.handleBestMatch)
	s.health.Register(apiMux)

	api := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           observe.Middleware(s.metrics)(apiMux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if tls := s.cfg.TLS; tls != nil {
			err = api.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = api.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(api.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	return g.Wait()
}
