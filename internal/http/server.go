// Package http serves the wager ledger and its analytics as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "banca/internal/log"
	"banca/internal/metrics"
	"banca/internal/middleware/ratelimit"
	"banca/internal/middleware/security"
	"banca/internal/middleware/trace"
	"banca/internal/services"
)

// Deps are the collaborators of the server. Metrics, Logger and Ready are
// optional.
type Deps struct {
	Wagers    *services.WagerService
	Analytics *services.AnalyticsService
	Metrics   *metrics.Metrics
	Logger    *applog.Logger
	Ready     func(ctx context.Context) error
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	wagers      *services.WagerService
	analytics   *services.AnalyticsService
	metrics     *metrics.Metrics
	ready       func(ctx context.Context) error
	rateLimiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, d Deps) *Server {
	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		wagers:      d.Wagers,
		analytics:   d.Analytics,
		metrics:     d.Metrics,
		ready:       d.Ready,
		rateLimiter: ratelimit.NewLimiter(d.RateLimit),
	}

	s.handle(mux, "GET /healthz", s.handleHealth)
	s.handle(mux, "GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", d.Metrics.Handler())

	s.handle(mux, "GET /api/wagers", s.handleListWagers)
	s.handle(mux, "GET /api/wagers/latest", s.handleLatestWagers)
	s.handle(mux, "GET /api/wagers/page", s.handleWagerPage)
	s.handle(mux, "GET /api/wagers/export", s.handleExport)
	s.handle(mux, "POST /api/wagers", s.handleCreateWager)
	s.handle(mux, "POST /api/wagers/{id}/settle", s.handleSettleWager)
	s.handle(mux, "POST /api/wagers/import", s.handleImport)
	s.handle(mux, "POST /api/wagers/reset", s.handleReset)

	s.handle(mux, "GET /api/analytics", s.handleDashboard)
	s.handle(mux, "GET /api/analytics/breakdown", s.handleBreakdown)
	s.handle(mux, "GET /api/stake", s.handleStake)
	s.handle(mux, "GET /api/options", s.handleOptions)

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(security.ClientIP, writeRateLimited, http.MethodPost)(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = trace.NewMiddleware(d.Logger, security.ClientIP).Middleware(h)
	s.Handler = h
	return s
}

// handle registers h under pattern and records its latency labelled by the
// pattern rather than the raw path.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &trace.ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		h(rw, r)
		s.metrics.ObserveHTTP(pattern, r.Method, rw.StatusCode, time.Since(start))
	})
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, errorBody{
		Error:     "rate limit exceeded, try again later",
		RequestID: w.Header().Get(trace.HeaderRequestID),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
