// Package http serves the operator status surface of a running exploration:
// live counters and position, discovered solutions, health and metrics.
// Every route is read-only; steering a run stays on the signal interface.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patrick-brian-mooney/IF-utils/internal/logging"
	"github.com/patrick-brian-mooney/IF-utils/pkg/observability"
)

// Server answers status queries from a Collector. It holds no run state of
// its own, so it can outlive the engine and keep serving the final report.
type Server struct {
	collector *observability.Collector
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the logger used for encode failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer exposes Prometheus metrics from g on GET /metrics. Without
// this option the route is not mounted.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewHandler builds the HTTP handler for the status surface:
//
//	GET /healthz    liveness probe
//	GET /status     snapshot of the current run
//	GET /solutions  winning paths found so far
//	GET /metrics    Prometheus metrics, when a gatherer is attached
func NewHandler(collector *observability.Collector, opts ...Option) http.Handler {
	s := &Server{
		collector: collector,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/status", s.status)
	r.Get("/solutions", s.solutions)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, s.collector.Snapshot())
}

func (s *Server) solutions(w http.ResponseWriter, _ *http.Request) {
	sols := s.collector.Solutions()
	if sols == nil {
		sols = []observability.SolutionRecord{}
	}
	s.respond(w, sols)
}

func (s *Server) respond(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("status response encode failed", "err", err)
	}
}
