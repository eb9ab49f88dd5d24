package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/balloon-tracker/internal/domain"
	"github.com/couchcryptid/balloon-tracker/internal/tracker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// StateReader is the tracker surface the API serves. The dashboard gets
// plain data in and out; all rendering happens client-side.
type StateReader interface {
	ReadinessChecker
	Balloons() ([]tracker.BalloonStatus, time.Time, bool)
	Bounds() (domain.Bounds, bool)
	FlightPath(id, strategy string, steps int) (domain.FlightPath, bool)
}

// Server exposes health, readiness, metrics, and dashboard API endpoints.
type Server struct {
	httpServer *http.Server
	state      StateReader
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and API routes.
func NewServer(addr string, state StateReader, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		state:  state,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(state))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/balloons", s.handleBalloons)
	mux.HandleFunc("GET /api/balloons/{id}/path", s.handleFlightPath)
	mux.HandleFunc("GET /api/bounds", s.handleBounds)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// balloonsResponse is the /api/balloons payload.
type balloonsResponse struct {
	ObservedAt time.Time               `json:"observed_at"`
	Balloons   []tracker.BalloonStatus `json:"balloons"`
}

func (s *Server) handleBalloons(w http.ResponseWriter, _ *http.Request) {
	statuses, observedAt, ok := s.state.Balloons()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no refresh cycle completed yet"})
		return
	}
	writeJSON(w, http.StatusOK, balloonsResponse{ObservedAt: observedAt, Balloons: statuses})
}

func (s *Server) handleFlightPath(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	strategy := r.URL.Query().Get("strategy")
	switch strategy {
	case "", "wind", "delta":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "strategy must be \"wind\" or \"delta\""})
		return
	}

	steps := 0
	if raw := r.URL.Query().Get("steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "steps must be an integer in 1-500"})
			return
		}
		steps = n
	}

	path, ok := s.state.FlightPath(id, strategy, steps)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown balloon id"})
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (s *Server) handleBounds(w http.ResponseWriter, _ *http.Request) {
	bounds, ok := s.state.Bounds()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no refresh cycle completed yet"})
		return
	}
	writeJSON(w, http.StatusOK, bounds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
