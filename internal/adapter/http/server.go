package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-impact/internal/observability"
)

// Server exposes health, readiness, metrics and the JSON query API.
type Server struct {
	httpServer *http.Server
	store      *Store
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server. Readiness follows store: /readyz and the
// API return 503 until a dataset is set.
func NewServer(addr string, store *Store, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:   store,
		logger:  logger,
		metrics: metrics,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(store))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/nearby", s.withDataset(s.handleNearby))
	mux.HandleFunc("GET /api/summary", s.withDataset(s.handleSummary))
	mux.HandleFunc("GET /api/quakes.geojson", s.withDataset(s.handleGeoJSON))

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

type datasetHandler func(w http.ResponseWriter, r *http.Request, ds *Dataset)

func (s *Server) withDataset(h datasetHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := s.store.Dataset()
		if ds == nil {
			writeError(w, http.StatusServiceUnavailable, errNotLoaded)
			return
		}
		h(w, r, ds)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
