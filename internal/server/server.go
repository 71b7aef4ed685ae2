// Package server implements the chaosgame HTTP API.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nloeffler/chaosgame/pkg/chaos"
	apperrors "github.com/nloeffler/chaosgame/pkg/errors"
	"github.com/nloeffler/chaosgame/pkg/observability"
	"github.com/nloeffler/chaosgame/pkg/pipeline"
	"github.com/nloeffler/chaosgame/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8632"

	// DefaultMaxBatch caps the points one generate request may ask for.
	// Responses carry the full point payload, so the cap bounds response
	// size as well as request latency.
	DefaultMaxBatch = 100_000

	// shutdownTimeout bounds the graceful drain on shutdown.
	shutdownTimeout = 5 * time.Second
)

// =============================================================================
// Server
// =============================================================================

// Config holds server settings.
type Config struct {
	// Addr is the host:port to listen on. Empty means DefaultAddr.
	Addr string

	// MaxBatch caps the points per generate request. Zero means
	// DefaultMaxBatch; negative disables the cap.
	MaxBatch int
}

// Server serves the session API over HTTP. Sessions are held live in a
// Registry and shadowed in a Store, so restarts and multi-instance
// deployments resume transparently.
type Server struct {
	addr     string
	registry *Registry
	logger   *log.Logger
}

// New creates a server persisting sessions through st. A nil logger uses
// the default logger.
func New(st store.Store, cfg Config, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	maxBatch := cfg.MaxBatch
	switch {
	case maxBatch == 0:
		maxBatch = DefaultMaxBatch
	case maxBatch < 0:
		maxBatch = 0
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:     cfg.Addr,
		registry: NewRegistry(st, maxBatch),
		logger:   logger,
	}
}

// Handler builds the router. Exposed separately from Run for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleMeta)
			r.Delete("/", s.handleDelete)
			r.Post("/points", s.handleGenerate)
		})
	})
	return r
}

// Run listens on the configured address until ctx is canceled, then
// drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.logger.Info("listening", "addr", s.addr)

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs every request and feeds the server hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

// =============================================================================
// Handlers
// =============================================================================

// createRequest is either a full set of run options or a preset reference.
// When Preset is set it wins and the inline options are ignored.
type createRequest struct {
	Preset string `json:"preset,omitempty"`
	pipeline.Options
}

type pointsRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}

	opts := req.Options
	if req.Preset != "" {
		loaded, err := pipeline.LoadPreset(req.Preset)
		if err != nil {
			s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "invalid session configuration"))
			return
		}
		opts = loaded
	}

	si, err := s.registry.Create(r.Context(), opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, sessionJSON(si))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed request body"))
		return
	}

	batch, total, err := s.registry.Generate(r.Context(), chi.URLParam(r, "id"), req.Count)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, pointsResponse{
		Generated: batch.Len(),
		Total:     total,
		Points:    pointPairs(batch.Points),
		Colors:    colorTriples(batch.Colors),
	})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	si, err := s.registry.Info(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, sessionJSON(si))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Responses
// =============================================================================

type sessionResponse struct {
	ID         string       `json:"id"`
	NumTargets int          `json:"num_targets"`
	PointSize  float64      `json:"point_size"`
	Seed       uint64       `json:"seed"`
	Total      int          `json:"total"`
	Vertices   [][2]float64 `json:"vertices"`
}

// pointsResponse carries the freshly generated suffix, never the full
// accumulated sequence.
type pointsResponse struct {
	Generated int          `json:"generated"`
	Total     int          `json:"total"`
	Points    [][2]float64 `json:"points"`
	Colors    [][3]float64 `json:"colors"`
}

type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
}

func sessionJSON(si *SessionInfo) sessionResponse {
	return sessionResponse{
		ID:         si.ID,
		NumTargets: si.NumTargets,
		PointSize:  si.PointSize,
		Seed:       si.Seed,
		Total:      si.Total,
		Vertices:   pointPairs(si.Vertices),
	}
}

func pointPairs(points []chaos.Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func colorTriples(colors []chaos.Color) [][3]float64 {
	out := make([][3]float64, len(colors))
	for i, c := range colors {
		out[i] = [3]float64{c.R, c.G, c.B}
	}
	return out
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respond(w, status, errorResponse{Error: apperrors.UserMessage(err), Code: code})
}

// statusFor maps application error codes to HTTP status.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidConfig, apperrors.ErrCodeInvalidPreset:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeSessionNotFound, apperrors.ErrCodePresetNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
