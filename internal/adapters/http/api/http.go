// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/liftmotor/internal/adapters/repository"
	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/types"
	"github.com/okian/liftmotor/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Select runs one selection query.
	Select(ctx context.Context, q requirement.Query) (types.Response, error)

	// Catalogs lists every configured catalog with its load state.
	Catalogs(ctx context.Context) ([]repository.Status, error)

	// Catalog returns the rows of one catalog.
	Catalog(ctx context.Context, t motor.Type) (*motor.Catalog, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	selectHandler   *SelectHandler
	catalogsHandler *CatalogsHandler
	limiter         *IPRateLimiter
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithRateLimit limits each client IP to rps requests per second with the
// given burst. A non-positive rps leaves the API unlimited.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = NewIPRateLimiter(rps, burst)
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		selectHandler:   NewSelectHandler(deps),
		catalogsHandler: NewCatalogsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r. Operational routes stay outside
// the rate limiter, whose idle entries are swept until ctx is done.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	business := r.NewRoute().Subrouter()
	if s.limiter != nil {
		business.Use(s.limiter.LimitMiddleware)
		go s.limiter.Run(ctx)
	}
	business.HandleFunc("/select", MetricsMiddleware(s.selectHandler.HandleSelect, "select")).
		Methods(http.MethodGet, http.MethodPost)
	business.HandleFunc("/catalogs", MetricsMiddleware(s.catalogsHandler.HandleList, "catalogs")).
		Methods(http.MethodGet)
	business.HandleFunc("/catalogs/{type}", MetricsMiddleware(s.catalogsHandler.HandleGet, "catalog")).
		Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before committing status, so a value that cannot be
// encoded becomes a 500 instead of a success with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		metrics.RecordErrorByType("encode_error", "high")
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{
			Code:    "internal",
			Message: "encode response: " + err.Error(),
		})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeOpError picks the status from the error kind.
func writeOpError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
