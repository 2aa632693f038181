// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Lookup answers a volunteer query from the latest snapshot.
	Lookup(ctx context.Context, q model.Query) (model.SearchResult, error)

	// Eligibility evaluates a DD/MM/YYYY birthdate against hours.
	Eligibility(birthdate string, hours float64) model.Eligibility

	// Period reports the application window as of now.
	Period() model.PeriodInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	lookupHandler      *LookupHandler
	eligibilityHandler *EligibilityHandler
	periodHandler      *PeriodHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		lookupHandler:      NewLookupHandler(deps),
		eligibilityHandler: NewEligibilityHandler(deps),
		periodHandler:      NewPeriodHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)
	r.HandleFunc("/lookup", MetricsMiddleware(s.lookupHandler.HandleLookup, "lookup")).Methods(http.MethodGet)
	r.HandleFunc("/eligibility", MetricsMiddleware(s.eligibilityHandler.HandleEligibility, "eligibility")).Methods(http.MethodGet)
	r.HandleFunc("/period", MetricsMiddleware(s.periodHandler.HandlePeriod, "period")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
