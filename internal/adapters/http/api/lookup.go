package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/pvsa/internal/app"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/types"
	"github.com/okian/pvsa/pkg/logger"
)

// LookupDependencies defines the interface for lookup operations.
type LookupDependencies interface {
	Lookup(ctx context.Context, q model.Query) (model.SearchResult, error)
}

// LookupHandler handles volunteer lookups.
type LookupHandler struct {
	deps LookupDependencies
}

// NewLookupHandler creates a new lookup handler.
func NewLookupHandler(deps LookupDependencies) *LookupHandler {
	return &LookupHandler{deps: deps}
}

// HandleLookup handles GET /lookup?name=&id=&birthdate= requests.
func (h *LookupHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	const op = "lookup"
	q := r.URL.Query()
	query := model.Query{
		Name:      q.Get("name"),
		ID:        q.Get("id"),
		Birthdate: q.Get("birthdate"),
	}

	res, err := h.deps.Lookup(r.Context(), query)
	switch {
	case errors.Is(err, service.ErrMissingQuery):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrNotReady):
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	case err != nil:
		logger.Get().Error(r.Context(), "lookup failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	if !res.Found {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, types.FromSearchResult(res))
}
