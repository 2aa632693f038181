package api

import (
	"net/http"

	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/types"
)

// PeriodDependencies defines the interface for the application window.
type PeriodDependencies interface {
	Period() model.PeriodInfo
}

// PeriodHandler reports the application window and countdown.
type PeriodHandler struct {
	deps PeriodDependencies
}

// NewPeriodHandler creates a new period handler.
func NewPeriodHandler(deps PeriodDependencies) *PeriodHandler {
	return &PeriodHandler{deps: deps}
}

// HandlePeriod handles GET /period requests.
func (h *PeriodHandler) HandlePeriod(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.FromPeriod(h.deps.Period()))
}
