package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/types"
)

// EligibilityDependencies defines the interface for award evaluation.
type EligibilityDependencies interface {
	Eligibility(birthdate string, hours float64) model.Eligibility
}

// EligibilityHandler evaluates a birthdate and hour count directly.
type EligibilityHandler struct {
	deps EligibilityDependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps EligibilityDependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

// HandleEligibility handles GET /eligibility?birthdate=DD/MM/YYYY&hours=N.
// An invalid birthdate is reported in the body, not as an HTTP error.
func (h *EligibilityHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "eligibility"
	q := r.URL.Query()

	raw := strings.TrimSpace(q.Get("hours"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing hours")))
		return
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("invalid hours %q", raw)))
		return
	}

	writeJSON(w, http.StatusOK, types.FromEligibility(h.deps.Eligibility(q.Get("birthdate"), hours)))
}
