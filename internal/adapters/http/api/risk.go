// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Validation messages reproduced from the existing wire contract.
var (
	errNoData              = errors.New("no data provided")
	errCoordinatesRequired = errors.New("latitude and longitude are required")
)

// RiskHandler handles single-point risk requests.
type RiskHandler struct {
	deps Dependencies
}

// NewRiskHandler creates a new risk handler.
func NewRiskHandler(deps Dependencies) *RiskHandler {
	return &RiskHandler{deps: deps}
}

// riskRequest mirrors the POST /api/whale-risk body. Pointer fields
// distinguish absent values from explicit zeroes: latitude 0 and month 0 are
// legitimate inputs that pass through to the artifact unmodified.
type riskRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Month     *int     `json:"month"`
}

func (r riskRequest) validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return errCoordinatesRequired
	}
	return nil
}

// HandleRisk handles POST /api/whale-risk requests.
func (h *RiskHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req riskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errNoData)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	assessment, err := h.deps.AssessPoint(r.Context(), *req.Latitude, *req.Longitude, req.Month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}
