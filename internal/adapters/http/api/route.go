// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/okian/whalerisk/internal/domain/model"
)

// Validation messages reproduced from the existing wire contract.
var (
	errWaypointsRequired = errors.New("waypoints array is required")
	errWaypointsEmpty    = errors.New("waypoints must be a non-empty array")
)

// RouteHandler handles route risk requests.
type RouteHandler struct {
	deps         Dependencies
	maxWaypoints int
}

// NewRouteHandler creates a new route handler.
func NewRouteHandler(deps Dependencies, maxWaypoints int) *RouteHandler {
	return &RouteHandler{
		deps:         deps,
		maxWaypoints: maxWaypoints,
	}
}

// routeRequest mirrors the POST /api/whale-risk/route body.
type routeRequest struct {
	Waypoints []model.Coordinate `json:"waypoints"`
}

type highestRisk struct {
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Probability float64         `json:"probability"`
	RiskLevel   model.RiskLevel `json:"risk_level"`
}

type routeSummary struct {
	AverageProbability  float64     `json:"average_probability"`
	HighestRiskLocation highestRisk `json:"highest_risk_location"`
}

type routeResponse struct {
	Waypoints []model.Assessment `json:"waypoints"`
	Summary   routeSummary       `json:"summary"`
}

// HandleRoute handles POST /api/whale-risk/route requests.
// Emptiness is rejected here, before aggregation, so the mean below can never
// divide by zero.
func (h *RouteHandler) HandleRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// waypoints present but not a sequence
			writeError(w, http.StatusBadRequest, errWaypointsEmpty)
			return
		}
		writeError(w, http.StatusBadRequest, errWaypointsRequired)
		return
	}
	if req.Waypoints == nil {
		writeError(w, http.StatusBadRequest, errWaypointsRequired)
		return
	}
	if len(req.Waypoints) == 0 {
		writeError(w, http.StatusBadRequest, errWaypointsEmpty)
		return
	}
	if len(req.Waypoints) > h.maxWaypoints {
		writeError(w, http.StatusBadRequest, fmt.Errorf("waypoints must not exceed %d entries", h.maxWaypoints))
		return
	}

	assessments, err := h.deps.AssessRoute(r.Context(), req.Waypoints)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		Waypoints: assessments,
		Summary:   summarize(assessments),
	})
}

// summarize computes the route-level aggregate: mean probability and the
// highest-risk waypoint, ties broken by first occurrence in input order.
func summarize(assessments []model.Assessment) routeSummary {
	sum := 0.0
	worst := assessments[0]
	for _, a := range assessments {
		sum += a.Probability
		if a.Probability > worst.Probability {
			worst = a
		}
	}
	return routeSummary{
		AverageProbability: round3(sum / float64(len(assessments))),
		HighestRiskLocation: highestRisk{
			Latitude:    worst.Latitude,
			Longitude:   worst.Longitude,
			Probability: worst.Probability,
			RiskLevel:   worst.RiskLevel,
		},
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
