// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// Service identifier reported by the health endpoint; the route planner keys
// its upstream checks on this value.
const serviceName = "whale-risk-api"

// HealthHandler handles health check requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: serviceName})
}
