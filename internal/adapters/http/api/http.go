// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/whalerisk/internal/domain/model"
	"github.com/okian/whalerisk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// AssessPoint scores one location; a nil month means current calendar month.
	AssessPoint(ctx context.Context, lat, lon float64, month *int) (model.Assessment, error)

	// AssessRoute scores an ordered, non-empty sequence of waypoints.
	AssessRoute(ctx context.Context, waypoints []model.Coordinate) ([]model.Assessment, error)

	// GetStats exposes service statistics.
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	riskHandler   *RiskHandler
	routeHandler  *RouteHandler
	shipHandler   *ShipHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers. maxWaypoints caps the
// route endpoint's accepted waypoint count.
func NewServer(deps Dependencies, maxWaypoints int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		riskHandler:   NewRiskHandler(deps),
		routeHandler:  NewRouteHandler(deps, maxWaypoints),
		shipHandler:   NewShipHandler(deps),
		statsHandler:  NewStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/health", RequestIDMiddleware(MetricsMiddleware(s.healthHandler.HandleHealth, "health")))
	mux.HandleFunc("/stats", RequestIDMiddleware(MetricsMiddleware(s.statsHandler.HandleStats, "stats")))
	mux.HandleFunc("/api/whale-risk/route", RequestIDMiddleware(MetricsMiddleware(s.routeHandler.HandleRoute, "whale_risk_route")))
	mux.HandleFunc("/api/whale-risk/ship", RequestIDMiddleware(MetricsMiddleware(s.shipHandler.HandleShip, "whale_risk_ship")))
	mux.HandleFunc("/api/whale-risk", RequestIDMiddleware(MetricsMiddleware(s.riskHandler.HandleRisk, "whale_risk")))

	// Prometheus metrics from the custom registry.
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders the wire error shape: {"error": <message>}.
func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
