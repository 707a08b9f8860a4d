// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/whalerisk/internal/domain/model"
)

var errShipCoordinatesRequired = errors.New("lat and lon query parameters are required")

// ShipHandler handles per-ship position risk requests.
type ShipHandler struct {
	deps Dependencies
}

// NewShipHandler creates a new ship handler.
func NewShipHandler(deps Dependencies) *ShipHandler {
	return &ShipHandler{deps: deps}
}

// shipResponse is an Assessment with the ship's MMSI echoed back when the
// caller supplied one.
type shipResponse struct {
	model.Assessment
	MMSI string `json:"mmsi,omitempty"`
}

// HandleShip handles GET /api/whale-risk/ship?mmsi=&lat=&lon= requests.
// The month always defaults to the current calendar month here; a ship's
// position is a "now" question.
func (h *ShipHandler) HandleShip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	query := r.URL.Query()
	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(query.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, errShipCoordinatesRequired)
		return
	}

	assessment, err := h.deps.AssessPoint(r.Context(), lat, lon, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, shipResponse{
		Assessment: assessment,
		MMSI:       query.Get("mmsi"),
	})
}
