package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/middleware"
)

// PlaceRequest is the body of POST and PUT under /trips/{tripID}/places.
type PlaceRequest struct {
	LocationName string `json:"location_name"`
	Notes        string `json:"notes,omitempty"`
	DayNumber    int    `json:"day_number"`
}

// ListPlaces handles GET /trips/{tripID}/places. The full sequence, never
// paginated, in canonical order (day number, then creation time).
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	places, err := s.controller(ident).ListPlaces(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	if places == nil {
		places = []domain.Place{}
	}

	respondJSON(w, http.StatusOK, places)
}

// CreatePlace handles POST /trips/{tripID}/places. Owner or collaborator.
func (s *Server) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.controller(ident).CreatePlace(r.Context(), tripID, req.LocationName, req.Notes, req.DayNumber)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// UpdatePlace handles PUT /trips/{tripID}/places/{placeID}. Owner or collaborator.
func (s *Server) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	placeID, ok := pathUUID(w, r, "placeID")
	if !ok {
		return
	}

	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.controller(ident).UpdatePlace(r.Context(), tripID, placeID, domain.PlaceUpdate{
		LocationName: req.LocationName,
		Notes:        req.Notes,
		DayNumber:    req.DayNumber,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeletePlace handles DELETE /trips/{tripID}/places/{placeID}.
func (s *Server) DeletePlace(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	placeID, ok := pathUUID(w, r, "placeID")
	if !ok {
		return
	}

	if err := s.controller(ident).DeletePlace(r.Context(), tripID, placeID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
