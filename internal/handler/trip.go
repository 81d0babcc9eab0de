package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/middleware"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripID}.
// Dates ride as "YYYY-MM-DD" via the openapi runtime Date type.
type TripRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	StartDate   *openapi_types.Date `json:"start_date,omitempty"`
	EndDate     *openapi_types.Date `json:"end_date,omitempty"`
}

// TripResponse is the wire form of a trip.
type TripResponse struct {
	ID            uuid.UUID           `json:"id"`
	OwnerUID      uuid.UUID           `json:"owner_uid"`
	Title         string              `json:"title"`
	Description   string              `json:"description,omitempty"`
	StartDate     *openapi_types.Date `json:"start_date,omitempty"`
	EndDate       *openapi_types.Date `json:"end_date,omitempty"`
	Collaborators []uuid.UUID         `json:"collaborators"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ListTrips handles GET /trips: the union of owned and collaborated trips,
// newest first, each trip at most once.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	trips, err := s.controller(ident).ListMyTrips(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]TripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	created, err := s.controller(ident).CreateTrip(r.Context(),
		req.Title, req.Description, fromDate(req.StartDate), fromDate(req.EndDate))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{tripID}. A trip the caller has no role on is a
// 404, indistinguishable from a trip that does not exist.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.controller(ident).GetTrip(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}. Owner only.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	updated, err := s.controller(ident).UpdateTrip(r.Context(), tripID, domain.TripUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   fromDate(req.StartDate),
		EndDate:     fromDate(req.EndDate),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}. Owner only.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.controller(ident).DeleteTrip(r.Context(), tripID); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// pathUUID parses a UUID route parameter, answering 400 itself on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func tripToResponse(t domain.Trip) TripResponse {
	resp := TripResponse{
		ID:            t.ID,
		OwnerUID:      t.OwnerUID,
		Title:         t.Title,
		Description:   t.Description,
		Collaborators: t.Collaborators,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if resp.Collaborators == nil {
		resp.Collaborators = []uuid.UUID{}
	}
	resp.StartDate = toDate(t.StartDate)
	resp.EndDate = toDate(t.EndDate)
	return resp
}

func fromDate(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func toDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
