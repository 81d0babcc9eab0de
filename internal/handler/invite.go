package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/oklymenko/tripmate/internal/middleware"
)

// CreateInviteRequest is the body of POST /trips/{tripID}/invites.
type CreateInviteRequest struct {
	Email openapi_types.Email `json:"email"`
}

// CreateInvite handles POST /trips/{tripID}/invites. Owner only.
// Re-inviting an email with a pending invite returns the existing invite and
// link with "reused": true instead of minting a duplicate.
func (s *Server) CreateInvite(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	result, err := s.controller(ident).CreateInvite(r.Context(), tripID, string(req.Email))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// ListInvites handles GET /trips/{tripID}/invites. Owner only.
func (s *Server) ListInvites(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	invites, err := s.controller(ident).ListInvites(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, invites)
}

// AcceptInvite handles GET /invites/accept?trip=<uuid>&email=<addr> — the
// invite link target. The whole flow must be resolvable from this URL plus a
// signed-in identity.
//
// When the request carries no identity the flow suspends: the answer is 401
// with a sign_in URL whose redirect parameter preserves this exact link, so
// acceptance resumes after authentication with the trip identifier intact.
func (s *Server) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	ident, signedIn := middleware.IdentityFrom(r.Context())
	if !signedIn {
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{
				Code:    "unauthorized",
				Message: "sign in to accept this invite",
				SignIn:  "/auth/login?redirect=" + url.QueryEscape(r.URL.RequestURI()),
			},
		})
		return
	}

	rawTrip := r.URL.Query().Get("trip")
	if rawTrip == "" {
		respondJSON(w, http.StatusForbidden, ErrorResponse{
			Error: ErrorDetail{Code: "forbidden", Message: "no trip identifier supplied"},
		})
		return
	}
	tripID, err := uuid.Parse(rawTrip)
	if err != nil {
		badRequest(w, "invalid trip identifier")
		return
	}

	// The email query parameter is advisory only — the grant keys off the
	// signed-in identity, and the audit transition uses the identity's own
	// email. It is accepted in the URL for link-shape compatibility.
	trip, err := s.controller(ident).AcceptInvite(r.Context(), tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tripToResponse(trip))
}
