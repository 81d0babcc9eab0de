package handler

import (
	"encoding/json"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/middleware"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string              `json:"name,omitempty"`
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

// AuthResponse is returned by both register and login: the account plus the
// bearer token to use on subsequent requests.
type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Name, string(req.Email), req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// SignIn handles POST /auth/login.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, token, err := s.auth.SignIn(r.Context(), string(req.Email), req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

// SignOut handles POST /auth/logout. Tokens are stateless, so this does not
// revoke anything — it tears down the server-side session state so the next
// request starts from a fresh read of the store.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFrom(r.Context())
	s.auth.SignOut(ident.UserID)
	w.WriteHeader(http.StatusNoContent)
}
