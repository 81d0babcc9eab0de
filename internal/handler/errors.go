package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oklymenko/tripmate/internal/domain"
)

// ErrorResponse is the uniform error envelope for every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
// SignIn is populated only on 401s from the invite-accept flow: it is the
// URL the client should send the user to, with the original link preserved
// so acceptance can resume after authentication.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	SignIn  string `json:"sign_in,omitempty"`
}

// respondJSON writes v with the given status. Encoding failures are
// swallowed: the status line is already on the wire by then.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error onto an HTTP status + envelope:
//
//	ErrValidation   → 422  validation_error
//	ErrUnauthorized → 401  unauthorized
//	ErrForbidden    → 403  forbidden (message names the denied action)
//	ErrNotFound     → 404  not_found
//	anything else   → 500  internal (persistence and other infrastructure
//	                       faults — the adapter's diagnostic is logged by the
//	                       request middleware, not leaked to the client)
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{Code: "validation_error", Message: sentinelMessage(err, domain.ErrValidation)},
		})
	case errors.Is(err, domain.ErrUnauthorized):
		respondJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: ErrorDetail{Code: "unauthorized", Message: sentinelMessage(err, domain.ErrUnauthorized)},
		})
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, ErrorResponse{
			Error: ErrorDetail{Code: "forbidden", Message: sentinelMessage(err, domain.ErrForbidden)},
		})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: "not found"},
		})
	default:
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal", Message: "internal server error"},
		})
	}
}

// badRequest rejects malformed input (unparseable JSON, bad UUIDs) before
// any domain logic runs.
func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{Code: "bad_request", Message: message},
	})
}

// sentinelMessage extracts the human-readable tail of a wrapped sentinel
// error, e.g.
//
//	"session.Controller.UpdateTrip: validation error: title is required"
//
// becomes "title is required". When the sentinel carries no tail (or the
// error shape is unexpected), the sentinel text itself is returned.
func sentinelMessage(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
