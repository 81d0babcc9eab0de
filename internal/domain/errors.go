package domain

import "errors"

// Sentinel errors shared across repo, service, session, and handler layers.
// Layers wrap them with context via fmt.Errorf("pkg.Type.Method: %w", err);
// handlers unwrap with errors.Is to pick an HTTP status.

// ErrNotFound is returned when the requested resource does not exist — or,
// for trips, when the caller has no role on it. A user with no role must not
// be able to distinguish "absent" from "exists but not yours".
// Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a shape-level business rule
// (empty required field, end date before start date, day number < 1).
// Raised before any persistence call — a validation failure is never
// partially applied. Handlers map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller's role does not permit the
// attempted action on a trip it can otherwise see. Raised before any
// persistence call; the message names the denied action.
// Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when an operation requires a signed-in
// identity and none is present. For invite acceptance this is the
// suspension point: the caller redirects to sign-in and retries with the
// original trip identifier preserved. Handlers map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
