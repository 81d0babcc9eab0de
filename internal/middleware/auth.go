// Package middleware provides reusable HTTP middleware for the TripMate API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/service"
)

// contextKey is an unexported type so no other package can collide with our
// context keys.
type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID uuid.UUID
	Email  string // lowercased
}

// tokenValidator is the slice of the token service the middleware needs.
type tokenValidator interface {
	Validate(tokenString string) (*service.Claims, error)
}

// NewAuth returns a middleware that requires a valid "Authorization: Bearer"
// token and stores the resulting Identity in the request context. Requests
// without a valid token are rejected with 401 before reaching the handler.
func NewAuth(tokens tokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := bearerIdentity(r, tokens)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid bearer token"}}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// NewOptionalAuth behaves like NewAuth but lets unauthenticated requests
// through without an Identity in context. The invite acceptance route uses
// it: the handler itself decides to answer 401 with a sign-in redirect that
// preserves the original link, rather than a flat rejection.
func NewOptionalAuth(tokens tokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ident, ok := bearerIdentity(r, tokens); ok {
				r = r.WithContext(WithIdentity(r.Context(), ident))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerIdentity parses and validates the Authorization header.
func bearerIdentity(r *http.Request, tokens tokenValidator) (Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Identity{}, false
	}

	claims, err := tokens.Validate(parts[1])
	if err != nil {
		return Identity{}, false
	}

	return Identity{UserID: claims.UserID, Email: strings.ToLower(claims.Email)}, true
}

// WithIdentity returns a context carrying the given identity.
// Exported so handler tests can fabricate authenticated requests.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

// IdentityFrom extracts the authenticated identity from the context.
// The second return is false when the request never passed NewAuth.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok
}
