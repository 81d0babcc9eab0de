package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORS returns a middleware applying CORS headers for the given origins.
// Each entry must be a full origin (scheme + host, no trailing slash).
// Authorization is listed so the SPA can send bearer tokens cross-origin.
func NewCORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler
}
