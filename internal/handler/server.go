// Package handler implements the HTTP surface of the TripMate API.
// Handlers decode requests, resolve the caller's session controller, and map
// domain errors onto HTTP statuses. They hold no business rules: validation
// lives in services, authorization in the session controller.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/middleware"
	"github.com/oklymenko/tripmate/internal/service"
	"github.com/oklymenko/tripmate/internal/session"
)

// TripController defines the per-user operations the handlers depend on.
// Declaring the interface here (in the consumer package) lets handler tests
// inject a mock without a database or real session state.
type TripController interface {
	ListMyTrips(ctx context.Context) ([]domain.Trip, error)
	CreateTrip(ctx context.Context, title, description string, startDate, endDate *time.Time) (domain.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
	UpdateTrip(ctx context.Context, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	DeleteTrip(ctx context.Context, tripID uuid.UUID) error

	ListPlaces(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error)
	CreatePlace(ctx context.Context, tripID uuid.UUID, locationName, notes string, dayNumber int) (domain.Place, error)
	UpdatePlace(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error)
	DeletePlace(ctx context.Context, tripID, placeID uuid.UUID) error

	CreateInvite(ctx context.Context, tripID uuid.UUID, email string) (service.CreateResult, error)
	ListInvites(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error)
	AcceptInvite(ctx context.Context, tripID uuid.UUID) (domain.Trip, error)
}

// ControllerProvider resolves the session controller for an identity.
type ControllerProvider interface {
	Controller(uid uuid.UUID, email string) TripController
}

// AuthServicer defines the account operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (domain.User, string, error)
	SignIn(ctx context.Context, email, password string) (domain.User, string, error)
	SignOut(uid uuid.UUID)
}

// Server holds the handler dependencies. Methods live in domain-specific
// files (auth.go, trip.go, place.go, invite.go) but all share this struct.
type Server struct {
	auth     AuthServicer
	sessions ControllerProvider
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, sessions ControllerProvider) *Server {
	return &Server{auth: auth, sessions: sessions}
}

// Routes mounts every route on a fresh chi router. requireAuth and
// optionalAuth are the two flavors of bearer-token middleware: everything
// under /trips requires a signed-in identity, while the invite acceptance
// link must reach its handler either way so it can answer with a sign-in
// redirect that preserves the original URL.
func (s *Server) Routes(requireAuth, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Post("/auth/register", s.Register)
	r.Post("/auth/login", s.SignIn)
	r.With(requireAuth).Post("/auth/logout", s.SignOut)

	// The invite link target. Optional auth: the handler answers 401 with a
	// sign-in redirect when no identity is present.
	r.With(optionalAuth).Get("/invites/accept", s.AcceptInvite)

	r.Route("/trips", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/places", s.ListPlaces)
			r.Post("/places", s.CreatePlace)
			r.Put("/places/{placeID}", s.UpdatePlace)
			r.Delete("/places/{placeID}", s.DeletePlace)

			r.Get("/invites", s.ListInvites)
			r.Post("/invites", s.CreateInvite)
		})
	})

	return r
}

// controller resolves the session controller for the authenticated request.
func (s *Server) controller(ident middleware.Identity) TripController {
	return s.sessions.Controller(ident.UserID, ident.Email)
}

// managerProvider adapts *session.Manager to ControllerProvider.
// The indirection exists only because Manager returns its concrete
// *session.Controller type.
type managerProvider struct {
	m *session.Manager
}

// NewManagerProvider wraps a session manager for use as the handlers'
// controller source.
func NewManagerProvider(m *session.Manager) ControllerProvider {
	return managerProvider{m: m}
}

func (p managerProvider) Controller(uid uuid.UUID, email string) TripController {
	return p.m.Session(uid, email)
}
