// Package session implements the per-user application core: a Controller
// that combines authorization checks with mutations and keeps an optimistic
// in-memory view of the user's trips, plus a Manager that creates and tears
// down controllers as identities sign in and out.
//
// The Controller is the ONLY component that enforces authorization. Services
// and repos below it validate shape and run SQL; whether the caller is
// allowed to ask at all is decided here, synchronously, against the latest
// known trip snapshot — a denied action never reaches persistence.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/service"
)

// TripServicer defines the trip operations the controller depends on.
// Declared here, in the consumer package, so tests can inject a fake.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListForUser(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error)
	Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlaceServicer defines the place operations the controller depends on.
type PlaceServicer interface {
	Create(ctx context.Context, place domain.Place) (domain.Place, error)
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error)
	Update(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error)
	Delete(ctx context.Context, tripID, placeID uuid.UUID) error
}

// InviteServicer defines the invite operations the controller depends on.
type InviteServicer interface {
	Create(ctx context.Context, tripID uuid.UUID, email string, inviterUID uuid.UUID) (service.CreateResult, error)
	Accept(ctx context.Context, tripID, uid uuid.UUID, emailLower string) (domain.Trip, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error)
}

// Controller is the trip aggregate controller for one signed-in identity.
//
// After every acknowledged mutation it patches its cached state directly
// instead of re-reading from the store ("optimistic local patch"): the patch
// applied locally is exactly the record the store acknowledged, so the cache
// stays equivalent to a fresh read. On failure the cache is left untouched
// and the error surfaces to the caller.
//
// Methods are mutex-guarded: the HTTP layer may run concurrent requests for
// the same user, and the cache must see them one at a time. Two in-flight
// mutations on the same trip still land in whichever order the store applies
// them — last write wins at the field level, as there are no version tokens.
type Controller struct {
	uid   uuid.UUID
	email string // lowercased; used to resolve invite records on accept

	trips   TripServicer
	places  PlaceServicer
	invites InviteServicer

	mu         sync.Mutex
	loaded     bool
	tripList   []domain.Trip                // createdAt descending
	placeLists map[uuid.UUID][]domain.Place // canonical order; only trips that were listed
}

// NewController builds a controller for the given identity. Callers normally
// go through Manager.Session instead.
func NewController(uid uuid.UUID, email string, trips TripServicer, places PlaceServicer, invites InviteServicer) *Controller {
	return &Controller{
		uid:        uid,
		email:      email,
		trips:      trips,
		places:     places,
		invites:    invites,
		placeLists: make(map[uuid.UUID][]domain.Place),
	}
}

// UID returns the identity this controller serves.
func (c *Controller) UID() uuid.UUID { return c.uid }

// RoleFor computes this identity's role on the given trip. Pure passthrough
// to the authorization policy, exposed so callers never re-derive roles
// themselves.
func (c *Controller) RoleFor(trip domain.Trip) domain.Role {
	return domain.RoleFor(c.uid, trip)
}

// ListMyTrips returns every trip the identity owns or collaborates on,
// deduplicated, newest first. The first call loads from the store; later
// calls serve the optimistically maintained cache.
func (c *Controller) ListMyTrips(ctx context.Context) ([]domain.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		trips, err := c.trips.ListForUser(ctx, c.uid)
		if err != nil {
			return nil, fmt.Errorf("session.Controller.ListMyTrips: %w", err)
		}
		c.tripList = trips
		c.loaded = true
	}

	return cloneTrips(c.tripList), nil
}

// CreateTrip persists a new trip owned by this identity and prepends it to
// the cached list. Any signed-in identity may create trips; there is no
// permission gate on creation.
func (c *Controller) CreateTrip(ctx context.Context, title, description string, startDate, endDate *time.Time) (domain.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created, err := c.trips.Create(ctx, domain.Trip{
		OwnerUID:    c.uid,
		Title:       title,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("session.Controller.CreateTrip: %w", err)
	}

	if c.loaded {
		// Newest first: the just-created trip goes to the front.
		c.tripList = append([]domain.Trip{created}, c.tripList...)
	}

	return cloneTrip(created), nil
}

// GetTrip returns a trip the identity can see. For an identity with no role
// on the trip the result is domain.ErrNotFound — "exists but not yours" must
// be indistinguishable from "absent".
func (c *Controller) GetTrip(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trip, err := c.snapshot(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("session.Controller.GetTrip: %w", err)
	}
	return cloneTrip(trip), nil
}

// UpdateTrip overwrites the mutable fields of a trip. Owner only.
func (c *Controller) UpdateTrip(ctx context.Context, tripID uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionEditTrip); err != nil {
		return domain.Trip{}, fmt.Errorf("session.Controller.UpdateTrip: %w", err)
	}

	updated, err := c.trips.Update(ctx, tripID, upd)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("session.Controller.UpdateTrip: %w", err)
	}

	c.patchTrip(updated)
	return cloneTrip(updated), nil
}

// DeleteTrip removes a trip and drops it (and its cached places) from local
// state. Owner only.
func (c *Controller) DeleteTrip(ctx context.Context, tripID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionDeleteTrip); err != nil {
		return fmt.Errorf("session.Controller.DeleteTrip: %w", err)
	}

	if err := c.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("session.Controller.DeleteTrip: %w", err)
	}

	c.dropTrip(tripID)
	return nil
}

// ListPlaces returns the full ordered place list for a trip the identity can
// view. Cached after the first read and patched on every mutation.
func (c *Controller) ListPlaces(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionViewTrip); err != nil {
		return nil, fmt.Errorf("session.Controller.ListPlaces: %w", err)
	}

	if cached, ok := c.placeLists[tripID]; ok {
		return clonePlaces(cached), nil
	}

	places, err := c.places.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("session.Controller.ListPlaces: %w", err)
	}
	c.placeLists[tripID] = places

	return clonePlaces(places), nil
}

// CreatePlace adds an itinerary entry to a trip. Owner or collaborator.
// The cached place list is patched in and re-sorted into canonical order
// rather than re-fetched.
func (c *Controller) CreatePlace(ctx context.Context, tripID uuid.UUID, locationName, notes string, dayNumber int) (domain.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionManagePlaces); err != nil {
		return domain.Place{}, fmt.Errorf("session.Controller.CreatePlace: %w", err)
	}

	created, err := c.places.Create(ctx, domain.Place{
		TripID:       tripID,
		LocationName: locationName,
		Notes:        notes,
		DayNumber:    dayNumber,
	})
	if err != nil {
		return domain.Place{}, fmt.Errorf("session.Controller.CreatePlace: %w", err)
	}

	if cached, ok := c.placeLists[tripID]; ok {
		cached = append(cached, created)
		domain.SortPlaces(cached)
		c.placeLists[tripID] = cached
	}

	return created, nil
}

// UpdatePlace edits an itinerary entry. Owner or collaborator.
func (c *Controller) UpdatePlace(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionManagePlaces); err != nil {
		return domain.Place{}, fmt.Errorf("session.Controller.UpdatePlace: %w", err)
	}

	updated, err := c.places.Update(ctx, tripID, placeID, upd)
	if err != nil {
		return domain.Place{}, fmt.Errorf("session.Controller.UpdatePlace: %w", err)
	}

	if cached, ok := c.placeLists[tripID]; ok {
		for i := range cached {
			if cached[i].ID == placeID {
				cached[i] = updated
				break
			}
		}
		// Day number may have changed, so the canonical order must be re-derived.
		domain.SortPlaces(cached)
		c.placeLists[tripID] = cached
	}

	return updated, nil
}

// DeletePlace removes an itinerary entry. Owner or collaborator.
func (c *Controller) DeletePlace(ctx context.Context, tripID, placeID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionManagePlaces); err != nil {
		return fmt.Errorf("session.Controller.DeletePlace: %w", err)
	}

	if err := c.places.Delete(ctx, tripID, placeID); err != nil {
		return fmt.Errorf("session.Controller.DeletePlace: %w", err)
	}

	if cached, ok := c.placeLists[tripID]; ok {
		out := cached[:0]
		for _, p := range cached {
			if p.ID != placeID {
				out = append(out, p)
			}
		}
		c.placeLists[tripID] = out
	}

	return nil
}

// CreateInvite issues (or reuses) an invite for email to join the trip.
// Owner only.
func (c *Controller) CreateInvite(ctx context.Context, tripID uuid.UUID, email string) (service.CreateResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionManageCollaborators); err != nil {
		return service.CreateResult{}, fmt.Errorf("session.Controller.CreateInvite: %w", err)
	}

	result, err := c.invites.Create(ctx, tripID, email, c.uid)
	if err != nil {
		return service.CreateResult{}, fmt.Errorf("session.Controller.CreateInvite: %w", err)
	}
	return result, nil
}

// ListInvites returns the invites issued for a trip. Owner only.
func (c *Controller) ListInvites(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(ctx, tripID, domain.ActionManageCollaborators); err != nil {
		return nil, fmt.Errorf("session.Controller.ListInvites: %w", err)
	}

	invites, err := c.invites.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("session.Controller.ListInvites: %w", err)
	}
	return invites, nil
}

// AcceptInvite joins this identity to the trip as a collaborator and folds
// the updated trip into the cached list. There is deliberately no permission
// gate: reaching this operation signed in, with a valid trip ID, is the
// grant. Accepting twice is a no-op thanks to the union-add below.
func (c *Controller) AcceptInvite(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trip, err := c.invites.Accept(ctx, tripID, c.uid, c.email)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("session.Controller.AcceptInvite: %w", err)
	}

	c.patchTrip(trip)
	return cloneTrip(trip), nil
}

// --- internals --------------------------------------------------------------

// snapshot returns the latest known state of a trip: the cached copy when we
// have one, otherwise a fresh read (which is then cached). A trip the
// identity has no role on is reported as not found, never as forbidden.
func (c *Controller) snapshot(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	for _, t := range c.tripList {
		if t.ID == tripID {
			return t, nil
		}
	}

	trip, err := c.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if domain.RoleFor(c.uid, trip) == domain.RoleNone {
		return domain.Trip{}, fmt.Errorf("%w: trip %s", domain.ErrNotFound, tripID)
	}

	c.patchTrip(trip)
	return trip, nil
}

// guard rejects the action unless the identity's role on the trip permits
// it. This is the local, synchronous authorization check of every mutating
// operation — when it fails, no persistence call is made.
func (c *Controller) guard(ctx context.Context, tripID uuid.UUID, action domain.Action) error {
	trip, err := c.snapshot(ctx, tripID)
	if err != nil {
		return err
	}
	if !domain.Permits(domain.RoleFor(c.uid, trip), action) {
		return fmt.Errorf("%w: %s", domain.ErrForbidden, action)
	}
	return nil
}

// patchTrip folds an updated trip record into the cached list, inserting it
// if absent and keeping the createdAt-descending order.
func (c *Controller) patchTrip(trip domain.Trip) {
	for i := range c.tripList {
		if c.tripList[i].ID == trip.ID {
			c.tripList[i] = trip
			return
		}
	}
	c.tripList = append(c.tripList, trip)
	sort.SliceStable(c.tripList, func(i, j int) bool {
		return c.tripList[i].CreatedAt.After(c.tripList[j].CreatedAt)
	})
}

// dropTrip removes a trip and its cached places from local state.
func (c *Controller) dropTrip(tripID uuid.UUID) {
	out := c.tripList[:0]
	for _, t := range c.tripList {
		if t.ID != tripID {
			out = append(out, t)
		}
	}
	c.tripList = out
	delete(c.placeLists, tripID)
}

// cloneTrip returns a copy whose collaborator slice does not alias the cache.
func cloneTrip(t domain.Trip) domain.Trip {
	t.Collaborators = append([]uuid.UUID(nil), t.Collaborators...)
	return t
}

func cloneTrips(trips []domain.Trip) []domain.Trip {
	out := make([]domain.Trip, len(trips))
	for i, t := range trips {
		out[i] = cloneTrip(t)
	}
	return out
}

func clonePlaces(places []domain.Place) []domain.Place {
	return append([]domain.Place(nil), places...)
}
