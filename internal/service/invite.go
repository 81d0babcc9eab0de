package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/repo"
)

// InviteService drives the invite lifecycle: creating pending invites,
// building acceptance links, and resolving acceptance into a collaborator
// grant on the parent trip.
//
// The collaborator set on the trip — not the invite record — is the
// authoritative statement of access. Accepting mutates the trip via an
// idempotent union-add; the invite's own status transition is best-effort
// audit that never gates the grant.
type InviteService struct {
	invites repo.InviteRepo
	trips   repo.TripRepo
	baseURL string // e.g. "https://tripmate.example.com", no trailing slash
}

// NewInviteService constructs an InviteService. baseURL is the public origin
// used to build acceptance links.
func NewInviteService(invites repo.InviteRepo, trips repo.TripRepo, baseURL string) *InviteService {
	return &InviteService{
		invites: invites,
		trips:   trips,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CreateResult is what createInvite hands back to the caller: the invite
// record, the link to put in front of the invitee, and whether an existing
// pending invite was reused instead of a new one being written.
type CreateResult struct {
	Invite domain.Invite `json:"invite"`
	Link   string        `json:"link"`
	Reused bool          `json:"reused"`
}

// Create issues (or reuses) an invite for email to join tripID.
//
// If a pending invite already exists for the same (trip, lowercased email)
// pair, it is returned unchanged with Reused=true — calling Create twice in a
// row yields the same invite ID and link. A previous invite in a terminal
// state is overwritten with a fresh pending one.
//
// Authorization (only the owner may invite) is checked by the session
// controller before this is called.
func (s *InviteService) Create(ctx context.Context, tripID uuid.UUID, email string, inviterUID uuid.UUID) (CreateResult, error) {
	emailLower, err := NormalizeEmail(email)
	if err != nil {
		return CreateResult{}, err
	}

	id := domain.InviteID(tripID, emailLower)

	existing, err := s.invites.GetByID(ctx, id)
	switch {
	case err == nil && existing.Status == domain.InviteStatusPending:
		return CreateResult{Invite: existing, Link: s.link(tripID, emailLower), Reused: true}, nil
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return CreateResult{}, fmt.Errorf("service.InviteService.Create: %w", err)
	}

	created, err := s.invites.Upsert(ctx, domain.Invite{
		ID:         id,
		TripID:     tripID,
		EmailLower: emailLower,
		InviterUID: inviterUID,
		Status:     domain.InviteStatusPending,
	})
	if err != nil {
		return CreateResult{}, fmt.Errorf("service.InviteService.Create: %w", err)
	}

	return CreateResult{Invite: created, Link: s.link(tripID, emailLower), Reused: false}, nil
}

// Accept grants uid collaborator access to tripID and returns the updated
// trip. The grant is a commutative, idempotent union-add on the trip's
// collaborator set, so accepting twice (or two users accepting concurrently)
// is safe; a second accept by the same user leaves the set unchanged.
//
// When an invite record keyed by (tripID, emailLower) exists and is still
// pending it is transitioned to accepted for the audit trail. The grant does
// not require such a record: any signed-in user who reaches this operation
// with a valid trip ID becomes a collaborator.
//
// Returns domain.ErrNotFound if the trip does not exist.
func (s *InviteService) Accept(ctx context.Context, tripID, uid uuid.UUID, emailLower string) (domain.Trip, error) {
	trip, err := s.trips.AddCollaborator(ctx, tripID, uid)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.InviteService.Accept: %w", err)
	}

	if emailLower != "" {
		// Best effort: a missing or already-resolved invite is not an error.
		if _, err := s.invites.MarkAccepted(ctx, domain.InviteID(tripID, emailLower), uid); err != nil &&
			!errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, fmt.Errorf("service.InviteService.Accept: mark accepted: %w", err)
		}
	}

	return trip, nil
}

// ListByTrip returns all invites issued for a trip, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *InviteService) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error) {
	invites, err := s.invites.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.InviteService.ListByTrip: %w", err)
	}
	if invites == nil {
		return []domain.Invite{}, nil
	}
	return invites, nil
}

// link builds the opaque acceptance URL: trip ID and invitee email travel as
// query parameters, so the accept flow is resolvable from the URL alone plus
// a signed-in identity.
func (s *InviteService) link(tripID uuid.UUID, emailLower string) string {
	return s.baseURL + "/invites/accept?trip=" + url.QueryEscape(tripID.String()) +
		"&email=" + url.QueryEscape(emailLower)
}

// NormalizeEmail trims and lowercases an email address, rejecting anything
// that cannot plausibly be one. This is deliberately shallow — full RFC 5322
// validation buys nothing here; the invite link lands in the inbox or not.
func NormalizeEmail(email string) (string, error) {
	emailLower := strings.ToLower(strings.TrimSpace(email))
	if emailLower == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	at := strings.Index(emailLower, "@")
	if at < 1 || at == len(emailLower)-1 {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	return emailLower, nil
}
