// Package service contains the business logic for the TripMate API.
// Services validate inputs at the shape level, enforce business rules, and
// orchestrate repo calls. They do NOT enforce authorization — that is the
// session controller's job, and it must happen before any service call.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip. The caller supplies OwnerUID;
// the collaborator set always starts empty regardless of what is passed in.
// Returns domain.ErrValidation before any repo call if input violates rules.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip.Title, trip.StartDate, trip.EndDate); err != nil {
		return domain.Trip{}, err
	}
	trip.Title = strings.TrimSpace(trip.Title)
	trip.Description = strings.TrimSpace(trip.Description)
	trip.Collaborators = nil

	result, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// ListForUser returns the union, deduplicated by ID, of trips the user owns
// and trips the user collaborates on. Always returns a non-nil slice so
// callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.repo.ListForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Update validates and persists changes to the mutable fields of a trip.
func (s *TripService) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	if err := validateTrip(upd.Title, upd.StartDate, upd.EndDate); err != nil {
		return domain.Trip{}, err
	}
	upd.Title = strings.TrimSpace(upd.Title)
	upd.Description = strings.TrimSpace(upd.Description)

	result, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by ID. Its places go with it (schema-level cascade).
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - When both dates are present, the start must not be after the end.
//     Either date alone, or neither, is fine — many trips start undated.
func validateTrip(title string, start, end *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf("%w: start_date must not be after end_date", domain.ErrValidation)
	}
	return nil
}
