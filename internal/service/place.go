package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/repo"
)

// PlaceService implements business logic for Place operations.
// It holds both the trip and place repos because creating a place requires
// verifying the parent trip exists.
type PlaceService struct {
	trips  repo.TripRepo
	places repo.PlaceRepo
}

// NewPlaceService constructs a PlaceService backed by the provided repos.
func NewPlaceService(trips repo.TripRepo, places repo.PlaceRepo) *PlaceService {
	return &PlaceService{trips: trips, places: places}
}

// Create validates the place, verifies the parent trip exists, then persists.
// Returns domain.ErrValidation if input violates business rules.
// Returns domain.ErrNotFound if the parent trip does not exist.
func (s *PlaceService) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	if err := validatePlace(place.LocationName, place.DayNumber); err != nil {
		return domain.Place{}, err
	}
	if _, err := s.trips.GetByID(ctx, place.TripID); err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	place.LocationName = strings.TrimSpace(place.LocationName)

	result, err := s.places.Create(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single place by ID, scoped to the given tripID.
func (s *PlaceService) GetByID(ctx context.Context, tripID, placeID uuid.UUID) (domain.Place, error) {
	result, err := s.places.GetByID(ctx, tripID, placeID)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTripID returns all places for a trip in the canonical order
// (day number ascending, then creation time ascending). Always returns a
// non-nil slice so callers can safely range over it.
func (s *PlaceService) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error) {
	places, err := s.places.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.ListByTripID: %w", err)
	}
	if places == nil {
		return []domain.Place{}, nil
	}
	return places, nil
}

// Update validates and persists changes to an existing place.
func (s *PlaceService) Update(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error) {
	if err := validatePlace(upd.LocationName, upd.DayNumber); err != nil {
		return domain.Place{}, err
	}
	upd.LocationName = strings.TrimSpace(upd.LocationName)

	result, err := s.places.Update(ctx, tripID, placeID, upd)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a place by ID, scoped to the given tripID.
func (s *PlaceService) Delete(ctx context.Context, tripID, placeID uuid.UUID) error {
	if err := s.places.Delete(ctx, tripID, placeID); err != nil {
		return fmt.Errorf("service.PlaceService.Delete: %w", err)
	}
	return nil
}

// validatePlace enforces business rules common to both Create and Update.
//   - LocationName must be non-empty (whitespace-only names are rejected).
//   - DayNumber is 1-based; zero and negatives are rejected.
func validatePlace(locationName string, dayNumber int) error {
	if strings.TrimSpace(locationName) == "" {
		return fmt.Errorf("%w: location_name is required", domain.ErrValidation)
	}
	if dayNumber < 1 {
		return fmt.Errorf("%w: day_number must be at least 1", domain.ErrValidation)
	}
	return nil
}
