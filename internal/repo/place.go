package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oklymenko/tripmate/internal/domain"
)

const placeColumns = `id, trip_id, location_name, notes, day_number, created_at, updated_at`

// PlaceRepo defines the persistence operations for Places.
// All single-record operations are scoped by tripID so a place can never be
// read or mutated through a trip it does not belong to.
type PlaceRepo interface {
	// Create inserts a new place and returns the persisted record.
	Create(ctx context.Context, place domain.Place) (domain.Place, error)

	// GetByID retrieves a single place by its UUID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no place with that ID exists under that trip.
	GetByID(ctx context.Context, tripID, placeID uuid.UUID) (domain.Place, error)

	// ListByTripID returns the full (never paginated) sequence of places for
	// a trip in the canonical order: day_number ascending, created_at ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error)

	// Update overwrites the mutable fields of a place, scoped to the given tripID.
	// Returns domain.ErrNotFound if no place with that ID exists under that trip.
	Update(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error)

	// Delete removes a place by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no place with that ID exists under that trip.
	Delete(ctx context.Context, tripID, placeID uuid.UUID) error
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

func (r *pgPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		INSERT INTO places (trip_id, location_name, notes, day_number)
		VALUES (@trip_id, @location_name, @notes, @day_number)
		RETURNING ` + placeColumns

	args := pgx.NamedArgs{
		"trip_id":       place.TripID,
		"location_name": place.LocationName,
		"notes":         place.Notes,
		"day_number":    place.DayNumber,
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) GetByID(ctx context.Context, tripID, placeID uuid.UUID) (domain.Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places WHERE id = @id AND trip_id = @trip_id`

	args := pgx.NamedArgs{"id": placeID, "trip_id": tripID}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Place, error) {
	const q = `
		SELECT ` + placeColumns + `
		FROM places
		WHERE trip_id = @trip_id
		ORDER BY day_number ASC, created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlaceRepo.ListByTripID: scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByTripID: rows: %w", err)
	}

	return places, nil
}

func (r *pgPlaceRepo) Update(ctx context.Context, tripID, placeID uuid.UUID, upd domain.PlaceUpdate) (domain.Place, error) {
	const q = `
		UPDATE places
		SET location_name = @location_name,
		    notes         = @notes,
		    day_number    = @day_number,
		    updated_at    = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + placeColumns

	args := pgx.NamedArgs{
		"id":            placeID,
		"trip_id":       tripID,
		"location_name": upd.LocationName,
		"notes":         upd.Notes,
		"day_number":    upd.DayNumber,
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPlaceRepo) Delete(ctx context.Context, tripID, placeID uuid.UUID) error {
	const q = `DELETE FROM places WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": placeID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.PlaceRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlaceRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPlace maps a single database row into a domain.Place.
func scanPlace(s scanner) (domain.Place, error) {
	var (
		p      domain.Place
		id     pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &p.LocationName, &p.Notes, &p.DayNumber, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Place{}, domain.ErrNotFound
		}
		return domain.Place{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)

	return p, nil
}
