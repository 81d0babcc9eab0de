// Package repo contains all database access logic for the TripMate API.
// Each record kind has its own file with an interface and a Postgres
// implementation. No business rules live here — only SQL and type mapping.
// Authorization in particular is the caller's job: a repo will happily fetch
// or mutate any row it is asked to.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oklymenko/tripmate/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx,
// and pgxmock. Accepting this interface instead of *pgxpool.Pool directly
// lets unit tests run against a mock and integration tests pass a transaction
// that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// tripColumns is the SELECT list shared by every trip query so scanTrip can
// be reused across all of them.
const tripColumns = `id, owner_uid, title, description, start_date, end_date, collaborators, created_at, updated_at`

// TripRepo defines the persistence operations for Trips.
// The service and session layers depend on this interface, not the concrete
// Postgres implementation, so they can be unit-tested with a fake.
type TripRepo interface {
	// Create inserts a new trip with an empty collaborator set and returns
	// the persisted record (with DB-generated id and timestamps populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListForUser returns every trip the user owns or collaborates on,
	// deduplicated by ID, ordered by created_at descending. A trip where the
	// user is (erroneously) both owner and collaborator appears once.
	ListForUser(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error)

	// Delete removes a trip by ID. Places cascade at the schema level.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddCollaborator union-adds uid into the trip's collaborator set and
	// returns the updated trip. The operation is commutative and idempotent:
	// adding an existing collaborator (or the owner) changes nothing, so
	// concurrent accepts are safe without locking.
	// Returns domain.ErrNotFound if the trip does not exist.
	AddCollaborator(ctx context.Context, tripID, uid uuid.UUID) (domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgxmock pool or a pgx.Tx.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner_uid, title, description, start_date, end_date)
		VALUES (@owner_uid, @title, @description, @start_date, @end_date)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"owner_uid":   trip.OwnerUID,
		"title":       trip.Title,
		"description": trip.Description,
		"start_date":  trip.StartDate, // nil becomes NULL
		"end_date":    trip.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListForUser runs a single OR query rather than two queries merged in Go:
// the row set is the union the caller wants, already deduplicated because
// each trip is one row regardless of how many conditions match it.
func (r *pgTripRepo) ListForUser(ctx context.Context, uid uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_uid = @uid OR @uid = ANY(collaborators)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, id uuid.UUID, upd domain.TripUpdate) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title       = @title,
		    description = @description,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          id,
		"title":       upd.Title,
		"description": upd.Description,
		"start_date":  upd.StartDate,
		"end_date":    upd.EndDate,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// AddCollaborator is the field-level union-add. The CASE keeps the statement
// a no-op (but still RETURNING the row) when uid is already a collaborator or
// is the owner, which preserves two invariants in one place: the set never
// holds duplicates, and the owner is never a member of it.
func (r *pgTripRepo) AddCollaborator(ctx context.Context, tripID, uid uuid.UUID) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET collaborators = CASE
		        WHEN owner_uid = @uid OR @uid = ANY(collaborators) THEN collaborators
		        ELSE array_append(collaborators, @uid)
		    END,
		    updated_at = now()
		WHERE id = @trip_id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{"trip_id": tripID, "uid": uid}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.AddCollaborator: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, nullable date, and uuid[] conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		owner     pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
		collabs   []pgtype.UUID
	)

	err := s.Scan(&id, &owner, &t.Title, &t.Description, &startDate, &endDate, &collabs, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerUID = uuid.UUID(owner.Bytes)
	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}
	t.Collaborators = make([]uuid.UUID, 0, len(collabs))
	for _, c := range collabs {
		t.Collaborators = append(t.Collaborators, uuid.UUID(c.Bytes))
	}

	return t, nil
}
