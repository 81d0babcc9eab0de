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

const inviteColumns = `id, trip_id, email_lower, inviter_uid, status, created_at, accepted_by_uid, accepted_at`

// InviteRepo defines the persistence operations for trip invites.
// There is no Delete: invite history is retained forever.
type InviteRepo interface {
	// GetByID retrieves an invite by its composite key (see domain.InviteID).
	// Returns domain.ErrNotFound if no such invite exists.
	GetByID(ctx context.Context, id string) (domain.Invite, error)

	// Upsert writes a fresh pending invite under its composite key,
	// overwriting any previous record for the same (trip, email) pair.
	// Deciding whether an existing pending invite should be reused instead
	// is the service's job — the repo just writes.
	Upsert(ctx context.Context, invite domain.Invite) (domain.Invite, error)

	// ListByTripID returns all invites for a trip, newest first.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error)

	// MarkAccepted transitions a pending invite to accepted, recording who
	// accepted it and when. Returns domain.ErrNotFound if the invite does not
	// exist or is no longer pending — transitions out of a terminal state are
	// refused at the SQL level.
	MarkAccepted(ctx context.Context, id string, uid uuid.UUID) (domain.Invite, error)
}

// pgInviteRepo is the Postgres implementation of InviteRepo.
type pgInviteRepo struct {
	db db
}

// NewInviteRepo constructs an InviteRepo backed by the provided db connection.
func NewInviteRepo(db db) InviteRepo {
	return &pgInviteRepo{db: db}
}

func (r *pgInviteRepo) GetByID(ctx context.Context, id string) (domain.Invite, error) {
	const q = `SELECT ` + inviteColumns + ` FROM trip_invites WHERE id = @id`

	result, err := scanInvite(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Invite{}, fmt.Errorf("repo.InviteRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgInviteRepo) Upsert(ctx context.Context, invite domain.Invite) (domain.Invite, error) {
	const q = `
		INSERT INTO trip_invites (id, trip_id, email_lower, inviter_uid, status)
		VALUES (@id, @trip_id, @email_lower, @inviter_uid, 'pending')
		ON CONFLICT (id) DO UPDATE
		SET inviter_uid     = excluded.inviter_uid,
		    status          = 'pending',
		    created_at      = now(),
		    accepted_by_uid = NULL,
		    accepted_at     = NULL
		RETURNING ` + inviteColumns

	args := pgx.NamedArgs{
		"id":          invite.ID,
		"trip_id":     invite.TripID,
		"email_lower": invite.EmailLower,
		"inviter_uid": invite.InviterUID,
	}

	result, err := scanInvite(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Invite{}, fmt.Errorf("repo.InviteRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgInviteRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Invite, error) {
	const q = `
		SELECT ` + inviteColumns + `
		FROM trip_invites
		WHERE trip_id = @trip_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.InviteRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.InviteRepo.ListByTripID: scan: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.InviteRepo.ListByTripID: rows: %w", err)
	}

	return invites, nil
}

func (r *pgInviteRepo) MarkAccepted(ctx context.Context, id string, uid uuid.UUID) (domain.Invite, error) {
	const q = `
		UPDATE trip_invites
		SET status          = 'accepted',
		    accepted_by_uid = @uid,
		    accepted_at     = now()
		WHERE id = @id AND status = 'pending'
		RETURNING ` + inviteColumns

	result, err := scanInvite(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "uid": uid}))
	if err != nil {
		return domain.Invite{}, fmt.Errorf("repo.InviteRepo.MarkAccepted: %w", err)
	}
	return result, nil
}

// scanInvite maps a single database row into a domain.Invite.
func scanInvite(s scanner) (domain.Invite, error) {
	var (
		inv        domain.Invite
		tripID     pgtype.UUID
		inviter    pgtype.UUID
		acceptedBy pgtype.UUID
		acceptedAt pgtype.Timestamptz
		status     string
	)

	err := s.Scan(&inv.ID, &tripID, &inv.EmailLower, &inviter, &status, &inv.CreatedAt, &acceptedBy, &acceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invite{}, domain.ErrNotFound
		}
		return domain.Invite{}, err
	}

	inv.TripID = uuid.UUID(tripID.Bytes)
	inv.InviterUID = uuid.UUID(inviter.Bytes)
	inv.Status = domain.InviteStatus(status)
	if acceptedBy.Valid {
		by := uuid.UUID(acceptedBy.Bytes)
		inv.AcceptedByUID = &by
	}
	if acceptedAt.Valid {
		at := acceptedAt.Time
		inv.AcceptedAt = &at
	}

	return inv, nil
}
