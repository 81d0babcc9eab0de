// Package domain contains the core data types for the TripMate application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, session, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is the top-level aggregate: a journey owned by exactly one user and
// optionally shared with collaborators. Places belong to a trip.
//
// OwnerUID is immutable after creation. Collaborators is a set (order
// irrelevant, no duplicates) of user IDs granted shared place-management
// rights via the invite flow. The owner is never listed in Collaborators —
// the owner role is derived from OwnerUID, not duplicated into the set.
type Trip struct {
	ID            uuid.UUID   `json:"id"`
	OwnerUID      uuid.UUID   `json:"owner_uid"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	StartDate     *time.Time  `json:"start_date,omitempty"` // nil when the trip has no dates yet
	EndDate       *time.Time  `json:"end_date,omitempty"`
	Collaborators []uuid.UUID `json:"collaborators"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HasCollaborator reports whether uid is a member of the collaborator set.
func (t Trip) HasCollaborator(uid uuid.UUID) bool {
	for _, c := range t.Collaborators {
		if c == uid {
			return true
		}
	}
	return false
}

// TripUpdate carries the mutable fields of a trip for an update operation.
// It deliberately excludes OwnerUID and Collaborators: ownership never
// changes, and the collaborator set is mutated only through the invite
// acceptance flow (a union-add, never a field overwrite).
type TripUpdate struct {
	Title       string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
}
