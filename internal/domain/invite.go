package domain

import (
	"time"

	"github.com/google/uuid"
)

// InviteStatus is the lifecycle state of an invite.
// pending is the only non-terminal state; accepted, revoked, and expired are
// terminal. No in-scope flow triggers revoked or expired — they exist for
// forward compatibility and history.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusRevoked  InviteStatus = "revoked"
	InviteStatusExpired  InviteStatus = "expired"
)

// Terminal reports whether the status admits no further transitions.
func (s InviteStatus) Terminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusRevoked || s == InviteStatusExpired
}

// Invite proposes that a given email be granted collaborator status on a
// given trip. Its identifier is the deterministic composite key
// "<tripID>_<lowercased email>", which guarantees at most one live invite per
// (trip, email) pair without a separate uniqueness index.
//
// The invite record is informational and audit-only: the authoritative answer
// to "is this user a collaborator" lives on the trip's collaborator set, not
// here. Invites are never physically deleted — history is retained.
type Invite struct {
	ID            string       `json:"id"`
	TripID        uuid.UUID    `json:"trip_id"`
	EmailLower    string       `json:"email_lower"`
	InviterUID    uuid.UUID    `json:"inviter_uid"`
	Status        InviteStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	AcceptedByUID *uuid.UUID   `json:"accepted_by_uid,omitempty"`
	AcceptedAt    *time.Time   `json:"accepted_at,omitempty"`
}

// InviteID builds the composite invite key for a trip and an already
// lowercased email. Callers are responsible for normalizing the email first
// (see service.NormalizeEmail).
func InviteID(tripID uuid.UUID, emailLower string) string {
	return tripID.String() + "_" + emailLower
}
