package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. Its UUID is the identity referenced by
// trip ownership, collaborator sets, and invites.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"` // stored lowercased
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PasswordHash is the encoded Argon2id hash. Never serialized.
	PasswordHash string `json:"-"`
}
