package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/service"
)

// AuthEvents is the slice of the auth service the manager needs: the
// subscribe-to-change operation with an unsubscribe handle.
type AuthEvents interface {
	Subscribe(fn func(service.SessionEvent)) (unsubscribe func())
}

// Manager owns one Controller per signed-in identity. Controllers are
// created on sign-in (or lazily, when a valid token arrives for an identity
// the manager has not seen — e.g. after a server restart) and torn down on
// sign-out, discarding their cached state.
type Manager struct {
	trips   TripServicer
	places  PlaceServicer
	invites InviteServicer

	mu       sync.Mutex
	sessions map[uuid.UUID]*Controller
}

// NewManager constructs a Manager that builds controllers over the given
// services.
func NewManager(trips TripServicer, places PlaceServicer, invites InviteServicer) *Manager {
	return &Manager{
		trips:    trips,
		places:   places,
		invites:  invites,
		sessions: make(map[uuid.UUID]*Controller),
	}
}

// Bind subscribes the manager to identity-change events so sessions are
// created and destroyed deterministically with sign-in and sign-out.
// The returned handle detaches the manager again.
func (m *Manager) Bind(auth AuthEvents) (unsubscribe func()) {
	return auth.Subscribe(func(evt service.SessionEvent) {
		switch evt.Type {
		case service.SessionSignedIn:
			m.Session(evt.UserID, evt.Email)
		case service.SessionSignedOut:
			m.End(evt.UserID)
		}
	})
}

// Session returns the controller for uid, creating one if none exists.
func (m *Manager) Session(uid uuid.UUID, email string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.sessions[uid]; ok {
		return c
	}
	c := NewController(uid, email, m.trips, m.places, m.invites)
	m.sessions[uid] = c
	return c
}

// End tears down the session for uid, dropping its cached state.
// Ending an absent session is a no-op.
func (m *Manager) End(uid uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, uid)
}

// Active reports whether a session currently exists for uid.
func (m *Manager) Active(uid uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[uid]
	return ok
}
