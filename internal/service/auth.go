package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/oklymenko/tripmate/internal/crypto"
	"github.com/oklymenko/tripmate/internal/domain"
	"github.com/oklymenko/tripmate/internal/repo"
)

// minPasswordLen mirrors the weakest rule most identity providers apply.
const minPasswordLen = 6

// SessionEventType distinguishes the two identity-change notifications.
type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent is delivered to subscribers whenever an identity signs in or
// out. Subscribers use it to create or tear down per-user session state.
type SessionEvent struct {
	Type   SessionEventType
	UserID uuid.UUID
	Email  string
}

// AuthService implements account registration and the identity-provider
// surface: sign-in, sign-out, and a subscribe-to-change observer.
//
// Tokens are stateless, so "current identity" is whatever a valid bearer
// token says; SignOut does not revoke tokens, it only notifies subscribers
// so session state can be discarded.
type AuthService struct {
	users  repo.UserRepo
	tokens *TokenService

	mu        sync.Mutex
	nextSubID int
	subs      map[int]func(SessionEvent)
}

// NewAuthService constructs an AuthService backed by the provided user repo
// and token service.
func NewAuthService(users repo.UserRepo, tokens *TokenService) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		subs:   make(map[int]func(SessionEvent)),
	}
}

// Register creates a new account and signs it in, returning the user and a
// bearer token. Emails are stored lowercased so sign-in and invite matching
// are case-insensitive.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, string, error) {
	emailLower, err := NormalizeEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}
	if len(password) < minPasswordLen {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        emailLower,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Register: %w", err)
	}

	s.notify(SessionEvent{Type: SessionSignedIn, UserID: user.ID, Email: user.Email})
	return user, token, nil
}

// SignIn authenticates email+password and returns the user and a bearer token.
// Wrong email and wrong password both come back as domain.ErrUnauthorized —
// the caller must not be able to probe which one it was.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (domain.User, string, error) {
	emailLower, err := NormalizeEmail(email)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.users.GetByEmail(ctx, emailLower)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.SignIn: %w", err)
	}

	s.notify(SessionEvent{Type: SessionSignedIn, UserID: user.ID, Email: user.Email})
	return user, token, nil
}

// SignOut notifies subscribers that the identity is gone so they can tear
// down any per-user state.
func (s *AuthService) SignOut(uid uuid.UUID) {
	s.notify(SessionEvent{Type: SessionSignedOut, UserID: uid})
}

// Subscribe registers a listener for sign-in/sign-out events and returns an
// unsubscribe handle. Calling the handle more than once is harmless.
func (s *AuthService) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// notify delivers evt to every subscriber synchronously. Listeners are
// expected to be fast; anything slow belongs on the listener's side.
func (s *AuthService) notify(evt SessionEvent) {
	s.mu.Lock()
	listeners := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(evt)
	}
}
