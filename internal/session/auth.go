// Package session holds the authenticated user of each portal session.
//
// An Auth is restored from the session repository on first use, written
// through on Login and cleared on Logout. It performs no token refresh or
// expiry handling of its own: a stale backend token surfaces as a backend 401.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/repository"
)

// Authenticator is the part of the backend client that issues and revokes tokens.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	Logout(ctx context.Context) error
}

// Auth is the auth context of one portal session.
type Auth struct {
	id      string
	repo    repository.SessionRepository
	backend Authenticator
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	restored bool
	session  *domain.Session
}

// ID returns the session id.
func (a *Auth) ID() string {
	return a.id
}

// User returns the current user, or nil when nobody is logged in.
func (a *Auth) User(ctx context.Context) (*domain.LoginResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.restoreLocked(ctx); err != nil {
		return nil, err
	}
	if a.session == nil {
		return nil, nil
	}
	if a.session.Expired(a.now()) {
		a.session = nil
		return nil, nil
	}
	user := a.session.User
	return &user, nil
}

// Token returns the backend token of the current user, or "".
func (a *Auth) Token(ctx context.Context) (string, error) {
	user, err := a.User(ctx)
	if err != nil || user == nil {
		return "", err
	}
	return user.AccessToken, nil
}

// Login authenticates against the backend and persists the result.
// On failure the previous state is kept.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	result, err := a.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	now := a.now()
	s := &domain.Session{
		ID:        a.id,
		User:      *result,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
	}
	if err := a.repo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	a.mu.Lock()
	a.session = s
	a.restored = true
	a.mu.Unlock()

	user := s.User
	return &user, nil
}

// Logout clears the user in memory and in storage, then asks the backend to
// invalidate the token. Backend failures are logged and ignored.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	var token string
	if a.session != nil {
		token = a.session.User.AccessToken
	}
	a.session = nil
	a.restored = true
	a.mu.Unlock()

	if err := a.repo.Delete(ctx, a.id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if token != "" {
		if err := a.backend.Logout(backend.WithToken(ctx, token)); err != nil {
			a.logger.Warn("Backend logout failed", "session", a.id, "error", err)
		}
	}
	return nil
}

func (a *Auth) restoreLocked(ctx context.Context) error {
	if a.restored {
		return nil
	}

	s, err := a.repo.Get(ctx, a.id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		a.session = nil
	case err != nil:
		return fmt.Errorf("failed to restore session: %w", err)
	default:
		a.session = s
	}
	a.restored = true
	return nil
}
