// Package session issues and validates opaque bearer session tokens.
// Validation is the single source of truth for liveness: an expired row
// is removed the first time it is seen, so callers never need a
// separate sweep.
package session

import (
	"context"
	"errors"
	"time"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/prometheus"
)

// Store persists session rows. Token lookup must be an exact match
// against the unique index.
type Store interface {
	Create(ctx context.Context, s *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// ErrNoSession is returned by stores when a token has no row.
var ErrNoSession = errors.New("session not found")

// Manager issues, validates and revokes sessions.
type Manager struct {
	store    Store
	lifetime time.Duration
	now      func() time.Time
}

// NewManager creates a Manager with the given lifetime.
func NewManager(store Store, lifetime time.Duration) *Manager {
	return &Manager{store: store, lifetime: lifetime, now: time.Now}
}

// Create issues a fresh session for the user and returns its token and
// expiry. The caller only observes a successful login after the row is
// committed.
func (m *Manager) Create(ctx context.Context, userID string) (token string, expiresAt time.Time, err error) {
	s := &model.Session{
		UserID:    userID,
		ExpiresAt: m.now().Add(m.lifetime),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return "", time.Time{}, err
	}
	prometheus.ActiveSessionsGauge.Inc()
	return s.Token, s.ExpiresAt, nil
}

// Validate returns the session's user for a live token. A token that
// was never issued and a token whose session expired are
// indistinguishable to the caller; the expired row is deleted before
// returning.
func (m *Manager) Validate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthenticated
	}
	s, err := m.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	if s.Expired(m.now()) {
		// Lazy cleanup is a required side effect, not an optimization.
		if err := m.store.DeleteByToken(ctx, token); err != nil {
			return nil, err
		}
		prometheus.SessionPurgeCounter.Inc()
		prometheus.ActiveSessionsGauge.Dec()
		return nil, apperr.ErrUnauthenticated
	}
	return &s.User, nil
}

// Destroy revokes a session. It is idempotent: destroying a token that
// does not exist succeeds.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.DeleteByToken(ctx, token); err != nil {
		return err
	}
	prometheus.ActiveSessionsGauge.Dec()
	return nil
}
