package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickops/internal/apperr"
	"tickops/internal/model"
)

type fakeStore struct {
	byToken map[string]*model.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{byToken: make(map[string]*model.Session)}
}

func (f *fakeStore) Create(_ context.Context, s *model.Session) error {
	if s.Token == "" {
		s.Token = model.GenerateSessionToken()
	}
	cp := *s
	cp.User = model.User{ID: s.UserID, Email: s.UserID + "@example.com"}
	f.byToken[s.Token] = &cp
	return nil
}

func (f *fakeStore) FindByToken(_ context.Context, token string) (*model.Session, error) {
	s, ok := f.byToken[token]
	if !ok {
		return nil, ErrNoSession
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) DeleteByToken(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func managerAt(store Store, now time.Time) *Manager {
	m := NewManager(store, 7*24*time.Hour)
	m.now = func() time.Time { return now }
	return m
}

func TestCreateIssuesUnguessableToken(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	m := managerAt(store, now)

	token, expiresAt, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, token, 96) // 48 random bytes, hex-encoded
	assert.Equal(t, now.Add(7*24*time.Hour), expiresAt)

	other, _, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "a user may hold multiple concurrent sessions")
}

func TestValidateUnknownToken(t *testing.T) {
	m := managerAt(newFakeStore(), time.Now())

	_, err := m.Validate(context.Background(), "never-issued")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = m.Validate(context.Background(), "")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestValidateLiveToken(t *testing.T) {
	store := newFakeStore()
	m := managerAt(store, time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC))

	token, _, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)

	user, err := m.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestValidateExpiredTokenPurgesRow(t *testing.T) {
	store := newFakeStore()
	issued := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	m := managerAt(store, issued)

	token, _, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)

	// Jump past the lifetime and validate: invalid, and the row is gone.
	m.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }
	_, err = m.Validate(context.Background(), token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = store.FindByToken(context.Background(), token)
	assert.True(t, errors.Is(err, ErrNoSession), "expired row must be removed on first validation")
}

func TestValidateExactlyAtExpiryIsInvalid(t *testing.T) {
	store := newFakeStore()
	issued := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	m := managerAt(store, issued)

	token, expiresAt, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return expiresAt }
	_, err = m.Validate(context.Background(), token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}

func TestDestroyIsIdempotent(t *testing.T) {
	store := newFakeStore()
	m := managerAt(store, time.Now())

	token, _, err := m.Create(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(context.Background(), token))
	require.NoError(t, m.Destroy(context.Background(), token))
	require.NoError(t, m.Destroy(context.Background(), "never-issued"))

	_, err = m.Validate(context.Background(), token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
}
