package credential

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tickops/internal/apperr"
	"tickops/internal/model"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	seq     int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, ErrNoUser
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNoUser
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return apperr.ErrConflict
	}
	f.seq++
	u.ID = "u-" + u.Email
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, userID, hash string) error {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.PasswordHash = hash
			return nil
		}
	}
	return ErrNoUser
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

type fakeIssuer struct {
	issued int
}

func (f *fakeIssuer) Create(_ context.Context, userID string) (string, time.Time, error) {
	f.issued++
	return "tok-" + userID, time.Now().Add(24 * time.Hour), nil
}

func seedUser(t *testing.T, store *fakeUserStore, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Email: email, PasswordHash: string(hash), GlobalRole: model.GlobalRoleUser}
	require.NoError(t, store.Create(context.Background(), u))
	return u
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeUserStore()
	issuer := &fakeIssuer{}
	seedUser(t, store, "ops@acme.com", "correct-horse")
	a := NewAuthenticator(store, issuer, 10)

	res, err := a.Login(context.Background(), "  Ops@Acme.COM ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ops@acme.com", res.User.Email)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, 1, issuer.issued)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeUserStore()
	issuer := &fakeIssuer{}
	seedUser(t, store, "ops@acme.com", "correct-horse")
	a := NewAuthenticator(store, issuer, 10)

	_, unknownErr := a.Login(context.Background(), "nobody@acme.com", "whatever")
	_, wrongErr := a.Login(context.Background(), "ops@acme.com", "wrong")

	assert.True(t, errors.Is(unknownErr, apperr.ErrUnauthenticated))
	assert.True(t, errors.Is(wrongErr, apperr.ErrUnauthenticated))
	assert.Equal(t, unknownErr.Error(), wrongErr.Error(),
		"unknown email and wrong password must be indistinguishable")
	assert.Zero(t, issuer.issued)
}

func TestLoginRequiresBothFields(t *testing.T) {
	a := NewAuthenticator(newFakeUserStore(), &fakeIssuer{}, 10)

	_, err := a.Login(context.Background(), "", "secret")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = a.Login(context.Background(), "ops@acme.com", "")
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestCreateUserHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	a := NewAuthenticator(store, &fakeIssuer{}, 10)

	user, err := a.CreateUser(context.Background(), CreateUserInput{
		Email:    "New@Acme.com",
		Name:     "New Agent",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@acme.com", user.Email)
	assert.Equal(t, model.GlobalRoleUser, user.GlobalRole)
	assert.NotEqual(t, "longenough", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))
}

func TestCreateUserValidation(t *testing.T) {
	a := NewAuthenticator(newFakeUserStore(), &fakeIssuer{}, 10)
	ctx := context.Background()

	_, err := a.CreateUser(ctx, CreateUserInput{Email: "not-an-email", Password: "longenough"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = a.CreateUser(ctx, CreateUserInput{Email: "x@acme.com", Password: "short"})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))

	_, err = a.CreateUser(ctx, CreateUserInput{Email: "x@acme.com", Password: "longenough", GlobalRole: model.GlobalRole("ROOT")})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	store := newFakeUserStore()
	a := NewAuthenticator(store, &fakeIssuer{}, 10)
	ctx := context.Background()

	_, err := a.CreateUser(ctx, CreateUserInput{Email: "dup@acme.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = a.CreateUser(ctx, CreateUserInput{Email: "DUP@acme.com", Password: "otherpassword"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	a := NewAuthenticator(store, &fakeIssuer{}, 10)
	ctx := context.Background()
	u := seedUser(t, store, "ops@acme.com", "old-password")

	err := a.ChangePassword(ctx, u.ID, "wrong", "new-password-1")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	require.NoError(t, a.ChangePassword(ctx, u.ID, "old-password", "new-password-1"))

	_, err = a.Login(ctx, "ops@acme.com", "old-password")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	_, err = a.Login(ctx, "ops@acme.com", "new-password-1")
	assert.NoError(t, err)
}
