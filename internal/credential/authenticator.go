// Package credential verifies user credentials and provisions user
// records. Login failures collapse to one indistinguishable outcome
// regardless of which check failed.
package credential

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"tickops/internal/apperr"
	"tickops/internal/model"
)

// ErrNoUser is returned by stores when no user has the email or ID.
var ErrNoUser = errors.New("user not found")

// UserStore persists user records.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	List(ctx context.Context) ([]model.User, error)
}

// SessionIssuer issues a session after a successful credential check.
type SessionIssuer interface {
	Create(ctx context.Context, userID string) (token string, expiresAt time.Time, err error)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Authenticator wires the user store to the session manager.
type Authenticator struct {
	users      UserStore
	sessions   SessionIssuer
	bcryptCost int
}

// NewAuthenticator creates an Authenticator. Cost below bcrypt's
// default is raised to it.
func NewAuthenticator(users UserStore, sessions SessionIssuer, bcryptCost int) *Authenticator {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Authenticator{users: users, sessions: sessions, bcryptCost: bcryptCost}
}

// LoginResult is the successful outcome of a credential check.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Login case-folds the email, verifies the password and issues a
// session. Unknown email and wrong password both return
// ErrUnauthenticated with no distinguishing detail.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Invalidf("email and password are required")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthenticated
	}

	token, expiresAt, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// CreateUserInput carries admin user provisioning data. A password is
// always required and always hashed; accounts that cannot log in must
// not exist.
type CreateUserInput struct {
	Email      string
	Name       string
	Password   string
	GlobalRole model.GlobalRole
}

// CreateUser validates and persists a new user record. Duplicate email
// yields ErrConflict.
func (a *Authenticator) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	email := NormalizeEmail(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, apperr.Invalidf("invalid email address")
	}
	if utf8.RuneCountInString(in.Password) < 8 {
		return nil, apperr.Invalidf("password must be at least 8 characters")
	}
	if n := utf8.RuneCountInString(in.Name); n > 80 {
		return nil, apperr.Invalidf("name must be at most 80 characters")
	}
	role := in.GlobalRole
	if role == "" {
		role = model.GlobalRoleUser
	}
	if !role.Valid() {
		return nil, apperr.Invalidf("unknown global role %q", string(in.GlobalRole))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: string(hash),
		GlobalRole:   role,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new
// hash.
func (a *Authenticator) ChangePassword(ctx context.Context, userID, current, next string) error {
	if utf8.RuneCountInString(next) < 8 {
		return apperr.Invalidf("password must be at least 8 characters")
	}
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			return apperr.ErrNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.ErrUnauthenticated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), a.bcryptCost)
	if err != nil {
		return err
	}
	return a.users.UpdatePassword(ctx, userID, string(hash))
}

// ListUsers returns every user, newest first. Admin surface.
func (a *Authenticator) ListUsers(ctx context.Context) ([]model.User, error) {
	return a.users.List(ctx)
}

// NormalizeEmail trims and lowercases an email for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
