// Package access resolves a request's session token and workspace
// pointer into one canonical access context. Every protected operation
// goes through Resolve; it is the single chokepoint that establishes
// tenant scope.
package access

import (
	"context"
	"errors"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/prometheus"
)

// State is the resolution outcome. "No session" and "no membership" are
// explicit outcomes the caller pattern-matches on, not errors.
type State string

const (
	// StateUnauthenticated: no valid session token. Terminal for
	// protected operations.
	StateUnauthenticated State = "unauthenticated"

	// StateNoWorkspace: authenticated but the user holds zero
	// memberships. A legitimate terminal UX state, not a failure.
	StateNoWorkspace State = "no_workspace"

	// StateSelectionRequired: authenticated with two or more memberships
	// and no (or a stale) workspace pointer. Never auto-resolved.
	StateSelectionRequired State = "selection_required"

	// StateSelected: the only state from which tenant-scoped operations
	// may proceed.
	StateSelected State = "selected"
)

// Context is the request-scoped resolution result. It is built fresh
// per request and never cached.
type Context struct {
	State       State
	User        *model.User
	Memberships []model.Membership
	Selected    *model.Membership
}

// SessionValidator is the identity half of resolution.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.User, error)
}

// MembershipSource is the tenant-binding half of resolution.
type MembershipSource interface {
	ListMemberships(ctx context.Context, userID string) ([]model.Membership, error)
	FindMembership(ctx context.Context, userID, workspaceID string) (*model.Membership, error)
}

// Resolver composes the session manager and tenancy directory.
type Resolver struct {
	sessions  SessionValidator
	directory MembershipSource
}

// NewResolver creates a Resolver.
func NewResolver(sessions SessionValidator, directory MembershipSource) *Resolver {
	return &Resolver{sessions: sessions, directory: directory}
}

// Resolve derives the access context from the two carriers. Its one
// allowed side effect is persisting an auto-selected workspace pointer
// through persistSelection when the user has exactly one membership;
// the callback may be nil.
func (r *Resolver) Resolve(ctx context.Context, token, workspacePointer string, persistSelection func(workspaceID string)) (*Context, error) {
	user, err := r.sessions.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return &Context{State: StateUnauthenticated}, nil
		}
		return nil, err
	}

	memberships, err := r.directory.ListMemberships(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	ac := &Context{User: user, Memberships: memberships}

	// A pointer to a workspace the user is no longer a member of is
	// stale and treated as absent, so removal takes effect on the very
	// next request.
	if workspacePointer != "" {
		for i := range memberships {
			if memberships[i].WorkspaceID == workspacePointer {
				ac.State = StateSelected
				ac.Selected = &memberships[i]
				return ac, nil
			}
		}
	}

	switch len(memberships) {
	case 0:
		ac.State = StateNoWorkspace
	case 1:
		ac.State = StateSelected
		ac.Selected = &memberships[0]
		if persistSelection != nil {
			persistSelection(memberships[0].WorkspaceID)
		}
		prometheus.RecordTenancyOperation("auto_select")
	default:
		ac.State = StateSelectionRequired
	}
	return ac, nil
}

// Switch validates an explicit workspace change. It succeeds only when
// a membership exists for the pair; otherwise the caller must leave the
// previous selection unchanged.
func (r *Resolver) Switch(ctx context.Context, userID, workspaceID string) (*model.Membership, error) {
	m, err := r.directory.FindMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrForbidden
		}
		return nil, err
	}
	prometheus.RecordTenancyOperation("switch")
	return m, nil
}
