// Package tenancy persists workspaces and memberships. FindMembership
// is the sole authority for "may this user act in this workspace".
package tenancy

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/prometheus"
)

// ErrNoMembership is returned by stores when no row binds the pair.
var ErrNoMembership = errors.New("membership not found")

// Store persists workspaces and membership rows.
type Store interface {
	ListMemberships(ctx context.Context, userID string) ([]model.Membership, error)
	FindMembership(ctx context.Context, userID, workspaceID string) (*model.Membership, error)
	CreateWorkspace(ctx context.Context, ws *model.Workspace) error
	FindWorkspace(ctx context.Context, id string) (*model.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]model.Workspace, error)
	UpsertMembership(ctx context.Context, userID, workspaceID string, role model.WorkspaceRole) (*model.Membership, error)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Directory validates and orchestrates tenancy operations over a Store.
type Directory struct {
	store Store
}

// NewDirectory creates a Directory.
func NewDirectory(store Store) *Directory {
	return &Directory{store: store}
}

// ListMemberships returns the user's memberships with workspaces
// attached, oldest first for deterministic selection.
func (d *Directory) ListMemberships(ctx context.Context, userID string) ([]model.Membership, error) {
	return d.store.ListMemberships(ctx, userID)
}

// FindMembership resolves the binding of a user to a workspace.
// Returns apperr.ErrNotFound when no membership exists.
func (d *Directory) FindMembership(ctx context.Context, userID, workspaceID string) (*model.Membership, error) {
	m, err := d.store.FindMembership(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// CreateWorkspace creates a workspace after validating name and slug.
// The slug is immutable and unique; a duplicate yields ErrConflict.
func (d *Directory) CreateWorkspace(ctx context.Context, name, slug string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(slug)

	if n := utf8.RuneCountInString(name); n < 2 || n > 80 {
		return nil, apperr.Invalidf("name must be 2-80 characters")
	}
	if n := len(slug); n < 2 || n > 40 {
		return nil, apperr.Invalidf("slug must be 2-40 characters")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperr.Invalidf("slug may only contain lowercase letters, digits and hyphens")
	}

	ws := &model.Workspace{Name: name, Slug: slug}
	if err := d.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	prometheus.RecordTenancyOperation("create_workspace")
	return ws, nil
}

// GetWorkspace fetches one workspace by ID.
func (d *Directory) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	return d.store.FindWorkspace(ctx, id)
}

// ListWorkspaces returns every workspace, newest first. Admin surface.
func (d *Directory) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	return d.store.ListWorkspaces(ctx)
}

// AddMembership attaches a user to a workspace with a role. Provisioning
// is idempotent: an existing membership has its role updated instead of
// erroring.
func (d *Directory) AddMembership(ctx context.Context, userID, workspaceID string, role model.WorkspaceRole) (*model.Membership, error) {
	if !role.Valid() {
		return nil, apperr.Invalidf("unknown workspace role %q", string(role))
	}
	if _, err := d.store.FindWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}
	m, err := d.store.UpsertMembership(ctx, userID, workspaceID, role)
	if err != nil {
		return nil, err
	}
	prometheus.RecordTenancyOperation("add_membership")
	return m, nil
}
