// Package entitlement persists per-workspace module toggles. Absence of
// a row is disabled: features are default-deny.
package entitlement

import (
	"context"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/internal/modules"
	"tickops/prometheus"
)

// Repo persists workspace module rows.
type Repo interface {
	Find(ctx context.Context, workspaceID, moduleKey string) (*model.WorkspaceModule, bool, error)
	Upsert(ctx context.Context, workspaceID, moduleKey string, enabled bool) (*model.WorkspaceModule, error)
	ListEnabled(ctx context.Context, workspaceID string) ([]string, error)
}

// Store gates feature modules per workspace.
type Store struct {
	repo Repo
}

// NewStore creates a Store.
func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// IsEnabled reports whether the module is unlocked for the workspace.
// No row means false.
func (s *Store) IsEnabled(ctx context.Context, workspaceID, moduleKey string) (bool, error) {
	row, found, err := s.repo.Find(ctx, workspaceID, moduleKey)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return row.Enabled, nil
}

// SetEnabled upserts the toggle. The key must belong to the static
// catalog; unknown keys are rejected before any write. Authorization
// (super-admin only) is the caller's responsibility.
func (s *Store) SetEnabled(ctx context.Context, workspaceID, moduleKey string, enabled bool) (*model.WorkspaceModule, error) {
	if !modules.ValidKey(moduleKey) {
		return nil, apperr.Invalidf("unknown module key %q", moduleKey)
	}
	row, err := s.repo.Upsert(ctx, workspaceID, moduleKey, enabled)
	if err != nil {
		return nil, err
	}
	prometheus.EntitlementToggleCounter.WithLabelValues(moduleKey).Inc()
	return row, nil
}

// ListEnabled returns the keys of every enabled module for the
// workspace, reflecting the latest committed state.
func (s *Store) ListEnabled(ctx context.Context, workspaceID string) ([]string, error) {
	return s.repo.ListEnabled(ctx, workspaceID)
}
