package tenancy

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/prometheus"
)

// GormStore is the PostgreSQL-backed tenancy store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListMemberships(ctx context.Context, userID string) ([]model.Membership, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var memberships []model.Membership
	err := s.db.WithContext(ctx).
		Preload("Workspace").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (s *GormStore) FindMembership(ctx context.Context, userID, workspaceID string) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var m model.Membership
	err := s.db.WithContext(ctx).
		Preload("Workspace").
		Where("user_id = ? AND workspace_id = ?", userID, workspaceID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMembership
		}
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := s.db.WithContext(ctx).Create(ws).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) FindWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var ws model.Workspace
	err := s.db.WithContext(ctx).First(&ws, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &ws, nil
}

func (s *GormStore) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var workspaces []model.Workspace
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// UpsertMembership relies on the unique (user_id, workspace_id) index so
// concurrent duplicate submissions cannot create duplicate rows.
func (s *GormStore) UpsertMembership(ctx context.Context, userID, workspaceID string, role model.WorkspaceRole) (*model.Membership, error) {
	defer prometheus.TrackDBOperation("upsert")(time.Now())
	m := model.Membership{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "workspace_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": role}),
		}).
		Create(&m).Error
	if err != nil {
		return nil, err
	}
	return s.FindMembership(ctx, userID, workspaceID)
}
