package entitlement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tickops/internal/model"
	"tickops/prometheus"
)

// GormRepo is the PostgreSQL-backed entitlement repository.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo wraps a gorm handle.
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) Find(ctx context.Context, workspaceID, moduleKey string) (*model.WorkspaceModule, bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var row model.WorkspaceModule
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND module_key = ?", workspaceID, moduleKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &row, true, nil
}

// Upsert relies on the unique (workspace_id, module_key) index so a
// double-submitted toggle cannot create duplicate rows.
func (r *GormRepo) Upsert(ctx context.Context, workspaceID, moduleKey string, enabled bool) (*model.WorkspaceModule, error) {
	defer prometheus.TrackDBOperation("upsert")(time.Now())
	row := model.WorkspaceModule{
		WorkspaceID: workspaceID,
		ModuleKey:   moduleKey,
		Enabled:     enabled,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "module_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"enabled": enabled}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	current, _, err := r.Find(ctx, workspaceID, moduleKey)
	if err != nil {
		return nil, err
	}
	return current, nil
}

func (r *GormRepo) ListEnabled(ctx context.Context, workspaceID string) ([]string, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&model.WorkspaceModule{}).
		Where("workspace_id = ? AND enabled = ?", workspaceID, true).
		Order("module_key ASC").
		Pluck("module_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}
