package model

import (
	"time"

	"gorm.io/gorm"
)

// WorkspaceModule records whether a feature module is unlocked for a
// workspace. Absence of a row means disabled.
type WorkspaceModule struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	WorkspaceID string    `json:"workspace_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_workspace_modules_key"`
	ModuleKey   string    `json:"module_key" gorm:"type:varchar(40);not null;uniqueIndex:idx_workspace_modules_key"`
	Enabled     bool      `json:"enabled" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate hook assigns an ID when none was provided
func (m *WorkspaceModule) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = generateID()
	}
	return nil
}
