package model

import (
	"time"

	"gorm.io/gorm"
)

// WorkspaceRole is the authority level of a user inside one workspace.
type WorkspaceRole string

const (
	WorkspaceRoleClientAdmin WorkspaceRole = "CLIENT_ADMIN"
	WorkspaceRoleAgent       WorkspaceRole = "AGENT"
	WorkspaceRoleViewer      WorkspaceRole = "VIEWER"
)

// Valid reports whether the value is a known workspace role.
func (r WorkspaceRole) Valid() bool {
	switch r {
	case WorkspaceRoleClientAdmin, WorkspaceRoleAgent, WorkspaceRoleViewer:
		return true
	}
	return false
}

// Membership binds a user to a workspace with a role. It is the only
// path by which a user may act within a workspace.
type Membership struct {
	ID          string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID      string        `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_memberships_user_workspace"`
	WorkspaceID string        `json:"workspace_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_memberships_user_workspace"`
	Role        WorkspaceRole `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time     `json:"created_at"`

	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Workspace Workspace `json:"workspace" gorm:"foreignKey:WorkspaceID"`
}

// BeforeCreate hook assigns an ID when none was provided
func (m *Membership) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = generateID()
	}
	return nil
}
