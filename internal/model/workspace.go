package model

import (
	"time"

	"gorm.io/gorm"
)

// Workspace is an isolated customer account. All business data is
// scoped to exactly one workspace.
type Workspace struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(80);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(40);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate hook assigns an ID when none was provided
func (w *Workspace) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = generateID()
	}
	return nil
}
