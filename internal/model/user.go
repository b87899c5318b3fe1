package model

import (
	"time"

	"gorm.io/gorm"
)

// GlobalRole is the deployment-wide authority level of a user. It is
// independent of any workspace role.
type GlobalRole string

const (
	GlobalRoleSuperAdmin GlobalRole = "SUPER_ADMIN"
	GlobalRoleUser       GlobalRole = "USER"
)

// Valid reports whether the value is a known global role.
func (r GlobalRole) Valid() bool {
	return r == GlobalRoleSuperAdmin || r == GlobalRoleUser
}

// User represents the user model stored in the database. Email is
// stored lowercased; lookups must case-fold first.
type User struct {
	ID           string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string     `json:"name,omitempty" gorm:"type:varchar(80)"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	GlobalRole   GlobalRole `json:"global_role" gorm:"type:varchar(20);not null;default:'USER'"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate hook assigns an ID when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = generateID()
	}
	if u.GlobalRole == "" {
		u.GlobalRole = GlobalRoleUser
	}
	return nil
}
