package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is a time-bounded proof of authentication. The token is
// opaque; lookups go through the unique index only, never by prefix.
type Session struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Token     string    `json:"-" gorm:"type:varchar(128);uniqueIndex;not null"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate hook fills in the ID and token when absent
func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = generateID()
	}
	if s.Token == "" {
		s.Token = GenerateSessionToken()
	}
	return nil
}

// Expired reports whether the session must be treated as invalid.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
