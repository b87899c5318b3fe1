package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tickops/internal/model"
	"tickops/prometheus"
)

// GormStore is the PostgreSQL-backed session store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, sess *model.Session) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(sess).Error
}

func (s *GormStore) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var sess model.Session
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) DeleteByToken(ctx context.Context, token string) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&model.Session{}).Error
}
