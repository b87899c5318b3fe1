package credential

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"tickops/internal/apperr"
	"tickops/internal/model"
	"tickops/prometheus"
)

// GormStore is the PostgreSQL-backed user store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := s.db.WithContext(ctx).Create(u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (s *GormStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (s *GormStore) List(ctx context.Context) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var users []model.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
