package services

import (
	"context"
	"fmt"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"gorm.io/gorm"
)

type gormDispatchStore struct{ db *gorm.DB }

func NewDispatchStore(db *gorm.DB) DispatchStore { return &gormDispatchStore{db: db} }

func (s *gormDispatchStore) ProfileUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.HealthProfile{}).
		Distinct().
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list profile users: %w", err)
	}
	return ids, nil
}

func (s *gormDispatchStore) InactiveUserIDs(ctx context.Context, cutoff time.Time) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("disabled = ? AND last_login_at IS NOT NULL AND last_login_at < ?", false, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list inactive users: %w", err)
	}
	return ids, nil
}

func (s *gormDispatchStore) ActiveTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	return tokens, nil
}

func (s *gormDispatchStore) UserEmail(ctx context.Context, userID uint) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("email").First(&user, userID).Error; err != nil {
		return "", fmt.Errorf("load user %d: %w", userID, err)
	}
	return user.Email, nil
}

func (s *gormDispatchStore) AppendNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}
