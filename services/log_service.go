package services

import (
	"context"
	"fmt"
	"time"

	"github.com/imtarget05/Health-Tracker-App/models"

	"gorm.io/gorm"
)

// LogService appends intake and hydration entries. Entries are immutable;
// everything downstream only reads and sums them.
type LogService struct{ db *gorm.DB }

func NewLogService(db *gorm.DB) *LogService { return &LogService{db: db} }

func (l *LogService) AddMeal(ctx context.Context, userID uint, date time.Time, mealType, description string, calories float64) (*models.Meal, error) {
	if calories < 0 {
		return nil, fmt.Errorf("calories must be non-negative")
	}
	m := &models.Meal{
		UserID:        userID,
		Date:          dayStart(date),
		MealType:      mealType,
		Description:   description,
		TotalCalories: calories,
	}
	if err := l.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return m, nil
}

func (l *LogService) AddWater(ctx context.Context, userID uint, date time.Time, amountMl float64) (*models.WaterLog, error) {
	if amountMl <= 0 {
		return nil, fmt.Errorf("amount_ml must be positive")
	}
	w := &models.WaterLog{
		UserID:   userID,
		Date:     dayStart(date),
		AmountMl: amountMl,
	}
	if err := l.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, fmt.Errorf("create water log: %w", err)
	}
	return w, nil
}

func (l *LogService) MealsByDate(ctx context.Context, userID uint, date time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(date), dayEnd(date)).
		Order("created_at ASC").
		Find(&meals).Error
	return meals, err
}

func (l *LogService) WaterByDate(ctx context.Context, userID uint, date time.Time) ([]models.WaterLog, error) {
	var logs []models.WaterLog
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(date), dayEnd(date)).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
