package models

import (
	"time"

	"gorm.io/gorm"
)

// WaterLog is one hydration entry, date-keyed the same way meals are.
type WaterLog struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null"`
	Date     time.Time `gorm:"index;not null"`
	AmountMl float64
}
