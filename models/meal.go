package models

import (
	"time"

	"gorm.io/gorm"
)

// Meal is one logged intake entry. Date is a date-only key (local
// midnight), not the time the meal was eaten; rows are immutable once
// written and the stats layer only ever sums them grouped by (user, date).
type Meal struct {
	gorm.Model
	UserID        uint      `gorm:"index;not null"`
	Date          time.Time `gorm:"index;not null"`
	MealType      string    `gorm:"size:16"` // breakfast|lunch|dinner|snack
	Description   string
	TotalCalories float64
}
