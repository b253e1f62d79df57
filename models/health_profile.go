package models

import (
	"gorm.io/gorm"
)

// HealthProfile holds the biometrics a user's daily targets derive from.
// At most one per user. The stored targets are a convenience snapshot;
// stats and dispatch recompute them from the biometrics on every read.
type HealthProfile struct {
	gorm.Model
	UserID               uint `gorm:"uniqueIndex;not null"`
	Age                  int
	Gender               string `gorm:"size:16"` // "male" | "female"
	HeightCm             float64
	WeightKg             float64
	ActivityLevel        string `gorm:"size:16"` // sedentary|light|moderate|active|veryActive
	Goal                 string `gorm:"size:16"` // lose|maintain|gain
	TargetCaloriesPerDay int
	TargetWaterMlPerDay  int
}
