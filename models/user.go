package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	FullName    string
	Disabled    bool       `gorm:"default:false"`
	LastLoginAt *time.Time `gorm:"index"` // re-engagement looks at this
}
