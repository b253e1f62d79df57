package models

import "time"

// DisabledReason values. A user-disabled endpoint may be switched back on;
// one the push gateway reported dead only returns via re-registration.
const (
	DisabledByUser    = "user"
	DisabledByGateway = "gateway"
)

// DeviceToken is one registered push endpoint. A user may hold zero or
// many active tokens.
type DeviceToken struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index"`
	Platform       string `gorm:"size:16"` // "android" | "ios"
	TokenHash      string `gorm:"size:64"`
	EndpointARN    string `gorm:"size:256"`
	Active         bool   `gorm:"default:true"`
	DisabledReason string `gorm:"size:16"`
	UpdatedAt      time.Time
	CreatedAt      time.Time
}
