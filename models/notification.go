package models

import "time"

// Notification is the write-only delivery audit record the dispatch
// pipeline appends after every attempted send. Payload holds the push
// data block as JSON. Never updated except for the read flag.
type Notification struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  uint   `gorm:"index"`
	Kind    string `gorm:"size:32"`
	Title   string
	Body    string `gorm:"type:text"`
	Payload string `gorm:"type:text"`
	SentAt  time.Time
	Read    bool `gorm:"default:false"`
}
