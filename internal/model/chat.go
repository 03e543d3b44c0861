package model

import "time"

// Chat stores a Telegram chat that should receive daily reports.
type Chat struct {
	ID        uint  `gorm:"primaryKey"`
	ChatID    int64 `gorm:"uniqueIndex"`
	FirstName string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
