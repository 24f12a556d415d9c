package models

import "time"

// Notification records one chat delivery. The unique index keeps a digest
// to at most one post per kind, platform, channel and day.
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_notification_once"`
	Platform  string    `gorm:"size:16;not null;uniqueIndex:idx_notification_once"`
	ChannelID string    `gorm:"size:64;not null;uniqueIndex:idx_notification_once"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_notification_once"`
	Body      string    `gorm:"type:text"`
	SentAt    time.Time `gorm:"index"`
}
