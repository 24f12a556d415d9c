package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zulandar/southwood/internal/models"
)

// RecordNotification inserts n unless a notification with the same kind,
// platform, channel and day already exists. It reports whether n was new.
func RecordNotification(db *gorm.DB, n *models.Notification) (bool, error) {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now()
	}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(n)
	if res.Error != nil {
		return false, fmt.Errorf("store: record %s notification: %w", n.Kind, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delivered reports whether a notification of kind already went to channel on day.
func Delivered(db *gorm.DB, kind, platform, channelID, day string) (bool, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("kind = ? AND platform = ? AND channel_id = ? AND day = ?", kind, platform, channelID, day).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("store: check %s notification: %w", kind, err)
	}
	return count > 0, nil
}

// Notifications returns the most recent deliveries, newest first.
func Notifications(db *gorm.DB, limit int) ([]models.Notification, error) {
	var out []models.Notification
	if err := db.Order("sent_at DESC, id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list notifications: %w", err)
	}
	return out, nil
}
