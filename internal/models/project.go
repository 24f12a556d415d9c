package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is the persisted form of one tracked project. Dates are stored as
// YYYY-MM-DD strings; Milestones and Done hold the phase→date maps as JSON.
type Project struct {
	ID            string         `gorm:"primaryKey;size:32"`
	Name          string         `gorm:"size:256;not null"`
	Client        string         `gorm:"size:256;not null;index"`
	Location      string         `gorm:"size:256"`
	Value         float64        `gorm:"default:0"`
	ContactPerson string         `gorm:"size:128"`
	ContactEmail  string         `gorm:"size:256"`
	Phase         string         `gorm:"size:16;index"`
	Milestones    datatypes.JSON `gorm:"not null"`
	Done          datatypes.JSON `gorm:"not null"`
	PhaseSince    *string        `gorm:"size:10"`
	CompletedAt   *string        `gorm:"size:10;index"`
	LastContact   *string        `gorm:"size:10"`
	CadenceDays   int            `gorm:"default:14"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
