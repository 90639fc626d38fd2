package models

import (
	"time"
)

// PageSnapshot is an immutable history entry captured on every page save.
// Deleting a page removes its snapshots with it.
type PageSnapshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PageID   uint         `gorm:"not null;index" json:"page_id"`
	Version  int          `gorm:"not null" json:"version"`
	Name     string       `json:"name"`
	Sections PageSections `gorm:"type:jsonb" json:"sections"`
	Status   PageStatus   `gorm:"type:varchar(16)" json:"status"`

	Page Page `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
}
