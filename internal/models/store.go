package models

import (
	"time"

	"gorm.io/gorm"
)

type Store struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"not null" json:"store_name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"store_slug"`
	LogoURL     string `json:"store_logo_url"`
	Description string `json:"description"`
	Currency    string `gorm:"type:varchar(8);default:'USD'" json:"currency"`
	Active      bool   `gorm:"default:true" json:"is_active"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`
}

// PublicStoreInfo is the storefront-facing projection of a store.
type PublicStoreInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"store_name"`
	Slug     string `json:"store_slug"`
	LogoURL  string `json:"store_logo_url"`
	IsActive bool   `json:"is_active"`
}

func (s *Store) Public() *PublicStoreInfo {
	if s == nil {
		return nil
	}
	return &PublicStoreInfo{
		ID:       s.ID,
		Name:     s.Name,
		Slug:     s.Slug,
		LogoURL:  s.LogoURL,
		IsActive: s.Active,
	}
}

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"type:varchar(32);default:'merchant'" json:"role"`

	Stores []Store `gorm:"foreignKey:OwnerID" json:"stores,omitempty"`
}

// EmailConfig holds a store's SMTP settings for form-submission delivery and
// order notifications. Falls back to the platform config when absent.
type EmailConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID      uint   `gorm:"uniqueIndex;not null" json:"store_id"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     string `gorm:"default:'587'" json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"-"`
	FromAddress  string `json:"from_address"`
	FromName     string `json:"from_name"`
	Enabled      bool   `gorm:"default:false" json:"enabled"`
}

type AnalyticsProvider string

const (
	AnalyticsGoogle AnalyticsProvider = "google"
	AnalyticsMeta   AnalyticsProvider = "meta"
)

// AnalyticsIntegration stores third-party tracking configuration. Only the
// identifiers are persisted; snippet markup is produced at render time.
type AnalyticsIntegration struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID    uint              `gorm:"not null;index:idx_analytics_store_provider,unique,priority:1" json:"store_id"`
	Provider   AnalyticsProvider `gorm:"type:varchar(16);not null;index:idx_analytics_store_provider,unique,priority:2" json:"provider"`
	TrackingID string            `gorm:"not null" json:"tracking_id"`
	Enabled    bool              `gorm:"default:true" json:"enabled"`
}
