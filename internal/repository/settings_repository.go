package repository

import (
	"storefront-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmailConfigRepository interface {
	GetByStore(storeID uint) (*models.EmailConfig, error)
	Upsert(config *models.EmailConfig) error
	Delete(storeID uint) error
}

type emailConfigRepository struct {
	db *gorm.DB
}

func NewEmailConfigRepository(db *gorm.DB) EmailConfigRepository {
	return &emailConfigRepository{db: db}
}

func (r *emailConfigRepository) GetByStore(storeID uint) (*models.EmailConfig, error) {
	var config models.EmailConfig
	if err := r.db.Where("store_id = ?", storeID).First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *emailConfigRepository) Upsert(config *models.EmailConfig) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}},
		UpdateAll: true,
	}).Create(config).Error
}

func (r *emailConfigRepository) Delete(storeID uint) error {
	return r.db.Unscoped().Where("store_id = ?", storeID).Delete(&models.EmailConfig{}).Error
}

type AnalyticsRepository interface {
	GetByStore(storeID uint) ([]models.AnalyticsIntegration, error)
	GetEnabledByStore(storeID uint) ([]models.AnalyticsIntegration, error)
	Upsert(integration *models.AnalyticsIntegration) error
	Delete(storeID uint, provider models.AnalyticsProvider) error
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetByStore(storeID uint) ([]models.AnalyticsIntegration, error) {
	var integrations []models.AnalyticsIntegration
	if err := r.db.Where("store_id = ?", storeID).Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *analyticsRepository) GetEnabledByStore(storeID uint) ([]models.AnalyticsIntegration, error) {
	var integrations []models.AnalyticsIntegration
	if err := r.db.Where("store_id = ? AND enabled = ?", storeID, true).Find(&integrations).Error; err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *analyticsRepository) Upsert(integration *models.AnalyticsIntegration) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "provider"}},
		UpdateAll: true,
	}).Create(integration).Error
}

func (r *analyticsRepository) Delete(storeID uint, provider models.AnalyticsProvider) error {
	return r.db.Unscoped().
		Where("store_id = ? AND provider = ?", storeID, provider).
		Delete(&models.AnalyticsIntegration{}).Error
}
