package repository

import (
	"storefront-backend/internal/models"

	"gorm.io/gorm"
)

// snapshotRetention caps history entries kept per page.
const snapshotRetention = 25

type SnapshotRepository interface {
	Create(snapshot *models.PageSnapshot) error
	GetByPage(pageID uint) ([]models.PageSnapshot, error)
	GetByID(id uint) (*models.PageSnapshot, error)
	PruneOld(pageID uint) error
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Create(snapshot *models.PageSnapshot) error {
	return r.db.Create(snapshot).Error
}

func (r *snapshotRepository) GetByPage(pageID uint) ([]models.PageSnapshot, error) {
	var snapshots []models.PageSnapshot
	if err := r.db.Where("page_id = ?", pageID).
		Order("created_at DESC").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *snapshotRepository) GetByID(id uint) (*models.PageSnapshot, error) {
	var snapshot models.PageSnapshot
	if err := r.db.First(&snapshot, id).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *snapshotRepository) PruneOld(pageID uint) error {
	var keep []uint
	if err := r.db.Model(&models.PageSnapshot{}).
		Where("page_id = ?", pageID).
		Order("created_at DESC").
		Limit(snapshotRetention).
		Pluck("id", &keep).Error; err != nil {
		return err
	}
	if len(keep) == 0 {
		return nil
	}

	return r.db.Unscoped().
		Where("page_id = ? AND id NOT IN ?", pageID, keep).
		Delete(&models.PageSnapshot{}).Error
}
