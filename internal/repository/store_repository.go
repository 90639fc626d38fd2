package repository

import (
	"storefront-backend/internal/models"

	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *models.Store) error
	Update(store *models.Store) error
	Delete(id uint) error
	GetByID(id uint) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	GetActiveBySlug(slug string) (*models.Store, error)
	GetByOwner(ownerID uint) ([]models.Store, error)
	ExistsBySlug(slug string) (bool, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

func (r *storeRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Store{}, id).Error
}

func (r *storeRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetActiveBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.Where("slug = ? AND active = ?", slug, true).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) GetByOwner(ownerID uint) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
