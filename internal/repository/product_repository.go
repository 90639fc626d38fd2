package repository

import (
	"storefront-backend/internal/models"

	"gorm.io/gorm"
)

type ProductFilter struct {
	Category     string
	FeaturedOnly bool
	Limit        int
}

type ProductRepository interface {
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	GetByID(id uint) (*models.Product, error)
	GetBySlug(storeID uint, slug string) (*models.Product, error)
	GetAll(storeID uint) ([]models.Product, error)
	GetActive(storeID uint, filter ProductFilter) ([]models.Product, error)
	ExistsBySlug(storeID uint, slug string, excludeID uint) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Product{}, id).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(storeID uint, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("store_id = ? AND slug = ?", storeID, slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetAll(storeID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("store_id = ?", storeID).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetActive feeds the productGrid widget: active products only, optionally
// narrowed by category or the featured flag.
func (r *productRepository) GetActive(storeID uint, filter ProductFilter) ([]models.Product, error) {
	query := r.db.Where("store_id = ? AND active = ?", storeID, true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ExistsBySlug(storeID uint, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("store_id = ? AND slug = ? AND id <> ?", storeID, slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
