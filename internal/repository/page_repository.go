package repository

import (
	"time"

	"storefront-backend/internal/models"

	"gorm.io/gorm"
)

// PageRepository covers both the admin CRUD surface and the public contract
// consumed by the storefront resolution path.
type PageRepository interface {
	Create(page *models.Page) error
	Update(page *models.Page) error
	Delete(id uint) error
	GetByID(id uint) (*models.Page, error)
	GetAllAdmin(storeID uint) ([]models.Page, error)

	// Public storefront contract.
	GetPublishedPageBySlug(storeID uint, slug string) (*models.Page, error)
	GetPublishedSystemPage(storeID uint, pageType models.PageType) (*models.Page, error)
	GetAllPublishedPages(storeID uint) ([]models.Page, error)
	GetNavigationPages(storeID uint) ([]models.NavigationPage, error)

	// Publication bookkeeping.
	GetDueScheduledPages(now time.Time) ([]models.Page, error)
	ExistsPublishedSlug(storeID uint, slug string, excludeID uint) (bool, error)
	CountPublishedSystemPages(storeID uint, pageType models.PageType, excludeID uint) (int64, error)
}

type pageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(page *models.Page) error {
	return r.db.Create(page).Error
}

func (r *pageRepository) Update(page *models.Page) error {
	return r.db.Save(page).Error
}

func (r *pageRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("page_id = ?", id).Delete(&models.PageSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Page{}, id).Error
	})
}

func (r *pageRepository) GetByID(id uint) (*models.Page, error) {
	var page models.Page
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetAllAdmin(storeID uint) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("store_id = ?", storeID).
		Order("pages.created_at DESC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) GetPublishedPageBySlug(storeID uint, slug string) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("store_id = ? AND slug = ? AND status = ?", storeID, slug, models.PageStatusPublished).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *pageRepository) GetPublishedSystemPage(storeID uint, pageType models.PageType) (*models.Page, error) {
	var page models.Page
	if err := r.db.Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, models.PageStatusPublished).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAllPublishedPages returns ordinary published pages unfiltered by
// navigation placement; the home-page fallback needs the full set. System
// pages are excluded so headers never double as content pages.
func (r *pageRepository) GetAllPublishedPages(storeID uint) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("store_id = ? AND status = ? AND page_type = ?", storeID, models.PageStatusPublished, models.PageTypeStandard).
		Order("pages.created_at ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) GetNavigationPages(storeID uint) ([]models.NavigationPage, error) {
	var pages []models.NavigationPage
	if err := r.db.Model(&models.Page{}).
		Select("id, name, slug, navigation_placement").
		Where("store_id = ? AND status = ? AND navigation_placement IN ?",
			storeID, models.PageStatusPublished,
			[]models.NavigationPlacement{models.PlacementHeader, models.PlacementFooter, models.PlacementBoth}).
		Order("pages.created_at ASC").
		Scan(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) GetDueScheduledPages(now time.Time) ([]models.Page, error) {
	var pages []models.Page
	if err := r.db.Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?",
		models.PageStatusScheduled, now).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *pageRepository) ExistsPublishedSlug(storeID uint, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Page{}).
		Where("store_id = ? AND slug = ? AND status = ? AND id <> ?",
			storeID, slug, models.PageStatusPublished, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *pageRepository) CountPublishedSystemPages(storeID uint, pageType models.PageType, excludeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Page{}).
		Where("store_id = ? AND page_type = ? AND status = ? AND id <> ?",
			storeID, pageType, models.PageStatusPublished, excludeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
