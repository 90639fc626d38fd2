package service

import (
	"errors"
	"strings"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"

	"gorm.io/gorm"
)

type ProductService struct {
	products repository.ProductRepository
	cache    *cache.Cache
}

func NewProductService(products repository.ProductRepository, cacheService *cache.Cache) *ProductService {
	return &ProductService{products: products, cache: cacheService}
}

func (s *ProductService) Create(storeID uint, req *models.CreateProductRequest) (*models.Product, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	taken, err := s.products.ExistsBySlug(storeID, slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	product := &models.Product{
		StoreID:     storeID,
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
		Inventory:   req.Inventory,
		Active:      true,
		Featured:    req.Featured,
		Category:    req.Category,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.products.Create(product); err != nil {
		return nil, err
	}
	s.invalidate(storeID)
	return product, nil
}

func (s *ProductService) Update(storeID, productID uint, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.get(storeID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Inventory != nil {
		product.Inventory = *req.Inventory
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.Category != nil {
		product.Category = *req.Category
	}

	if err := s.products.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(storeID)
	return product, nil
}

func (s *ProductService) Delete(storeID, productID uint) error {
	product, err := s.get(storeID, productID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(product.ID); err != nil {
		return err
	}
	s.invalidate(storeID)
	return nil
}

func (s *ProductService) GetByID(storeID, productID uint) (*models.Product, error) {
	return s.get(storeID, productID)
}

func (s *ProductService) GetAll(storeID uint) ([]models.Product, error) {
	return s.products.GetAll(storeID)
}

// GetPublicBySlug serves the storefront product page; only active products
// are visible.
func (s *ProductService) GetPublicBySlug(storeID uint, slug string) (*models.Product, error) {
	product, err := s.products.GetBySlug(storeID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) get(storeID, productID uint) (*models.Product, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) invalidate(storeID uint) {
	if s.cache == nil {
		return
	}
	// Product grids are baked into cached views.
	if err := s.cache.DeletePattern(formatStoreCachePattern(storeID)); err != nil {
		logger.Warn("Failed to invalidate store cache", map[string]interface{}{"store_id": storeID})
	}
}
