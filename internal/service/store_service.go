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

type StoreService struct {
	stores repository.StoreRepository
	cache  *cache.Cache
}

func NewStoreService(stores repository.StoreRepository, cacheService *cache.Cache) *StoreService {
	return &StoreService{stores: stores, cache: cacheService}
}

func (s *StoreService) Create(ownerID uint, req *models.CreateStoreRequest) (*models.Store, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	taken, err := s.stores.ExistsBySlug(slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrStoreSlugTaken
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	store := &models.Store{
		Name:        req.Name,
		Slug:        slug,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Currency:    currency,
		Active:      true,
		OwnerID:     ownerID,
	}
	if err := s.stores.Create(store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StoreService) Update(ownerID, storeID uint, req *models.UpdateStoreRequest) (*models.Store, error) {
	store, err := s.GetOwned(ownerID, storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.LogoURL != nil {
		store.LogoURL = *req.LogoURL
	}
	if req.Description != nil {
		store.Description = *req.Description
	}
	if req.Currency != nil {
		store.Currency = *req.Currency
	}
	if req.Active != nil {
		store.Active = *req.Active
	}

	if err := s.stores.Update(store); err != nil {
		return nil, err
	}
	s.invalidate(store.ID)
	return store, nil
}

func (s *StoreService) Delete(ownerID, storeID uint) error {
	store, err := s.GetOwned(ownerID, storeID)
	if err != nil {
		return err
	}
	if err := s.stores.Delete(store.ID); err != nil {
		return err
	}
	s.invalidate(store.ID)
	return nil
}

func (s *StoreService) GetByOwner(ownerID uint) ([]models.Store, error) {
	return s.stores.GetByOwner(ownerID)
}

// GetOwned loads a store and verifies ownership. Foreign stores look exactly
// like missing ones.
func (s *StoreService) GetOwned(ownerID, storeID uint) (*models.Store, error) {
	store, err := s.stores.GetByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, ErrStoreNotFound
	}
	return store, nil
}

func (s *StoreService) invalidate(storeID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(formatStoreCachePattern(storeID)); err != nil {
		logger.Warn("Failed to invalidate store cache", map[string]interface{}{"store_id": storeID})
	}
}
