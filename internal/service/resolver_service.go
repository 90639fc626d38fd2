package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"gorm.io/gorm"
)

// PublicPageSource is the slice of the page repository the storefront
// resolution path consumes.
type PublicPageSource interface {
	GetPublishedPageBySlug(storeID uint, slug string) (*models.Page, error)
	GetPublishedSystemPage(storeID uint, pageType models.PageType) (*models.Page, error)
	GetAllPublishedPages(storeID uint) ([]models.Page, error)
	GetNavigationPages(storeID uint) ([]models.NavigationPage, error)
}

// ResolverService finds the published page document for a requested path.
// Every lookup failure here degrades to "not found": the storefront renders
// what it can and omits the rest, it never surfaces a resolution error.
type ResolverService struct {
	pages    PublicPageSource
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewResolverService(pages PublicPageSource, cacheService *cache.Cache, cacheTTL time.Duration) *ResolverService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ResolverService{pages: pages, cache: cacheService, cacheTTL: cacheTTL}
}

// NormalizePath strips a single leading slash; "" and "/" both mean home.
func NormalizePath(requestedPath string) string {
	trimmed := strings.TrimSpace(requestedPath)
	trimmed = strings.TrimPrefix(trimmed, "/")
	return trimmed
}

// ResolvePage returns the published page for the requested path, or nil when
// nothing matches. A matching page with no sections is still returned:
// renderability is the caller's concern, not resolution's.
func (s *ResolverService) ResolvePage(storeID uint, requestedPath string) *models.Page {
	pagePath := NormalizePath(requestedPath)

	cacheKey := fmt.Sprintf("store:%d:page:%s", storeID, pagePath)
	if s.cache != nil {
		var cached models.Page
		if err := s.cache.Get(cacheKey, &cached); err == nil {
			return &cached
		}
	}

	var page *models.Page
	if pagePath == "" {
		page = s.resolveHome(storeID)
	} else {
		page = s.resolveByPath(storeID, pagePath)
	}

	if page != nil && s.cache != nil {
		if err := s.cache.Set(cacheKey, page, s.cacheTTL); err != nil {
			logger.Warn("Failed to cache resolved page", map[string]interface{}{
				"store_id": storeID,
				"path":     pagePath,
			})
		}
	}

	return page
}

// resolveHome implements the home fallback chain: exact "/" slug, then the
// conventional home slugs, then any page named like a home page, then the
// first published page as a last resort.
func (s *ResolverService) resolveHome(storeID uint) *models.Page {
	if page := s.lookupSlug(storeID, "/"); page != nil {
		return page
	}

	pages := s.allPublished(storeID)
	if len(pages) == 0 {
		return nil
	}

	for _, slug := range []string{"/", "/home", "home"} {
		for i := range pages {
			if pages[i].Slug == slug {
				return &pages[i]
			}
		}
	}

	for i := range pages {
		if strings.Contains(strings.ToLower(pages[i].Name), "home") {
			return &pages[i]
		}
	}

	return &pages[0]
}

func (s *ResolverService) resolveByPath(storeID uint, pagePath string) *models.Page {
	if page := s.lookupSlug(storeID, pagePath); page != nil {
		return page
	}

	pages := s.allPublished(storeID)
	if len(pages) == 0 {
		return nil
	}

	// The builder tolerates slugs stored with or without a leading slash,
	// and names are matched with hyphens read as spaces.
	nameForm := strings.ToLower(strings.ReplaceAll(pagePath, "-", " "))
	for i := range pages {
		p := &pages[i]
		if strings.ToLower(p.Name) == nameForm {
			return p
		}
		if p.Slug == pagePath || p.Slug == "/"+pagePath {
			return p
		}
		if strings.TrimPrefix(p.Slug, "/") == pagePath {
			return p
		}
	}

	return nil
}

// ResolveSystemPage looks up a store's header or footer page: by page type
// first, then by the conventional "/header" or "/footer" slug.
func (s *ResolverService) ResolveSystemPage(storeID uint, pageType models.PageType) *models.Page {
	page, err := s.pages.GetPublishedSystemPage(storeID, pageType)
	if err == nil {
		return page
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(err, "System page lookup failed", map[string]interface{}{
			"store_id":  storeID,
			"page_type": pageType,
		})
		return nil
	}

	return s.lookupSlug(storeID, "/"+string(pageType))
}

// NavigationPages returns the published pages placed in store menus.
func (s *ResolverService) NavigationPages(storeID uint) []models.NavigationPage {
	cacheKey := fmt.Sprintf("store:%d:navigation", storeID)
	if s.cache != nil {
		var cached []models.NavigationPage
		if err := s.cache.Get(cacheKey, &cached); err == nil {
			return cached
		}
	}

	pages, err := s.pages.GetNavigationPages(storeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(err, "Navigation lookup failed", map[string]interface{}{"store_id": storeID})
		}
		return nil
	}

	if s.cache != nil {
		_ = s.cache.Set(cacheKey, pages, s.cacheTTL)
	}
	return pages
}

func (s *ResolverService) lookupSlug(storeID uint, slug string) *models.Page {
	page, err := s.pages.GetPublishedPageBySlug(storeID, slug)
	if err == nil {
		return page
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(err, "Page slug lookup failed", map[string]interface{}{
			"store_id": storeID,
			"slug":     slug,
		})
	}
	return nil
}

func (s *ResolverService) allPublished(storeID uint) []models.Page {
	pages, err := s.pages.GetAllPublishedPages(storeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error(err, "Published pages lookup failed", map[string]interface{}{"store_id": storeID})
		}
		return nil
	}
	return pages
}
