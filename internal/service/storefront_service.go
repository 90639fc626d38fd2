package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/palette"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/widgets"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// StorefrontView is the complete payload for one storefront request: the
// resolved page plus every shared surface around it. Only the store itself is
// a hard prerequisite; each other slot degrades to empty on failure.
type StorefrontView struct {
	Store          *models.PublicStoreInfo `json:"store"`
	Page           *widgets.RenderedPage   `json:"page,omitempty"`
	PageFound      bool                    `json:"page_found"`
	Header         *widgets.RenderedPage   `json:"header,omitempty"`
	Footer         *widgets.RenderedPage   `json:"footer,omitempty"`
	Navigation     []models.NavigationPage `json:"navigation"`
	StyleVariables map[string]string       `json:"style_variables,omitempty"`
	Analytics      []AnalyticsSnippet      `json:"analytics,omitempty"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

type StorefrontService struct {
	stores    repository.StoreRepository
	products  repository.ProductRepository
	analytics *AnalyticsService
	resolver  *ResolverService
	registry  *widgets.Registry
	cache     *cache.Cache
	cacheTTL  time.Duration

	// flight collapses concurrent compositions of the same store+path into a
	// single cache fill.
	flight singleflight.Group
}

func NewStorefrontService(
	stores repository.StoreRepository,
	products repository.ProductRepository,
	analytics *AnalyticsService,
	resolver *ResolverService,
	registry *widgets.Registry,
	cacheService *cache.Cache,
	cacheTTL time.Duration,
) *StorefrontService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &StorefrontService{
		stores:    stores,
		products:  products,
		analytics: analytics,
		resolver:  resolver,
		registry:  registry,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
	}
}

// GetStore resolves the store by slug. Inactive and unknown stores are both
// ErrStoreNotFound: the storefront never reveals which.
func (s *StorefrontService) GetStore(storeSlug string) (*models.Store, error) {
	store, err := s.stores.GetActiveBySlug(storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// Compose assembles the full storefront view for a request path.
func (s *StorefrontService) Compose(storeSlug, requestedPath string, renderCtx map[string]interface{}) (*StorefrontView, error) {
	store, err := s.GetStore(storeSlug)
	if err != nil {
		return nil, err
	}

	// Render contexts vary per visitor, so only context-free compositions go
	// through the latch and cache.
	if len(renderCtx) == 0 {
		key := fmt.Sprintf("store:%d:view:%s", store.ID, NormalizePath(requestedPath))
		view, err, _ := s.flight.Do(key, func() (interface{}, error) {
			if s.cache != nil {
				var cached StorefrontView
				if err := s.cache.Get(key, &cached); err == nil {
					return &cached, nil
				}
			}
			view := s.compose(store, requestedPath, nil)
			if s.cache != nil && view.PageFound {
				if err := s.cache.Set(key, view, s.cacheTTL); err != nil {
					logger.Warn("Failed to cache storefront view", map[string]interface{}{"store_id": store.ID})
				}
			}
			return view, nil
		})
		if err != nil {
			return nil, err
		}
		return view.(*StorefrontView), nil
	}

	return s.compose(store, requestedPath, renderCtx), nil
}

func (s *StorefrontService) compose(store *models.Store, requestedPath string, renderCtx map[string]interface{}) *StorefrontView {
	view := &StorefrontView{
		Store:       store.Public(),
		GeneratedAt: time.Now(),
	}

	var (
		page, header, footer *models.Page
		navigation           []models.NavigationPage
		snippets             []AnalyticsSnippet
	)

	// The lookups are independent; run them concurrently. Each slot fails
	// soft on its own.
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		page = s.resolver.ResolvePage(store.ID, requestedPath)
	}()
	go func() {
		defer wg.Done()
		header = s.resolver.ResolveSystemPage(store.ID, models.PageTypeHeader)
	}()
	go func() {
		defer wg.Done()
		footer = s.resolver.ResolveSystemPage(store.ID, models.PageTypeFooter)
	}()
	go func() {
		defer wg.Done()
		navigation = s.resolver.NavigationPages(store.ID)
	}()
	go func() {
		defer wg.Done()
		var err error
		snippets, err = s.analytics.Snippets(store.ID)
		if err != nil {
			logger.Warn("Failed to load analytics snippets", map[string]interface{}{"store_id": store.ID})
		}
	}()
	wg.Wait()

	view.Navigation = navigation
	view.Analytics = snippets

	if page != nil {
		view.PageFound = true
		if page.Renderable() {
			view.Page = s.renderPage(store, page, renderCtx)
		}
		view.StyleVariables = effectiveStyleVariables(page)
	}
	if header.Renderable() {
		view.Header = s.renderPage(store, header, renderCtx)
	}
	if footer.Renderable() {
		view.Footer = s.renderPage(store, footer, renderCtx)
	}

	return view
}

func (s *StorefrontService) renderPage(store *models.Store, page *models.Page, renderCtx map[string]interface{}) *widgets.RenderedPage {
	rendered := widgets.RenderPage(page, s.registry, renderCtx)
	s.hydrateProductGrids(store, rendered)
	return rendered
}

// hydrateProductGrids replaces each product grid widget's query props with the
// matching product rows. A catalog failure leaves the grid empty.
func (s *StorefrontService) hydrateProductGrids(store *models.Store, page *widgets.RenderedPage) {
	for si := range page.Sections {
		for ri := range page.Sections[si].Rows {
			row := &page.Sections[si].Rows[ri]
			for wi := range row.Widgets {
				w := &row.Widgets[wi]
				if w.Type != widgets.TypeProductGrid {
					continue
				}

				filter := productFilterFromProps(w.Props)
				products, err := s.products.GetActive(store.ID, filter)
				if err != nil {
					logger.Warn("Failed to hydrate product grid", map[string]interface{}{
						"store_id":  store.ID,
						"widget_id": w.ID,
					})
					products = nil
				}
				if w.Props == nil {
					w.Props = models.JSONMap{}
				}
				w.Props["products"] = products
				w.Props["currency"] = store.Currency
			}
		}
	}
}

func productFilterFromProps(props models.JSONMap) repository.ProductFilter {
	filter := repository.ProductFilter{Limit: 12}
	if props == nil {
		return filter
	}
	if category, ok := props["category"].(string); ok {
		filter.Category = category
	}
	if featured, ok := props["featured_only"].(bool); ok {
		filter.FeaturedOnly = featured
	}
	if limit, ok := props["limit"].(float64); ok && limit > 0 {
		filter.Limit = int(limit)
	}
	return filter
}

// effectiveStyleVariables resolves the page's palette override into CSS
// custom properties.
func effectiveStyleVariables(page *models.Page) map[string]string {
	override := page.ThemeOverrides.ColorPalette
	if override == nil {
		return nil
	}
	set := palette.ResolveEffectivePalette(override.PaletteID, override.CustomColors, override.ApplyOptions)
	if len(set) == 0 {
		return nil
	}
	return palette.StyleVariables(set)
}
