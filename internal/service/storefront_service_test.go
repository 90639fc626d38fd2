package service

import (
	"errors"
	"strings"
	"testing"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/widgets"

	"gorm.io/gorm"
)

type memStoreRepo struct {
	stores map[uint]*models.Store
}

func (r *memStoreRepo) Create(store *models.Store) error {
	if r.stores == nil {
		r.stores = map[uint]*models.Store{}
	}
	stored := *store
	r.stores[store.ID] = &stored
	return nil
}

func (r *memStoreRepo) Update(store *models.Store) error {
	stored := *store
	r.stores[store.ID] = &stored
	return nil
}

func (r *memStoreRepo) Delete(id uint) error {
	delete(r.stores, id)
	return nil
}

func (r *memStoreRepo) GetByID(id uint) (*models.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *store
	return &copied, nil
}

func (r *memStoreRepo) GetBySlug(slug string) (*models.Store, error) {
	for _, s := range r.stores {
		if s.Slug == slug {
			copied := *s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memStoreRepo) GetActiveBySlug(slug string) (*models.Store, error) {
	store, err := r.GetBySlug(slug)
	if err != nil || !store.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (r *memStoreRepo) GetByOwner(ownerID uint) ([]models.Store, error) {
	var out []models.Store
	for _, s := range r.stores {
		if s.OwnerID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memStoreRepo) ExistsBySlug(slug string) (bool, error) {
	_, err := r.GetBySlug(slug)
	return err == nil, nil
}

type memProductRepo struct {
	products []models.Product
}

func (r *memProductRepo) Create(p *models.Product) error { return nil }
func (r *memProductRepo) Update(p *models.Product) error { return nil }
func (r *memProductRepo) Delete(id uint) error           { return nil }

func (r *memProductRepo) GetByID(id uint) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) GetBySlug(storeID uint, slug string) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *memProductRepo) GetAll(storeID uint) ([]models.Product, error) {
	return r.products, nil
}

func (r *memProductRepo) GetActive(storeID uint, filter repository.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range r.products {
		if p.StoreID != storeID || !p.Active {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *memProductRepo) ExistsBySlug(storeID uint, slug string, excludeID uint) (bool, error) {
	return false, nil
}

type memAnalyticsRepo struct {
	integrations []models.AnalyticsIntegration
}

func (r *memAnalyticsRepo) GetByStore(storeID uint) ([]models.AnalyticsIntegration, error) {
	return r.integrations, nil
}

func (r *memAnalyticsRepo) GetEnabledByStore(storeID uint) ([]models.AnalyticsIntegration, error) {
	var out []models.AnalyticsIntegration
	for _, i := range r.integrations {
		if i.StoreID == storeID && i.Enabled {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memAnalyticsRepo) Upsert(integration *models.AnalyticsIntegration) error { return nil }

func (r *memAnalyticsRepo) Delete(storeID uint, provider models.AnalyticsProvider) error {
	return nil
}

func storefrontFixture(pages []models.Page, products []models.Product, integrations []models.AnalyticsIntegration) *StorefrontService {
	stores := &memStoreRepo{}
	stores.Create(&models.Store{ID: 1, Name: "Demo", Slug: "demo", Currency: "EUR", Active: true, OwnerID: 1})
	stores.Create(&models.Store{ID: 2, Name: "Closed", Slug: "closed", Active: false, OwnerID: 1})

	resolver := NewResolverService(&fakePageSource{pages: pages}, nil, 0)
	analytics := NewAnalyticsService(&memAnalyticsRepo{integrations: integrations})

	return NewStorefrontService(
		stores,
		&memProductRepo{products: products},
		analytics,
		resolver,
		widgets.DefaultRegistry(),
		nil,
		0,
	)
}

func TestCompose_StoreIsHardPrerequisite(t *testing.T) {
	svc := storefrontFixture(nil, nil, nil)

	if _, err := svc.Compose("missing", "/", nil); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound for unknown store, got %v", err)
	}
	if _, err := svc.Compose("closed", "/", nil); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("inactive store must look missing, got %v", err)
	}
}

func TestCompose_FullView(t *testing.T) {
	home := publishedPage(1, "Home", "/")
	home.Sections[0].Rows[0].Widgets = []models.Widget{
		{ID: "w1", Type: widgets.TypeText, Version: 0, Props: models.JSONMap{"content": "hello"}},
		{ID: "grid", Type: widgets.TypeProductGrid, Version: 0, Props: models.JSONMap{"limit": float64(2)}},
	}
	home.NavigationPlacement = models.PlacementHeader
	home.ThemeOverrides = models.ThemeOverrides{
		ColorPalette: &models.PaletteOverride{
			PaletteID:    "ocean",
			CustomColors: map[string]string{"primary": "#123456"},
		},
	}

	header := publishedPage(2, "Header", "header")
	header.PageType = models.PageTypeHeader

	products := []models.Product{
		{ID: 1, StoreID: 1, Name: "Mug", Slug: "mug", Active: true},
		{ID: 2, StoreID: 1, Name: "Shirt", Slug: "shirt", Active: true},
		{ID: 3, StoreID: 1, Name: "Hat", Slug: "hat", Active: true},
	}
	integrations := []models.AnalyticsIntegration{
		{StoreID: 1, Provider: models.AnalyticsGoogle, TrackingID: "G-TEST", Enabled: true},
		{StoreID: 1, Provider: models.AnalyticsMeta, TrackingID: "123", Enabled: false},
	}

	svc := storefrontFixture([]models.Page{home, header}, products, integrations)

	view, err := svc.Compose("demo", "/", nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	if !view.PageFound || view.Page == nil {
		t.Fatalf("expected resolved home page: %+v", view)
	}
	if view.Header == nil {
		t.Fatalf("expected rendered header")
	}
	if view.Footer != nil {
		t.Fatalf("no footer exists, slot must stay empty")
	}
	if len(view.Navigation) != 1 || view.Navigation[0].ID != home.ID {
		t.Fatalf("unexpected navigation: %v", view.Navigation)
	}

	if view.StyleVariables["--color-primary"] != "#123456" {
		t.Fatalf("custom color must shadow the palette: %v", view.StyleVariables)
	}
	if view.StyleVariables["--color-secondary"] == "" {
		t.Fatalf("base palette slots must survive the merge")
	}

	var grid *widgets.RenderedWidget
	for i := range view.Page.Sections[0].Rows[0].Widgets {
		w := &view.Page.Sections[0].Rows[0].Widgets[i]
		if w.Type == widgets.TypeProductGrid {
			grid = w
		}
	}
	if grid == nil {
		t.Fatalf("product grid missing from rendered page")
	}
	hydrated, ok := grid.Props["products"].([]models.Product)
	if !ok || len(hydrated) != 2 {
		t.Fatalf("expected 2 hydrated products, got %v", grid.Props["products"])
	}
	if grid.Props["currency"] != "EUR" {
		t.Fatalf("grid must carry the store currency")
	}

	if len(view.Analytics) != 1 || view.Analytics[0].Provider != models.AnalyticsGoogle {
		t.Fatalf("only enabled integrations emit snippets: %v", view.Analytics)
	}
	if !strings.Contains(view.Analytics[0].HTML, "G-TEST") {
		t.Fatalf("snippet missing tracking id")
	}
}

func TestCompose_MissingPageDegradesSoft(t *testing.T) {
	header := publishedPage(2, "Header", "header")
	header.PageType = models.PageTypeHeader

	svc := storefrontFixture([]models.Page{header}, nil, nil)

	view, err := svc.Compose("demo", "/no-such-page", nil)
	if err != nil {
		t.Fatalf("a missing page is not an error: %v", err)
	}
	if view.PageFound || view.Page != nil {
		t.Fatalf("expected no page in view: %+v", view)
	}
	if view.Header == nil {
		t.Fatalf("header must still render around the missing page")
	}
}

func TestCompose_ResolvedButEmptyPage(t *testing.T) {
	empty := publishedPage(1, "Empty", "empty")
	empty.Sections = nil

	svc := storefrontFixture([]models.Page{empty}, nil, nil)

	view, err := svc.Compose("demo", "empty", nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !view.PageFound {
		t.Fatalf("sectionless published page must still resolve")
	}
	if view.Page != nil {
		t.Fatalf("sectionless page must not render")
	}
}

func TestCompose_HeaderAndFooterResolveIndependently(t *testing.T) {
	home := publishedPage(1, "Home", "/")

	header := publishedPage(2, "Header", "header")
	header.PageType = models.PageTypeHeader
	footer := publishedPage(3, "Footer", "footer")
	footer.PageType = models.PageTypeFooter

	svc := storefrontFixture([]models.Page{home, header, footer}, nil, nil)

	view, err := svc.Compose("demo", "/", nil)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if view.Header == nil || view.Header.ID != header.ID {
		t.Fatalf("expected rendered header, got %+v", view.Header)
	}
	if view.Footer == nil || view.Footer.ID != footer.ID {
		t.Fatalf("expected rendered footer, got %+v", view.Footer)
	}
}
