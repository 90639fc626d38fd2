package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/widgets"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
	"storefront-backend/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageService owns the builder document lifecycle: authoring, publication,
// scheduling and history. Every save replaces the section tree wholesale and
// records a snapshot of the previous revision.
type PageService struct {
	pages     repository.PageRepository
	snapshots repository.SnapshotRepository
	registry  *widgets.Registry
	cache     *cache.Cache
}

func NewPageService(pages repository.PageRepository, snapshots repository.SnapshotRepository, registry *widgets.Registry, cacheService *cache.Cache) *PageService {
	return &PageService{pages: pages, snapshots: snapshots, registry: registry, cache: cacheService}
}

func (s *PageService) Create(storeID uint, req *models.CreatePageRequest) (*models.Page, error) {
	if err := s.validateWidgetTypes(req.Sections); err != nil {
		return nil, err
	}
	s.sanitizeSections(req.Sections)

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	status := req.Status
	if status == "" {
		status = models.PageStatusDraft
	}

	placement := req.NavigationPlacement
	if placement == "" {
		placement = models.PlacementNone
	}

	page := &models.Page{
		StoreID:             storeID,
		Name:                req.Name,
		Slug:                slug,
		Version:             1,
		Sections:            ensureNodeIDs(req.Sections),
		Status:              status,
		ScheduledFor:        req.ScheduledFor,
		NavigationPlacement: placement,
		PageType:            req.PageType,
	}
	if req.ThemeOverrides != nil {
		page.ThemeOverrides = *req.ThemeOverrides
	}
	if req.SEO != nil {
		page.SEO = *req.SEO
	}

	if status == models.PageStatusPublished {
		if err := s.checkPublishable(page); err != nil {
			return nil, err
		}
		now := time.Now()
		page.PublishedAt = &now
	}
	if status == models.PageStatusScheduled && page.ScheduledFor == nil {
		return nil, fmt.Errorf("scheduled page requires scheduled_for")
	}

	if err := s.pages.Create(page); err != nil {
		return nil, err
	}

	s.invalidate(storeID)
	return page, nil
}

func (s *PageService) Update(storeID, pageID uint, req *models.UpdatePageRequest) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if req.Sections != nil {
		if err := s.validateWidgetTypes(*req.Sections); err != nil {
			return nil, err
		}
		s.sanitizeSections(*req.Sections)
	}

	s.snapshot(page)

	if req.Name != nil {
		page.Name = *req.Name
	}
	if req.Slug != nil {
		page.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.Sections != nil {
		page.Sections = ensureNodeIDs(*req.Sections)
		page.Version++
	}
	if req.ScheduledFor != nil {
		page.ScheduledFor = req.ScheduledFor
	}
	if req.NavigationPlacement != nil {
		page.NavigationPlacement = *req.NavigationPlacement
	}
	if req.ThemeOverrides != nil {
		page.ThemeOverrides = *req.ThemeOverrides
	}
	if req.SEO != nil {
		page.SEO = *req.SEO
	}
	if req.Status != nil && *req.Status != page.Status {
		if err := s.transition(page, *req.Status); err != nil {
			return nil, err
		}
	}

	if page.Status == models.PageStatusPublished {
		if err := s.checkPublishable(page); err != nil {
			return nil, err
		}
	}

	if err := s.pages.Update(page); err != nil {
		return nil, err
	}

	s.invalidate(storeID)
	return page, nil
}

func (s *PageService) Delete(storeID, pageID uint) error {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return err
	}
	if err := s.pages.Delete(page.ID); err != nil {
		return err
	}
	s.invalidate(storeID)
	return nil
}

func (s *PageService) GetByID(storeID, pageID uint) (*models.Page, error) {
	return s.get(storeID, pageID)
}

func (s *PageService) GetAll(storeID uint) ([]models.Page, error) {
	return s.pages.GetAllAdmin(storeID)
}

// Publish moves a page to published, stamping published_at and enforcing the
// published-slug and single-system-page constraints.
func (s *PageService) Publish(storeID, pageID uint) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(page, models.PageStatusPublished); err != nil {
		return nil, err
	}
	if err := s.pages.Update(page); err != nil {
		return nil, err
	}
	s.invalidate(storeID)
	return page, nil
}

func (s *PageService) Unpublish(storeID, pageID uint) (*models.Page, error) {
	return s.setStatus(storeID, pageID, models.PageStatusDraft)
}

func (s *PageService) Archive(storeID, pageID uint) (*models.Page, error) {
	return s.setStatus(storeID, pageID, models.PageStatusArchived)
}

// Schedule queues the page for automatic publication at the given time.
func (s *PageService) Schedule(storeID, pageID uint, publishAt time.Time) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}
	page.Status = models.PageStatusScheduled
	page.ScheduledFor = &publishAt
	if err := s.pages.Update(page); err != nil {
		return nil, err
	}
	s.invalidate(storeID)
	return page, nil
}

// PublishDuePages publishes every scheduled page whose time has come. Called
// by the background scheduler; a single failing page does not stop the sweep.
func (s *PageService) PublishDuePages(now time.Time) int {
	due, err := s.pages.GetDueScheduledPages(now)
	if err != nil {
		logger.Error(err, "Failed to load scheduled pages", nil)
		return 0
	}

	published := 0
	for i := range due {
		page := &due[i]
		if err := s.transition(page, models.PageStatusPublished); err != nil {
			logger.Warn("Skipping scheduled page that cannot publish", map[string]interface{}{
				"page_id": page.ID,
				"reason":  err.Error(),
			})
			continue
		}
		page.ScheduledFor = nil
		if err := s.pages.Update(page); err != nil {
			logger.Error(err, "Failed to publish scheduled page", map[string]interface{}{"page_id": page.ID})
			continue
		}
		s.invalidate(page.StoreID)
		published++
	}
	return published
}

// Duplicate copies a page as a draft with fresh node ids and a derived slug.
func (s *PageService) Duplicate(storeID, pageID uint) (*models.Page, error) {
	source, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}

	dup := &models.Page{
		StoreID:             storeID,
		Name:                source.Name + " (copy)",
		Slug:                utils.CopySlug(source.Slug),
		Version:             1,
		Sections:            regenerateNodeIDs(source.Sections),
		Status:              models.PageStatusDraft,
		NavigationPlacement: models.PlacementNone,
		PageType:            models.PageTypeStandard,
		ThemeOverrides:      source.ThemeOverrides,
		SEO:                 source.SEO,
	}

	if err := s.pages.Create(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *PageService) Snapshots(storeID, pageID uint) ([]models.PageSnapshot, error) {
	if _, err := s.get(storeID, pageID); err != nil {
		return nil, err
	}
	return s.snapshots.GetByPage(pageID)
}

// RestoreSnapshot replaces the current section tree with a historic revision.
// The pre-restore state is snapshotted first so the restore itself is undoable.
func (s *PageService) RestoreSnapshot(storeID, pageID, snapshotID uint) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshots.GetByID(snapshotID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if snap.PageID != page.ID {
		return nil, ErrPageNotFound
	}

	s.snapshot(page)

	page.Sections = snap.Sections
	page.Version++
	if err := s.pages.Update(page); err != nil {
		return nil, err
	}

	s.invalidate(storeID)
	return page, nil
}

func (s *PageService) setStatus(storeID, pageID uint, status models.PageStatus) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}
	page.Status = status
	if err := s.pages.Update(page); err != nil {
		return nil, err
	}
	s.invalidate(storeID)
	return page, nil
}

func (s *PageService) get(storeID, pageID uint) (*models.Page, error) {
	page, err := s.pages.GetByID(pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if page.StoreID != storeID {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// getForEdit loads a page and snapshots its current revision before the
// caller mutates the tree.
func (s *PageService) getForEdit(storeID, pageID uint) (*models.Page, error) {
	page, err := s.get(storeID, pageID)
	if err != nil {
		return nil, err
	}
	s.snapshot(page)
	return page, nil
}

func (s *PageService) transition(page *models.Page, status models.PageStatus) error {
	if status == models.PageStatusPublished {
		if err := s.checkPublishable(page); err != nil {
			return err
		}
		now := time.Now()
		page.PublishedAt = &now
	}
	page.Status = status
	return nil
}

// checkPublishable enforces the constraints that only bind published pages:
// a unique published slug per store and at most one header and one footer.
func (s *PageService) checkPublishable(page *models.Page) error {
	if page.PageType == models.PageTypeStandard && page.Slug != "" {
		taken, err := s.pages.ExistsPublishedSlug(page.StoreID, page.Slug, page.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
	}

	if page.IsSystemPage() {
		count, err := s.pages.CountPublishedSystemPages(page.StoreID, page.PageType, page.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSystemPageExists
		}
	}
	return nil
}

// validateWidgetTypes rejects saves that reference unregistered widget types.
// Rendering tolerates unknown types, authoring does not.
func (s *PageService) validateWidgetTypes(sections []models.Section) error {
	for _, section := range sections {
		for _, row := range section.Rows {
			for _, widget := range row.Widgets {
				if _, ok := s.registry.Get(widget.Type); !ok {
					return fmt.Errorf("%w: %q", ErrUnknownWidgetType, widget.Type)
				}
			}
		}
	}
	return nil
}

// sanitizeSections strips hostile markup from user-supplied string props
// before they are persisted. Props declared richtext in the widget schema
// keep safe formatting; every other string prop loses markup entirely.
func (s *PageService) sanitizeSections(sections []models.Section) {
	for si := range sections {
		for ri := range sections[si].Rows {
			row := &sections[si].Rows[ri]
			for wi := range row.Widgets {
				s.sanitizeWidgetProps(&row.Widgets[wi])
			}
		}
	}
}

func (s *PageService) sanitizeWidgetProps(w *models.Widget) {
	cfg, ok := s.registry.Get(w.Type)
	if !ok {
		return
	}
	for key, value := range w.Props {
		str, isString := value.(string)
		if !isString {
			continue
		}
		if propSchemaType(cfg.Schema, key) == "richtext" {
			w.Props[key] = validator.SanitizeHTML(str)
		} else {
			w.Props[key] = validator.SanitizeString(str)
		}
	}
}

func propSchemaType(schema models.JSONMap, key string) string {
	entry, ok := schema[key].(map[string]interface{})
	if !ok {
		return ""
	}
	t, _ := entry["type"].(string)
	return t
}

func (s *PageService) snapshot(page *models.Page) {
	snap := &models.PageSnapshot{
		PageID:   page.ID,
		Version:  page.Version,
		Name:     page.Name,
		Sections: page.Sections,
		Status:   page.Status,
	}
	if err := s.snapshots.Create(snap); err != nil {
		logger.Warn("Failed to record page snapshot", map[string]interface{}{"page_id": page.ID})
		return
	}
	if err := s.snapshots.PruneOld(page.ID); err != nil {
		logger.Warn("Failed to prune page snapshots", map[string]interface{}{"page_id": page.ID})
	}
}

func (s *PageService) invalidate(storeID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(formatStoreCachePattern(storeID)); err != nil {
		logger.Warn("Failed to invalidate store cache", map[string]interface{}{"store_id": storeID})
	}
}

// ensureNodeIDs fills in missing section, row and widget ids so the builder
// can address nodes on later edits.
func ensureNodeIDs(sections []models.Section) models.PageSections {
	out := make(models.PageSections, len(sections))
	for i, section := range sections {
		if section.ID == "" {
			section.ID = uuid.NewString()
		}
		for j, row := range section.Rows {
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			for k, widget := range row.Widgets {
				if widget.ID == "" {
					widget.ID = uuid.NewString()
				}
				row.Widgets[k] = widget
			}
			section.Rows[j] = row
		}
		out[i] = section
	}
	return out
}

// regenerateNodeIDs gives every node a fresh id, used when duplicating.
func regenerateNodeIDs(sections models.PageSections) models.PageSections {
	out := make(models.PageSections, len(sections))
	for i, section := range sections {
		section.ID = uuid.NewString()
		rows := make([]models.Row, len(section.Rows))
		for j, row := range section.Rows {
			row.ID = uuid.NewString()
			copied := make([]models.Widget, len(row.Widgets))
			for k, widget := range row.Widgets {
				widget.ID = uuid.NewString()
				copied[k] = widget
			}
			row.Widgets = copied
			rows[j] = row
		}
		section.Rows = rows
		out[i] = section
	}
	return out
}
