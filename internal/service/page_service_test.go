package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"storefront-backend/internal/models"
	"storefront-backend/internal/widgets"

	"gorm.io/gorm"
)

type memPageRepo struct {
	nextID uint
	pages  map[uint]*models.Page
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{nextID: 1, pages: map[uint]*models.Page{}}
}

func (r *memPageRepo) Create(page *models.Page) error {
	page.ID = r.nextID
	r.nextID++
	stored := *page
	r.pages[page.ID] = &stored
	return nil
}

func (r *memPageRepo) Update(page *models.Page) error {
	if _, ok := r.pages[page.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *page
	r.pages[page.ID] = &stored
	return nil
}

func (r *memPageRepo) Delete(id uint) error {
	delete(r.pages, id)
	return nil
}

func (r *memPageRepo) GetByID(id uint) (*models.Page, error) {
	page, ok := r.pages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *page
	return &copied, nil
}

func (r *memPageRepo) GetAllAdmin(storeID uint) ([]models.Page, error) {
	var out []models.Page
	for _, p := range r.pages {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPageRepo) GetPublishedPageBySlug(storeID uint, slug string) (*models.Page, error) {
	for _, p := range r.pages {
		if p.StoreID == storeID && p.Slug == slug && p.Status == models.PageStatusPublished {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPageRepo) GetPublishedSystemPage(storeID uint, pageType models.PageType) (*models.Page, error) {
	for _, p := range r.pages {
		if p.StoreID == storeID && p.PageType == pageType && p.Status == models.PageStatusPublished {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memPageRepo) GetAllPublishedPages(storeID uint) ([]models.Page, error) {
	var out []models.Page
	for _, p := range r.pages {
		if p.StoreID == storeID && p.Status == models.PageStatusPublished && p.PageType == models.PageTypeStandard {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPageRepo) GetNavigationPages(storeID uint) ([]models.NavigationPage, error) {
	return nil, nil
}

func (r *memPageRepo) GetDueScheduledPages(now time.Time) ([]models.Page, error) {
	var out []models.Page
	for _, p := range r.pages {
		if p.Status == models.PageStatusScheduled && p.ScheduledFor != nil && !p.ScheduledFor.After(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPageRepo) ExistsPublishedSlug(storeID uint, slug string, excludeID uint) (bool, error) {
	for _, p := range r.pages {
		if p.ID == excludeID {
			continue
		}
		if p.StoreID == storeID && p.Slug == slug && p.Status == models.PageStatusPublished && p.PageType == models.PageTypeStandard {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPageRepo) CountPublishedSystemPages(storeID uint, pageType models.PageType, excludeID uint) (int64, error) {
	var count int64
	for _, p := range r.pages {
		if p.ID == excludeID {
			continue
		}
		if p.StoreID == storeID && p.PageType == pageType && p.Status == models.PageStatusPublished {
			count++
		}
	}
	return count, nil
}

type memSnapshotRepo struct {
	nextID    uint
	snapshots []models.PageSnapshot
}

func (r *memSnapshotRepo) Create(snap *models.PageSnapshot) error {
	r.nextID++
	snap.ID = r.nextID
	r.snapshots = append(r.snapshots, *snap)
	return nil
}

func (r *memSnapshotRepo) GetByPage(pageID uint) ([]models.PageSnapshot, error) {
	var out []models.PageSnapshot
	for _, s := range r.snapshots {
		if s.PageID == pageID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSnapshotRepo) GetByID(id uint) (*models.PageSnapshot, error) {
	for _, s := range r.snapshots {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSnapshotRepo) PruneOld(pageID uint) error { return nil }

func newTestPageService() (*PageService, *memPageRepo, *memSnapshotRepo) {
	pages := newMemPageRepo()
	snaps := &memSnapshotRepo{}
	return NewPageService(pages, snaps, widgets.DefaultRegistry(), nil), pages, snaps
}

func textSections() []models.Section {
	return []models.Section{{
		Rows: []models.Row{{
			Widgets: []models.Widget{{Type: widgets.TypeText, Props: models.JSONMap{"content": "hi"}}},
		}},
	}}
}

func TestPageService_CreateDefaultsAndNodeIDs(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.Create(1, &models.CreatePageRequest{Name: "About Us", Sections: textSections()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if page.Slug != "about-us" {
		t.Fatalf("expected generated slug about-us, got %q", page.Slug)
	}
	if page.Status != models.PageStatusDraft {
		t.Fatalf("expected draft default, got %q", page.Status)
	}
	if page.Version != 1 {
		t.Fatalf("expected version 1, got %d", page.Version)
	}

	section := page.Sections[0]
	if section.ID == "" || section.Rows[0].ID == "" || section.Rows[0].Widgets[0].ID == "" {
		t.Fatalf("node ids must be assigned: %+v", section)
	}
}

func TestPageService_CreateRejectsUnknownWidgetType(t *testing.T) {
	svc, _, _ := newTestPageService()

	sections := []models.Section{{
		Rows: []models.Row{{Widgets: []models.Widget{{Type: "carousel-3000"}}}},
	}}
	_, err := svc.Create(1, &models.CreatePageRequest{Name: "Bad", Sections: sections})
	if !errors.Is(err, ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
}

func TestPageService_PublishEnforcesSlugUniqueness(t *testing.T) {
	svc, _, _ := newTestPageService()

	first, err := svc.Create(1, &models.CreatePageRequest{Name: "About", Slug: "about", Status: models.PageStatusPublished})
	if err != nil {
		t.Fatalf("create published: %v", err)
	}
	if first.PublishedAt == nil {
		t.Fatalf("published_at must be stamped")
	}

	second, err := svc.Create(1, &models.CreatePageRequest{Name: "About Two", Slug: "about"})
	if err != nil {
		t.Fatalf("draft with duplicate slug must be allowed: %v", err)
	}

	if _, err := svc.Publish(1, second.ID); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPageService_SingleSystemPagePerType(t *testing.T) {
	svc, _, _ := newTestPageService()

	_, err := svc.Create(1, &models.CreatePageRequest{
		Name: "Header", PageType: models.PageTypeHeader, Status: models.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("first header: %v", err)
	}

	_, err = svc.Create(1, &models.CreatePageRequest{
		Name: "Header B", PageType: models.PageTypeHeader, Status: models.PageStatusPublished,
	})
	if !errors.Is(err, ErrSystemPageExists) {
		t.Fatalf("expected ErrSystemPageExists, got %v", err)
	}

	// A second store is unaffected.
	if _, err := svc.Create(2, &models.CreatePageRequest{
		Name: "Header", PageType: models.PageTypeHeader, Status: models.PageStatusPublished,
	}); err != nil {
		t.Fatalf("other store header: %v", err)
	}
}

func TestPageService_UpdateSectionsBumpsVersionAndSnapshots(t *testing.T) {
	svc, _, snaps := newTestPageService()

	page, err := svc.Create(1, &models.CreatePageRequest{Name: "Landing", Sections: textSections()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated := textSections()
	got, err := svc.Update(1, page.ID, &models.UpdatePageRequest{Sections: &updated})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", got.Version)
	}

	history, _ := snaps.GetByPage(page.ID)
	if len(history) != 1 {
		t.Fatalf("expected one snapshot of the prior revision, got %d", len(history))
	}
	if history[0].Version != 1 {
		t.Fatalf("snapshot must capture the pre-edit version, got %d", history[0].Version)
	}
}

func TestPageService_WrongStoreLooksMissing(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, _ := svc.Create(1, &models.CreatePageRequest{Name: "Mine"})
	if _, err := svc.GetByID(2, page.ID); !errors.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound across stores, got %v", err)
	}
}

func TestPageService_PublishDuePages(t *testing.T) {
	svc, repo, _ := newTestPageService()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	due, _ := svc.Create(1, &models.CreatePageRequest{
		Name: "Launch", Status: models.PageStatusScheduled, ScheduledFor: &past,
	})
	notYet, _ := svc.Create(1, &models.CreatePageRequest{
		Name: "Later", Status: models.PageStatusScheduled, ScheduledFor: &future,
	})

	if n := svc.PublishDuePages(time.Now()); n != 1 {
		t.Fatalf("expected 1 published, got %d", n)
	}

	gotDue, _ := repo.GetByID(due.ID)
	if gotDue.Status != models.PageStatusPublished || gotDue.PublishedAt == nil {
		t.Fatalf("due page not published: %+v", gotDue)
	}
	if gotDue.ScheduledFor != nil {
		t.Fatalf("scheduled_for must be cleared after publication")
	}

	gotLater, _ := repo.GetByID(notYet.ID)
	if gotLater.Status != models.PageStatusScheduled {
		t.Fatalf("future page must stay scheduled: %+v", gotLater)
	}
}

func TestPageService_DuplicateResetsIdentity(t *testing.T) {
	svc, _, _ := newTestPageService()

	source, err := svc.Create(1, &models.CreatePageRequest{
		Name: "Landing", Slug: "landing", Sections: textSections(), Status: models.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dup, err := svc.Duplicate(1, source.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	if dup.ID == source.ID {
		t.Fatalf("duplicate must be a new page")
	}
	if dup.Status != models.PageStatusDraft {
		t.Fatalf("duplicate must start as draft, got %q", dup.Status)
	}
	if dup.Slug == source.Slug {
		t.Fatalf("duplicate must not reuse the slug")
	}
	if dup.Sections[0].ID == source.Sections[0].ID {
		t.Fatalf("duplicate must regenerate node ids")
	}
	if dup.Sections[0].Rows[0].Widgets[0].ID == source.Sections[0].Rows[0].Widgets[0].ID {
		t.Fatalf("duplicate must regenerate widget ids")
	}
}

func TestPageService_RestoreSnapshot(t *testing.T) {
	svc, _, snaps := newTestPageService()

	page, err := svc.Create(1, &models.CreatePageRequest{Name: "Landing", Sections: textSections()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	original := page.Sections

	replacement := []models.Section{{Rows: []models.Row{{Widgets: []models.Widget{{Type: widgets.TypeDivider}}}}}}
	if _, err := svc.Update(1, page.ID, &models.UpdatePageRequest{Sections: &replacement}); err != nil {
		t.Fatalf("update: %v", err)
	}

	history, _ := snaps.GetByPage(page.ID)
	restored, err := svc.RestoreSnapshot(1, page.ID, history[0].ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Sections[0].Rows[0].Widgets[0].Type != widgets.TypeText {
		t.Fatalf("restored tree does not match the snapshot")
	}
	if restored.Sections[0].ID != original[0].ID {
		t.Fatalf("restore must bring back the recorded node ids")
	}
}

func TestPageService_BuilderOps(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.Create(1, &models.CreatePageRequest{Name: "Builder"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err = svc.AddSection(1, page.ID, &models.AddSectionRequest{Title: "Hero"})
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if len(page.Sections) != 1 || page.Sections[0].Title != "Hero" {
		t.Fatalf("section not added: %+v", page.Sections)
	}
	sectionID := page.Sections[0].ID

	page, err = svc.AddWidget(1, page.ID, &models.AddWidgetRequest{SectionID: sectionID, Type: "TEXT"})
	if err != nil {
		t.Fatalf("add widget: %v", err)
	}
	widget := page.Sections[0].Rows[0].Widgets[0]
	if widget.Type != widgets.TypeText {
		t.Fatalf("widget type must be normalized, got %q", widget.Type)
	}
	if len(widget.Props) == 0 {
		t.Fatalf("omitted props must fall back to registered defaults")
	}

	if _, err := svc.AddWidget(1, page.ID, &models.AddWidgetRequest{SectionID: sectionID, Type: "nope"}); !errors.Is(err, ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}

	page, err = svc.AddSection(1, page.ID, &models.AddSectionRequest{Title: "Second"})
	if err != nil {
		t.Fatalf("add second section: %v", err)
	}
	secondID := page.Sections[1].ID

	page, err = svc.ReorderSections(1, page.ID, []string{secondID, sectionID})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if page.Sections[0].ID != secondID {
		t.Fatalf("reorder not applied")
	}

	if _, err := svc.ReorderSections(1, page.ID, []string{secondID}); err == nil {
		t.Fatalf("partial reorder must be rejected")
	}

	page, err = svc.RemoveWidget(1, page.ID, widget.ID)
	if err != nil {
		t.Fatalf("remove widget: %v", err)
	}
	for _, section := range page.Sections {
		for _, row := range section.Rows {
			for _, w := range row.Widgets {
				if w.ID == widget.ID {
					t.Fatalf("widget still present after removal")
				}
			}
		}
	}

	page, err = svc.RemoveSection(1, page.ID, secondID)
	if err != nil {
		t.Fatalf("remove section: %v", err)
	}
	if len(page.Sections) != 1 {
		t.Fatalf("expected one section left, got %d", len(page.Sections))
	}
}

func TestPageService_CreateFromTemplate(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.CreateFromTemplate(1, &models.CreatePageFromTemplateRequest{
		TemplateID: "landing",
		Name:       "Spring Launch",
	})
	if err != nil {
		t.Fatalf("create from template: %v", err)
	}

	if page.Status != models.PageStatusDraft {
		t.Fatalf("expected draft, got %q", page.Status)
	}
	if page.Slug != "spring-launch" {
		t.Fatalf("expected derived slug, got %q", page.Slug)
	}
	if len(page.Sections) != 2 {
		t.Fatalf("expected 2 sections from landing template, got %d", len(page.Sections))
	}

	types := map[string]bool{}
	for _, section := range page.Sections {
		if section.ID == "" {
			t.Fatalf("section missing id")
		}
		for _, row := range section.Rows {
			for _, w := range row.Widgets {
				if w.ID == "" {
					t.Fatalf("widget missing id")
				}
				types[w.Type] = true
			}
		}
	}
	if !types[widgets.TypeHero] || !types[widgets.TypeProductGrid] {
		t.Fatalf("landing template should seed hero and product grid, got %v", types)
	}

	second, err := svc.CreateFromTemplate(1, &models.CreatePageFromTemplateRequest{
		TemplateID: "landing",
		Name:       "Summer Launch",
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Sections[0].ID == page.Sections[0].ID {
		t.Fatalf("template node ids must be regenerated per page")
	}

	if _, err := svc.CreateFromTemplate(1, &models.CreatePageFromTemplateRequest{
		TemplateID: "nope",
		Name:       "X",
	}); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestPageService_SanitizesWidgetProps(t *testing.T) {
	svc, _, _ := newTestPageService()

	page, err := svc.Create(1, &models.CreatePageRequest{
		Name: "Landing",
		Sections: []models.Section{{
			Rows: []models.Row{{
				Widgets: []models.Widget{
					{Type: widgets.TypeText, Props: models.JSONMap{
						"content": `<script>alert(1)</script><p>hello</p>`,
					}},
					{Type: widgets.TypeImage, Props: models.JSONMap{
						"alt": `<img src=x onerror=alert(1)>logo`,
					}},
				},
			}},
		}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	content := page.Sections[0].Rows[0].Widgets[0].Props["content"].(string)
	if strings.Contains(content, "<script") {
		t.Fatalf("script tag survived save: %q", content)
	}
	if !strings.Contains(content, "<p>hello</p>") {
		t.Fatalf("richtext formatting must survive sanitization: %q", content)
	}

	alt := page.Sections[0].Rows[0].Widgets[1].Props["alt"].(string)
	if strings.Contains(alt, "<") {
		t.Fatalf("plain string prop kept markup: %q", alt)
	}
	if !strings.Contains(alt, "logo") {
		t.Fatalf("plain text content must survive: %q", alt)
	}

	page, err = svc.AddWidget(1, page.ID, &models.AddWidgetRequest{
		SectionID: page.Sections[0].ID,
		Type:      widgets.TypeButton,
		Props:     models.JSONMap{"label": `<script>x</script>Buy`, "href": "/buy"},
	})
	if err != nil {
		t.Fatalf("add widget: %v", err)
	}
	var label string
	for _, row := range page.Sections[0].Rows {
		for _, w := range row.Widgets {
			if w.Type == widgets.TypeButton {
				label = w.Props["label"].(string)
			}
		}
	}
	if strings.Contains(label, "<script") || !strings.Contains(label, "Buy") {
		t.Fatalf("button label not sanitized: %q", label)
	}
}
