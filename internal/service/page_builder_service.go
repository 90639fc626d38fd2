package service

import (
	"fmt"

	"storefront-backend/internal/models"

	"github.com/google/uuid"
)

// Builder operations mutate the section tree of a single page. Each one loads
// the document, applies the edit and saves it back through Update so the
// snapshot and cache invalidation paths are shared.

func (s *PageService) AddSection(storeID, pageID uint, req *models.AddSectionRequest) (*models.Page, error) {
	page, err := s.getForEdit(storeID, pageID)
	if err != nil {
		return nil, err
	}

	section := models.Section{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Padding: req.Padding,
		Rows:    []models.Row{{ID: uuid.NewString()}},
	}
	page.Sections = append(page.Sections, section)

	return s.saveSections(page)
}

func (s *PageService) RemoveSection(storeID, pageID uint, sectionID string) (*models.Page, error) {
	page, err := s.getForEdit(storeID, pageID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range page.Sections {
		if page.Sections[i].ID == sectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("section %q not found", sectionID)
	}
	page.Sections = append(page.Sections[:idx], page.Sections[idx+1:]...)

	return s.saveSections(page)
}

// ReorderSections rearranges sections to match the given id order. Every
// existing section must appear exactly once.
func (s *PageService) ReorderSections(storeID, pageID uint, sectionIDs []string) (*models.Page, error) {
	page, err := s.getForEdit(storeID, pageID)
	if err != nil {
		return nil, err
	}

	if len(sectionIDs) != len(page.Sections) {
		return nil, fmt.Errorf("reorder must list all %d sections", len(page.Sections))
	}

	byID := make(map[string]models.Section, len(page.Sections))
	for _, section := range page.Sections {
		byID[section.ID] = section
	}

	reordered := make(models.PageSections, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		section, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("section %q not found", id)
		}
		delete(byID, id)
		reordered = append(reordered, section)
	}
	page.Sections = reordered

	return s.saveSections(page)
}

// AddWidget appends a widget to the given row, or to a new row when row_id is
// empty. Props default to the registered widget defaults when omitted.
func (s *PageService) AddWidget(storeID, pageID uint, req *models.AddWidgetRequest) (*models.Page, error) {
	page, err := s.getForEdit(storeID, pageID)
	if err != nil {
		return nil, err
	}

	cfg, ok := s.registry.Get(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidgetType, req.Type)
	}

	props := req.Props
	if len(props) == 0 {
		props = make(models.JSONMap, len(cfg.DefaultProps))
		for k, v := range cfg.DefaultProps {
			props[k] = v
		}
	}

	widget := models.Widget{
		ID:      uuid.NewString(),
		Type:    cfg.Type,
		Version: page.Version,
		Props:   props,
	}
	s.sanitizeWidgetProps(&widget)

	sectionIdx := -1
	for i := range page.Sections {
		if page.Sections[i].ID == req.SectionID {
			sectionIdx = i
			break
		}
	}
	if sectionIdx < 0 {
		return nil, fmt.Errorf("section %q not found", req.SectionID)
	}
	section := &page.Sections[sectionIdx]

	if req.RowID == "" {
		section.Rows = append(section.Rows, models.Row{ID: uuid.NewString(), Widgets: []models.Widget{widget}})
	} else {
		rowIdx := -1
		for i := range section.Rows {
			if section.Rows[i].ID == req.RowID {
				rowIdx = i
				break
			}
		}
		if rowIdx < 0 {
			return nil, fmt.Errorf("row %q not found", req.RowID)
		}
		section.Rows[rowIdx].Widgets = append(section.Rows[rowIdx].Widgets, widget)
	}

	return s.saveSections(page)
}

func (s *PageService) RemoveWidget(storeID, pageID uint, widgetID string) (*models.Page, error) {
	page, err := s.getForEdit(storeID, pageID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range page.Sections {
		for j := range page.Sections[i].Rows {
			row := &page.Sections[i].Rows[j]
			for k := range row.Widgets {
				if row.Widgets[k].ID == widgetID {
					row.Widgets = append(row.Widgets[:k], row.Widgets[k+1:]...)
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("widget %q not found", widgetID)
	}

	return s.saveSections(page)
}

func (s *PageService) saveSections(page *models.Page) (*models.Page, error) {
	page.Version++
	if err := s.pages.Update(page); err != nil {
		return nil, err
	}
	s.invalidate(page.StoreID)
	return page, nil
}
