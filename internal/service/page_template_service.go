package service

import (
	"strings"

	"storefront-backend/internal/models"
	"storefront-backend/internal/widgets"
	"storefront-backend/pkg/utils"
)

// PageTemplates returns the built-in starting layouts. Node ids are left
// empty here; they are generated when a page is created from the template.
func (s *PageService) PageTemplates() []models.PageTemplate {
	return []models.PageTemplate{
		{
			ID:          "blank",
			Name:        "Blank Page",
			Description: "Start from scratch",
			Icon:        "file",
			Sections:    []models.Section{},
		},
		{
			ID:          "landing",
			Name:        "Landing Page",
			Description: "Hero banner with a featured product grid",
			Icon:        "layout",
			Sections: []models.Section{
				{
					Title: "Hero",
					Rows: []models.Row{
						{Widgets: []models.Widget{templateWidget(widgets.TypeHero, models.JSONMap{
							"heading":    "Welcome to our store",
							"subheading": "Discover our latest collection",
							"cta_label":  "Shop now",
							"cta_href":   "/products",
						})}},
					},
				},
				{
					Title: "Featured products",
					Rows: []models.Row{
						{Widgets: []models.Widget{templateWidget(widgets.TypeProductGrid, models.JSONMap{
							"limit":         6,
							"featured_only": true,
							"columns":       3,
						})}},
					},
				},
			},
		},
		{
			ID:          "about",
			Name:        "About Page",
			Description: "Story section with an image",
			Icon:        "users",
			Sections: []models.Section{
				{
					Title: "Our story",
					Rows: []models.Row{
						{Widgets: []models.Widget{
							templateWidget(widgets.TypeText, models.JSONMap{"content": "", "alignment": "left"}),
							templateWidget(widgets.TypeImage, models.JSONMap{"url": "", "alt": ""}),
						}},
					},
				},
			},
		},
		{
			ID:          "contact",
			Name:        "Contact Page",
			Description: "Contact form that emails the store owner",
			Icon:        "mail",
			Sections: []models.Section{
				{
					Title: "Get in touch",
					Rows: []models.Row{
						{Widgets: []models.Widget{templateWidget(widgets.TypeForm, models.JSONMap{
							"title": "Contact us",
							"fields": []interface{}{
								map[string]interface{}{
									"id": "name", "type": "text", "label": "Name",
									"validation": map[string]interface{}{"required": true},
								},
								map[string]interface{}{
									"id": "email", "type": "email", "label": "Email",
									"validation": map[string]interface{}{"required": true},
								},
								map[string]interface{}{
									"id": "message", "type": "textarea", "label": "Message",
									"validation": map[string]interface{}{"required": true},
								},
							},
							"actions": map[string]interface{}{"on_submit": "email"},
						})}},
					},
				},
			},
		},
	}
}

// CreateFromTemplate creates a draft page seeded with a template's sections.
func (s *PageService) CreateFromTemplate(storeID uint, req *models.CreatePageFromTemplateRequest) (*models.Page, error) {
	var template *models.PageTemplate
	for _, t := range s.PageTemplates() {
		if t.ID == req.TemplateID {
			template = &t
			break
		}
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}

	page := &models.Page{
		StoreID:             storeID,
		Name:                req.Name,
		Slug:                slug,
		Version:             1,
		Sections:            regenerateNodeIDs(template.Sections),
		Status:              models.PageStatusDraft,
		NavigationPlacement: models.PlacementNone,
		PageType:            models.PageTypeStandard,
	}

	if err := s.pages.Create(page); err != nil {
		return nil, err
	}

	s.invalidate(storeID)
	return page, nil
}

func templateWidget(widgetType string, props models.JSONMap) models.Widget {
	return models.Widget{
		Type:    widgetType,
		Version: 1,
		Props:   props,
	}
}
