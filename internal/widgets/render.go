package widgets

import (
	"storefront-backend/internal/models"
	"storefront-backend/pkg/logger"
)

// RenderedWidget is the storefront-facing projection of a widget: props are
// fully resolved (defaults merged, migrations applied) and ready to display.
type RenderedWidget struct {
	ID         string                   `json:"id"`
	Type       string                   `json:"type"`
	Props      models.JSONMap           `json:"props"`
	ColSpan    *models.ColSpan          `json:"col_span,omitempty"`
	Visibility *models.WidgetVisibility `json:"visibility,omitempty"`
	Styles     models.JSONMap           `json:"styles,omitempty"`
	Animations models.JSONMap           `json:"animations,omitempty"`
	CustomCSS  string                   `json:"custom_css,omitempty"`
}

type RenderedRow struct {
	ID      string           `json:"id"`
	Widgets []RenderedWidget `json:"widgets"`
}

type RenderedSection struct {
	ID         string         `json:"id"`
	Title      string         `json:"title,omitempty"`
	Rows       []RenderedRow  `json:"rows"`
	Background models.JSONMap `json:"background,omitempty"`
	Padding    *int           `json:"padding,omitempty"`
}

type RenderedPage struct {
	ID       uint              `json:"id"`
	Name     string            `json:"name"`
	Slug     string            `json:"slug"`
	Sections []RenderedSection `json:"sections"`
	SEO      models.SEOMeta    `json:"seo"`
}

// RenderPage walks the section tree and resolves every widget through the
// registry. Unknown widget types are skipped, never fatal: one broken widget
// must not take the page down with it.
func RenderPage(page *models.Page, reg *Registry, ctx map[string]interface{}) *RenderedPage {
	if page == nil {
		return nil
	}

	rendered := &RenderedPage{
		ID:       page.ID,
		Name:     page.Name,
		Slug:     page.Slug,
		SEO:      page.SEO,
		Sections: make([]RenderedSection, 0, len(page.Sections)),
	}

	for _, section := range page.Sections {
		rs := RenderedSection{
			ID:         section.ID,
			Title:      section.Title,
			Background: section.Background,
			Padding:    section.Padding,
			Rows:       make([]RenderedRow, 0, len(section.Rows)),
		}

		for _, row := range section.Rows {
			rr := RenderedRow{ID: row.ID, Widgets: make([]RenderedWidget, 0, len(row.Widgets))}

			for _, widget := range row.Widgets {
				cfg, ok := reg.Get(widget.Type)
				if !ok {
					logger.Debug("Skipping unregistered widget type", map[string]interface{}{
						"widget_id": widget.ID,
						"type":      widget.Type,
						"page_id":   page.ID,
					})
					continue
				}

				if !ShouldRender(widget, ctx) {
					continue
				}

				if widget.Version != page.Version {
					widget = reg.MigrateWidget(widget, page.Version)
				}

				rr.Widgets = append(rr.Widgets, RenderedWidget{
					ID:         widget.ID,
					Type:       cfg.Type,
					Props:      mergeProps(cfg.DefaultProps, widget.Props),
					ColSpan:    widget.ColSpan,
					Visibility: widget.Visibility,
					Styles:     widget.Styles,
					Animations: widget.Animations,
					CustomCSS:  widget.CustomCSS,
				})
			}

			rs.Rows = append(rs.Rows, rr)
		}

		rendered.Sections = append(rendered.Sections, rs)
	}

	return rendered
}

// mergeProps overlays instance props on the type defaults without mutating
// either input.
func mergeProps(defaults, props models.JSONMap) models.JSONMap {
	merged := make(models.JSONMap, len(defaults)+len(props))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	return merged
}
