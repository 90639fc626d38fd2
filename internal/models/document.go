package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
	PageStatusScheduled PageStatus = "scheduled"
)

type NavigationPlacement string

const (
	PlacementHeader NavigationPlacement = "header"
	PlacementFooter NavigationPlacement = "footer"
	PlacementBoth   NavigationPlacement = "both"
	PlacementNone   NavigationPlacement = "none"
)

// PageType distinguishes ordinary pages from the per-store system pages that
// render the shared header and footer.
type PageType string

const (
	PageTypeStandard PageType = ""
	PageTypeHeader   PageType = "header"
	PageTypeFooter   PageType = "footer"
)

// ColSpan holds per-breakpoint column widths on a 12-column grid.
type ColSpan struct {
	SM *int `json:"sm,omitempty"`
	MD *int `json:"md,omitempty"`
	LG *int `json:"lg,omitempty"`
}

// WidgetVisibility toggles a widget per breakpoint. Nil means visible.
type WidgetVisibility struct {
	SM *bool `json:"sm,omitempty"`
	MD *bool `json:"md,omitempty"`
	LG *bool `json:"lg,omitempty"`
}

// Condition is a restricted predicate evaluated against a render context.
// It deliberately carries no executable expression text.
type Condition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

type WidgetConditions struct {
	ShowWhen *Condition `json:"show_when,omitempty"`
	HideWhen *Condition `json:"hide_when,omitempty"`
}

// Widget is a leaf of the page tree. Props are opaque to the model and
// validated against the schema registered for the widget type.
type Widget struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Version    int               `json:"version"`
	ColSpan    *ColSpan          `json:"col_span,omitempty"`
	Props      JSONMap           `json:"props"`
	Visibility *WidgetVisibility `json:"visibility,omitempty"`
	Styles     JSONMap           `json:"styles,omitempty"`
	Animations JSONMap           `json:"animations,omitempty"`
	CustomCSS  string            `json:"custom_css,omitempty"`
	Conditions *WidgetConditions `json:"conditions,omitempty"`
}

// Row orders widgets left to right; slice order is render order.
type Row struct {
	ID      string   `json:"id"`
	Widgets []Widget `json:"widgets"`
}

type Section struct {
	ID         string  `json:"id"`
	Title      string  `json:"title,omitempty"`
	Rows       []Row   `json:"rows"`
	Background JSONMap `json:"background,omitempty"`
	Padding    *int    `json:"padding,omitempty"`
}

type PageSections []Section

func (ps *PageSections) Scan(value interface{}) error {
	if value == nil {
		*ps = PageSections{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan PageSections")
	}

	return json.Unmarshal(bytes, ps)
}

func (ps PageSections) Value() (driver.Value, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	return json.Marshal(ps)
}

// PaletteApplyOptions filter which categories of the effective color set are
// emitted. A nil flag means the category is applied.
type PaletteApplyOptions struct {
	Backgrounds  *bool `json:"backgrounds,omitempty"`
	Text         *bool `json:"text,omitempty"`
	Buttons      *bool `json:"buttons,omitempty"`
	Borders      *bool `json:"borders,omitempty"`
	HeaderFooter *bool `json:"header_footer,omitempty"`
}

type PaletteOverride struct {
	PaletteID    string               `json:"palette_id"`
	CustomColors map[string]string    `json:"custom_colors,omitempty"`
	ApplyOptions *PaletteApplyOptions `json:"apply_options,omitempty"`
}

type ThemeOverrides struct {
	ColorPalette *PaletteOverride `json:"color_palette,omitempty"`
}

func (t *ThemeOverrides) Scan(value interface{}) error {
	if value == nil {
		*t = ThemeOverrides{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ThemeOverrides")
	}

	return json.Unmarshal(bytes, t)
}

func (t ThemeOverrides) Value() (driver.Value, error) {
	if t.ColorPalette == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

type SEOMeta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	OGImage     string `json:"og_image,omitempty"`
	NoIndex     bool   `json:"no_index,omitempty"`
}

func (s *SEOMeta) Scan(value interface{}) error {
	if value == nil {
		*s = SEOMeta{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan SEOMeta")
	}

	return json.Unmarshal(bytes, s)
}

func (s SEOMeta) Value() (driver.Value, error) {
	if s == (SEOMeta{}) {
		return nil, nil
	}
	return json.Marshal(s)
}

// Page is the aggregate root of the builder document model. The section tree
// is stored as a single JSONB column and replaced wholesale on every save.
type Page struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID uint   `gorm:"not null;index" json:"store_id"`
	Name    string `gorm:"not null" json:"name"`
	Slug    string `gorm:"index" json:"slug"`
	Version int    `gorm:"default:1" json:"version"`

	Sections PageSections `gorm:"type:jsonb" json:"sections"`

	Status       PageStatus `gorm:"type:varchar(16);default:'draft';index" json:"status"`
	PublishedAt  *time.Time `gorm:"index" json:"published_at,omitempty"`
	ScheduledFor *time.Time `gorm:"index" json:"scheduled_for,omitempty"`

	NavigationPlacement NavigationPlacement `gorm:"type:varchar(16);default:'none'" json:"navigation_placement"`
	PageType            PageType            `gorm:"type:varchar(16);default:'';index" json:"page_type"`

	ThemeOverrides ThemeOverrides `gorm:"type:jsonb" json:"theme_overrides"`
	SEO            SEOMeta        `gorm:"type:jsonb" json:"seo"`
}

// Renderable reports whether the storefront may render the page. Resolution
// and renderability are separate concerns: a published page with no sections
// still resolves, it just renders nothing.
func (p *Page) Renderable() bool {
	return p != nil && p.Status == PageStatusPublished && len(p.Sections) > 0
}

func (p *Page) IsSystemPage() bool {
	return p != nil && (p.PageType == PageTypeHeader || p.PageType == PageTypeFooter)
}

// NavigationPage is the slim projection served to storefront menus.
type NavigationPage struct {
	ID                  uint                `json:"id"`
	Name                string              `json:"name"`
	Slug                string              `json:"slug"`
	NavigationPlacement NavigationPlacement `json:"navigation_placement"`
}

type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan JSONMap")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bytes, &decoded); err != nil {
		return err
	}

	*m = decoded
	return nil
}
