package widgets

import "storefront-backend/internal/models"

// Built-in widget type tags.
const (
	TypeText         = "text"
	TypeImage        = "image"
	TypeButton       = "button"
	TypeSpacer       = "spacer"
	TypeDivider      = "divider"
	TypeVideo        = "video"
	TypeForm         = "form"
	TypeHeaderLayout = "header-layout"
	TypeFooterLayout = "footer-layout"
	TypeProductGrid  = "productgrid"
	TypeHero         = "hero"
)

// DefaultRegistry builds the registry of built-in widget types. The admin
// builder reads the schemas; the storefront renderer reads the defaults and
// migration hooks.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(Config{
		Type:     TypeText,
		Name:     "Text",
		Category: "content",
		Schema: models.JSONMap{
			"content":   map[string]interface{}{"type": "richtext", "label": "Content"},
			"alignment": map[string]interface{}{"type": "select", "label": "Alignment", "options": []string{"left", "center", "right"}},
		},
		DefaultProps: models.JSONMap{"content": "", "alignment": "left"},
	})

	r.MustRegister(Config{
		Type:     TypeImage,
		Name:     "Image",
		Category: "content",
		Schema: models.JSONMap{
			"url": map[string]interface{}{"type": "string", "label": "Image URL"},
			"alt": map[string]interface{}{"type": "string", "label": "Alt text"},
		},
		DefaultProps: models.JSONMap{"url": "", "alt": ""},
	})

	r.MustRegister(Config{
		Type:     TypeButton,
		Name:     "Button",
		Category: "content",
		Schema: models.JSONMap{
			"label":   map[string]interface{}{"type": "string", "label": "Label"},
			"href":    map[string]interface{}{"type": "string", "label": "Link"},
			"variant": map[string]interface{}{"type": "select", "label": "Variant", "options": []string{"primary", "secondary"}},
		},
		DefaultProps: models.JSONMap{"label": "Click me", "href": "#", "variant": "primary"},
	})

	r.MustRegister(Config{
		Type:         TypeSpacer,
		Name:         "Spacer",
		Category:     "layout",
		Schema:       models.JSONMap{"height": map[string]interface{}{"type": "number", "label": "Height (px)"}},
		DefaultProps: models.JSONMap{"height": 32},
	})

	r.MustRegister(Config{
		Type:         TypeDivider,
		Name:         "Divider",
		Category:     "layout",
		Schema:       models.JSONMap{"style": map[string]interface{}{"type": "select", "label": "Style", "options": []string{"solid", "dashed", "dotted"}}},
		DefaultProps: models.JSONMap{"style": "solid"},
	})

	r.MustRegister(Config{
		Type:     TypeVideo,
		Name:     "Video",
		Category: "content",
		Schema: models.JSONMap{
			"url":      map[string]interface{}{"type": "string", "label": "Video URL"},
			"autoplay": map[string]interface{}{"type": "boolean", "label": "Autoplay"},
		},
		DefaultProps: models.JSONMap{"url": "", "autoplay": false},
	})

	r.MustRegister(Config{
		Type:     TypeHero,
		Name:     "Hero",
		Category: "marketing",
		Schema: models.JSONMap{
			"heading":    map[string]interface{}{"type": "string", "label": "Heading"},
			"subheading": map[string]interface{}{"type": "string", "label": "Subheading"},
			"image":      map[string]interface{}{"type": "string", "label": "Background image"},
			"cta_label":  map[string]interface{}{"type": "string", "label": "CTA label"},
			"cta_href":   map[string]interface{}{"type": "string", "label": "CTA link"},
		},
		DefaultProps: models.JSONMap{"heading": "Welcome", "subheading": "", "image": "", "cta_label": "", "cta_href": ""},
	})

	r.MustRegister(Config{
		Type:     TypeForm,
		Name:     "Form",
		Category: "interactive",
		Schema: models.JSONMap{
			"title":      map[string]interface{}{"type": "string", "label": "Form title"},
			"fields":     map[string]interface{}{"type": "fields", "label": "Fields"},
			"actions":    map[string]interface{}{"type": "actions", "label": "On submit"},
			"validation": map[string]interface{}{"type": "validation", "label": "Validation policy"},
		},
		DefaultProps: models.JSONMap{
			"title":      "Contact us",
			"fields":     []interface{}{},
			"actions":    map[string]interface{}{"on_submit": "email"},
			"validation": map[string]interface{}{"validate_on_blur": true, "validate_on_change": false},
		},
	})

	r.MustRegister(Config{
		Type:     TypeHeaderLayout,
		Name:     "Header",
		Category: "system",
		Schema: models.JSONMap{
			"show_logo":       map[string]interface{}{"type": "boolean", "label": "Show logo"},
			"show_navigation": map[string]interface{}{"type": "boolean", "label": "Show navigation"},
			"sticky":          map[string]interface{}{"type": "boolean", "label": "Sticky header"},
		},
		DefaultProps: models.JSONMap{"show_logo": true, "show_navigation": true, "sticky": false},
	})

	r.MustRegister(Config{
		Type:     TypeFooterLayout,
		Name:     "Footer",
		Category: "system",
		Schema: models.JSONMap{
			"show_navigation": map[string]interface{}{"type": "boolean", "label": "Show navigation"},
			"copyright":       map[string]interface{}{"type": "string", "label": "Copyright line"},
		},
		DefaultProps: models.JSONMap{"show_navigation": true, "copyright": ""},
	})

	r.MustRegister(Config{
		Type:     TypeProductGrid,
		Name:     "Product Grid",
		Category: "commerce",
		Schema: models.JSONMap{
			"limit":         map[string]interface{}{"type": "number", "label": "Number of products", "min": 1, "max": 48},
			"category":      map[string]interface{}{"type": "string", "label": "Category filter"},
			"featured_only": map[string]interface{}{"type": "boolean", "label": "Featured only"},
			"columns":       map[string]interface{}{"type": "number", "label": "Columns", "min": 1, "max": 6},
		},
		DefaultProps: models.JSONMap{"limit": 12, "category": "", "featured_only": false, "columns": 3},
	})

	return r
}
