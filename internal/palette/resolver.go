package palette

import (
	"strings"
	"unicode"

	"storefront-backend/internal/models"
	"storefront-backend/pkg/validator"
)

// EffectiveColorSet maps slot names to resolved color values.
type EffectiveColorSet map[string]string

// slotCategories assigns every slot to the apply-options category that
// controls whether it is emitted.
var slotCategories = map[string]string{
	"background": "backgrounds", "surface": "backgrounds", "surfaceAlt": "backgrounds", "inputBackground": "backgrounds",
	"text": "text", "textSecondary": "text", "textMuted": "text", "heading": "text", "link": "text", "linkHover": "text", "inputText": "text",
	"primary": "buttons", "primaryHover": "buttons", "secondary": "buttons", "secondaryHover": "buttons", "accent": "buttons",
	"buttonPrimary": "buttons", "buttonPrimaryText": "buttons", "buttonSecondary": "buttons", "buttonSecondaryText": "buttons", "buttonHover": "buttons",
	"border": "borders", "borderLight": "borders", "inputBorder": "borders",
	"headerBackground": "headerFooter", "headerText": "headerFooter", "footerBackground": "headerFooter", "footerText": "headerFooter",
}

// ResolveEffectivePalette merges a base palette with document-scoped custom
// colors and projects the result through the apply options. An unknown
// palette id yields an empty set, never an error. The function is pure: the
// base palette is never mutated and identical inputs give identical output.
func ResolveEffectivePalette(paletteID string, customColors map[string]string, opts *models.PaletteApplyOptions) EffectiveColorSet {
	base, ok := Lookup(paletteID)
	if !ok {
		return EffectiveColorSet{}
	}

	effective := make(EffectiveColorSet, len(ColorSlots))
	for _, slot := range ColorSlots {
		// Only well-formed hex values may override the base palette.
		value, overridden := customColors[slot]
		if !overridden || !validator.IsHexColor(value) {
			value = base.Colors[slot]
		}
		if value == "" {
			continue
		}
		if !categoryApplied(slotCategories[slot], opts) {
			continue
		}
		effective[slot] = value
	}

	return effective
}

func categoryApplied(category string, opts *models.PaletteApplyOptions) bool {
	if opts == nil {
		return true
	}

	var flag *bool
	switch category {
	case "backgrounds":
		flag = opts.Backgrounds
	case "text":
		flag = opts.Text
	case "buttons":
		flag = opts.Buttons
	case "borders":
		flag = opts.Borders
	case "headerFooter":
		flag = opts.HeaderFooter
	}

	// Unset category flags default to applied.
	return flag == nil || *flag
}

// StyleVariables flattens an effective color set into CSS custom properties
// ("primaryHover" becomes "--color-primary-hover"). This is the output
// binding consumed by the storefront renderer.
func StyleVariables(set EffectiveColorSet) map[string]string {
	vars := make(map[string]string, len(set))
	for slot, value := range set {
		vars["--color-"+kebabCase(slot)] = value
	}
	return vars
}

func kebabCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
