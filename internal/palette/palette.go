// Package palette holds the predefined storefront color palettes and the
// resolver that merges per-document overrides into an effective color set.
package palette

// ColorSlots is the closed set of named color slots every palette defines.
// Slot keys match the builder document JSON (camelCase).
var ColorSlots = []string{
	"primary", "primaryHover", "secondary", "secondaryHover", "accent",
	"background", "surface", "surfaceAlt",
	"text", "textSecondary", "textMuted", "heading", "link", "linkHover",
	"border", "borderLight", "inputBackground", "inputBorder", "inputText",
	"buttonPrimary", "buttonPrimaryText", "buttonSecondary", "buttonSecondaryText", "buttonHover",
	"headerBackground", "headerText", "footerBackground", "footerText",
}

type Palette struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Colors   map[string]string `json:"colors"`
}

var palettes = map[string]Palette{
	"ocean": {
		ID:       "ocean",
		Name:     "Ocean",
		Category: "cool",
		Colors: map[string]string{
			"primary": "#006994", "primaryHover": "#00547A", "secondary": "#4A90A4", "secondaryHover": "#3A7486", "accent": "#F4A261",
			"background": "#FFFFFF", "surface": "#F5F9FB", "surfaceAlt": "#E8F1F5",
			"text": "#1A2B33", "textSecondary": "#43606E", "textMuted": "#7A939F", "heading": "#10222B", "link": "#006994", "linkHover": "#00547A",
			"border": "#CBDDE5", "borderLight": "#E1ECF1", "inputBackground": "#FFFFFF", "inputBorder": "#A9C4CF", "inputText": "#1A2B33",
			"buttonPrimary": "#006994", "buttonPrimaryText": "#FFFFFF", "buttonSecondary": "#E8F1F5", "buttonSecondaryText": "#006994", "buttonHover": "#00547A",
			"headerBackground": "#053B52", "headerText": "#FFFFFF", "footerBackground": "#032A3B", "footerText": "#CBDDE5",
		},
	},
	"sunset": {
		ID:       "sunset",
		Name:     "Sunset",
		Category: "warm",
		Colors: map[string]string{
			"primary": "#E76F51", "primaryHover": "#D65A3C", "secondary": "#F4A261", "secondaryHover": "#E08E4D", "accent": "#2A9D8F",
			"background": "#FFFBF7", "surface": "#FDF1E7", "surfaceAlt": "#FAE3D1",
			"text": "#33201A", "textSecondary": "#6E4A3C", "textMuted": "#A3837A", "heading": "#2B160F", "link": "#E76F51", "linkHover": "#D65A3C",
			"border": "#EBD3C3", "borderLight": "#F5E6DA", "inputBackground": "#FFFFFF", "inputBorder": "#D9B7A3", "inputText": "#33201A",
			"buttonPrimary": "#E76F51", "buttonPrimaryText": "#FFFFFF", "buttonSecondary": "#FAE3D1", "buttonSecondaryText": "#E76F51", "buttonHover": "#D65A3C",
			"headerBackground": "#52230F", "headerText": "#FFF5EE", "footerBackground": "#3B1708", "footerText": "#EBD3C3",
		},
	},
	"forest": {
		ID:       "forest",
		Name:     "Forest",
		Category: "natural",
		Colors: map[string]string{
			"primary": "#2D6A4F", "primaryHover": "#1F5740", "secondary": "#74A892", "secondaryHover": "#5C927B", "accent": "#E9C46A",
			"background": "#FDFFFB", "surface": "#F0F6F1", "surfaceAlt": "#E1EDE4",
			"text": "#1B2E26", "textSecondary": "#4B6659", "textMuted": "#839A8D", "heading": "#122219", "link": "#2D6A4F", "linkHover": "#1F5740",
			"border": "#CFE0D5", "borderLight": "#E2EEE6", "inputBackground": "#FFFFFF", "inputBorder": "#AFC9BA", "inputText": "#1B2E26",
			"buttonPrimary": "#2D6A4F", "buttonPrimaryText": "#FFFFFF", "buttonSecondary": "#E1EDE4", "buttonSecondaryText": "#2D6A4F", "buttonHover": "#1F5740",
			"headerBackground": "#14352A", "headerText": "#F0F6F1", "footerBackground": "#0C241C", "footerText": "#CFE0D5",
		},
	},
	"midnight": {
		ID:       "midnight",
		Name:     "Midnight",
		Category: "dark",
		Colors: map[string]string{
			"primary": "#7C9EF5", "primaryHover": "#5F85E8", "secondary": "#4C5C82", "secondaryHover": "#3D4B6C", "accent": "#F5C77C",
			"background": "#0F1320", "surface": "#181E30", "surfaceAlt": "#212A42",
			"text": "#E4E9F7", "textSecondary": "#AEB8D4", "textMuted": "#717CA0", "heading": "#F4F7FF", "link": "#7C9EF5", "linkHover": "#5F85E8",
			"border": "#2C3653", "borderLight": "#232C46", "inputBackground": "#181E30", "inputBorder": "#3A476B", "inputText": "#E4E9F7",
			"buttonPrimary": "#7C9EF5", "buttonPrimaryText": "#0F1320", "buttonSecondary": "#212A42", "buttonSecondaryText": "#7C9EF5", "buttonHover": "#5F85E8",
			"headerBackground": "#0A0D17", "headerText": "#E4E9F7", "footerBackground": "#070A11", "footerText": "#AEB8D4",
		},
	},
}

// Lookup returns the predefined palette for id, if any.
func Lookup(id string) (Palette, bool) {
	p, ok := palettes[id]
	return p, ok
}

// All returns the palette catalog for the builder UI.
func All() []Palette {
	list := make([]Palette, 0, len(palettes))
	for _, p := range palettes {
		list = append(list, p)
	}
	return list
}
