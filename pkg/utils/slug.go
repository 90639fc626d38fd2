package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugChars = regexp.MustCompile("[^a-z0-9]+")

// GenerateSlug turns an arbitrary name into a URL-safe slug. Diacritics are
// stripped via Unicode decomposition before non-alphanumerics collapse to
// hyphens.
func GenerateSlug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, _ = transform.String(t, text)

	text = strings.ToLower(text)
	text = nonSlugChars.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}

// CopySlug derives a unique-enough slug for a duplicated page.
func CopySlug(slug string) string {
	return fmt.Sprintf("%s-copy-%d", slug, time.Now().Unix())
}
