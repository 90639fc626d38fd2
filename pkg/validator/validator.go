package validator

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate *validator.Validate

	richtextPolicy = bluemonday.UGCPolicy()
	strictPolicy   = bluemonday.StrictPolicy()

	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	slugRegex     = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func Init() {
	validate = validator.New()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("page_path", validatePagePath)
	v.RegisterValidation("no_html", validateNoHTML)
}

func Validate(s interface{}) error {
	return validate.Struct(s)
}

// SanitizeHTML cleans user-supplied widget markup before it is persisted.
// Formatting tags survive; scripts and event handlers do not.
func SanitizeHTML(html string) string {
	return richtextPolicy.Sanitize(html)
}

// SanitizeString strips all markup from a plain-text value.
func SanitizeString(s string) string {
	return strictPolicy.Sanitize(s)
}

// IsHexColor reports whether s is a #rgb, #rrggbb or #rrggbbaa color.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

// validatePagePath accepts builder page slugs, which unlike plain slugs may
// carry a single leading slash ("/", "/home", "contact-us").
func validatePagePath(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "/" {
		return true
	}
	value = strings.TrimPrefix(value, "/")
	return slugRegex.MatchString(value)
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}
