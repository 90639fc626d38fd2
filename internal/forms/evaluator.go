package forms

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	urlRegex   = regexp.MustCompile(`^https?://[^\s]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9\s\-().]{7,20}$`)
)

// Evaluator holds the live state of one form instance: current values keyed
// by field id (string, or []string for multi-value fields).
type Evaluator struct {
	def    *Definition
	values map[string]interface{}
}

func NewEvaluator(def *Definition) *Evaluator {
	e := &Evaluator{def: def}
	e.Reset()
	return e
}

// Reset restores every field to its initial value: the declared default, an
// empty list for checkbox groups, an empty string otherwise.
func (e *Evaluator) Reset() {
	values := make(map[string]interface{}, len(e.def.Fields))
	for _, f := range e.def.Fields {
		switch {
		case f.DefaultValue != nil:
			values[f.ID] = normalizeValue(f.DefaultValue)
		case f.Type == FieldCheckbox && len(f.Options) > 0:
			values[f.ID] = []string{}
		default:
			values[f.ID] = ""
		}
	}
	e.values = values
}

func (e *Evaluator) SetValue(fieldID string, value interface{}) {
	e.values[fieldID] = normalizeValue(value)
}

func (e *Evaluator) Value(fieldID string) interface{} {
	return e.values[fieldID]
}

func (e *Evaluator) Values() map[string]interface{} {
	out := make(map[string]interface{}, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

// IsVisible evaluates the field's showWhen condition against the referenced
// field's current value. A field without conditional logic is always
// visible. A condition referencing a field that is not declared in the form
// degrades to visible; a declared field with an incompatible value is
// evaluated literally, so numeric operators against an empty value compare
// false. That literal behavior is the contract, not an accident.
func (e *Evaluator) IsVisible(field Field) bool {
	if field.ConditionalLogic == nil || field.ConditionalLogic.ShowWhen == nil {
		return true
	}

	cond := field.ConditionalLogic.ShowWhen
	if _, declared := e.def.FieldByID(cond.FieldID); !declared {
		return true
	}

	current := e.values[cond.FieldID]

	switch cond.Operator {
	case "equals":
		return deepEqual(current, cond.Value)
	case "not_equals":
		return asString(current) != asString(cond.Value)
	case "contains":
		return arrayOverlap(current, cond.Value)
	case "greater_than":
		a, aok := coerceNumber(current)
		b, bok := coerceNumber(cond.Value)
		return aok && bok && a > b
	case "less_than":
		a, aok := coerceNumber(current)
		b, bok := coerceNumber(cond.Value)
		return aok && bok && a < b
	default:
		return true
	}
}

// VisibleFields returns the fields currently shown, in declaration order.
func (e *Evaluator) VisibleFields() []Field {
	visible := make([]Field, 0, len(e.def.Fields))
	for _, f := range e.def.Fields {
		if e.IsVisible(f) {
			visible = append(visible, f)
		}
	}
	return visible
}

// ValidateField checks one field and returns the first failing rule's
// message, or "" when valid.
func (e *Evaluator) ValidateField(field Field) string {
	value := e.values[field.ID]

	if field.Required && isEmpty(value) {
		return fmt.Sprintf("%s is required", labelOrID(field))
	}
	if isEmpty(value) {
		return ""
	}

	str := asString(value)

	switch field.Type {
	case FieldEmail:
		if !emailRegex.MatchString(str) {
			return "Please enter a valid email address"
		}
	case FieldURL:
		if !urlRegex.MatchString(str) {
			return "Please enter a valid URL"
		}
	case FieldPhone:
		if !phoneRegex.MatchString(str) {
			return "Please enter a valid phone number"
		}
	case FieldNumber:
		n, ok := coerceNumber(value)
		if !ok {
			return "Please enter a valid number"
		}
		if field.Validation != nil {
			if field.Validation.Min != nil && n < *field.Validation.Min {
				return validationMessage(field, fmt.Sprintf("Value must be at least %v", *field.Validation.Min))
			}
			if field.Validation.Max != nil && n > *field.Validation.Max {
				return validationMessage(field, fmt.Sprintf("Value must be at most %v", *field.Validation.Max))
			}
		}
	}

	if field.Validation != nil && field.Type != FieldNumber {
		if field.Validation.Min != nil && float64(len(str)) < *field.Validation.Min {
			return validationMessage(field, fmt.Sprintf("Must be at least %v characters", *field.Validation.Min))
		}
		if field.Validation.Max != nil && float64(len(str)) > *field.Validation.Max {
			return validationMessage(field, fmt.Sprintf("Must be at most %v characters", *field.Validation.Max))
		}
	}

	if field.Validation != nil && field.Validation.Pattern != "" {
		re, err := regexp.Compile(field.Validation.Pattern)
		if err == nil && !re.MatchString(str) {
			return validationMessage(field, "Invalid format")
		}
	}

	return ""
}

// Validate checks only the currently visible fields and returns per-field
// errors. Hidden fields never block submission.
func (e *Evaluator) Validate() map[string]string {
	errs := make(map[string]string)
	for _, f := range e.VisibleFields() {
		if msg := e.ValidateField(f); msg != "" {
			errs[f.ID] = msg
		}
	}
	return errs
}

// SubmitValues validates and, when clean, returns the visible fields' values
// ready for dispatch. On failure the errors map carries the first failing
// message per field and no values are returned.
func (e *Evaluator) SubmitValues() (map[string]interface{}, map[string]string) {
	if errs := e.Validate(); len(errs) > 0 {
		return nil, errs
	}

	out := make(map[string]interface{})
	for _, f := range e.VisibleFields() {
		out[f.ID] = e.values[f.ID]
	}
	return out, nil
}

func labelOrID(f Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

func validationMessage(f Field, fallback string) string {
	if f.Validation != nil && f.Validation.CustomMessage != "" {
		return f.Validation.CustomMessage
	}
	return fallback
}

func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, asString(item))
		}
		return out
	case []string:
		return value
	case string:
		return value
	case nil:
		return ""
	default:
		return asString(value)
	}
}

func isEmpty(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case []string:
		return len(value) == 0
	default:
		return false
	}
}

func asString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// deepEqual compares scalars as strings and arrays order-insensitively.
func deepEqual(a, b interface{}) bool {
	al, aList := asList(a)
	bl, bList := asList(b)

	if aList && bList {
		if len(al) != len(bl) {
			return false
		}
		sort.Strings(al)
		sort.Strings(bl)
		for i := range al {
			if al[i] != bl[i] {
				return false
			}
		}
		return true
	}
	if aList != bList {
		return false
	}
	return asString(a) == asString(b)
}

// arrayOverlap is true when any value of the condition array is present in
// the field's current array value. Both sides must be arrays.
func arrayOverlap(current, wanted interface{}) bool {
	cl, cok := asList(current)
	wl, wok := asList(wanted)
	if !cok || !wok {
		return false
	}
	for _, w := range wl {
		for _, c := range cl {
			if w == c {
				return true
			}
		}
	}
	return false
}

func asList(v interface{}) ([]string, bool) {
	switch value := v.(type) {
	case []string:
		out := make([]string, len(value))
		copy(out, value)
		return out, true
	case []interface{}:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, asString(item))
		}
		return out, true
	default:
		return nil, false
	}
}

func coerceNumber(v interface{}) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	case string:
		n, err := strconv.ParseFloat(value, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
