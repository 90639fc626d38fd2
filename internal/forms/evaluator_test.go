package forms

import (
	"testing"

	"storefront-backend/internal/models"
)

func countryStateForm() *Definition {
	return &Definition{
		Fields: []Field{
			{ID: "country", Type: FieldSelect, Label: "Country", Options: []Option{{Value: "US"}, {Value: "CA"}}},
			{ID: "state", Type: FieldText, Label: "State", ConditionalLogic: &ConditionalLogic{
				ShowWhen: &ShowWhen{FieldID: "country", Value: "US", Operator: "equals"},
			}},
		},
	}
}

func fieldByID(t *testing.T, def *Definition, id string) Field {
	t.Helper()
	f, ok := def.FieldByID(id)
	if !ok {
		t.Fatalf("field %q not declared", id)
	}
	return f
}

func TestVisibility_EqualsOperator(t *testing.T) {
	def := countryStateForm()
	e := NewEvaluator(def)
	state := fieldByID(t, def, "state")

	e.SetValue("country", "US")
	if !e.IsVisible(state) {
		t.Fatalf("state should be visible when country is US")
	}

	e.SetValue("country", "CA")
	if e.IsVisible(state) {
		t.Fatalf("state should be hidden when country is CA")
	}
}

func TestVisibility_EqualsArrayOrderInsensitive(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "toppings", Type: FieldCheckbox, Options: []Option{{Value: "a"}, {Value: "b"}}},
		{ID: "extra", Type: FieldText, ConditionalLogic: &ConditionalLogic{
			ShowWhen: &ShowWhen{FieldID: "toppings", Value: []interface{}{"b", "a"}, Operator: "equals"},
		}},
	}}
	e := NewEvaluator(def)
	extra := fieldByID(t, def, "extra")

	e.SetValue("toppings", []string{"a", "b"})
	if !e.IsVisible(extra) {
		t.Fatalf("array equality must ignore order")
	}
}

func TestVisibility_ContainsRequiresArraysOnBothSides(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "tags", Type: FieldCheckbox, Options: []Option{{Value: "x"}, {Value: "y"}}},
		{ID: "dep", Type: FieldText, ConditionalLogic: &ConditionalLogic{
			ShowWhen: &ShowWhen{FieldID: "tags", Value: []interface{}{"y"}, Operator: "contains"},
		}},
		{ID: "dep2", Type: FieldText, ConditionalLogic: &ConditionalLogic{
			ShowWhen: &ShowWhen{FieldID: "tags", Value: "y", Operator: "contains"},
		}},
	}}
	e := NewEvaluator(def)

	e.SetValue("tags", []string{"x", "y"})
	if !e.IsVisible(fieldByID(t, def, "dep")) {
		t.Fatalf("contains should match overlapping arrays")
	}
	if e.IsVisible(fieldByID(t, def, "dep2")) {
		t.Fatalf("contains with a scalar condition value must be false")
	}
}

func TestVisibility_NumericOperators(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "qty", Type: FieldNumber},
		{ID: "bulk", Type: FieldText, ConditionalLogic: &ConditionalLogic{
			ShowWhen: &ShowWhen{FieldID: "qty", Value: "10", Operator: "greater_than"},
		}},
	}}
	e := NewEvaluator(def)
	bulk := fieldByID(t, def, "bulk")

	e.SetValue("qty", "15")
	if !e.IsVisible(bulk) {
		t.Fatalf("15 > 10 should show the field")
	}

	e.SetValue("qty", "5")
	if e.IsVisible(bulk) {
		t.Fatalf("5 > 10 should hide the field")
	}

	// Empty value coerces to no number; the comparison is simply false.
	e.SetValue("qty", "")
	if e.IsVisible(bulk) {
		t.Fatalf("numeric comparison against an empty value must be false")
	}
}

func TestVisibility_DanglingReferenceDegradesToVisible(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "orphan", Type: FieldText, ConditionalLogic: &ConditionalLogic{
			ShowWhen: &ShowWhen{FieldID: "nope", Value: "x", Operator: "equals"},
		}},
	}}
	e := NewEvaluator(def)

	if !e.IsVisible(fieldByID(t, def, "orphan")) {
		t.Fatalf("a condition referencing an undeclared field must degrade to visible")
	}
}

func TestInitialValues(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "name", Type: FieldText, DefaultValue: "Ada"},
		{ID: "toppings", Type: FieldCheckbox, Options: []Option{{Value: "a"}}},
		{ID: "note", Type: FieldTextarea},
	}}
	e := NewEvaluator(def)

	if e.Value("name") != "Ada" {
		t.Fatalf("default value not applied: %v", e.Value("name"))
	}
	if list, ok := e.Value("toppings").([]string); !ok || len(list) != 0 {
		t.Fatalf("checkbox group should initialise to empty list, got %v", e.Value("toppings"))
	}
	if e.Value("note") != "" {
		t.Fatalf("plain field should initialise to empty string, got %v", e.Value("note"))
	}
}

func TestValidateField_FirstFailingRuleOnly(t *testing.T) {
	minLen := 5.0
	def := &Definition{Fields: []Field{
		{ID: "email", Type: FieldEmail, Label: "Email", Required: true, Validation: &Validation{Min: &minLen}},
	}}
	e := NewEvaluator(def)
	email := fieldByID(t, def, "email")

	if msg := e.ValidateField(email); msg != "Email is required" {
		t.Fatalf("expected required error first, got %q", msg)
	}

	e.SetValue("email", "bad")
	if msg := e.ValidateField(email); msg != "Please enter a valid email address" {
		t.Fatalf("expected email format error, got %q", msg)
	}

	e.SetValue("email", "a@b.co")
	if msg := e.ValidateField(email); msg != "" {
		t.Fatalf("expected valid email, got %q", msg)
	}
}

func TestValidate_SkipsHiddenFields(t *testing.T) {
	def := countryStateForm()
	def.Fields[1].Required = true
	e := NewEvaluator(def)

	e.SetValue("country", "CA")
	if errs := e.Validate(); len(errs) != 0 {
		t.Fatalf("hidden required field must not block submission: %v", errs)
	}

	e.SetValue("country", "US")
	errs := e.Validate()
	if errs["state"] == "" {
		t.Fatalf("visible required field must fail validation")
	}
}

func TestSubmitValues_ResetAfterSuccess(t *testing.T) {
	def := &Definition{Fields: []Field{{ID: "name", Type: FieldText, Required: true}}}
	e := NewEvaluator(def)

	e.SetValue("name", "Grace")
	values, errs := e.SubmitValues()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if values["name"] != "Grace" {
		t.Fatalf("submitted values missing field: %v", values)
	}

	e.Reset()
	if e.Value("name") != "" {
		t.Fatalf("reset should restore initial state, got %v", e.Value("name"))
	}
}

func TestValidate_CustomPatternAndMessage(t *testing.T) {
	def := &Definition{Fields: []Field{
		{ID: "zip", Type: FieldText, Validation: &Validation{Pattern: `^\d{5}$`, CustomMessage: "Enter a 5 digit ZIP"}},
	}}
	e := NewEvaluator(def)
	zip := fieldByID(t, def, "zip")

	e.SetValue("zip", "abc")
	if msg := e.ValidateField(zip); msg != "Enter a 5 digit ZIP" {
		t.Fatalf("expected custom message, got %q", msg)
	}

	e.SetValue("zip", "94110")
	if msg := e.ValidateField(zip); msg != "" {
		t.Fatalf("expected valid zip, got %q", msg)
	}
}

func TestParseDefinition(t *testing.T) {
	props := models.JSONMap{
		"title": "Contact",
		"fields": []interface{}{
			map[string]interface{}{"id": "email", "type": "email", "label": "Email", "required": true},
		},
		"actions": map[string]interface{}{"on_submit": "webhook", "webhook_url": "https://example.com/hook"},
	}

	def, err := ParseDefinition(props)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if def.Actions.OnSubmit != ActionWebhook {
		t.Fatalf("actions not decoded: %+v", def.Actions)
	}
	if len(def.Fields) != 1 || def.Fields[0].ID != "email" {
		t.Fatalf("fields not decoded: %+v", def.Fields)
	}
}
