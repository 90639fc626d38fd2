// Package forms implements the runtime behavior of the form widget: field
// state, conditional visibility, validation, and the submit pipeline.
package forms

import (
	"encoding/json"
	"fmt"

	"storefront-backend/internal/models"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
	FieldURL      FieldType = "url"
	FieldPassword FieldType = "password"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldCheckbox FieldType = "checkbox"
	FieldRadio    FieldType = "radio"
	FieldDate     FieldType = "date"
	FieldFile     FieldType = "file"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Validation struct {
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	CustomMessage string   `json:"custom_message,omitempty"`
}

// ShowWhen is the structured visibility condition of a field. It references
// another field of the same form by id.
type ShowWhen struct {
	FieldID  string      `json:"field_id"`
	Value    interface{} `json:"value"`
	Operator string      `json:"operator"`
}

type ConditionalLogic struct {
	ShowWhen *ShowWhen `json:"show_when,omitempty"`
}

type Field struct {
	ID               string            `json:"id"`
	Type             FieldType         `json:"type"`
	Label            string            `json:"label"`
	Placeholder      string            `json:"placeholder,omitempty"`
	Required         bool              `json:"required"`
	DefaultValue     interface{}       `json:"default_value,omitempty"`
	Validation       *Validation       `json:"validation,omitempty"`
	Options          []Option          `json:"options,omitempty"`
	ConditionalLogic *ConditionalLogic `json:"conditional_logic,omitempty"`
}

type ActionType string

const (
	ActionEmail    ActionType = "email"
	ActionWebhook  ActionType = "webhook"
	ActionRedirect ActionType = "redirect"
	ActionCustom   ActionType = "custom"
)

type Actions struct {
	OnSubmit    ActionType `json:"on_submit"`
	EmailTo     string     `json:"email_to,omitempty"`
	WebhookURL  string     `json:"webhook_url,omitempty"`
	RedirectURL string     `json:"redirect_url,omitempty"`
}

type Policy struct {
	ValidateOnBlur   bool `json:"validate_on_blur"`
	ValidateOnChange bool `json:"validate_on_change"`
}

// Definition is the parsed props payload of a form widget.
type Definition struct {
	Title      string  `json:"title"`
	Fields     []Field `json:"fields"`
	Actions    Actions `json:"actions"`
	Validation Policy  `json:"validation"`
}

// ParseDefinition decodes a form widget's props into a typed definition.
func ParseDefinition(props models.JSONMap) (*Definition, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("encode form props: %w", err)
	}

	var def Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode form props: %w", err)
	}

	if def.Actions.OnSubmit == "" {
		def.Actions.OnSubmit = ActionEmail
	}

	return &def, nil
}

// FieldByID finds a declared field, used to detect dangling condition refs.
func (d *Definition) FieldByID(id string) (Field, bool) {
	for _, f := range d.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}
