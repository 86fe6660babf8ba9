package model

import (
	"github.com/luthfidi/formflow/pkg/condition"
)

// FieldType is the closed enum of form-friendly field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDate     FieldType = "date"
	FieldTypePassword FieldType = "password"
)

// KnownFieldType reports whether t is one of the declared field kinds.
func KnownFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeSelect,
		FieldTypeCheckbox, FieldTypeTextarea, FieldTypeDate, FieldTypePassword:
		return true
	default:
		return false
	}
}

// SelectOption is one choice of a select field. Order is significant.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldConfig describes a single form field: identity, display metadata, the
// conditions governing its visibility (AND-combined, in order), its validation
// rules (applied in declaration order), and an optional default value.
//
// Validator optionally names a validator registered on the session's
// validation context; it runs after the schema rules pass, which is where
// availability-style checks hook in.
type FieldConfig struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Label      string                `json:"label,omitempty"`
	Type       FieldType             `json:"type"`
	Conditions []condition.Condition `json:"-"`
	Rules      []ValidationRule      `json:"rules,omitempty"`
	Options    []SelectOption        `json:"options,omitempty"`
	Default    any                   `json:"default,omitempty"`
	Validator  string                `json:"validator,omitempty"`
}

// FormConfig is the sole authoring input: an ordered field list plus
// form-level metadata. Field order is render order and schema key order.
type FormConfig struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	SubmitLabel string        `json:"submitLabel,omitempty"`
	Fields      []FieldConfig `json:"fields"`
}

// Field looks up a field configuration by bind name.
func (f FormConfig) Field(name string) (FieldConfig, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// VisibleFields re-evaluates every field's condition list against the value
// bag and returns the visible bind names in declaration order. The whole set
// is recomputed on every call; with field counts capped in the tens the
// O(fields x conditions) cost is deliberate simplicity.
func (f FormConfig) VisibleFields(values map[string]any) ([]string, error) {
	visible := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		ok, err := condition.Visible(field.Conditions, values)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, field.Name)
		}
	}
	return visible, nil
}
