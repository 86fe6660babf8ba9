package model

import (
	"errors"
	"testing"

	"github.com/luthfidi/formflow/pkg/condition"
)

func textField(id, name string) FieldConfig {
	return FieldConfig{ID: id, Name: name, Type: FieldTypeText}
}

func TestValidateHardErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     FormConfig
		wantErr error
	}{
		{
			name:    "missing id",
			cfg:     FormConfig{Fields: []FieldConfig{{Name: "email", Type: FieldTypeText}}},
			wantErr: ErrMissingFieldID,
		},
		{
			name:    "missing bind name",
			cfg:     FormConfig{Fields: []FieldConfig{{ID: "email", Type: FieldTypeText}}},
			wantErr: ErrMissingBindName,
		},
		{
			name:    "duplicate id",
			cfg:     FormConfig{Fields: []FieldConfig{textField("f", "a"), textField("f", "b")}},
			wantErr: ErrDuplicateFieldID,
		},
		{
			name:    "duplicate bind name",
			cfg:     FormConfig{Fields: []FieldConfig{textField("a", "f"), textField("b", "f")}},
			wantErr: ErrDuplicateBindName,
		},
		{
			name:    "unknown field type",
			cfg:     FormConfig{Fields: []FieldConfig{{ID: "f", Name: "f", Type: FieldType("wysiwyg")}}},
			wantErr: ErrUnknownFieldType,
		},
		{
			name:    "select without options",
			cfg:     FormConfig{Fields: []FieldConfig{{ID: "f", Name: "f", Type: FieldTypeSelect}}},
			wantErr: ErrMissingOptions,
		},
		{
			name: "options on text field",
			cfg: FormConfig{Fields: []FieldConfig{{
				ID: "f", Name: "f", Type: FieldTypeText,
				Options: []SelectOption{{Label: "A", Value: "a"}},
			}}},
			wantErr: ErrOptionsNotAllowed,
		},
		{
			name: "min without limit",
			cfg: FormConfig{Fields: []FieldConfig{{
				ID: "f", Name: "f", Type: FieldTypeText,
				Rules: []ValidationRule{{Kind: RuleMin}},
			}}},
			wantErr: ErrMissingRuleLimit,
		},
		{
			name: "invalid pattern",
			cfg: FormConfig{Fields: []FieldConfig{{
				ID: "f", Name: "f", Type: FieldTypeText,
				Rules: []ValidationRule{Pattern("(unclosed")},
			}}},
			wantErr: ErrInvalidPattern,
		},
		{
			name: "custom rule without check",
			cfg: FormConfig{Fields: []FieldConfig{{
				ID: "f", Name: "f", Type: FieldTypeText,
				Rules: []ValidationRule{{Kind: RuleCustom}},
			}}},
			wantErr: ErrMissingCheck,
		},
		{
			name: "unknown rule kind",
			cfg: FormConfig{Fields: []FieldConfig{{
				ID: "f", Name: "f", Type: FieldTypeText,
				Rules: []ValidationRule{{Kind: RuleKind("length")}},
			}}},
			wantErr: ErrUnknownRuleKind,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.cfg.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateDanglingReferenceWarns(t *testing.T) {
	t.Parallel()

	cfg := FormConfig{Fields: []FieldConfig{
		{ID: "country", Name: "country", Type: FieldTypeSelect,
			Options: []SelectOption{{Label: "US", Value: "US"}}},
		{ID: "state", Name: "state", Type: FieldTypeText,
			Conditions: []condition.Condition{condition.Equals("countrry", "US")}},
	}}

	warnings, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].FieldID != "state" || warnings[0].Ref != "countrry" {
		t.Fatalf("unexpected warning: %+v", warnings[0])
	}
}

func TestValidateCustomConditionsSkipReferenceCheck(t *testing.T) {
	t.Parallel()

	cfg := FormConfig{Fields: []FieldConfig{
		{ID: "f", Name: "f", Type: FieldTypeText,
			Conditions: []condition.Condition{condition.Custom(func(map[string]any) (bool, error) {
				return true, nil
			})}},
	}}

	warnings, err := cfg.Validate()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("got warnings %v, want none", warnings)
	}
}

func TestVisibleFields(t *testing.T) {
	t.Parallel()

	cfg := FormConfig{Fields: []FieldConfig{
		{ID: "country", Name: "country", Type: FieldTypeSelect,
			Options: []SelectOption{{Label: "US", Value: "US"}}},
		{ID: "state", Name: "state", Type: FieldTypeText,
			Conditions: []condition.Condition{condition.Equals("country", "US")}},
		{ID: "email", Name: "email", Type: FieldTypeEmail},
	}}

	visible, err := cfg.VisibleFields(map[string]any{"country": "ID"})
	if err != nil {
		t.Fatalf("visible fields: %v", err)
	}
	if len(visible) != 2 || visible[0] != "country" || visible[1] != "email" {
		t.Fatalf("got %v, want [country email]", visible)
	}

	visible, err = cfg.VisibleFields(map[string]any{"country": "US"})
	if err != nil {
		t.Fatalf("visible fields: %v", err)
	}
	if len(visible) != 3 || visible[1] != "state" {
		t.Fatalf("got %v, want state visible in declaration order", visible)
	}
}
