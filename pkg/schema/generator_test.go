package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/luthfidi/formflow/pkg/condition"
	"github.com/luthfidi/formflow/pkg/model"
)

func registrationConfig() model.FormConfig {
	return model.FormConfig{
		Title: "Register",
		Fields: []model.FieldConfig{
			{ID: "username", Name: "username", Type: model.FieldTypeText,
				Rules: []model.ValidationRule{model.Required(), model.Min(3)}},
			{ID: "age", Name: "age", Type: model.FieldTypeNumber,
				Rules: []model.ValidationRule{model.Min(18), model.Max(120)}},
			{ID: "country", Name: "country", Type: model.FieldTypeSelect,
				Default: "US",
				Options: []model.SelectOption{
					{Label: "United States", Value: "US"},
					{Label: "Indonesia", Value: "ID"},
				}},
			{ID: "state", Name: "state", Type: model.FieldTypeText,
				Conditions: []condition.Condition{condition.Equals("country", "US")}},
			{ID: "terms", Name: "terms", Type: model.FieldTypeCheckbox,
				Rules: []model.ValidationRule{model.Required()}},
		},
	}
}

func TestGenerateKindsAndRequired(t *testing.T) {
	t.Parallel()

	s, err := Generate(registrationConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []struct {
		name     string
		kind     Kind
		required bool
	}{
		{"username", KindString, true},
		{"age", KindNumber, false},
		{"country", KindString, false},
		{"state", KindString, false},
		{"terms", KindBoolean, true},
	}

	fields := s.Fields()
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		got := fields[i]
		if got.Name != w.name || got.Kind != w.kind || got.Required != w.required {
			t.Fatalf("field %d: got (%s %s required=%v), want (%s %s required=%v)",
				i, got.Name, got.Kind, got.Required, w.name, w.kind, w.required)
		}
	}
}

func TestGenerateFailsClosed(t *testing.T) {
	t.Parallel()

	cfg := registrationConfig()
	cfg.Fields[0].Rules = append(cfg.Fields[0].Rules, model.Pattern("(unclosed"))

	_, err := Generate(cfg)
	if !errors.Is(err, model.ErrInvalidPattern) {
		t.Fatalf("got %v, want pattern config error", err)
	}
}

func TestGenerateDefaults(t *testing.T) {
	t.Parallel()

	s, err := Generate(registrationConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	defaults := s.Defaults()
	want := map[string]any{
		"username": "",
		"country":  "US",
		"state":    "",
		"terms":    false,
	}
	if diff := cmp.Diff(want, defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if _, ok := defaults["age"]; ok {
		t.Fatal("optional number must not default")
	}

	scoped := s.DefaultsFor([]string{"country", "terms"})
	if diff := cmp.Diff(map[string]any{"country": "US", "terms": false}, scoped); diff != "" {
		t.Fatalf("scoped defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	first, err := Generate(registrationConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := Generate(registrationConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	type flat struct {
		Name     string
		Kind     Kind
		Required bool
	}
	flatten := func(s Schema) []flat {
		out := make([]flat, 0, len(s.Fields()))
		for _, f := range s.Fields() {
			out = append(out, flat{f.Name, f.Kind, f.Required})
		}
		return out
	}

	if diff := cmp.Diff(flatten(first), flatten(second)); diff != "" {
		t.Fatalf("schemas differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Defaults(), second.Defaults()); diff != "" {
		t.Fatalf("defaults differ between runs (-first +second):\n%s", diff)
	}
}

func TestGenerateCollectsWarnings(t *testing.T) {
	t.Parallel()

	cfg := registrationConfig()
	cfg.Fields[3].Conditions = []condition.Condition{condition.Equals("countrry", "US")}

	s, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	warnings := s.Warnings()
	if len(warnings) != 1 || warnings[0].Ref != "countrry" {
		t.Fatalf("got warnings %v, want one for countrry", warnings)
	}
}
