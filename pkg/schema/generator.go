package schema

import (
	"fmt"
	"regexp"

	"github.com/luthfidi/formflow/pkg/model"
)

// Kind is the base value kind a field schema validates.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// FieldSchema is the compiled validation node for one field: its base kind,
// whether a value is required, and the constraints in rule declaration order.
type FieldSchema struct {
	Name     string
	Kind     Kind
	Required bool

	field model.FieldConfig
	rules []compiledRule
}

// Field returns the configuration this schema node was generated from.
func (fs FieldSchema) Field() model.FieldConfig { return fs.field }

type compiledRule struct {
	kind    model.RuleKind
	limit   float64
	re      *regexp.Regexp
	check   func(any) error
	message string
}

// Schema is the generated validation schema plus default values for a form.
// Generation is deterministic and pure: identical configurations always yield
// structurally identical schemas.
type Schema struct {
	fields   []FieldSchema
	byName   map[string]int
	defaults map[string]any
	warnings []model.ReferenceWarning
}

// Fields returns the schema nodes in field declaration order.
func (s Schema) Fields() []FieldSchema { return s.fields }

// Field looks up the schema node for a bind name.
func (s Schema) Field(name string) (FieldSchema, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return FieldSchema{}, false
	}
	return s.fields[idx], true
}

// Warnings reports the soft configuration warnings collected at generation
// time (currently dangling condition references).
func (s Schema) Warnings() []model.ReferenceWarning { return s.warnings }

// Defaults returns a fresh copy of the default-values map covering every
// field. Fields with no configured default get a type-appropriate empty
// value: empty string for text-likes, false for checkboxes; optional numbers
// stay absent.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s.defaults))
	for name, value := range s.defaults {
		out[name] = value
	}
	return out
}

// DefaultsFor returns defaults scoped to the given visible bind names.
func (s Schema) DefaultsFor(visible []string) map[string]any {
	out := make(map[string]any, len(visible))
	for _, name := range visible {
		if value, ok := s.defaults[name]; ok {
			out[name] = value
		}
	}
	return out
}

// Generate compiles a form configuration into its validation schema and
// default values. The configuration is validated first and generation fails
// closed on any configuration error rather than producing a partial schema.
func Generate(cfg model.FormConfig) (Schema, error) {
	warnings, err := cfg.Validate()
	if err != nil {
		return Schema{}, err
	}

	s := Schema{
		byName:   make(map[string]int, len(cfg.Fields)),
		defaults: make(map[string]any, len(cfg.Fields)),
		warnings: warnings,
	}

	for _, field := range cfg.Fields {
		node, err := compileField(field)
		if err != nil {
			return Schema{}, err
		}
		s.byName[field.Name] = len(s.fields)
		s.fields = append(s.fields, node)

		if field.Default != nil {
			s.defaults[field.Name] = field.Default
			continue
		}
		switch node.Kind {
		case KindBoolean:
			s.defaults[field.Name] = false
		case KindNumber:
			// optional numbers default to absent
		default:
			s.defaults[field.Name] = ""
		}
	}
	return s, nil
}

func compileField(field model.FieldConfig) (FieldSchema, error) {
	node := FieldSchema{
		Name:  field.Name,
		Kind:  kindOf(field.Type),
		field: field,
	}

	for _, rule := range field.Rules {
		compiled := compiledRule{kind: rule.Kind, message: rule.Message}
		switch rule.Kind {
		case model.RuleRequired:
			node.Required = true
		case model.RuleMin, model.RuleMax:
			compiled.limit = *rule.Limit
		case model.RulePattern:
			re, err := regexp.Compile(rule.Param)
			if err != nil {
				// Validate already rejected this; kept as a belt here because
				// Generate must never emit an uncompiled pattern.
				return FieldSchema{}, fmt.Errorf("schema: field %q: compile pattern: %w", field.ID, err)
			}
			compiled.re = re
		case model.RuleCustom:
			compiled.check = rule.Check
		}
		node.rules = append(node.rules, compiled)
	}

	// Select fields get an implicit membership constraint after the declared
	// rules so an explicit rule's message still wins on shared failures.
	if field.Type == model.FieldTypeSelect && len(field.Options) > 0 {
		node.rules = append(node.rules, compiledRule{kind: ruleKindMembership})
	}
	return node, nil
}

// kindOf maps the declared field type onto the schema base kind. Text-like
// types (and anything unrecognized) validate as strings.
func kindOf(t model.FieldType) Kind {
	switch t {
	case model.FieldTypeNumber:
		return KindNumber
	case model.FieldTypeCheckbox:
		return KindBoolean
	default:
		return KindString
	}
}
