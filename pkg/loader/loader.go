package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luthfidi/formflow/pkg/condition"
	"github.com/luthfidi/formflow/pkg/model"
)

// document is the on-disk shape of a form configuration. YAML field names
// double as the JSON names, so both formats parse through the same path.
type document struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	SubmitLabel string     `yaml:"submitLabel"`
	Fields      []fieldDoc `yaml:"fields"`
}

type fieldDoc struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Label      string         `yaml:"label"`
	Type       string         `yaml:"type"`
	Default    any            `yaml:"default"`
	Validator  string         `yaml:"validator"`
	Conditions []conditionDoc `yaml:"conditions"`
	Rules      []ruleDoc      `yaml:"rules"`
	Options    []optionDoc    `yaml:"options"`
}

type conditionDoc struct {
	Field string `yaml:"field"`
	Op    string `yaml:"op"`
	Value any    `yaml:"value"`
}

type ruleDoc struct {
	Kind    string   `yaml:"kind"`
	Limit   *float64 `yaml:"limit"`
	Param   string   `yaml:"param"`
	Message string   `yaml:"message"`
}

type optionDoc struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// Parse decodes a YAML or JSON form document into a configuration. The
// result is not yet validated; schema generation validates and fails closed.
func Parse(data []byte) (model.FormConfig, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.FormConfig{}, fmt.Errorf("loader: parse document: %w", err)
	}
	return convertDocument(doc)
}

// ParseFile reads and decodes a form document from disk.
func ParseFile(path string) (model.FormConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("loader: read %q: %w", path, err)
	}
	return Parse(data)
}

// FromReader decodes a form document from a stream.
func FromReader(r io.Reader) (model.FormConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("loader: read document: %w", err)
	}
	return Parse(data)
}

func convertDocument(doc document) (model.FormConfig, error) {
	cfg := model.FormConfig{
		Title:       strings.TrimSpace(doc.Title),
		Description: strings.TrimSpace(doc.Description),
		SubmitLabel: strings.TrimSpace(doc.SubmitLabel),
	}

	for _, field := range doc.Fields {
		converted, err := convertField(field)
		if err != nil {
			return model.FormConfig{}, err
		}
		cfg.Fields = append(cfg.Fields, converted)
	}
	return cfg, nil
}

func convertField(doc fieldDoc) (model.FieldConfig, error) {
	field := model.FieldConfig{
		ID:        strings.TrimSpace(doc.ID),
		Name:      strings.TrimSpace(doc.Name),
		Label:     strings.TrimSpace(doc.Label),
		Type:      model.FieldType(strings.TrimSpace(doc.Type)),
		Default:   doc.Default,
		Validator: strings.TrimSpace(doc.Validator),
	}

	for _, cond := range doc.Conditions {
		built, err := condition.New(condition.Op(strings.TrimSpace(cond.Op)), strings.TrimSpace(cond.Field), cond.Value)
		if err != nil {
			return model.FieldConfig{}, fmt.Errorf("loader: field %q: %w", field.ID, err)
		}
		field.Conditions = append(field.Conditions, built)
	}

	for _, rule := range doc.Rules {
		built, err := convertRule(rule)
		if err != nil {
			return model.FieldConfig{}, fmt.Errorf("loader: field %q: %w", field.ID, err)
		}
		field.Rules = append(field.Rules, built)
	}

	for _, opt := range doc.Options {
		field.Options = append(field.Options, model.SelectOption{
			Label: strings.TrimSpace(opt.Label),
			Value: strings.TrimSpace(opt.Value),
		})
	}
	return field, nil
}

// convertRule maps a document rule onto a validation rule. Custom rules carry
// Go functions and cannot be expressed in a document.
func convertRule(doc ruleDoc) (model.ValidationRule, error) {
	kind := model.RuleKind(strings.TrimSpace(doc.Kind))
	var rule model.ValidationRule

	switch kind {
	case model.RuleRequired:
		rule = model.Required()
	case model.RuleMin:
		if doc.Limit == nil {
			return model.ValidationRule{}, fmt.Errorf("loader: rule %q needs a limit", kind)
		}
		rule = model.Min(*doc.Limit)
	case model.RuleMax:
		if doc.Limit == nil {
			return model.ValidationRule{}, fmt.Errorf("loader: rule %q needs a limit", kind)
		}
		rule = model.Max(*doc.Limit)
	case model.RuleEmail:
		rule = model.Email()
	case model.RuleURL:
		rule = model.URL()
	case model.RulePattern:
		rule = model.Pattern(doc.Param)
	default:
		return model.ValidationRule{}, fmt.Errorf("loader: unsupported rule kind %q", doc.Kind)
	}

	if doc.Message != "" {
		rule = rule.WithMessage(doc.Message)
	}
	return rule, nil
}
