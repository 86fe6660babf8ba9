package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/luthfidi/formflow/pkg/model"
)

var (
	// ErrOperationNotFound reports that no operation matched the requested id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody reports that the operation carries no usable body schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

// LoadFile parses an OpenAPI document from disk.
func LoadFile(ctx context.Context, path string) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %q: %w", path, err)
	}
	return doc, nil
}

// LoadData parses an OpenAPI document from raw bytes.
func LoadData(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}

// Operations lists the ids of every operation in the document that carries a
// request body, sorted for stable output. Operations without an explicit
// operationId get a method:path identifier.
func Operations(doc *openapi3.T) []string {
	if doc == nil || doc.Paths == nil {
		return nil
	}

	var ids []string
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || requestSchema(op) == nil {
				continue
			}
			ids = append(ids, operationID(op, method, path))
		}
	}
	sort.Strings(ids)
	return ids
}

// FormFromOperation converts one operation's request body schema into a form
// configuration: one field per body property, in sorted property order so
// regeneration is deterministic.
func FormFromOperation(doc *openapi3.T, id string) (model.FormConfig, error) {
	if doc == nil || doc.Paths == nil {
		return model.FormConfig{}, errors.New("openapi: document has no paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || operationID(op, method, path) != id {
				continue
			}

			schema := requestSchema(op)
			if schema == nil {
				return model.FormConfig{}, fmt.Errorf("%w: %s", ErrNoRequestBody, id)
			}
			return formFromSchema(op, schema)
		}
	}
	return model.FormConfig{}, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
}

func operationID(op *openapi3.Operation, method, path string) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

// requestSchema picks the operation's body schema, preferring JSON and form
// media types the way browsers submit them.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func formFromSchema(op *openapi3.Operation, schema *openapi3.Schema) (model.FormConfig, error) {
	cfg := model.FormConfig{
		Title:       op.Summary,
		Description: op.Description,
	}
	if cfg.Title == "" {
		cfg.Title = op.OperationID
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := fieldFromProperty(name, ref.Value, required[name])
		if err != nil {
			return model.FormConfig{}, err
		}
		cfg.Fields = append(cfg.Fields, field)
	}
	return cfg, nil
}

func fieldFromProperty(name string, prop *openapi3.Schema, required bool) (model.FieldConfig, error) {
	field := model.FieldConfig{
		ID:      name,
		Name:    name,
		Label:   prop.Title,
		Type:    fieldType(prop),
		Default: prop.Default,
	}
	if field.Label == "" {
		field.Label = name
	}

	if field.Type == model.FieldTypeSelect {
		for _, value := range prop.Enum {
			text := fmt.Sprint(value)
			field.Options = append(field.Options, model.SelectOption{Label: text, Value: text})
		}
	}

	if required {
		field.Rules = append(field.Rules, model.Required())
	}
	field.Rules = append(field.Rules, constraintRules(prop, field.Type)...)
	return field, nil
}

// fieldType maps an OpenAPI property onto a form-friendly control type.
// Enumerated strings become selects; formats pick the matching input.
func fieldType(prop *openapi3.Schema) model.FieldType {
	switch {
	case prop.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeCheckbox
	case prop.Type.Is(openapi3.TypeInteger), prop.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	}

	if len(prop.Enum) > 0 {
		return model.FieldTypeSelect
	}

	switch prop.Format {
	case "email":
		return model.FieldTypeEmail
	case "date", "date-time":
		return model.FieldTypeDate
	case "password":
		return model.FieldTypePassword
	case "textarea":
		return model.FieldTypeTextarea
	default:
		return model.FieldTypeText
	}
}

func constraintRules(prop *openapi3.Schema, kind model.FieldType) []model.ValidationRule {
	var rules []model.ValidationRule

	if kind == model.FieldTypeNumber {
		if prop.Min != nil {
			rules = append(rules, model.Min(*prop.Min))
		}
		if prop.Max != nil {
			rules = append(rules, model.Max(*prop.Max))
		}
		return rules
	}

	if prop.MinLength > 0 {
		rules = append(rules, model.Min(float64(prop.MinLength)))
	}
	if prop.MaxLength != nil {
		rules = append(rules, model.Max(float64(*prop.MaxLength)))
	}
	if prop.Pattern != "" {
		rules = append(rules, model.Pattern(prop.Pattern))
	}
	if prop.Format == "email" {
		rules = append(rules, model.Email())
	}
	if prop.Format == "uri" || prop.Format == "url" {
		rules = append(rules, model.URL())
	}
	return rules
}
