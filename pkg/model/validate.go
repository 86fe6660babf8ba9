package model

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/luthfidi/formflow/pkg/condition"
)

var (
	ErrMissingFieldID    = errors.New("form config: field id is required")
	ErrMissingBindName   = errors.New("form config: field bind name is required")
	ErrDuplicateFieldID  = errors.New("form config: duplicate field id")
	ErrDuplicateBindName = errors.New("form config: duplicate bind name")
	ErrUnknownFieldType  = errors.New("form config: unknown field type")
	ErrInvalidPattern    = errors.New("form config: invalid pattern rule")
	ErrMissingOptions    = errors.New("form config: select field has no options")
	ErrOptionsNotAllowed = errors.New("form config: options are only valid on select fields")
	ErrMissingRuleLimit  = errors.New("form config: min/max rule has no limit")
	ErrMissingCheck      = errors.New("form config: custom rule has no check function")
	ErrUnknownRuleKind   = errors.New("form config: unknown rule kind")
)

// ReferenceWarning flags a condition that reads a bind name not present in
// the form. At runtime such conditions evaluate false (the field stays
// hidden); the warning exists so authoring tools can surface the likely typo.
type ReferenceWarning struct {
	FieldID string
	Ref     string
}

func (w ReferenceWarning) String() string {
	return fmt.Sprintf("field %q: condition references unknown field %q", w.FieldID, w.Ref)
}

// Validate checks the configuration for authoring mistakes. Hard errors
// (duplicate identifiers, unknown types, uncompilable patterns) fail closed so
// no schema is ever generated from a malformed config; dangling condition
// references come back as soft warnings.
func (f FormConfig) Validate() ([]ReferenceWarning, error) {
	ids := make(map[string]struct{}, len(f.Fields))
	names := make(map[string]struct{}, len(f.Fields))

	for _, field := range f.Fields {
		if field.ID == "" {
			return nil, ErrMissingFieldID
		}
		if field.Name == "" {
			return nil, fmt.Errorf("field %q: %w", field.ID, ErrMissingBindName)
		}
		if _, seen := ids[field.ID]; seen {
			return nil, fmt.Errorf("field %q: %w", field.ID, ErrDuplicateFieldID)
		}
		ids[field.ID] = struct{}{}
		if _, seen := names[field.Name]; seen {
			return nil, fmt.Errorf("field %q: %w", field.ID, ErrDuplicateBindName)
		}
		names[field.Name] = struct{}{}

		if !KnownFieldType(field.Type) {
			return nil, fmt.Errorf("field %q: %w: %q", field.ID, ErrUnknownFieldType, field.Type)
		}

		if field.Type == FieldTypeSelect && len(field.Options) == 0 {
			return nil, fmt.Errorf("field %q: %w", field.ID, ErrMissingOptions)
		}
		if field.Type != FieldTypeSelect && len(field.Options) > 0 {
			return nil, fmt.Errorf("field %q: %w", field.ID, ErrOptionsNotAllowed)
		}

		if err := validateRules(field); err != nil {
			return nil, err
		}
	}

	var warnings []ReferenceWarning
	for _, field := range f.Fields {
		for _, cond := range field.Conditions {
			ref := cond.Field()
			if ref == "" || cond.Op() == condition.OpCustom {
				continue
			}
			if _, known := names[ref]; !known {
				warnings = append(warnings, ReferenceWarning{FieldID: field.ID, Ref: ref})
			}
		}
	}
	return warnings, nil
}

func validateRules(field FieldConfig) error {
	for _, rule := range field.Rules {
		switch rule.Kind {
		case RuleRequired, RuleEmail, RuleURL:
		case RuleMin, RuleMax:
			if rule.Limit == nil {
				return fmt.Errorf("field %q: %w", field.ID, ErrMissingRuleLimit)
			}
		case RulePattern:
			if _, err := regexp.Compile(rule.Param); err != nil {
				return fmt.Errorf("field %q: %w: %v", field.ID, ErrInvalidPattern, err)
			}
		case RuleCustom:
			if rule.Check == nil {
				return fmt.Errorf("field %q: %w", field.ID, ErrMissingCheck)
			}
		default:
			return fmt.Errorf("field %q: %w: %q", field.ID, ErrUnknownRuleKind, rule.Kind)
		}
	}
	return nil
}
