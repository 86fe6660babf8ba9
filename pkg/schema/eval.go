package schema

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/luthfidi/formflow/pkg/model"
)

// Issue codes carried by RuleError, in the vocabulary validation consumers
// can switch on without parsing messages.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidEnum   = "invalid_enum"
	CodeBusinessRule  = "business_rule"
)

const ruleKindMembership model.RuleKind = "inOptions"

// RuleError reports the first failing rule for a field. Validation stops at
// the first failure, in rule declaration order.
type RuleError struct {
	Field   string
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a single value against the node. Fields without a required
// rule accept empty values outright: rules are not evaluated on absent
// values. The returned error is always a *RuleError.
func (fs FieldSchema) Validate(value any) error {
	if isAbsent(value, fs.Kind) {
		if !fs.Required {
			return nil
		}
		return fs.fail(model.RuleRequired, CodeRequired, "is required")
	}

	for _, rule := range fs.rules {
		if err := fs.applyRule(rule, value); err != nil {
			return err
		}
	}
	return nil
}

func (fs FieldSchema) applyRule(rule compiledRule, value any) error {
	switch rule.kind {
	case model.RuleRequired:
		// Required-on-checkbox means must-be-true, not non-empty.
		if fs.Kind == KindBoolean {
			if b, ok := value.(bool); !ok || !b {
				return fs.ruleFail(rule, CodeRequired, "must be checked")
			}
		}
		return nil

	case model.RuleMin:
		return fs.checkBound(rule, value, true)
	case model.RuleMax:
		return fs.checkBound(rule, value, false)

	case model.RuleEmail:
		if _, err := mail.ParseAddress(asString(value)); err != nil {
			return fs.ruleFail(rule, CodeInvalidFormat, "must be a valid email address")
		}
		return nil

	case model.RuleURL:
		u, err := url.Parse(asString(value))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fs.ruleFail(rule, CodeInvalidFormat, "must be a valid URL")
		}
		return nil

	case model.RulePattern:
		if rule.re != nil && !rule.re.MatchString(asString(value)) {
			return fs.ruleFail(rule, CodePattern, "has an invalid format")
		}
		return nil

	case model.RuleCustom:
		if rule.check == nil {
			return nil
		}
		if err := rule.check(value); err != nil {
			msg := rule.message
			if msg == "" {
				msg = err.Error()
			}
			return &RuleError{Field: fs.Name, Code: CodeBusinessRule, Message: msg}
		}
		return nil

	case ruleKindMembership:
		got := asString(value)
		for _, opt := range fs.field.Options {
			if opt.Value == got {
				return nil
			}
		}
		return fs.ruleFail(rule, CodeInvalidEnum, "is not one of the allowed options")

	default:
		return nil
	}
}

// checkBound dispatches min/max on the base kind: length bounds for strings,
// range bounds for numbers. Boolean fields ignore bounds.
func (fs FieldSchema) checkBound(rule compiledRule, value any, lower bool) error {
	switch fs.Kind {
	case KindNumber:
		n, ok := asNumber(value)
		if !ok {
			return fs.ruleFail(rule, CodeInvalidType, "must be a number")
		}
		if lower && n < rule.limit {
			return fs.ruleFail(rule, CodeTooSmall, fmt.Sprintf("must be at least %s", formatLimit(rule.limit)))
		}
		if !lower && n > rule.limit {
			return fs.ruleFail(rule, CodeTooBig, fmt.Sprintf("must be at most %s", formatLimit(rule.limit)))
		}
	case KindString:
		length := len([]rune(asString(value)))
		bound := int(rule.limit)
		if lower && length < bound {
			return fs.ruleFail(rule, CodeTooShort, fmt.Sprintf("must be at least %d characters", bound))
		}
		if !lower && length > bound {
			return fs.ruleFail(rule, CodeTooLong, fmt.Sprintf("must be at most %d characters", bound))
		}
	}
	return nil
}

func (fs FieldSchema) ruleFail(rule compiledRule, code, fallback string) error {
	if rule.message != "" {
		return &RuleError{Field: fs.Name, Code: code, Message: rule.message}
	}
	return fs.fail(rule.kind, code, fallback)
}

func (fs FieldSchema) fail(kind model.RuleKind, code, fallback string) error {
	message := fallback
	for _, rule := range fs.rules {
		if rule.kind == kind && rule.message != "" {
			message = rule.message
			break
		}
	}
	label := fs.field.Label
	if label == "" {
		label = fs.Name
	}
	if message == fallback {
		message = label + " " + fallback
	}
	return &RuleError{Field: fs.Name, Code: code, Message: message}
}

// ValidateValues runs every named visible field against its node and returns
// the failures keyed by bind name. Fields missing from the schema are
// skipped; values for hidden fields are not validated.
func (s Schema) ValidateValues(values map[string]any, visible []string) map[string]*RuleError {
	failures := make(map[string]*RuleError)
	for _, name := range visible {
		node, ok := s.Field(name)
		if !ok {
			continue
		}
		if err := node.Validate(values[name]); err != nil {
			failures[name] = err.(*RuleError)
		}
	}
	return failures
}

// isAbsent decides whether a value counts as "not provided" for the purpose
// of optional-field short-circuiting. Booleans are never absent: a checkbox
// always has a state.
func isAbsent(value any, kind Kind) bool {
	if value == nil {
		return true
	}
	switch kind {
	case KindBoolean:
		return false
	case KindNumber:
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return false
	default:
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return false
	}
}

func asString(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func formatLimit(limit float64) string {
	return strconv.FormatFloat(limit, 'f', -1, 64)
}
