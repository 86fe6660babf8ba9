package model

// RuleKind discriminates the closed validation rule variants.
type RuleKind string

const (
	RuleRequired RuleKind = "required"
	RuleMin      RuleKind = "min"
	RuleMax      RuleKind = "max"
	RuleEmail    RuleKind = "email"
	RuleURL      RuleKind = "url"
	RulePattern  RuleKind = "pattern"
	RuleCustom   RuleKind = "custom"
)

// ValidationRule is a single declarative constraint on a field. Each variant
// carries only the attributes meaningful for it: min/max encode their
// threshold in Limit, pattern keeps the raw expression in Param, custom wraps
// a check function. Message, when set, overrides the generated failure text.
type ValidationRule struct {
	Kind    RuleKind        `json:"kind"`
	Limit   *float64        `json:"limit,omitempty"`
	Param   string          `json:"param,omitempty"`
	Message string          `json:"message,omitempty"`
	Check   func(any) error `json:"-"`
}

// WithMessage returns a copy of the rule with the failure message overridden.
func (r ValidationRule) WithMessage(msg string) ValidationRule {
	r.Message = msg
	return r
}

// Required constrains the field to carry a value. On checkbox fields this is
// a must-be-true constraint, not a non-empty-string one; the schema generator
// preserves that fork.
func Required() ValidationRule {
	return ValidationRule{Kind: RuleRequired}
}

// Min constrains string length or numeric range depending on the field type.
func Min(n float64) ValidationRule {
	return ValidationRule{Kind: RuleMin, Limit: &n}
}

// Max constrains string length or numeric range depending on the field type.
func Max(n float64) ValidationRule {
	return ValidationRule{Kind: RuleMax, Limit: &n}
}

// Email constrains the value to parse as an email address.
func Email() ValidationRule {
	return ValidationRule{Kind: RuleEmail}
}

// URL constrains the value to parse as an absolute URL.
func URL() ValidationRule {
	return ValidationRule{Kind: RuleURL}
}

// Pattern constrains the stringified value to match the regular expression.
// The expression compiles at schema-generation time; an invalid expression is
// a configuration error, never a silent pass.
func Pattern(expr string) ValidationRule {
	return ValidationRule{Kind: RulePattern, Param: expr}
}

// CustomRule wraps an arbitrary per-value check. A non-nil error fails the
// rule with the error text (or the rule's Message override).
func CustomRule(fn func(value any) error) ValidationRule {
	return ValidationRule{Kind: RuleCustom, Check: fn}
}
