package condition

import "fmt"

// Op identifies the comparison a Condition performs against the value bag.
type Op string

const (
	OpEquals      Op = "equals"
	OpNotEquals   Op = "notEquals"
	OpContains    Op = "contains"
	OpGreaterThan Op = "greaterThan"
	OpLessThan    Op = "lessThan"
	OpIsEmpty     Op = "isEmpty"
	OpIsNotEmpty  Op = "isNotEmpty"
	OpCustom      Op = "custom"
)

// Predicate is the escape hatch for checks the declarative operators cannot
// express. It receives the full value bag and may fail; the failure surfaces
// as an evaluator fault rather than a silent false.
type Predicate func(values map[string]any) (bool, error)

// Condition is an immutable declarative check against a bag of field values.
// Construct one via the operator helpers (Equals, Contains, IsEmpty, ...);
// the zero value is not a valid condition.
type Condition struct {
	op        Op
	field     string
	value     any
	predicate Predicate
}

// Op reports which operator the condition applies.
func (c Condition) Op() Op { return c.op }

// Field reports the bind name the condition reads, empty for custom
// predicates which see the whole bag.
func (c Condition) Field() string { return c.field }

// Value reports the comparison operand, nil for operators without one.
func (c Condition) Value() any { return c.value }

// Equals matches when the field's value strictly equals the operand.
func Equals(field string, value any) Condition {
	return Condition{op: OpEquals, field: field, value: value}
}

// NotEquals matches when the field's value strictly differs from the operand.
func NotEquals(field string, value any) Condition {
	return Condition{op: OpNotEquals, field: field, value: value}
}

// Contains matches when the stringified field value contains substr.
func Contains(field, substr string) Condition {
	return Condition{op: OpContains, field: field, value: substr}
}

// GreaterThan matches when the numeric-coerced field value exceeds the
// operand. Non-numeric field values never match.
func GreaterThan(field string, value any) Condition {
	return Condition{op: OpGreaterThan, field: field, value: value}
}

// LessThan matches when the numeric-coerced field value is below the operand.
// Non-numeric field values never match.
func LessThan(field string, value any) Condition {
	return Condition{op: OpLessThan, field: field, value: value}
}

// IsEmpty matches when the field's value is empty: absent, nil, a blank
// string, or an empty slice/map. Zero numbers and false are not empty.
func IsEmpty(field string) Condition {
	return Condition{op: OpIsEmpty, field: field}
}

// IsNotEmpty is the exact complement of IsEmpty for the same field.
func IsNotEmpty(field string) Condition {
	return Condition{op: OpIsNotEmpty, field: field}
}

// Custom wraps an arbitrary predicate over the full value bag.
func Custom(fn Predicate) Condition {
	return Condition{op: OpCustom, predicate: fn}
}

// New constructs a condition from its serialized parts. Loaders use it when
// materializing configuration documents; programmatic callers should prefer
// the operator helpers.
func New(op Op, field string, value any) (Condition, error) {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpGreaterThan, OpLessThan:
		if field == "" {
			return Condition{}, fmt.Errorf("condition: %s requires a field name", op)
		}
		if op == OpContains {
			if _, ok := value.(string); !ok {
				return Condition{}, fmt.Errorf("condition: contains requires a string operand, got %T", value)
			}
		}
		return Condition{op: op, field: field, value: value}, nil
	case OpIsEmpty, OpIsNotEmpty:
		if field == "" {
			return Condition{}, fmt.Errorf("condition: %s requires a field name", op)
		}
		return Condition{op: op, field: field}, nil
	case OpCustom:
		return Condition{}, fmt.Errorf("condition: custom conditions cannot be built from documents")
	default:
		return Condition{}, fmt.Errorf("condition: unknown operator %q", op)
	}
}
