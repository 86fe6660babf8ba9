package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Evaluate checks a single condition against the value bag. It is a pure
// function of its inputs: identical (condition, values) pairs always produce
// identical outcomes. A reference to a field absent from the bag evaluates
// false rather than failing; only custom predicate errors surface as faults.
func Evaluate(c Condition, values map[string]any) (bool, error) {
	switch c.op {
	case OpEquals:
		return equalValues(values[c.field], c.value), nil
	case OpNotEquals:
		return !equalValues(values[c.field], c.value), nil
	case OpContains:
		needle, _ := c.value.(string)
		return strings.Contains(coerceString(values[c.field]), needle), nil
	case OpGreaterThan:
		got, ok := coerceNumber(values[c.field])
		if !ok {
			return false, nil
		}
		want, ok := coerceNumber(c.value)
		if !ok {
			return false, nil
		}
		return got > want, nil
	case OpLessThan:
		got, ok := coerceNumber(values[c.field])
		if !ok {
			return false, nil
		}
		want, ok := coerceNumber(c.value)
		if !ok {
			return false, nil
		}
		return got < want, nil
	case OpIsEmpty:
		value, present := values[c.field]
		return !present || isEmptyValue(value), nil
	case OpIsNotEmpty:
		value, present := values[c.field]
		return present && !isEmptyValue(value), nil
	case OpCustom:
		if c.predicate == nil {
			return false, fmt.Errorf("condition: custom condition has no predicate")
		}
		ok, err := c.predicate(values)
		if err != nil {
			return false, fmt.Errorf("condition: custom predicate: %w", err)
		}
		return ok, nil
	default:
		return false, fmt.Errorf("condition: unknown operator %q", c.op)
	}
}

// equalValues compares two dynamic values. Numeric kinds compare by value so
// that an int 5 in the bag matches a float64 5 from a decoded document;
// everything else requires structural equality.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	an, aok := coerceNumber(a)
	bn, bok := coerceNumber(b)
	if aok && bok {
		_, aStr := a.(string)
		_, bStr := b.(string)
		if !aStr && !bStr {
			return an == bn
		}
	}
	return reflect.DeepEqual(a, b)
}

// isEmptyValue is the single "empty" predicate shared by IsEmpty and
// IsNotEmpty: nil, blank strings, and empty slices/maps are empty. The number
// zero and the boolean false are deliberately not empty.
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
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
