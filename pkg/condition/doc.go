// Package condition evaluates declarative visibility conditions against a bag
// of form field values. Conditions are immutable data; evaluation is pure and
// side-effect free so callers can re-run the full set on every value change.
package condition
