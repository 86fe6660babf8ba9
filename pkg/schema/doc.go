// Package schema compiles a form configuration into a runtime validation
// schema plus default values. Generation is deterministic, fails closed on
// configuration errors, and preserves the type-dependent semantics of each
// rule (length vs range bounds, must-be-true checkboxes).
package schema
