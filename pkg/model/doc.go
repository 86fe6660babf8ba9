// Package model defines the form configuration types authored by form
// designers: fields, validation rules, select options, and the form-level
// envelope, plus the authoring-time validation that fails closed on
// configuration mistakes.
package model
