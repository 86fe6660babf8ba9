package render

import (
	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/session"
)

// FieldState is the fully resolved render decision for one visible field:
// what control to draw, the value to prefill, and the messages to attach.
// Building states up front keeps the templates free of conditional logic.
type FieldState struct {
	ID       string
	Name     string
	Label    string
	Type     model.FieldType
	Required bool
	Options  []model.SelectOption
	Value    any
	Messages []string
	Pending  bool
}

// BuildStates resolves the snapshot's visible fields into render states, in
// declaration order. Session results and server-side errors are merged and
// deduplicated per field; fields the configuration no longer knows are
// skipped.
func BuildStates(form model.FormConfig, snap session.Snapshot, options RenderOptions) []FieldState {
	pending := make(map[string]bool, len(snap.Pending))
	for _, name := range snap.Pending {
		pending[name] = true
	}

	states := make([]FieldState, 0, len(snap.Visible))
	for _, name := range snap.Visible {
		field, ok := form.Field(name)
		if !ok {
			continue
		}

		state := FieldState{
			ID:       field.ID,
			Name:     field.Name,
			Label:    fieldLabel(field),
			Type:     field.Type,
			Required: hasRequiredRule(field),
			Options:  field.Options,
			Value:    snap.Values[name],
			Pending:  pending[name],
		}

		var messages []string
		if result, ok := snap.Results[name]; ok && !result.Valid {
			messages = append(messages, result.Message)
		}
		messages = append(messages, options.Errors[name]...)
		state.Messages = normalizeMessages(messages)

		states = append(states, state)
	}
	return states
}

func fieldLabel(field model.FieldConfig) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func hasRequiredRule(field model.FieldConfig) bool {
	for _, rule := range field.Rules {
		if rule.Kind == model.RuleRequired {
			return true
		}
	}
	return false
}
