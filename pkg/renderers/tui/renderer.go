package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/render"
	"github.com/luthfidi/formflow/pkg/session"
	"github.com/luthfidi/formflow/pkg/validate"
)

// Renderer implements render.Renderer for terminal-driven sessions. Rendering
// walks the visible fields interactively: each answer feeds the session,
// which may reveal or hide downstream fields before the next prompt. Fields
// failing validation are re-prompted until they pass or the user aborts.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	vctx         *validate.Context
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Render opens a fresh session seeded from the snapshot, prompts every
// visible field in order, and serializes the collected values. The session
// runs undebounced: terminal input is already gated on the user pressing
// enter, so each answer validates inline.
func (r *Renderer) Render(ctx context.Context, form model.FormConfig, snap session.Snapshot, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	opts := []session.Option{session.WithDebounce(0)}
	if r.vctx != nil {
		opts = append(opts, session.WithValidation(r.vctx))
	}
	sess, err := session.New(form, opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: open session: %w", err)
	}
	defer sess.Close()

	for name, value := range snap.Values {
		if err := sess.SetValue(name, value); err != nil {
			return nil, fmt.Errorf("tui: seed value %q: %w", name, err)
		}
	}

	if err := r.promptVisible(ctx, sess); err != nil {
		return nil, err
	}

	visible := sess.Visible()
	values := sess.Values()
	out := make(map[string]any, len(visible))
	for _, name := range visible {
		out[name] = values[name]
	}
	return r.serialize(out)
}

// promptVisible walks the visible set until every visible field has been
// answered in this pass. Answering a field can change visibility, so the
// walk restarts from the first unanswered visible field after each answer.
func (r *Renderer) promptVisible(ctx context.Context, sess *session.Session) error {
	answered := make(map[string]bool)

	for {
		next := ""
		for _, name := range sess.Visible() {
			if !answered[name] {
				next = name
				break
			}
		}
		if next == "" {
			return nil
		}

		field, ok := sess.Form().Field(next)
		if !ok {
			answered[next] = true
			continue
		}
		if err := r.promptField(ctx, sess, field); err != nil {
			return err
		}
		answered[next] = true
	}
}

// promptField asks for one field's value and retries until the answer passes
// the session's validation.
func (r *Renderer) promptField(ctx context.Context, sess *session.Session, field model.FieldConfig) error {
	for {
		value, err := r.askValue(ctx, sess, field)
		if err != nil {
			return err
		}

		if err := sess.SetValue(field.Name, value); err != nil {
			return fmt.Errorf("tui: set %q: %w", field.Name, err)
		}

		result, ok := sess.Snapshot().Results[field.Name]
		if ok && !result.Valid {
			if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Name, result.Message)); err != nil {
				return err
			}
			continue
		}
		return nil
	}
}

func (r *Renderer) askValue(ctx context.Context, sess *session.Session, field model.FieldConfig) (any, error) {
	label := displayLabel(field)
	current, _ := sess.Value(field.Name)

	switch field.Type {
	case model.FieldTypeCheckbox:
		def, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def})

	case model.FieldTypeSelect:
		options := make([]string, 0, len(field.Options))
		for _, opt := range field.Options {
			options = append(options, displayOption(opt))
		}
		defaultIdx := -1
		if s, ok := current.(string); ok {
			for i, opt := range field.Options {
				if opt.Value == s {
					defaultIdx = i
					break
				}
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil

	case model.FieldTypeNumber:
		defaultStr := ""
		if current != nil {
			defaultStr = fmt.Sprint(current)
		}
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: defaultStr})
		if err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			// Let the schema report the type failure through the normal path.
			return input, nil
		}
		return parsed, nil

	case model.FieldTypeTextarea:
		def, _ := current.(string)
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: def})

	case model.FieldTypePassword:
		return r.driver.Password(ctx, InputConfig{Message: label})

	default:
		def, _ := current.(string)
		return r.driver.Input(ctx, InputConfig{Message: label, Default: def})
	}
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(values)), nil
	}
	return json.Marshal(values)
}

func displayLabel(field model.FieldConfig) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func displayOption(opt model.SelectOption) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%v\n", key, values[key])
	}
	return b.String()
}
