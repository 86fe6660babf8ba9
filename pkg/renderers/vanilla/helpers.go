package vanilla

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/render"
)

// viewField is the template-facing shape of one field. Everything the
// template needs is precomputed here so the markup stays branch-light.
type viewField struct {
	ControlID string
	Name      string
	Label     string
	Type      string
	InputType string
	Required  bool
	Checked   bool
	Value     string
	Options   []viewOption
	Messages  []string
	Pending   bool
}

type viewOption struct {
	Label    string
	Value    string
	Selected bool
}

type themeContext struct {
	Name         string
	Variant      string
	CSSVarsStyle string
	Stylesheet   string
}

func buildViewFields(states []render.FieldState) []viewField {
	out := make([]viewField, 0, len(states))
	for _, state := range states {
		field := viewField{
			ControlID: controlID(state.Name),
			Name:      state.Name,
			Label:     state.Label,
			Type:      string(state.Type),
			InputType: inputType(state.Type),
			Required:  state.Required,
			Messages:  state.Messages,
			Pending:   state.Pending,
		}

		switch state.Type {
		case model.FieldTypeCheckbox:
			field.Checked, _ = state.Value.(bool)
		case model.FieldTypeSelect:
			selected := valueString(state.Value)
			field.Value = selected
			for _, opt := range state.Options {
				field.Options = append(field.Options, viewOption{
					Label:    opt.Label,
					Value:    opt.Value,
					Selected: opt.Value == selected && selected != "",
				})
			}
		default:
			field.Value = valueString(state.Value)
		}

		out = append(out, field)
	}
	return out
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Stylesheet = cfg.AssetURL("vanilla.stylesheet")
	}
	return ctx
}

// cssVarsStyle flattens the theme's custom properties into an inline style
// attribute. Keys are sorted so output is stable across renders.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(vars[key]))
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "ff-" + trimmed
}

// inputType maps a field type onto the HTML input type used for it. Select,
// checkbox, and textarea use dedicated elements and never consult this.
func inputType(t model.FieldType) string {
	switch t {
	case model.FieldTypeEmail:
		return "email"
	case model.FieldTypeNumber:
		return "number"
	case model.FieldTypeDate:
		return "date"
	case model.FieldTypePassword:
		return "password"
	default:
		return "text"
	}
}

func valueString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
