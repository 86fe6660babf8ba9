package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/render"
	"github.com/luthfidi/formflow/pkg/session"
	"github.com/luthfidi/formflow/pkg/validate"
)

func demoForm() model.FormConfig {
	return model.FormConfig{
		Title:       "Create your account",
		Description: `Read the <a href="/terms">terms</a> first <script>alert(1)</script>`,
		SubmitLabel: "Register",
		Fields: []model.FieldConfig{
			{ID: "username", Name: "username", Label: "Username", Type: model.FieldTypeText,
				Rules: []model.ValidationRule{model.Required()}},
			{ID: "email", Name: "email", Label: "Email", Type: model.FieldTypeEmail},
			{ID: "country", Name: "country", Label: "Country", Type: model.FieldTypeSelect,
				Options: []model.SelectOption{
					{Label: "United States", Value: "US"},
					{Label: "Indonesia", Value: "ID"},
				}},
			{ID: "terms", Name: "terms", Label: "Accept terms", Type: model.FieldTypeCheckbox},
		},
	}
}

func demoSnapshot() session.Snapshot {
	return session.Snapshot{
		Visible: []string{"username", "email", "country", "terms"},
		Values: map[string]any{
			"username": "luthfi",
			"email":    "",
			"country":  "ID",
			"terms":    true,
		},
		Results: map[string]validate.Result{
			"username": {Valid: false, Message: "Username is taken"},
		},
		Pending: []string{"email"},
	}
}

func TestRenderForm(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), demoForm(), demoSnapshot(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	for _, want := range []string{
		`<h1 class="ff-title">Create your account</h1>`,
		`id="ff-username"`,
		`value="luthfi"`,
		`type="email"`,
		`Username is taken`,
		`<option value="ID" selected>Indonesia</option>`,
		`type="checkbox"`,
		` checked`,
		`Checking...`,
		`>Register</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRenderSanitizesDescription(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), demoForm(), demoSnapshot(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	if strings.Contains(html, "<script>") {
		t.Fatal("script tag survived sanitization")
	}
	if !strings.Contains(html, `<a href="/terms"`) {
		t.Fatal("benign markup must survive sanitization")
	}
}

func TestRenderOmitsHiddenFields(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	snap := demoSnapshot()
	snap.Visible = []string{"username"}

	output, err := renderer.Render(context.Background(), demoForm(), snap, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	if strings.Contains(html, `name="country"`) {
		t.Fatal("hidden field rendered")
	}
	if !strings.Contains(html, `name="username"`) {
		t.Fatal("visible field missing")
	}
}

func TestRenderAppliesTheme(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), demoForm(), demoSnapshot(), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "acme",
			Variant: "dark",
			CSSVars: map[string]string{"--brand": "#123456", "accent": "#abcdef"},
			AssetURL: func(key string) string {
				return "/themes/acme/" + key
			},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)

	for _, want := range []string{
		"ff-theme-acme",
		"ff-variant-dark",
		"--brand: #123456;",
		"--accent: #abcdef;",
		`href="/themes/acme/vanilla.stylesheet"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestCSSVarsStyleStable(t *testing.T) {
	t.Parallel()

	vars := map[string]string{"b": "2", "a": "1", "--c": "3"}
	want := "--c: 3; --a: 1; --b: 2;"
	for i := 0; i < 5; i++ {
		if got := cssVarsStyle(vars); got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}
