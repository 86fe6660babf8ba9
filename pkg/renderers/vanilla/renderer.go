package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/render"
	rendertemplate "github.com/luthfidi/formflow/pkg/render/template"
	gotemplate "github.com/luthfidi/formflow/pkg/render/template/gotemplate"
	"github.com/luthfidi/formflow/pkg/session"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer emits plain HTML for the visible slice of a form session. Markup
// comes from the embedded pongo2 templates; rich-text descriptions pass
// through a UGC sanitizer before they reach the page.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	sanitizer *bluemonday.Policy
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template engine: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render resolves the snapshot into field view data and executes the form
// template. Only fields the snapshot marks visible reach the markup.
func (r *Renderer) Render(_ context.Context, form model.FormConfig, snap session.Snapshot, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template engine is nil")
	}

	states := render.BuildStates(form, snap, options)

	submitLabel := form.SubmitLabel
	if submitLabel == "" {
		submitLabel = "Submit"
	}

	data := map[string]any{
		"title":       form.Title,
		"description": r.sanitizer.Sanitize(form.Description),
		"submitLabel": submitLabel,
		"fields":      buildViewFields(states),
		"theme":       buildThemeContext(options.Theme),
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
