// Package formflow assembles the conditional-form pipeline behind a small
// facade: load or declare a form configuration, compile it into a validation
// schema, drive a live session over it, and render the visible slice through
// a registered renderer.
package formflow

import (
	"github.com/luthfidi/formflow/pkg/condition"
	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/render"
	"github.com/luthfidi/formflow/pkg/renderers/tui"
	"github.com/luthfidi/formflow/pkg/renderers/vanilla"
	"github.com/luthfidi/formflow/pkg/schema"
	"github.com/luthfidi/formflow/pkg/session"
	"github.com/luthfidi/formflow/pkg/validate"
)

// Commonly used types re-exported so simple consumers only import the root.
type (
	FormConfig   = model.FormConfig
	FieldConfig  = model.FieldConfig
	SelectOption = model.SelectOption
	Condition    = condition.Condition
	Schema       = schema.Schema
	Session      = session.Session
	Snapshot     = session.Snapshot
	Result       = validate.Result
)

// Generate compiles a configuration into its validation schema and defaults.
func Generate(cfg model.FormConfig) (schema.Schema, error) {
	return schema.Generate(cfg)
}

// NewSession opens a live session over the configuration.
func NewSession(cfg model.FormConfig, opts ...session.Option) (*session.Session, error) {
	return session.New(cfg, opts...)
}

// NewValidationContext constructs a validation context for registering named
// validators before opening a session.
func NewValidationContext(opts ...validate.Option) *validate.Context {
	return validate.NewContext(opts...)
}

// DefaultRegistry wires the built-in renderers into a fresh registry.
func DefaultRegistry(options ...RegistryOption) (*render.Registry, error) {
	cfg := registryConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	registry := render.NewRegistry()

	htmlRenderer, err := vanilla.New(cfg.vanillaOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(htmlRenderer); err != nil {
		return nil, err
	}

	terminalRenderer, err := tui.New(cfg.tuiOptions...)
	if err != nil {
		return nil, err
	}
	if err := registry.Register(terminalRenderer); err != nil {
		return nil, err
	}

	return registry, nil
}

// RegistryOption customises the built-in renderer wiring.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	vanillaOptions []vanilla.Option
	tuiOptions     []tui.Option
}

// WithVanillaOptions passes options through to the HTML renderer.
func WithVanillaOptions(options ...vanilla.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.vanillaOptions = append(cfg.vanillaOptions, options...)
	}
}

// WithTUIOptions passes options through to the terminal renderer.
func WithTUIOptions(options ...tui.Option) RegistryOption {
	return func(cfg *registryConfig) {
		cfg.tuiOptions = append(cfg.tuiOptions, options...)
	}
}
