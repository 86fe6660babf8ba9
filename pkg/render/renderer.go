package render

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/session"
)

// Renderer converts a form configuration plus a session snapshot into a byte
// representation (HTML, terminal transcript, etc.). Renderers never decide
// visibility or validity themselves; the snapshot is the single source of
// truth for what to show and which messages to attach.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormConfig, snap session.Snapshot, options RenderOptions) ([]byte, error)
}

// RenderOptions carry per-request presentation data that renderers can use
// without mutating the session.
type RenderOptions struct {
	// Errors surfaces server-side validation feedback keyed by bind name.
	// Renderers merge these with the snapshot's own results.
	Errors map[string][]string
	// Theme optionally carries a resolved theme configuration. Renderers that
	// ignore theming accept a nil value.
	Theme *theme.RendererConfig
}
