package gotemplate

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greeting.tmpl": {Data: []byte("Hello {{ name }}!")},
		"loop.tmpl":     {Data: []byte("{% for item in items %}{{ item }};{% endfor %}")},
	}
}

func TestNewRequiresSource(t *testing.T) {
	t.Parallel()

	if _, err := New(); err == nil {
		t.Fatal("expected error when neither base dir nor FS is set")
	}
}

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("greeting", map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello world!" {
		t.Fatalf("got %q", out)
	}

	// extension already present is not doubled
	out, err = engine.RenderTemplate("greeting.tmpl", map[string]any{"name": "again"})
	if err != nil {
		t.Fatalf("render with extension: %v", err)
	}
	if out != "Hello again!" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderString(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString("{{ a }}+{{ b }}", map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "1+2" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderDispatchesOnContent(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	inline, err := engine.Render("inline {{ name }}", map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("inline render: %v", err)
	}
	if inline != "inline x" {
		t.Fatalf("got %q", inline)
	}

	byPath, err := engine.Render("loop", map[string]any{"items": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("path render: %v", err)
	}
	if byPath != "a;b;" {
		t.Fatalf("got %q", byPath)
	}
}

func TestGlobalData(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()), WithGlobalData(map[string]any{"name": "global"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("greeting", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello global!" {
		t.Fatalf("got %q", out)
	}

	// per-call data wins over globals
	out, err = engine.RenderTemplate("greeting", map[string]any{"name": "local"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello local!" {
		t.Fatalf("got %q", out)
	}
}

func TestMissingTemplate(t *testing.T) {
	t.Parallel()

	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := engine.RenderTemplate("nope", nil); err == nil || !strings.Contains(err.Error(), "nope.tmpl") {
		t.Fatalf("got %v, want a load error naming the path", err)
	}
}
