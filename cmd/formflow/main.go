package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/luthfidi/formflow"
	"github.com/luthfidi/formflow/pkg/loader"
	"github.com/luthfidi/formflow/pkg/model"
	"github.com/luthfidi/formflow/pkg/openapi"
	"github.com/luthfidi/formflow/pkg/render"
)

func main() {
	configPath := flag.String("config", "", "form document path (YAML or JSON)")
	specPath := flag.String("openapi", "", "OpenAPI document path")
	operation := flag.String("operation", "", "operation ID when using -openapi")
	renderer := flag.String("renderer", "vanilla", "renderer to use")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	form, err := loadForm(ctx, *configPath, *specPath, *operation)
	if err != nil {
		log.Fatalf("Failed to load form: %v", err)
	}

	session, err := formflow.NewSession(form)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	defer session.Close()

	registry, err := formflow.DefaultRegistry()
	if err != nil {
		log.Fatalf("Failed to wire renderers: %v", err)
	}

	target, err := registry.Get(*renderer)
	if err != nil {
		log.Fatalf("Unknown renderer: %v", err)
	}

	rendered, err := target.Render(ctx, form, session.Snapshot(), render.RenderOptions{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(rendered))
	}
}

func loadForm(ctx context.Context, configPath, specPath, operation string) (model.FormConfig, error) {
	switch {
	case configPath != "":
		return loader.ParseFile(configPath)
	case specPath != "":
		if operation == "" {
			return model.FormConfig{}, fmt.Errorf("-operation is required with -openapi")
		}
		doc, err := openapi.LoadFile(ctx, specPath)
		if err != nil {
			return model.FormConfig{}, err
		}
		return openapi.FormFromOperation(doc, operation)
	default:
		return model.FormConfig{}, fmt.Errorf("provide -config or -openapi")
	}
}
