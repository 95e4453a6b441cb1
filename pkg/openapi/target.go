package openapi

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/goliatone/go-typescaf/pkg/render"
)

// TargetName is the registry name of the OpenAPI target.
const TargetName = "openapi"

// Target writes <Class>.openapi.json describing one class.
type Target struct {
	dir    string
	layout render.Layout
}

var _ render.Target = (*Target)(nil)

// NewTarget writes into dir relative to the layout root.
func NewTarget(dir string, layout render.Layout) *Target {
	return &Target{dir: dir, layout: layout}
}

// Name implements render.Target.
func (*Target) Name() string { return TargetName }

// Render implements render.Target.
func (t *Target) Render(ctx context.Context, component *render.Component) (render.Output, error) {
	if err := ctx.Err(); err != nil {
		return render.Output{}, err
	}
	doc, err := Build(ctx, []Class{{Name: component.ClassName, Properties: component.Types}}, Options{
		Title:   component.Title + " API",
		BaseURL: component.BaseRestAPIURL,
	})
	if err != nil {
		return render.Output{}, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return render.Output{}, fmt.Errorf("openapi: marshal %s: %w", component.ClassName, err)
	}
	path := filepath.Join(t.layout.RuntimeDir(t.dir), component.ClassName+".openapi.json")
	return render.Output{Path: path, Content: data}, nil
}
