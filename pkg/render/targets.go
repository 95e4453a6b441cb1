package render

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-typescaf/pkg/render/template"
	"github.com/goliatone/go-typescaf/pkg/settings"
	"github.com/goliatone/go-typescaf/pkg/templates"
)

// TemplateTarget renders one configured template file.
type TemplateTarget struct {
	spec   settings.TransformTemplate
	engine template.TemplateRenderer
	set    string
	theme  *theme.RendererConfig
	layout Layout
}

// NewTemplateTarget binds a transform template to an engine. set names the
// template set directory; cfg may be nil.
func NewTemplateTarget(spec settings.TransformTemplate, engine template.TemplateRenderer, set string, cfg *theme.RendererConfig, layout Layout) *TemplateTarget {
	return &TemplateTarget{spec: spec, engine: engine, set: set, theme: cfg, layout: layout}
}

// Name implements Target.
func (t *TemplateTarget) Name() string {
	if t.spec.Name != "" {
		return t.spec.Name
	}
	return t.spec.TemplateFileName
}

// TemplatePath is the template the target loads.
func (t *TemplateTarget) TemplatePath() string {
	return templates.TemplatePath(t.theme, t.set, t.spec.TemplateFileName)
}

// Extension is the output extension; a set variant token wins over the
// configured one.
func (t *TemplateTarget) Extension() string {
	if t.theme != nil {
		if ext, ok := t.theme.Tokens[templates.ExtensionToken(t.spec.TemplateFileName)]; ok && ext != "" {
			return ext
		}
	}
	if t.spec.Extension != "" {
		return t.spec.Extension
	}
	return ".jsx"
}

// OutputPath is where the target writes for className.
func (t *TemplateTarget) OutputPath(className string) string {
	dir := t.layout.Dir(t.spec.OutputDirectory, className)
	return filepath.Join(dir, ExpandClassName(t.spec.GeneratedFileName, className)+t.Extension())
}

// Render implements Target.
func (t *TemplateTarget) Render(ctx context.Context, component *Component) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if t.engine == nil {
		return Output{}, fmt.Errorf("render: target %q has no template engine", t.Name())
	}
	out, err := t.engine.RenderTemplate(t.TemplatePath(), component)
	if err != nil {
		return Output{}, fmt.Errorf("render: %s: %w", t.Name(), err)
	}
	return Output{Path: t.OutputPath(component.ClassName), Content: []byte(out)}, nil
}

// DebugName is the registry name of the debug target.
const DebugName = "debug"

// DebugTarget dumps the inferred properties as <Class>.debug.json.
type DebugTarget struct {
	dir    string
	layout Layout
}

// NewDebugTarget writes into dir relative to the layout root.
func NewDebugTarget(dir string, layout Layout) *DebugTarget {
	return &DebugTarget{dir: dir, layout: layout}
}

// Name implements Target.
func (*DebugTarget) Name() string { return DebugName }

// Render implements Target.
func (t *DebugTarget) Render(ctx context.Context, component *Component) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	payload := struct {
		ClassName  string `json:"className"`
		Properties any    `json:"properties"`
	}{
		ClassName:  component.ClassName,
		Properties: component.Types,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Output{}, fmt.Errorf("render: debug %s: %w", component.ClassName, err)
	}
	path := filepath.Join(t.layout.RuntimeDir(t.dir), component.ClassName+".debug.json")
	return Output{Path: path, Content: data}, nil
}

// NewTargets registers one TemplateTarget per transform template and the
// debug target when enabled.
func NewTargets(cfg settings.Settings, engine template.TemplateRenderer, themeCfg *theme.RendererConfig, layout Layout) (*Registry, error) {
	registry := NewRegistry()
	for _, spec := range cfg.TransformTemplates {
		target := NewTemplateTarget(spec, engine, cfg.TemplateType, themeCfg, layout)
		if err := registry.Register(target); err != nil {
			return nil, err
		}
	}
	if cfg.GenerateDebugTypes.Enabled {
		if err := registry.Register(NewDebugTarget(cfg.GenerateDebugTypes.OutputPath, layout)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
