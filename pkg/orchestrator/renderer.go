package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/goliatone/go-typescaf/pkg/inference"
	"github.com/goliatone/go-typescaf/pkg/openapi"
	"github.com/goliatone/go-typescaf/pkg/render"
	"github.com/goliatone/go-typescaf/pkg/render/template/gotemplate"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
	"github.com/goliatone/go-typescaf/pkg/templates"
	"github.com/goliatone/go-typescaf/pkg/uischema"
)

// newRenderer assembles the template engine, targets and decorators for a
// session. Project templates under .type-scaf/templates shadow the
// embedded set.
func (o *Orchestrator) newRenderer(s *session, testMode bool) (*render.ComponentRenderer, error) {
	cfg := s.settings

	sel, err := o.catalog.Select(cfg.TemplateType, cfg.TemplateVariant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select template set: %w", err)
	}
	themeCfg := templates.Config(sel)

	var engineOpts []gotemplate.Option
	if o.fsys == nil {
		engineOpts = append(engineOpts, gotemplate.WithOverrideDir(filepath.Join(s.root, settings.TemplatesDir)))
	} else if sub, err := fs.Sub(o.fsys, settings.TemplatesDir); err == nil {
		engineOpts = append(engineOpts, gotemplate.WithFS(sub))
	}
	engineOpts = append(engineOpts, gotemplate.WithFS(templates.FS()))
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: template engine: %w", err)
	}

	layout := render.Layout{Root: s.root, TestMode: testMode}
	targets, err := render.NewTargets(cfg, engine, themeCfg, layout)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if cfg.GenerateOpenAPI.Enabled {
		if err := targets.Register(openapi.NewTarget(cfg.GenerateOpenAPI.OutputPath, layout)); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}

	decorators, err := o.overlayDecorators(s)
	if err != nil {
		return nil, err
	}
	decorators = append(decorators, o.decorators...)

	return render.NewComponentRenderer(cfg, targets,
		render.WithWriter(o.writer),
		render.WithFormatter(o.formatter),
		render.WithLogger(o.logger),
		render.WithSynthesizer(o.synth),
		render.WithTheme(themeCfg),
		render.WithDecorators(decorators...),
	), nil
}

// overlayDecorators loads the UI overlay store, from WithUISchemaFS when
// given and from .type-scaf/config/ui otherwise.
func (o *Orchestrator) overlayDecorators(s *session) ([]render.Decorator, error) {
	uiFS := o.uiSchemaFS
	if !o.uiSchemaSpecified {
		sub, err := fs.Sub(s.fsys, settings.UIDir)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: ui overlay: %w", err)
		}
		uiFS = sub
	}
	store, err := uischema.LoadFS(uiFS)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	if store.Empty() {
		return nil, nil
	}
	o.logger.Debug("Loaded UI overlay", "classes", store.Classes())
	return []render.Decorator{uischema.NewDecorator(store)}, nil
}

// wrap returns the renderer the walker calls: the schema transformer runs
// first and every rendered class is recorded on the report.
func (o *Orchestrator) wrap(renderer inference.ComponentRenderer, s *session) inference.ComponentRenderer {
	return inference.RendererFunc(func(ctx context.Context, className string, props []schema.Property) error {
		props, err := o.transform(ctx, className, props)
		if err != nil {
			return err
		}
		s.addClass(className)
		return renderer.RenderComponent(ctx, className, props)
	})
}

func (o *Orchestrator) transform(ctx context.Context, className string, props []schema.Property) ([]schema.Property, error) {
	if o.transformer == nil {
		return props, nil
	}
	out, err := o.transformer.Transform(ctx, className, props)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: transform %s: %w", className, err)
	}
	if out == nil {
		return nil, errors.New("orchestrator: transformer returned no properties for " + className)
	}
	return out, nil
}
