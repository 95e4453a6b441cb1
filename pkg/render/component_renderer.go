package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-typescaf/pkg/format"
	"github.com/goliatone/go-typescaf/pkg/mockdata"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
)

// ComponentRenderer prepares a component per class and renders it through
// every registered target. A failing target is logged and joined into the
// returned error; it never stops its siblings.
type ComponentRenderer struct {
	settings   settings.Settings
	targets    *Registry
	writer     Writer
	formatter  *format.Registry
	logger     *slog.Logger
	synth      *mockdata.Synthesizer
	theme      *theme.RendererConfig
	decorators []Decorator
	limit      int

	mu      sync.Mutex
	written []string
}

// NewComponentRenderer returns a renderer for cfg over targets.
func NewComponentRenderer(cfg settings.Settings, targets *Registry, opts ...Option) *ComponentRenderer {
	r := &ComponentRenderer{
		settings:  cfg,
		targets:   targets,
		writer:    OSWriter{},
		formatter: format.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		synth:     mockdata.New(),
	}
	if r.targets == nil {
		r.targets = NewRegistry()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Prepare builds and decorates the component for className without
// rendering it.
func (r *ComponentRenderer) Prepare(className string, props []schema.Property) (*Component, error) {
	component := Prepare(className, props, r.settings, r.synth)
	component.ApplyTheme(r.theme)
	for _, d := range r.decorators {
		if err := d.Decorate(component); err != nil {
			return nil, fmt.Errorf("render: decorate %s: %w", className, err)
		}
	}
	return component, nil
}

// RenderComponent renders every target for one class.
func (r *ComponentRenderer) RenderComponent(ctx context.Context, className string, props []schema.Property) error {
	r.logger.Info("Starting to render component", "class", className)

	component, err := r.Prepare(className, props)
	if err != nil {
		r.logger.Error("Failed to prepare component", "class", className, "err", err)
		return err
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for _, target := range r.targets.Targets() {
		g.Go(func() error {
			if err := r.renderTarget(ctx, target, component); err != nil {
				r.logger.Error("Failed to generate file", "class", className, "target", target.Name(), "err", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.logger.Info("Completed rendering component", "class", className)
	return nil
}

func (r *ComponentRenderer) renderTarget(ctx context.Context, target Target, component *Component) error {
	out, err := target.Render(ctx, component)
	if err != nil {
		return err
	}
	formatted, err := r.formatter.Format(out.Path, out.Content)
	if err != nil {
		return err
	}
	if err := r.writer.WriteFile(out.Path, formatted); err != nil {
		return err
	}
	r.logger.Info("File generated successfully", "class", component.ClassName, "path", out.Path)

	r.mu.Lock()
	r.written = append(r.written, out.Path)
	r.mu.Unlock()
	return nil
}

// Written returns and clears the paths written since the last call.
func (r *ComponentRenderer) Written() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.written
	r.written = nil
	return out
}
