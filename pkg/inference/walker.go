package inference

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

// ComponentRenderer receives the schema of every class that yields at least
// one property.
type ComponentRenderer interface {
	RenderComponent(ctx context.Context, className string, props []schema.Property) error
}

// RendererFunc adapts a function to ComponentRenderer.
type RendererFunc func(ctx context.Context, className string, props []schema.Property) error

// RenderComponent implements ComponentRenderer.
func (f RendererFunc) RenderComponent(ctx context.Context, className string, props []schema.Property) error {
	return f(ctx, className, props)
}

// Walker visits the top-level statements of a source file.
type Walker struct {
	engine   *Engine
	renderer ComponentRenderer
	sink     diagnostic.Sink
}

// NewWalker builds a walker. A nil sink discards diagnostics.
func NewWalker(engine *Engine, renderer ComponentRenderer, sink diagnostic.Sink) *Walker {
	if sink == nil {
		sink = diagnostic.Discard
	}
	return &Walker{engine: engine, renderer: renderer, sink: sink}
}

// Walk extracts and renders every class of file in declaration order.
// Render failures are reported and collected; the walk continues past them
// and the joined failures are returned. A cancelled context stops the walk.
func (w *Walker) Walk(ctx context.Context, file *tsparse.SourceFile) error {
	if file == nil {
		return nil
	}
	var errs []error
	for _, node := range file.Nodes() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := w.visit(ctx, file.Path, node); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Walker) visit(ctx context.Context, path string, node tsparse.Node) error {
	pos := node.Pos()
	switch n := node.(type) {
	case *tsparse.EndOfFile:
		w.report(path, pos, diagnostic.SeverityWarning, diagnostic.CategoryWalk, "", "Skipping EndOfFileToken node.")
	case *tsparse.ClassDeclaration:
		w.report(path, pos, diagnostic.SeverityInfo, diagnostic.CategoryWalk, n.Name, "Processing class: "+n.Name)
		props := w.engine.Extract(n)
		if len(props) == 0 {
			w.report(path, pos, diagnostic.SeverityWarning, diagnostic.CategoryStructure, n.Name, "No properties found for class "+n.Name)
			return nil
		}
		if w.renderer == nil {
			return nil
		}
		if err := w.renderer.RenderComponent(ctx, n.Name, props); err != nil {
			err = fmt.Errorf("render %s: %w", n.Name, err)
			w.sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Category: diagnostic.CategoryRender,
				File:     path,
				Line:     pos.Line,
				Column:   pos.Col,
				Class:    n.Name,
				Message:  fmt.Sprintf("Failed to render component %s: %v", n.Name, err),
				Err:      err,
			})
			return err
		}
	default:
		w.report(path, pos, diagnostic.SeverityInfo, diagnostic.CategoryWalk, "", fmt.Sprintf("Unhandled node kind: %s", node.Kind()))
	}
	return nil
}

func (w *Walker) report(path string, pos tsparse.Position, sev diagnostic.Severity, cat diagnostic.Category, class, msg string) {
	w.sink.Report(diagnostic.Diagnostic{
		Severity: sev,
		Category: cat,
		File:     path,
		Line:     pos.Line,
		Column:   pos.Col,
		Class:    class,
		Message:  msg,
	})
}
