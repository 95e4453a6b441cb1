// Package typescaf generates form, list, story and data hook components from
// TypeScript class declarations. The root package re-exports the common
// entry points; pkg/orchestrator holds the full pipeline.
package typescaf

import (
	"context"

	"github.com/goliatone/go-typescaf/pkg/orchestrator"
)

// Version is the module release, overridden at link time.
var Version = "dev"

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// Report aliases orchestrator.Report.
type Report = orchestrator.Report

// NewGenerator exposes the orchestrator constructor from the top-level
// module.
func NewGenerator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Transform generates components for the project at root using its
// settings file, the same as `typescaf transform`.
func Transform(ctx context.Context, root string, options ...orchestrator.Option) (*Report, error) {
	return NewGenerator(options...).Generate(ctx, Request{Root: root})
}

// Extract infers the schema of every class of the project at root without
// writing anything.
func Extract(ctx context.Context, root string, options ...orchestrator.Option) (*orchestrator.Extraction, error) {
	return NewGenerator(options...).Extract(ctx, Request{Root: root})
}
