package render

import (
	"log/slog"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-typescaf/pkg/format"
	"github.com/goliatone/go-typescaf/pkg/mockdata"
)

// Option customises a ComponentRenderer.
type Option func(*ComponentRenderer)

// WithWriter replaces the default OSWriter.
func WithWriter(w Writer) Option {
	return func(r *ComponentRenderer) {
		if w != nil {
			r.writer = w
		}
	}
}

// WithFormatter replaces the default formatter registry. Pass
// format.NewRegistry() to write templates output verbatim.
func WithFormatter(f *format.Registry) Option {
	return func(r *ComponentRenderer) {
		if f != nil {
			r.formatter = f
		}
	}
}

// WithLogger sets the logger used for per-file progress and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *ComponentRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSynthesizer sets the mock data source.
func WithSynthesizer(s *mockdata.Synthesizer) Option {
	return func(r *ComponentRenderer) {
		if s != nil {
			r.synth = s
		}
	}
}

// WithTheme applies the template set tokens to every component.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(r *ComponentRenderer) {
		r.theme = cfg
	}
}

// WithDecorators registers decorators run after preparation, in order.
func WithDecorators(decorators ...Decorator) Option {
	return func(r *ComponentRenderer) {
		for _, d := range decorators {
			if d != nil {
				r.decorators = append(r.decorators, d)
			}
		}
	}
}

// WithConcurrency bounds the number of targets rendered at once. Zero or a
// negative value means no limit.
func WithConcurrency(n int) Option {
	return func(r *ComponentRenderer) {
		r.limit = n
	}
}
