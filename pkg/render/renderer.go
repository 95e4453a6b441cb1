package render

import (
	"context"
)

// Output is one generated file before formatting.
type Output struct {
	Path    string
	Content []byte
}

// Target turns a prepared component into one output file (a form, a list,
// a debug dump, an OpenAPI document).
type Target interface {
	Name() string
	Render(ctx context.Context, component *Component) (Output, error)
}

// Decorator enriches a prepared component before targets render it.
type Decorator interface {
	Decorate(*Component) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Component) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(component *Component) error {
	return fn(component)
}
