package inference

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/schema"
)

// DefaultMaxDepth bounds nested extraction.
const DefaultMaxDepth = 32

// Engine extracts property schemas from declarations of a Program. An
// Engine holds no per-call state and may be shared across goroutines.
type Engine struct {
	program  *checker.Program
	sink     diagnostic.Sink
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the diagnostics sink. Diagnostics are dropped by default.
func WithSink(sink diagnostic.Sink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sink = sink
		}
	}
}

// WithMaxDepth overrides the nesting ceiling for nested extraction.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEngine creates an Engine over program.
func NewEngine(program *checker.Program, opts ...Option) *Engine {
	e := &Engine{
		program:  program,
		sink:     diagnostic.Discard,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Program returns the program the engine resolves against.
func (e *Engine) Program() *checker.Program {
	return e.program
}

// Extract returns the properties of a class declaration in constructor
// assignment order. Interfaces and object literals contribute their property
// signatures. The result is never nil.
func (e *Engine) Extract(decl tsparse.Declaration) []schema.Property {
	x := &extraction{engine: e, active: make(map[tsparse.Declaration]bool)}
	return x.extract(decl)
}

// extraction tracks the declarations on the active expansion path so
// self-referencing types terminate.
type extraction struct {
	engine *Engine
	active map[tsparse.Declaration]bool
	path   []string
}

func (x *extraction) extract(decl tsparse.Declaration) []schema.Property {
	if decl == nil {
		return []schema.Property{}
	}
	name := decl.DeclName()
	file := x.engine.program.FileOf(decl)

	if x.active[decl] {
		x.engine.sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Category: diagnostic.CategoryCycle,
			File:     file,
			Line:     decl.Pos().Line,
			Class:    name,
			Message:  fmt.Sprintf("Circular reference to %s while extracting %s; emitting empty stub", name, strings.Join(x.path, " > ")),
		})
		return []schema.Property{}
	}
	if len(x.path) >= x.engine.maxDepth {
		x.engine.sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Category: diagnostic.CategoryCycle,
			File:     file,
			Line:     decl.Pos().Line,
			Class:    name,
			Message:  fmt.Sprintf("Maximum nesting depth %d reached at %s while extracting %s; emitting empty stub", x.engine.maxDepth, name, strings.Join(x.path, " > ")),
		})
		return []schema.Property{}
	}

	x.active[decl] = true
	x.path = append(x.path, name)
	defer func() {
		delete(x.active, decl)
		x.path = x.path[:len(x.path)-1]
	}()

	switch d := decl.(type) {
	case *tsparse.ClassDeclaration:
		return x.extractClass(file, d)
	case *tsparse.InterfaceDeclaration:
		return x.extractInterface(file, d)
	case *tsparse.TypeLiteral:
		return x.extractSignatures(file, name, d.Members, make(map[string]bool))
	}
	return []schema.Property{}
}

func (x *extraction) extractClass(file string, class *tsparse.ClassDeclaration) []schema.Property {
	sink := x.engine.sink
	props := []schema.Property{}

	ctor, ok := class.Constructor()
	if !ok {
		sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityWarning,
			Category: diagnostic.CategoryStructure,
			File:     file,
			Line:     class.Pos().Line,
			Class:    class.Name,
			Message:  "No constructor found for class: " + class.Name,
		})
		return props
	}

	seen := make(map[string]bool)
	for _, stmt := range ctor.Body {
		assign := stmt.Assignment
		if stmt.Kind != tsparse.KindExpressionStatement || assign == nil || assign.Member == "" {
			continue
		}
		name := assign.Member
		if !assign.IsDirectMemberBinding() {
			sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityDebug,
				Category: diagnostic.CategoryStructure,
				File:     file,
				Line:     stmt.Pos.Line,
				Class:    class.Name,
				Property: name,
				Message:  fmt.Sprintf("Skipping %q in class %s: not a direct parameter binding", stmt.Text, class.Name),
			})
			continue
		}
		if seen[name] {
			continue
		}

		param, ok := ctor.Param(name)
		if !ok {
			sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityWarning,
				Category: diagnostic.CategoryStructure,
				File:     file,
				Line:     stmt.Pos.Line,
				Class:    class.Name,
				Property: name,
				Message:  fmt.Sprintf("No matching parameter for property %s in class %s", name, class.Name),
			})
			continue
		}

		var ann schema.Annotations
		if field, ok := class.Field(name); ok {
			ann = field.Annotations
		}

		desc, err := x.resolve(file, param.Type)
		if err != nil {
			sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Category: diagnostic.CategoryResolution,
				File:     file,
				Line:     param.Pos.Line,
				Class:    class.Name,
				Property: name,
				Message:  fmt.Sprintf("Failed to resolve type for property %s in class %s: %v", name, class.Name, err),
				Err:      err,
			})
			continue
		}

		seen[name] = true
		props = append(props, schema.NewProperty(name, desc, ann))
	}
	return props
}

// extractInterface lists inherited members before the interface's own; the
// first member of a given name wins.
func (x *extraction) extractInterface(file string, iface *tsparse.InterfaceDeclaration) []schema.Property {
	program := x.engine.program
	seen := make(map[string]bool)
	props := []schema.Property{}
	for _, base := range program.BaseDeclarations(iface) {
		switch b := base.(type) {
		case *tsparse.InterfaceDeclaration:
			props = append(props, x.extractSignatures(program.FileOf(b), iface.Name, b.Members, seen)...)
		case *tsparse.TypeLiteral:
			props = append(props, x.extractSignatures(program.FileOf(b), iface.Name, b.Members, seen)...)
		}
	}
	return append(props, x.extractSignatures(file, iface.Name, iface.Members, seen)...)
}

func (x *extraction) extractSignatures(file, owner string, members []*tsparse.PropertySignature, seen map[string]bool) []schema.Property {
	props := []schema.Property{}
	for _, member := range members {
		if seen[member.Name] {
			continue
		}
		seen[member.Name] = true
		desc, err := x.resolve(file, member.Type)
		if err != nil {
			x.engine.sink.Report(diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Category: diagnostic.CategoryResolution,
				File:     file,
				Line:     member.Pos.Line,
				Class:    owner,
				Property: member.Name,
				Message:  fmt.Sprintf("Failed to resolve type for property %s in %s: %v", member.Name, owner, err),
				Err:      err,
			})
			continue
		}
		props = append(props, schema.NewProperty(member.Name, desc, schema.Annotations{}))
	}
	return props
}

// resolve maps an optional annotation; untyped members default to text.
func (x *extraction) resolve(file string, node tsparse.TypeNode) (schema.TypeDescriptor, error) {
	if node == nil {
		return schema.TypeDescriptor{Control: schema.ControlText, Validation: schema.ValidationString}, nil
	}
	return Resolve(x.engine.program, file, node, x.extract)
}
