// Package checker binds type references to the declarations of a set of
// parsed TypeScript files and answers the handful of type queries schema
// inference needs.
package checker

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-typescaf/internal/tsparse"
)

// ErrUnresolvableSymbol reports a type that names a declared entity whose
// declaration cannot be located.
var ErrUnresolvableSymbol = errors.New("unresolvable symbol")

// Host loads imported modules. Load receives a module path already joined
// with the importing file's directory (slash separated, no extension) and
// returns the parsed file, or ok=false when the module does not exist.
type Host interface {
	Load(modulePath string) (file *tsparse.SourceFile, ok bool)
}

// HostFunc adapts a function into a Host.
type HostFunc func(modulePath string) (*tsparse.SourceFile, bool)

// Load calls f(modulePath).
func (f HostFunc) Load(modulePath string) (*tsparse.SourceFile, bool) {
	return f(modulePath)
}

// SymbolKind classifies a bound name.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota + 1
	SymbolInterface
	SymbolEnum
	SymbolTypeAlias
	SymbolImport
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolEnum:
		return "enum"
	case SymbolTypeAlias:
		return "type alias"
	case SymbolImport:
		return "import"
	default:
		return "unknown"
	}
}

// Symbol is a named entity of a file scope.
type Symbol struct {
	Name         string
	Kind         SymbolKind
	File         string
	Declarations []tsparse.Declaration
	// Module and ImportedName are set for import bindings.
	Module       string
	ImportedName string
}

// Declaration returns the first declaration of the symbol.
func (s *Symbol) Declaration() (tsparse.Declaration, bool) {
	if s == nil || len(s.Declarations) == 0 {
		return nil, false
	}
	return s.Declarations[0], true
}

type scope struct {
	file    *tsparse.SourceFile
	symbols map[string]*Symbol
	exports []*tsparse.ExportDeclaration
}

// Program is a set of parsed files with per-file symbol tables. Files
// reachable through relative imports are loaded lazily through the Host.
type Program struct {
	mu     sync.Mutex
	host   Host
	roots  []*tsparse.SourceFile
	scopes map[string]*scope
	// owner maps declarations to the file that declares them.
	owner map[tsparse.Node]string
}

// Option configures a Program.
type Option func(*Program)

// WithHost sets the module loader used to follow relative imports.
func WithHost(host Host) Option {
	return func(p *Program) {
		p.host = host
	}
}

// NewProgram binds the given root files.
func NewProgram(files []*tsparse.SourceFile, opts ...Option) *Program {
	p := &Program{
		scopes: make(map[string]*scope),
		owner:  make(map[tsparse.Node]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	for _, file := range files {
		if file == nil {
			continue
		}
		p.roots = append(p.roots, file)
		p.bind(file)
	}
	return p
}

// Files returns the root files in the order given.
func (p *Program) Files() []*tsparse.SourceFile {
	return append([]*tsparse.SourceFile(nil), p.roots...)
}

func normalizePath(file string) string {
	file = strings.TrimSuffix(file, ".d.ts")
	file = strings.TrimSuffix(file, ".tsx")
	file = strings.TrimSuffix(file, ".ts")
	return path.Clean(strings.ReplaceAll(file, "\\", "/"))
}

func (p *Program) bind(file *tsparse.SourceFile) *scope {
	key := normalizePath(file.Path)
	if existing, ok := p.scopes[key]; ok {
		return existing
	}
	sc := &scope{file: file, symbols: make(map[string]*Symbol)}
	p.scopes[key] = sc

	add := func(name string, kind SymbolKind, decl tsparse.Declaration) {
		if name == "" {
			return
		}
		p.owner[decl] = file.Path
		if sym, ok := sc.symbols[name]; ok && sym.Kind != SymbolImport {
			// Declaration merging keeps the first kind and appends.
			sym.Declarations = append(sym.Declarations, decl)
			return
		}
		sc.symbols[name] = &Symbol{Name: name, Kind: kind, File: file.Path, Declarations: []tsparse.Declaration{decl}}
	}

	for _, stmt := range file.Statements {
		switch decl := stmt.(type) {
		case *tsparse.ClassDeclaration:
			add(decl.Name, SymbolClass, decl)
		case *tsparse.InterfaceDeclaration:
			add(decl.Name, SymbolInterface, decl)
		case *tsparse.EnumDeclaration:
			add(decl.Name, SymbolEnum, decl)
		case *tsparse.TypeAliasDeclaration:
			add(decl.Name, SymbolTypeAlias, decl)
		case *tsparse.ExportDeclaration:
			sc.exports = append(sc.exports, decl)
		}
	}
	for _, imp := range file.Imports() {
		if imp.Namespace != "" {
			if _, ok := sc.symbols[imp.Namespace]; !ok {
				sc.symbols[imp.Namespace] = &Symbol{
					Name:         imp.Namespace,
					Kind:         SymbolImport,
					File:         file.Path,
					Module:       imp.Module,
					ImportedName: "*",
				}
			}
		}
		for _, spec := range imp.Bindings() {
			if _, ok := sc.symbols[spec.Local]; ok {
				continue
			}
			sc.symbols[spec.Local] = &Symbol{
				Name:         spec.Local,
				Kind:         SymbolImport,
				File:         file.Path,
				Module:       imp.Module,
				ImportedName: spec.Name,
			}
		}
	}
	return sc
}

// FileOf returns the path of the file declaring decl.
func (p *Program) FileOf(decl tsparse.Node) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.owner[decl]
}

// Lookup resolves a name in the scope of the given file, following import
// bindings into loaded modules. The returned error wraps
// ErrUnresolvableSymbol when an import cannot be followed.
func (p *Program) Lookup(file, name string) (*Symbol, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lookup(file, name, 0)
}

const maxImportHops = 16

func (p *Program) lookup(file, name string, hops int) (*Symbol, error) {
	sc, ok := p.scopes[normalizePath(file)]
	if !ok {
		return nil, nil
	}
	if head, rest, qualified := strings.Cut(name, "."); qualified {
		return p.lookupQualified(sc, head, rest, hops)
	}
	sym, ok := sc.symbols[name]
	if !ok {
		return nil, nil
	}
	if sym.Kind != SymbolImport {
		return sym, nil
	}
	if hops >= maxImportHops {
		return nil, errorf("import of %q from %q: too many re-export hops", name, sym.Module)
	}
	target, err := p.module(file, sym.Module)
	if err != nil {
		return nil, err
	}
	resolved, err := p.exported(target, sym.ImportedName, hops+1)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		return nil, errorf("module %q does not declare %q", sym.Module, sym.ImportedName)
	}
	return resolved, nil
}

// lookupQualified resolves `ns.Name` through a namespace import and
// `Enum.Member` to the enum itself. Other qualifiers are unknown.
func (p *Program) lookupQualified(sc *scope, head, rest string, hops int) (*Symbol, error) {
	sym, ok := sc.symbols[head]
	if !ok {
		return nil, nil
	}
	switch {
	case sym.Kind == SymbolEnum:
		return sym, nil
	case sym.Kind == SymbolImport && sym.ImportedName == "*":
		target, err := p.module(sc.file.Path, sym.Module)
		if err != nil {
			return nil, err
		}
		resolved, err := p.exported(target, rest, hops+1)
		if err != nil {
			return nil, err
		}
		if resolved == nil {
			return nil, errorf("module %q does not declare %q", sym.Module, rest)
		}
		return resolved, nil
	case sym.Kind == SymbolImport:
		resolved, err := p.lookup(sc.file.Path, head, hops)
		if err != nil || resolved == nil {
			return nil, err
		}
		if resolved.Kind == SymbolEnum {
			return resolved, nil
		}
	}
	return nil, nil
}

// exported finds name among a module's top-level declarations and its
// re-exports.
func (p *Program) exported(sc *scope, name string, hops int) (*Symbol, error) {
	if name == "default" {
		for _, class := range sc.file.Classes() {
			if class.Default {
				return p.lookup(sc.file.Path, class.Name, hops)
			}
		}
	}
	if sym, err := p.lookup(sc.file.Path, name, hops); sym != nil || err != nil {
		return sym, err
	}
	for _, exp := range sc.exports {
		if exp.Module == "" {
			for _, spec := range exp.Named {
				if spec.Local == name {
					return p.lookup(sc.file.Path, spec.Name, hops)
				}
			}
			continue
		}
		target, err := p.module(sc.file.Path, exp.Module)
		if err != nil {
			continue
		}
		if exp.Star {
			if sym, err := p.exported(target, name, hops+1); sym != nil || err != nil {
				return sym, err
			}
			continue
		}
		for _, spec := range exp.Named {
			if spec.Local == name {
				return p.exported(target, spec.Name, hops+1)
			}
		}
	}
	return nil, nil
}

// module loads the module imported by file.
func (p *Program) module(file, specifier string) (*scope, error) {
	if !strings.HasPrefix(specifier, ".") {
		return nil, errorf("external module %q cannot be loaded", specifier)
	}
	modulePath := normalizePath(path.Join(path.Dir(strings.ReplaceAll(file, "\\", "/")), specifier))
	if sc, ok := p.scopes[modulePath]; ok {
		return sc, nil
	}
	if sc, ok := p.scopes[modulePath+"/index"]; ok {
		return sc, nil
	}
	if p.host == nil {
		return nil, errorf("module %q not found", specifier)
	}
	loaded, ok := p.host.Load(modulePath)
	if !ok || loaded == nil {
		return nil, errorf("module %q not found", specifier)
	}
	return p.bind(loaded), nil
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("checker: %s: %w", fmt.Sprintf(format, args...), ErrUnresolvableSymbol)
}
