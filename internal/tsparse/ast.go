package tsparse

import (
	"fmt"

	"github.com/goliatone/go-typescaf/pkg/schema"
)

// Kind names the syntactic kind of a top-level node or statement. String()
// returns the compiler-style name used in diagnostics.
type Kind int

const (
	KindUnknown Kind = iota
	KindImportDeclaration
	KindImportEqualsDeclaration
	KindExportDeclaration
	KindExportAssignment
	KindClassDeclaration
	KindInterfaceDeclaration
	KindEnumDeclaration
	KindTypeAliasDeclaration
	KindFunctionDeclaration
	KindVariableStatement
	KindModuleDeclaration
	KindExpressionStatement
	KindEmptyStatement
	KindEndOfFileToken
	KindTypeLiteral
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindImportDeclaration:       "ImportDeclaration",
	KindImportEqualsDeclaration: "ImportEqualsDeclaration",
	KindExportDeclaration:       "ExportDeclaration",
	KindExportAssignment:        "ExportAssignment",
	KindClassDeclaration:        "ClassDeclaration",
	KindInterfaceDeclaration:    "InterfaceDeclaration",
	KindEnumDeclaration:         "EnumDeclaration",
	KindTypeAliasDeclaration:    "TypeAliasDeclaration",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindVariableStatement:       "VariableStatement",
	KindModuleDeclaration:       "ModuleDeclaration",
	KindExpressionStatement:     "ExpressionStatement",
	KindEmptyStatement:          "EmptyStatement",
	KindEndOfFileToken:          "EndOfFileToken",
	KindTypeLiteral:             "TypeLiteral",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position is a location in the source text.
type Position struct {
	Offset int
	Line   int
	Col    int
}

func positionOf(tok Token) Position {
	return Position{Offset: tok.Pos, Line: tok.Line, Col: tok.Col}
}

// Node is any top-level syntax node of a source file.
type Node interface {
	Kind() Kind
	Pos() Position
	Text() string
}

// Declaration is a node that binds a name.
type Declaration interface {
	Node
	DeclName() string
}

type nodeBase struct {
	kind Kind
	pos  Position
	text string
}

func (n *nodeBase) Kind() Kind    { return n.kind }
func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) Text() string  { return n.text }

// SourceFile is the parsed form of one TypeScript file.
type SourceFile struct {
	Path       string
	Source     string
	Statements []Node
	EndOfFile  *EndOfFile
}

// Nodes returns the top-level statements followed by the end-of-file marker,
// the order in which a compiler visits a file's children.
func (f *SourceFile) Nodes() []Node {
	if f == nil {
		return nil
	}
	out := make([]Node, 0, len(f.Statements)+1)
	out = append(out, f.Statements...)
	if f.EndOfFile != nil {
		out = append(out, f.EndOfFile)
	}
	return out
}

// Classes returns the class declarations in source order.
func (f *SourceFile) Classes() []*ClassDeclaration {
	var out []*ClassDeclaration
	for _, stmt := range f.Statements {
		if class, ok := stmt.(*ClassDeclaration); ok {
			out = append(out, class)
		}
	}
	return out
}

// Imports returns the import declarations in source order.
func (f *SourceFile) Imports() []*ImportDeclaration {
	var out []*ImportDeclaration
	for _, stmt := range f.Statements {
		if imp, ok := stmt.(*ImportDeclaration); ok {
			out = append(out, imp)
		}
	}
	return out
}

// EndOfFile marks the end of the token stream.
type EndOfFile struct {
	nodeBase
}

// OtherStatement is a top-level statement the walker does not interpret
// (functions, variables, namespaces, bare expressions).
type OtherStatement struct {
	nodeBase
	Name string
}

// Decorator is an `@name` or `@name(args)` annotation.
type Decorator struct {
	Name string
	Args string
	Pos  Position
}

// Annotations converts recognised member decorators into the fixed-shape
// record consumed by schema extraction. Unknown decorators are ignored.
func Annotations(decorators []Decorator) schema.Annotations {
	var ann schema.Annotations
	for _, d := range decorators {
		switch d.Name {
		case "primaryKey":
			ann.PrimaryKey = true
		case "required":
			ann.Required = true
		case "optionsLabel":
			ann.OptionsLabel = true
		}
	}
	return ann
}

// ClassDeclaration describes a class and the members schema extraction reads.
type ClassDeclaration struct {
	nodeBase
	Name         string
	Exported     bool
	Default      bool
	Abstract     bool
	Ambient      bool
	Decorators   []Decorator
	TypeParams   []string
	Extends      TypeNode
	Implements   []TypeNode
	Fields       []*FieldDeclaration
	Methods      []*MethodDeclaration
	Constructors []*Constructor
}

// DeclName implements Declaration.
func (c *ClassDeclaration) DeclName() string { return c.Name }

// Constructor returns the implementation constructor, falling back to the
// first overload signature when no implementation is present.
func (c *ClassDeclaration) Constructor() (*Constructor, bool) {
	for _, ctor := range c.Constructors {
		if ctor.HasBody {
			return ctor, true
		}
	}
	if len(c.Constructors) > 0 {
		return c.Constructors[0], true
	}
	return nil, false
}

// Field returns the field declaration with the given name.
func (c *ClassDeclaration) Field(name string) (*FieldDeclaration, bool) {
	for _, field := range c.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return nil, false
}

// MemberCount counts the named members of the class instance type: fields,
// methods, accessors and constructor parameter properties.
func (c *ClassDeclaration) MemberCount() int {
	names := make(map[string]struct{})
	for _, field := range c.Fields {
		if !field.Static {
			names[field.Name] = struct{}{}
		}
	}
	for _, method := range c.Methods {
		if !method.Static {
			names[method.Name] = struct{}{}
		}
	}
	if ctor, ok := c.Constructor(); ok {
		for _, param := range ctor.Params {
			if param.IsParameterProperty() {
				names[param.Name] = struct{}{}
			}
		}
	}
	return len(names)
}

// FieldDeclaration is a class property declaration.
type FieldDeclaration struct {
	Name        string
	Pos         Position
	Decorators  []Decorator
	Modifiers   []string
	Static      bool
	Optional    bool
	Definite    bool
	Type        TypeNode
	Initializer string
	Annotations schema.Annotations
}

// MethodDeclaration is a class method or accessor.
type MethodDeclaration struct {
	Name     string
	Pos      Position
	Accessor string
	Static   bool
}

// Constructor is a class constructor with its parameters and body
// statements.
type Constructor struct {
	Pos     Position
	Params  []*Parameter
	Body    []*Statement
	HasBody bool
}

// Param returns the parameter bound to name.
func (c *Constructor) Param(name string) (*Parameter, bool) {
	for _, param := range c.Params {
		if param.Name != "" && param.Name == name {
			return param, true
		}
	}
	return nil, false
}

// Parameter is a constructor parameter. Name is empty for destructuring
// patterns.
type Parameter struct {
	Name        string
	Pos         Position
	Decorators  []Decorator
	Modifiers   []string
	Optional    bool
	Rest        bool
	Type        TypeNode
	Initializer string
}

// IsParameterProperty reports whether the parameter declares a class member
// through an accessibility or readonly modifier.
func (p *Parameter) IsParameterProperty() bool {
	for _, m := range p.Modifiers {
		switch m {
		case "public", "private", "protected", "readonly", "override":
			return true
		}
	}
	return false
}

// Statement is one statement of a constructor body.
type Statement struct {
	Kind       Kind
	Pos        Position
	Text       string
	Assignment *Assignment
}

// Assignment is a binary assignment expression statement.
type Assignment struct {
	Target   string
	Operator string
	Value    string
	// Member is set when Target is exactly `this.<name>`.
	Member string
	// ValueIdent is set when Value is a single identifier.
	ValueIdent string
}

// IsDirectMemberBinding reports whether the assignment is `this.x = y`.
func (a *Assignment) IsDirectMemberBinding() bool {
	return a != nil && a.Operator == "=" && a.Member != "" && a.ValueIdent != ""
}

// InterfaceDeclaration describes an interface.
type InterfaceDeclaration struct {
	nodeBase
	Name       string
	Exported   bool
	Ambient    bool
	TypeParams []string
	Extends    []TypeNode
	Members    []*PropertySignature
	Methods    []string
}

// DeclName implements Declaration.
func (i *InterfaceDeclaration) DeclName() string { return i.Name }

// PropertySignature is a property member of an interface or type literal.
type PropertySignature struct {
	Name     string
	Pos      Position
	Optional bool
	Readonly bool
	Type     TypeNode
}

// EnumDeclaration describes an enum.
type EnumDeclaration struct {
	nodeBase
	Name     string
	Exported bool
	Const    bool
	Members  []EnumMember
}

// DeclName implements Declaration.
func (e *EnumDeclaration) DeclName() string { return e.Name }

// EnumMember is one enum constant.
type EnumMember struct {
	Name        string
	Initializer string
}

// TypeAliasDeclaration describes `type Name = ...`.
type TypeAliasDeclaration struct {
	nodeBase
	Name       string
	Exported   bool
	TypeParams []string
	Type       TypeNode
}

// DeclName implements Declaration.
func (t *TypeAliasDeclaration) DeclName() string { return t.Name }

// ImportDeclaration describes an ES import.
type ImportDeclaration struct {
	nodeBase
	Module    string
	TypeOnly  bool
	Default   string
	Namespace string
	Named     []ImportSpecifier
}

// Bindings returns every local name introduced by the import.
func (i *ImportDeclaration) Bindings() []ImportSpecifier {
	var out []ImportSpecifier
	if i.Default != "" {
		out = append(out, ImportSpecifier{Name: "default", Local: i.Default})
	}
	out = append(out, i.Named...)
	return out
}

// ImportSpecifier maps an exported name to a local binding.
type ImportSpecifier struct {
	Name  string
	Local string
}

// ExportDeclaration describes `export { ... } [from "m"]` and
// `export * from "m"`.
type ExportDeclaration struct {
	nodeBase
	Module string
	Star   bool
	Named  []ImportSpecifier
}
