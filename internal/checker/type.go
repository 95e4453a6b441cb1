package checker

import (
	"github.com/goliatone/go-typescaf/internal/tsparse"
)

// TypeFlags classify a Type.
type TypeFlags uint16

const (
	FlagPrimitive TypeFlags = 1 << iota
	FlagLiteral
	FlagArray
	FlagClass
	FlagInterface
	FlagObject
	FlagEnum
	FlagUnion
	// FlagUnresolved marks a reference to a declared entity whose declaration
	// could not be located.
	FlagUnresolved
)

// Type is the classification of a type annotation within a file scope.
type Type struct {
	text   string
	flags  TypeFlags
	elem   *Type
	symbol *Symbol
	decl   tsparse.Declaration
	err    error
}

// Text returns the source text of the annotation.
func (t *Type) Text() string { return t.text }

// Flags returns the classification bits.
func (t *Type) Flags() TypeFlags { return t.flags }

// IsArray reports T[], Array<T> and ReadonlyArray<T>.
func (t *Type) IsArray() bool { return t.flags&FlagArray != 0 }

// ArrayElementType returns the element type of an array, or nil.
func (t *Type) ArrayElementType() *Type { return t.elem }

// IsClassOrInterface reports class and interface types, including
// references whose declaration could not be located.
func (t *Type) IsClassOrInterface() bool {
	return t.flags&(FlagClass|FlagInterface|FlagUnresolved) != 0
}

// IsObject reports anonymous object literal types.
func (t *Type) IsObject() bool { return t.flags&FlagObject != 0 }

// IsEnum reports enum types.
func (t *Type) IsEnum() bool { return t.flags&FlagEnum != 0 }

// Symbol returns the bound symbol, if any.
func (t *Type) Symbol() *Symbol { return t.symbol }

// Declaration returns the declaration that describes the type's members:
// a class, an interface, or an object literal. The error wraps
// ErrUnresolvableSymbol when the type names an entity that cannot be found.
func (t *Type) Declaration() (tsparse.Declaration, error) {
	if t.err != nil {
		return nil, t.err
	}
	if t.decl == nil {
		return nil, errorf("type %q has no declaration", t.text)
	}
	return t.decl, nil
}

// TypeOf classifies a type annotation appearing in file.
func (p *Program) TypeOf(file string, node tsparse.TypeNode) *Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.typeOf(file, node, 0)
}

const maxAliasDepth = 32

func (p *Program) typeOf(file string, node tsparse.TypeNode, depth int) *Type {
	if node == nil {
		return &Type{}
	}
	t := &Type{text: node.Text()}
	if depth > maxAliasDepth {
		t.flags = FlagUnresolved
		t.err = errorf("type alias chain through %q is circular", t.text)
		return t
	}

	switch n := node.(type) {
	case *tsparse.ParenthesizedType:
		return p.typeOf(file, n.Inner, depth)
	case *tsparse.TypeOperator:
		if n.Operator == "readonly" {
			return p.typeOf(file, n.Inner, depth)
		}
	case *tsparse.KeywordType:
		t.flags = FlagPrimitive
	case *tsparse.LiteralType:
		t.flags = FlagLiteral
	case *tsparse.ArrayType:
		t.flags = FlagArray
		t.elem = p.typeOf(file, n.Elem, depth)
	case *tsparse.UnionType:
		var rest []tsparse.TypeNode
		for _, member := range n.Types {
			if kw, ok := tsparse.Unwrap(member).(*tsparse.KeywordType); ok && kw.Name == "null" {
				continue
			}
			rest = append(rest, member)
		}
		if len(rest) == 1 {
			inner := p.typeOf(file, rest[0], depth)
			inner.text = t.text
			return inner
		}
		t.flags = FlagUnion
	case *tsparse.TypeLiteral:
		t.flags = FlagObject
		t.decl = n
		p.owner[n] = file
	case *tsparse.TypeReference:
		if (n.Name == "Array" || n.Name == "ReadonlyArray") && len(n.Args) == 1 {
			t.flags = FlagArray
			t.elem = p.typeOf(file, n.Args[0], depth)
			return t
		}
		return p.referenceType(file, n, t, depth)
	}
	return t
}

func (p *Program) referenceType(file string, ref *tsparse.TypeReference, t *Type, depth int) *Type {
	sym, err := p.lookup(file, ref.Name, 0)
	if err != nil {
		t.flags = FlagUnresolved
		t.err = err
		return t
	}
	if sym == nil {
		return t
	}
	t.symbol = sym
	decl, _ := sym.Declaration()

	switch sym.Kind {
	case SymbolClass:
		t.flags = FlagClass
		t.decl = decl
	case SymbolInterface:
		t.flags = FlagInterface
		t.decl = decl
	case SymbolEnum:
		t.flags = FlagEnum
		t.decl = decl
	case SymbolTypeAlias:
		alias, ok := decl.(*tsparse.TypeAliasDeclaration)
		if !ok || alias.Type == nil {
			return t
		}
		aliased := p.typeOf(p.owner[alias], alias.Type, depth+1)
		if aliased.symbol == nil {
			aliased.symbol = sym
		}
		return aliased
	}
	return t
}

// MemberCount counts the named members of a class, interface or object
// type, including members inherited through extends clauses.
func (p *Program) MemberCount(t *Type) (int, error) {
	decl, err := t.Declaration()
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.memberCount(decl, make(map[tsparse.Declaration]bool)), nil
}

func (p *Program) memberCount(decl tsparse.Declaration, seen map[tsparse.Declaration]bool) int {
	if seen[decl] {
		return 0
	}
	seen[decl] = true

	switch d := decl.(type) {
	case *tsparse.ClassDeclaration:
		n := d.MemberCount()
		if d.Extends != nil {
			n += p.inherited(p.owner[d], d.Extends, seen)
		}
		return n
	case *tsparse.InterfaceDeclaration:
		n := len(d.Members) + len(d.Methods)
		for _, ext := range d.Extends {
			n += p.inherited(p.owner[d], ext, seen)
		}
		return n
	case *tsparse.TypeLiteral:
		return d.MemberCount()
	}
	return 0
}

func (p *Program) inherited(file string, node tsparse.TypeNode, seen map[tsparse.Declaration]bool) int {
	base := p.typeOf(file, node, 0)
	if base.decl == nil || base.err != nil {
		return 0
	}
	return p.memberCount(base.decl, seen)
}

// BaseDeclarations returns the interfaces and object types that decl
// inherits through its extends clauses, transitively, each base listed
// after its own bases. Unresolvable bases are omitted.
func (p *Program) BaseDeclarations(decl *tsparse.InterfaceDeclaration) []tsparse.Declaration {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []tsparse.Declaration
	p.collectBases(decl, map[tsparse.Declaration]bool{decl: true}, &out)
	return out
}

func (p *Program) collectBases(decl *tsparse.InterfaceDeclaration, seen map[tsparse.Declaration]bool, out *[]tsparse.Declaration) {
	for _, ext := range decl.Extends {
		base := p.typeOf(p.owner[decl], ext, 0)
		if base.decl == nil || base.err != nil || seen[base.decl] {
			continue
		}
		seen[base.decl] = true
		if parent, ok := base.decl.(*tsparse.InterfaceDeclaration); ok {
			p.collectBases(parent, seen, out)
		}
		*out = append(*out, base.decl)
	}
}
