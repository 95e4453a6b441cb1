package tsparse

// TypeNode is a type annotation. Text returns the exact source text.
type TypeNode interface {
	Pos() Position
	Text() string
	typeNode()
}

type typeBase struct {
	pos  Position
	text string
}

func (t *typeBase) Pos() Position { return t.pos }
func (t *typeBase) Text() string  { return t.text }
func (t *typeBase) typeNode()     {}

// KeywordType is a built-in keyword type such as string or null.
type KeywordType struct {
	typeBase
	Name string
}

// TypeReference names a declared or global type, optionally with type
// arguments. Qualified names keep their dots.
type TypeReference struct {
	typeBase
	Name string
	Args []TypeNode
}

// ArrayType is `Elem[]`.
type ArrayType struct {
	typeBase
	Elem TypeNode
}

// UnionType is `A | B`.
type UnionType struct {
	typeBase
	Types []TypeNode
}

// IntersectionType is `A & B`.
type IntersectionType struct {
	typeBase
	Types []TypeNode
}

// ParenthesizedType is `(T)`.
type ParenthesizedType struct {
	typeBase
	Inner TypeNode
}

// TypeLiteral is an inline object type `{ a: T }`.
type TypeLiteral struct {
	typeBase
	Members []*PropertySignature
	Methods []string
	// Indexers counts index and mapped signatures.
	Indexers int
}

// Kind implements Node so a literal can stand in as the declaration of an
// anonymous object type.
func (t *TypeLiteral) Kind() Kind { return KindTypeLiteral }

// DeclName implements Declaration with the compiler's anonymous type name.
func (t *TypeLiteral) DeclName() string { return "__type" }

// MemberCount counts the named members of the literal.
func (t *TypeLiteral) MemberCount() int {
	return len(t.Members) + len(t.Methods)
}

// TupleType is `[A, B]`.
type TupleType struct {
	typeBase
	Elems []TypeNode
}

// LiteralType is a string, number, boolean or template literal type.
type LiteralType struct {
	typeBase
}

// TypeOperator is `keyof T`, `readonly T` or `unique T`.
type TypeOperator struct {
	typeBase
	Operator string
	Inner    TypeNode
}

// OtherType covers function, constructor, conditional, indexed-access and
// typeof types, which schema inference treats opaquely.
type OtherType struct {
	typeBase
}

// Unwrap strips parentheses and readonly operators.
func Unwrap(t TypeNode) TypeNode {
	for {
		switch v := t.(type) {
		case *ParenthesizedType:
			t = v.Inner
		case *TypeOperator:
			if v.Operator != "readonly" {
				return t
			}
			t = v.Inner
		default:
			return t
		}
	}
}
