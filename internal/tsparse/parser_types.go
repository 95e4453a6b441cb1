package tsparse

import "strings"

var keywordTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true, "unknown": true,
	"never": true, "void": true, "undefined": true, "null": true, "object": true,
	"bigint": true, "symbol": true, "this": true,
}

// parseType parses a type annotation, including conditional types.
func (p *Parser) parseType() TypeNode {
	start := p.peek()
	t := p.parseUnionType()
	if !p.peek().IsIdent("extends") {
		return t
	}

	mark, errMark := p.pos, len(p.errors)
	p.advance()
	p.parseUnionType()
	if !p.match("?") {
		p.pos, p.errors = mark, p.errors[:errMark]
		return t
	}
	p.parseType()
	p.expect(":")
	p.parseType()
	return &OtherType{typeBase{pos: positionOf(start), text: p.textFrom(start)}}
}

// parseReturnType parses a return annotation, accepting type predicates.
func (p *Parser) parseReturnType() TypeNode {
	p.matchIdent("asserts")
	t := p.parseType()
	if p.matchIdent("is") {
		return p.parseType()
	}
	return t
}

func (p *Parser) parseUnionType() TypeNode {
	start := p.peek()
	p.match("|")
	first := p.parseIntersectionType()
	types := []TypeNode{first}
	for p.match("|") {
		types = append(types, p.parseIntersectionType())
	}
	if len(types) == 1 {
		return first
	}
	return &UnionType{typeBase: typeBase{pos: positionOf(start), text: p.textFrom(start)}, Types: types}
}

func (p *Parser) parseIntersectionType() TypeNode {
	start := p.peek()
	p.match("&")
	first := p.parseTypeOperator()
	types := []TypeNode{first}
	for p.match("&") {
		types = append(types, p.parseTypeOperator())
	}
	if len(types) == 1 {
		return first
	}
	return &IntersectionType{typeBase: typeBase{pos: positionOf(start), text: p.textFrom(start)}, Types: types}
}

func (p *Parser) parseTypeOperator() TypeNode {
	tok := p.peek()
	if (tok.IsIdent("keyof") || tok.IsIdent("unique") || tok.IsIdent("readonly")) && startsType(p.peekN(1)) {
		p.advance()
		inner := p.parseTypeOperator()
		return &TypeOperator{
			typeBase: typeBase{pos: positionOf(tok), text: p.textFrom(tok)},
			Operator: tok.Value,
			Inner:    inner,
		}
	}
	if tok.IsIdent("infer") && p.peekN(1).Type == TokenIdent {
		p.advance()
		p.advance()
		if p.peek().IsIdent("extends") && !p.peekN(1).IsPunct("?") {
			p.advance()
			p.parseTypeOperator()
		}
		return &OtherType{typeBase{pos: positionOf(tok), text: p.textFrom(tok)}}
	}
	return p.parsePostfixType()
}

func startsType(tok Token) bool {
	switch tok.Type {
	case TokenIdent, TokenString, TokenNumber, TokenTemplate:
		return true
	case TokenPunct:
		switch tok.Value {
		case "(", "[", "{", "-", "<":
			return true
		}
	}
	return false
}

func (p *Parser) parsePostfixType() TypeNode {
	start := p.peek()
	t := p.parsePrimaryType()
	for p.peek().IsPunct("[") && !p.peek().NewlineBefore {
		if p.peekN(1).IsPunct("]") {
			p.advance()
			p.advance()
			t = &ArrayType{typeBase: typeBase{pos: positionOf(start), text: p.textFrom(start)}, Elem: t}
			continue
		}
		p.skipBalanced()
		t = &OtherType{typeBase{pos: positionOf(start), text: p.textFrom(start)}}
	}
	return t
}

func (p *Parser) parsePrimaryType() TypeNode {
	tok := p.peek()
	next := p.peekN(1)
	opaque := func() TypeNode {
		return &OtherType{typeBase{pos: positionOf(tok), text: p.textFrom(tok)}}
	}

	switch {
	case tok.IsPunct("(") && p.isFunctionType():
		p.parseFunctionType()
		return opaque()
	case tok.IsPunct("<"):
		p.parseFunctionType()
		return opaque()
	case tok.IsIdent("new") && (next.IsPunct("(") || next.IsPunct("<")):
		p.advance()
		p.parseFunctionType()
		return opaque()
	case tok.IsIdent("abstract") && next.IsIdent("new"):
		p.advance()
		p.advance()
		p.parseFunctionType()
		return opaque()
	case tok.IsPunct("("):
		p.advance()
		inner := p.parseType()
		p.expect(")")
		return &ParenthesizedType{typeBase: typeBase{pos: positionOf(tok), text: p.textFrom(tok)}, Inner: inner}
	case tok.IsPunct("{"):
		return p.parseTypeLiteral()
	case tok.IsPunct("["):
		return p.parseTupleType()
	case tok.Type == TokenString || tok.Type == TokenTemplate || tok.Type == TokenNumber:
		p.advance()
		return &LiteralType{typeBase{pos: positionOf(tok), text: p.textFrom(tok)}}
	case tok.IsPunct("-") && next.Type == TokenNumber:
		p.advance()
		p.advance()
		return &LiteralType{typeBase{pos: positionOf(tok), text: p.textFrom(tok)}}
	case tok.IsIdent("true") || tok.IsIdent("false"):
		p.advance()
		return &LiteralType{typeBase{pos: positionOf(tok), text: p.textFrom(tok)}}
	case tok.IsIdent("typeof"):
		p.advance()
		if p.peek().IsIdent("import") && p.peekN(1).IsPunct("(") {
			p.advance()
			p.skipBalanced()
		} else if p.peek().Type == TokenIdent {
			p.parseEntityName()
		}
		p.skipTypeArgs()
		return opaque()
	case tok.IsIdent("import") && next.IsPunct("("):
		p.advance()
		p.skipBalanced()
		for p.match(".") {
			p.advance()
		}
		p.skipTypeArgs()
		return opaque()
	case tok.Type == TokenIdent:
		name := p.parseEntityName()
		if keywordTypes[name] {
			return &KeywordType{typeBase: typeBase{pos: positionOf(tok), text: p.textFrom(tok)}, Name: name}
		}
		ref := &TypeReference{Name: name}
		if p.peek().IsPunct("<") && !p.peek().NewlineBefore {
			ref.Args = p.parseTypeArgs()
		}
		ref.typeBase = typeBase{pos: positionOf(tok), text: p.textFrom(tok)}
		return ref
	}

	p.addError(tok, "expected type, got %s", tok)
	switch {
	case tok.Type == TokenEOF, tok.IsPunct(")"), tok.IsPunct("]"), tok.IsPunct("}"),
		tok.IsPunct(";"), tok.IsPunct(","), tok.IsPunct("="), tok.IsPunct(">"):
	default:
		p.advance()
	}
	return opaque()
}

// isFunctionType reports whether the `(` at the cursor starts a function
// type, i.e. its matching `)` is followed by `=>`.
func (p *Parser) isFunctionType() bool {
	end := p.findMatching(p.pos)
	if end < 0 || end+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[end+1].IsPunct("=>")
}

func (p *Parser) parseFunctionType() {
	p.skipAngles()
	if p.peek().IsPunct("(") {
		p.skipBalanced()
	}
	if p.expect("=>") {
		p.parseReturnType()
	}
}

func (p *Parser) parseTypeArgs() []TypeNode {
	p.expect("<")
	var args []TypeNode
	for !p.atEnd() && !p.peek().IsPunct(">") {
		args = append(args, p.parseType())
		if !p.match(",") {
			break
		}
	}
	p.expect(">")
	return args
}

func (p *Parser) skipTypeArgs() {
	if p.peek().IsPunct("<") && !p.peek().NewlineBefore {
		p.parseTypeArgs()
	}
}

func (p *Parser) parseTupleType() TypeNode {
	start := p.advance()
	tuple := &TupleType{}
	for !p.atEnd() && !p.peek().IsPunct("]") {
		p.match("...")
		if p.peek().Type == TokenIdent && (p.peekN(1).IsPunct(":") || (p.peekN(1).IsPunct("?") && p.peekN(2).IsPunct(":"))) {
			p.advance()
			p.match("?")
			p.advance()
		}
		tuple.Elems = append(tuple.Elems, p.parseType())
		p.match("?")
		if !p.match(",") {
			break
		}
	}
	p.expect("]")
	tuple.typeBase = typeBase{pos: positionOf(start), text: p.textFrom(start)}
	return tuple
}

func (p *Parser) parseTypeLiteral() TypeNode {
	start := p.advance()
	lit := &TypeLiteral{}
	lit.Members, lit.Methods, lit.Indexers = p.parseTypeMembers()
	lit.typeBase = typeBase{pos: positionOf(start), text: p.textFrom(start)}
	return lit
}

// parseTypeMembers parses interface or type literal members after the
// opening brace, consuming the closing brace.
func (p *Parser) parseTypeMembers() (members []*PropertySignature, methods []string, indexers int) {
	for !p.atEnd() && !p.peek().IsPunct("}") {
		if p.match(";") || p.match(",") {
			continue
		}
		tok := p.peek()
		if tok.IsPunct("(") || tok.IsPunct("<") || (tok.IsIdent("new") && (p.peekN(1).IsPunct("(") || p.peekN(1).IsPunct("<"))) {
			p.matchIdent("new")
			p.skipAngles()
			p.skipBalanced()
			if p.match(":") {
				p.parseReturnType()
			}
			continue
		}

		readonly := false
		if p.peek().IsPunct("+") || p.peek().IsPunct("-") {
			p.advance()
		}
		if p.peek().IsIdent("readonly") && p.modifierApplies() {
			p.advance()
			readonly = true
		}
		if (p.peek().IsIdent("get") || p.peek().IsIdent("set")) && p.modifierApplies() {
			p.advance()
		}

		tok = p.peek()
		var name string
		switch {
		case tok.IsPunct("["):
			if p.isIndexSignature() {
				p.skipBalanced()
				if p.peek().IsPunct("+") || p.peek().IsPunct("-") {
					p.advance()
				}
				p.match("?")
				if p.match(":") {
					p.parseType()
				}
				indexers++
				continue
			}
			p.skipBalanced()
			name = p.textFrom(tok)
		case tok.Type == TokenIdent || tok.Type == TokenString || tok.Type == TokenNumber || tok.Type == TokenPrivateName:
			name = unquote(p.advance().Value)
		default:
			p.addError(tok, "unexpected %s in type members", tok)
			p.advance()
			continue
		}

		optional := p.match("?")
		if p.peek().IsPunct("(") || p.peek().IsPunct("<") {
			p.skipAngles()
			p.skipBalanced()
			if p.match(":") {
				p.parseReturnType()
			}
			methods = append(methods, name)
			continue
		}

		sig := &PropertySignature{Name: name, Pos: positionOf(tok), Optional: optional, Readonly: readonly}
		if p.match(":") {
			sig.Type = p.parseType()
		}
		members = append(members, sig)
	}
	p.expect("}")
	return members, methods, indexers
}

func (p *Parser) parseInterface(start Token, mods declModifiers) Node {
	p.advance()
	iface := &InterfaceDeclaration{Exported: mods.export, Ambient: mods.declare}
	iface.Name = p.advance().Value
	if p.peek().IsPunct("<") {
		iface.TypeParams = p.skipAngles()
	}
	if p.matchIdent("extends") {
		for {
			iface.Extends = append(iface.Extends, p.parseType())
			if !p.match(",") {
				break
			}
		}
	}
	if !p.expect("{") {
		p.synchronize()
		return nil
	}
	iface.Members, iface.Methods, _ = p.parseTypeMembers()
	iface.nodeBase = nodeBase{kind: KindInterfaceDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return iface
}

func (p *Parser) parseEnum(start Token, mods declModifiers, isConst bool) Node {
	p.advance()
	enum := &EnumDeclaration{Exported: mods.export, Const: isConst}
	enum.Name = p.advance().Value
	if !p.expect("{") {
		p.synchronize()
		return nil
	}
	for !p.atEnd() && !p.peek().IsPunct("}") {
		tok := p.advance()
		if tok.Type != TokenIdent && tok.Type != TokenString {
			p.addError(tok, "expected enum member, got %s", tok)
			p.skipUntil(",", "}")
			p.match(",")
			continue
		}
		member := EnumMember{Name: unquote(tok.Value)}
		if p.match("=") {
			init := p.peek()
			p.skipUntil(",", "}")
			member.Initializer = strings.TrimSpace(p.textFrom(init))
		}
		enum.Members = append(enum.Members, member)
		if !p.match(",") {
			break
		}
	}
	p.expect("}")
	enum.nodeBase = nodeBase{kind: KindEnumDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return enum
}

func (p *Parser) parseTypeAlias(start Token, mods declModifiers) Node {
	p.advance()
	alias := &TypeAliasDeclaration{Exported: mods.export}
	alias.Name = p.advance().Value
	if p.peek().IsPunct("<") {
		alias.TypeParams = p.skipAngles()
	}
	if !p.expect("=") {
		p.synchronize()
		return nil
	}
	alias.Type = p.parseType()
	p.match(";")
	alias.nodeBase = nodeBase{kind: KindTypeAliasDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return alias
}
