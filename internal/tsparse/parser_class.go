package tsparse

import "strings"

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true,
	"static": true, "abstract": true, "declare": true, "override": true,
	"async": true, "accessor": true,
}

var parameterModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "readonly": true, "override": true,
}

// modifierApplies reports whether the current identifier acts as a modifier
// rather than as a member name, judged by the token that follows it.
func (p *Parser) modifierApplies() bool {
	next := p.peekN(1)
	switch next.Type {
	case TokenIdent, TokenPrivateName, TokenString, TokenNumber:
		return true
	case TokenPunct:
		switch next.Value {
		case "[", "{", "*", "...":
			return true
		}
	}
	return false
}

func (p *Parser) parseClass(start Token, decorators []Decorator, mods declModifiers) Node {
	p.advance()
	class := &ClassDeclaration{
		Exported:   mods.export,
		Default:    mods.def,
		Abstract:   mods.abstract,
		Ambient:    mods.declare,
		Decorators: decorators,
	}
	if tok := p.peek(); tok.Type == TokenIdent && !tok.IsIdent("extends") && !tok.IsIdent("implements") {
		class.Name = p.advance().Value
	} else if mods.def {
		class.Name = "default"
	}
	if p.peek().IsPunct("<") {
		class.TypeParams = p.skipAngles()
	}

	for {
		switch {
		case p.matchIdent("extends"):
			class.Extends = p.parseType()
			if p.peek().IsPunct("(") {
				p.skipBalanced()
			}
			continue
		case p.matchIdent("implements"):
			for {
				class.Implements = append(class.Implements, p.parseType())
				if !p.match(",") {
					break
				}
			}
			continue
		}
		break
	}

	if !p.expect("{") {
		p.synchronize()
		return nil
	}
	p.parseClassBody(class)
	p.expect("}")

	class.nodeBase = nodeBase{kind: KindClassDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return class
}

func (p *Parser) parseClassBody(class *ClassDeclaration) {
	for !p.atEnd() && !p.peek().IsPunct("}") {
		if p.match(";") {
			continue
		}
		if p.startsTopLevel() {
			p.addError(p.peek(), "unterminated class body for %q", class.Name)
			return
		}
		memberStart := p.peek()
		decorators := p.parseDecorators()

		var mods []string
		for memberModifiers[p.peek().Value] && p.peek().Type == TokenIdent && p.modifierApplies() {
			mods = append(mods, p.advance().Value)
		}
		static := containsString(mods, "static")
		if static && p.peek().IsPunct("{") {
			p.skipBalanced()
			continue
		}

		accessor := ""
		if (p.peek().IsIdent("get") || p.peek().IsIdent("set")) && p.modifierApplies() && !p.peekN(1).IsPunct("{") {
			accessor = p.advance().Value
		}
		p.match("*")

		tok := p.peek()
		var name string
		switch {
		case tok.IsIdent("constructor") && accessor == "" && p.peekN(1).IsPunct("("):
			p.advance()
			class.Constructors = append(class.Constructors, p.parseConstructor(memberStart))
			continue
		case tok.IsPunct("["):
			if p.isIndexSignature() {
				p.skipBalanced()
				if p.match(":") {
					p.parseType()
				}
				p.match(";")
				continue
			}
			p.skipBalanced()
			name = p.textFrom(tok)
		case tok.Type == TokenIdent || tok.Type == TokenPrivateName || tok.Type == TokenString || tok.Type == TokenNumber:
			name = unquote(p.advance().Value)
		default:
			p.addError(tok, "unexpected %s in class body", tok)
			p.advance()
			continue
		}

		optional := p.match("?")
		definite := p.match("!")

		if p.peek().IsPunct("<") || p.peek().IsPunct("(") {
			p.skipAngles()
			p.skipBalanced()
			if p.match(":") {
				p.parseReturnType()
			}
			if p.peek().IsPunct("{") {
				p.skipBalanced()
			} else {
				p.match(";")
			}
			class.Methods = append(class.Methods, &MethodDeclaration{
				Name:     name,
				Pos:      positionOf(tok),
				Accessor: accessor,
				Static:   static,
			})
			continue
		}

		field := &FieldDeclaration{
			Name:        name,
			Pos:         positionOf(tok),
			Decorators:  decorators,
			Modifiers:   mods,
			Static:      static,
			Optional:    optional,
			Definite:    definite,
			Annotations: Annotations(decorators),
		}
		if p.match(":") {
			field.Type = p.parseType()
		}
		if p.match("=") {
			init := p.peek()
			p.skipStatement()
			field.Initializer = strings.TrimSuffix(strings.TrimSpace(p.textFrom(init)), ";")
		} else {
			p.match(";")
		}
		class.Fields = append(class.Fields, field)
	}
}

// startsTopLevel reports whether the cursor sits on a line-leading keyword
// that cannot begin a class member, which means the class body was never
// closed.
func (p *Parser) startsTopLevel() bool {
	tok := p.peek()
	if !tok.NewlineBefore || tok.Type != TokenIdent {
		return false
	}
	switch tok.Value {
	case "export", "import", "class", "interface", "enum", "function", "type", "namespace", "const", "let", "var":
	default:
		return false
	}
	next := p.peekN(1)
	return next.Type == TokenIdent || next.Type == TokenString || next.IsPunct("{") || next.IsPunct("*")
}

// isIndexSignature reports whether the `[` at the cursor opens an index
// signature (`[key: K]`) or mapped type key (`[K in T]`).
func (p *Parser) isIndexSignature() bool {
	if !p.peek().IsPunct("[") {
		return false
	}
	name := p.peekN(1)
	after := p.peekN(2)
	return name.Type == TokenIdent && (after.IsPunct(":") || after.IsIdent("in"))
}

func (p *Parser) parseConstructor(start Token) *Constructor {
	ctor := &Constructor{Pos: positionOf(start)}
	ctor.Params = p.parseParams()
	if p.match(":") {
		p.parseType()
	}
	if p.peek().IsPunct("{") {
		ctor.HasBody = true
		ctor.Body = p.parseBlockStatements()
	} else {
		p.match(";")
	}
	return ctor
}

func (p *Parser) parseParams() []*Parameter {
	if !p.expect("(") {
		return nil
	}
	var params []*Parameter
	for !p.atEnd() && !p.peek().IsPunct(")") {
		param := &Parameter{Pos: positionOf(p.peek())}
		param.Decorators = p.parseDecorators()
		for parameterModifiers[p.peek().Value] && p.peek().Type == TokenIdent && p.modifierApplies() {
			param.Modifiers = append(param.Modifiers, p.advance().Value)
		}
		param.Rest = p.match("...")

		tok := p.peek()
		switch {
		case tok.Type == TokenIdent:
			param.Name = p.advance().Value
		case tok.IsPunct("{") || tok.IsPunct("["):
			p.skipBalanced()
		default:
			p.addError(tok, "expected parameter name, got %s", tok)
			p.skipUntil(",", ")")
		}
		param.Optional = p.match("?")
		if p.match(":") {
			param.Type = p.parseType()
		}
		if p.match("=") {
			init := p.peek()
			p.skipUntil(",", ")")
			param.Initializer = strings.TrimSpace(p.textFrom(init))
		}
		params = append(params, param)
		if !p.match(",") {
			break
		}
	}
	p.expect(")")
	return params
}

// parseBlockStatements splits a `{ ... }` block into statements and
// classifies each one.
func (p *Parser) parseBlockStatements() []*Statement {
	p.expect("{")
	var out []*Statement
	for !p.atEnd() && !p.peek().IsPunct("}") {
		if p.match(";") {
			continue
		}
		startIdx := p.pos
		p.skipStatement()
		if p.pos == startIdx {
			p.advance()
			continue
		}
		out = append(out, p.classifyStatement(p.tokens[startIdx:p.pos]))
	}
	p.expect("}")
	return out
}

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "&=": true, "|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

func (p *Parser) classifyStatement(toks []Token) *Statement {
	if n := len(toks); n > 1 && toks[n-1].IsPunct(";") {
		toks = toks[:n-1]
	}
	first := toks[0]
	stmt := &Statement{
		Kind: KindExpressionStatement,
		Pos:  positionOf(first),
		Text: p.span(toks),
	}

	if first.Type == TokenIdent {
		switch first.Value {
		case "const", "let", "var":
			stmt.Kind = KindVariableStatement
			return stmt
		case "if", "for", "while", "do", "switch", "try", "return", "throw",
			"break", "continue", "function", "class", "debugger", "with":
			stmt.Kind = KindUnknown
			return stmt
		}
	}
	if first.IsPunct("{") {
		stmt.Kind = KindUnknown
		return stmt
	}

	depth := 0
	for i, tok := range toks {
		if tok.Type != TokenPunct {
			continue
		}
		switch tok.Value {
		case "(", "[", "{":
			depth++
			continue
		case ")", "]", "}":
			depth--
			continue
		}
		if depth != 0 || i == 0 || i == len(toks)-1 || !assignmentOperators[tok.Value] {
			continue
		}
		left, right := toks[:i], toks[i+1:]
		assign := &Assignment{
			Target:   p.span(left),
			Operator: tok.Value,
			Value:    p.span(right),
		}
		if len(left) == 3 && left[0].IsIdent("this") && left[1].IsPunct(".") && left[2].Type == TokenIdent {
			assign.Member = left[2].Value
		}
		if len(right) == 1 && right[0].Type == TokenIdent && !isValueKeyword(right[0].Value) {
			assign.ValueIdent = right[0].Value
		}
		stmt.Assignment = assign
		break
	}
	return stmt
}

func isValueKeyword(word string) bool {
	switch word {
	case "true", "false", "null", "undefined", "this", "super", "NaN", "Infinity":
		return true
	}
	return false
}

func (p *Parser) span(toks []Token) string {
	if len(toks) == 0 {
		return ""
	}
	return p.src[toks[0].Pos:toks[len(toks)-1].End]
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
