package tsparse

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// skipBalanced consumes a bracketed group starting at the current opener,
// including nested groups of any bracket kind.
func (p *Parser) skipBalanced() {
	open := p.peek()
	if _, ok := closers[open.Value]; !ok || open.Type != TokenPunct {
		return
	}
	depth := 0
	for !p.atEnd() {
		tok := p.advance()
		if tok.Type != TokenPunct {
			continue
		}
		switch tok.Value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return
			}
		}
	}
	p.addError(open, "unclosed %q", open.Value)
}

// skipAngles consumes a `<...>` type parameter or argument list and returns
// the identifiers declared at its top level.
func (p *Parser) skipAngles() []string {
	if !p.peek().IsPunct("<") {
		return nil
	}
	var names []string
	depth := 0
	expectName := false
	for !p.atEnd() {
		tok := p.advance()
		switch {
		case tok.IsPunct("<"):
			depth++
			expectName = depth == 1
			continue
		case tok.IsPunct(">"):
			depth--
			if depth == 0 {
				return names
			}
		case tok.IsPunct(",") && depth == 1:
			expectName = true
			continue
		case tok.IsPunct("(") || tok.IsPunct("[") || tok.IsPunct("{"):
			p.pos--
			p.skipBalanced()
		case expectName && tok.Type == TokenIdent && !tok.IsIdent("const") && !tok.IsIdent("in") && !tok.IsIdent("out"):
			names = append(names, tok.Value)
		}
		expectName = false
	}
	return names
}

// findMatching returns the token index of the closer matching the opener at
// index i, or -1.
func (p *Parser) findMatching(i int) int {
	depth := 0
	for j := i; j < len(p.tokens); j++ {
		tok := p.tokens[j]
		if tok.Type != TokenPunct {
			continue
		}
		switch tok.Value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// skipUntil consumes tokens until one of stops appears at bracket depth zero.
// The stop token is not consumed.
func (p *Parser) skipUntil(stops ...string) {
	depth := 0
	for !p.atEnd() {
		tok := p.peek()
		if depth == 0 && tok.Type == TokenPunct {
			for _, stop := range stops {
				if tok.Value == stop {
					return
				}
			}
		}
		if tok.Type == TokenPunct {
			switch tok.Value {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return
				}
				depth--
			}
		}
		p.advance()
	}
}

// skipStatement consumes the current statement: up to and including a
// semicolon at depth zero, up to (not including) a closing brace of the
// enclosing block, or up to a line break where automatic semicolon
// insertion applies.
func (p *Parser) skipStatement() {
	depth := 0
	first := true
	for !p.atEnd() {
		tok := p.peek()
		if depth == 0 && !first {
			if tok.IsPunct("}") {
				return
			}
			if tok.NewlineBefore && !continuesStatement(p.tokens[p.pos-1], tok) {
				return
			}
		}
		first = false
		p.advance()
		if tok.Type != TokenPunct {
			continue
		}
		switch tok.Value {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth > 0 {
				depth--
			}
		case ";":
			if depth == 0 {
				return
			}
		}
	}
}

// continuesStatement reports whether next, which follows a line break,
// continues the statement ending in prev.
func continuesStatement(prev, next Token) bool {
	if next.Type == TokenPunct {
		switch next.Value {
		case "++", "--", "{", "!", "~", "@", ";":
		default:
			return true
		}
	}
	if next.Type == TokenTemplate {
		return true
	}
	if next.Type == TokenIdent {
		switch next.Value {
		case "else", "catch", "finally", "as", "satisfies", "instanceof", "in", "of":
			return true
		}
	}
	if prev.Type == TokenPunct {
		switch prev.Value {
		case ")", "]", "}", "++", "--", ";":
			return false
		}
		return true
	}
	if prev.Type == TokenIdent {
		switch prev.Value {
		case "new", "typeof", "void", "delete", "await", "instanceof", "in", "of", "extends", "case":
			return true
		}
	}
	return false
}
