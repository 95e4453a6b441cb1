package tsparse

import "strings"

// Parse tokenizes and parses a TypeScript source file. Lexical and syntax
// errors are returned alongside a best-effort tree: parsing resumes at the
// next top-level statement so later declarations are still available.
func Parse(path, src string) (*SourceFile, []*ParseError) {
	tokens, lexErrs := NewLexer(src).Tokenize()
	p := NewParser(path, src, tokens)
	file := p.ParseFile()

	var errs []*ParseError
	for _, err := range lexErrs {
		if pe, ok := err.(*ParseError); ok {
			pe.File = path
			errs = append(errs, pe)
		}
	}
	for _, pe := range p.errors {
		pe.File = path
		errs = append(errs, pe)
	}
	return file, errs
}

// Parser implements a recursive descent parser for the declaration subset of
// TypeScript needed to infer schemas: classes, interfaces, enums, type
// aliases and imports. Everything else is consumed structurally.
type Parser struct {
	path   string
	src    string
	tokens []Token
	pos    int
	errors []*ParseError
}

// NewParser creates a parser from a token slice (typically from
// Lexer.Tokenize). src must be the text the tokens were produced from.
func NewParser(path, src string, tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens, Token{Type: TokenEOF, Pos: len(src), End: len(src)})
	}
	return &Parser{path: path, src: src, tokens: tokens}
}

// Errors returns the syntax errors recorded so far.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// ParseFile parses every top-level statement and appends the end-of-file
// marker.
func (p *Parser) ParseFile() *SourceFile {
	file := &SourceFile{Path: p.path, Source: p.src}
	for !p.atEnd() {
		start := p.pos
		if node := p.parseStatement(); node != nil {
			file.Statements = append(file.Statements, node)
		}
		if p.pos == start {
			p.advance()
		}
	}
	eof := p.peek()
	file.EndOfFile = &EndOfFile{nodeBase{kind: KindEndOfFileToken, pos: positionOf(eof)}}
	return file
}

// ── Token navigation ────────────────────────────────────────────────────────

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == TokenEOF
}

// match consumes the next token when it is the given punctuation.
func (p *Parser) match(punct string) bool {
	if p.peek().IsPunct(punct) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchIdent(word string) bool {
	if p.peek().IsIdent(word) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(punct string) bool {
	if p.match(punct) {
		return true
	}
	tok := p.peek()
	p.addError(tok, "expected %q, got %s", punct, tok)
	return false
}

func (p *Parser) expectIdent() (Token, bool) {
	tok := p.peek()
	if tok.Type == TokenIdent {
		return p.advance(), true
	}
	p.addError(tok, "expected identifier, got %s", tok)
	return tok, false
}

func (p *Parser) addError(tok Token, format string, args ...any) {
	p.errors = append(p.errors, newParseErrorf(tok, format, args...))
}

func (p *Parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.tokens[p.pos-1].End
}

func (p *Parser) textFrom(start Token) string {
	end := p.prevEnd()
	if end < start.Pos {
		return ""
	}
	return p.src[start.Pos:end]
}

// synchronize skips tokens until one that starts a top-level declaration on
// a fresh line.
func (p *Parser) synchronize() {
	if !p.atEnd() {
		p.advance()
	}
	for !p.atEnd() {
		tok := p.peek()
		if tok.NewlineBefore && isStatementKeyword(tok) {
			return
		}
		p.advance()
	}
}

func isStatementKeyword(tok Token) bool {
	if tok.IsPunct("@") {
		return true
	}
	if tok.Type != TokenIdent {
		return false
	}
	switch tok.Value {
	case "export", "import", "class", "interface", "enum", "type", "abstract",
		"declare", "function", "const", "let", "var", "namespace", "module":
		return true
	}
	return false
}

// ── Statements ──────────────────────────────────────────────────────────────

type declModifiers struct {
	export   bool
	def      bool
	declare  bool
	abstract bool
}

func (p *Parser) parseStatement() Node {
	start := p.peek()

	var decorators []Decorator
	if start.IsPunct("@") {
		decorators = p.parseDecorators()
	}

	var mods declModifiers
prefixes:
	for {
		tok := p.peek()
		next := p.peekN(1)
		switch {
		case tok.IsIdent("export") && !mods.export:
			switch {
			case next.IsPunct("="):
				p.skipStatement()
				return p.other(KindExportAssignment, start, "")
			case next.IsPunct("{") || next.IsPunct("*"):
				p.advance()
				return p.parseExportDeclaration(start)
			case next.IsIdent("type") && p.peekN(2).IsPunct("{"):
				p.advance()
				p.advance()
				return p.parseExportDeclaration(start)
			case next.IsIdent("import"):
				p.skipStatement()
				return p.other(KindImportEqualsDeclaration, start, "")
			case next.IsIdent("as"):
				p.skipStatement()
				return p.other(KindModuleDeclaration, start, "")
			}
			p.advance()
			mods.export = true
		case tok.IsIdent("default") && mods.export && !mods.def:
			p.advance()
			mods.def = true
		case tok.IsIdent("declare") && next.Type == TokenIdent && !next.NewlineBefore:
			p.advance()
			mods.declare = true
		case tok.IsIdent("abstract") && next.IsIdent("class"):
			p.advance()
			mods.abstract = true
		default:
			break prefixes
		}
	}

	tok := p.peek()
	next := p.peekN(1)
	switch {
	case tok.IsIdent("class"):
		return p.parseClass(start, decorators, mods)
	case len(decorators) > 0:
		p.addError(tok, "decorators are only supported on classes here, got %s", tok)
		p.synchronize()
		return nil
	case tok.IsIdent("interface") && next.Type == TokenIdent:
		return p.parseInterface(start, mods)
	case tok.IsIdent("enum") && next.Type == TokenIdent:
		return p.parseEnum(start, mods, false)
	case tok.IsIdent("const") && next.IsIdent("enum"):
		p.advance()
		return p.parseEnum(start, mods, true)
	case tok.IsIdent("type") && next.Type == TokenIdent && (p.peekN(2).IsPunct("=") || p.peekN(2).IsPunct("<")):
		return p.parseTypeAlias(start, mods)
	case tok.IsIdent("import") && !mods.export && !next.IsPunct("(") && !next.IsPunct("."):
		return p.parseImport(start)
	case (tok.IsIdent("namespace") || tok.IsIdent("module") || tok.IsIdent("global")) &&
		(next.Type == TokenIdent || next.Type == TokenString || next.IsPunct("{")) && !next.NewlineBefore:
		p.skipStatement()
		return p.other(KindModuleDeclaration, start, next.Value)
	case tok.IsIdent("function") || (tok.IsIdent("async") && next.IsIdent("function")):
		name := ""
		for i := 1; i <= 3; i++ {
			if t := p.peekN(i); t.Type == TokenIdent && !t.IsIdent("function") {
				name = t.Value
				break
			}
		}
		p.skipStatement()
		return p.other(KindFunctionDeclaration, start, name)
	case tok.IsIdent("const") || tok.IsIdent("let") || tok.IsIdent("var"):
		name := ""
		if next.Type == TokenIdent {
			name = next.Value
		}
		p.skipStatement()
		return p.other(KindVariableStatement, start, name)
	case tok.IsPunct(";"):
		p.advance()
		return p.other(KindEmptyStatement, start, "")
	}

	if mods.def {
		p.skipStatement()
		return p.other(KindExportAssignment, start, "")
	}
	p.skipStatement()
	return p.other(KindExpressionStatement, start, "")
}

func (p *Parser) other(kind Kind, start Token, name string) Node {
	return &OtherStatement{
		nodeBase: nodeBase{kind: kind, pos: positionOf(start), text: p.textFrom(start)},
		Name:     name,
	}
}

func (p *Parser) parseDecorators() []Decorator {
	var out []Decorator
	for p.peek().IsPunct("@") {
		at := p.advance()
		if p.peek().Type != TokenIdent {
			p.addError(p.peek(), "expected decorator name, got %s", p.peek())
			return out
		}
		name := p.parseEntityName()
		args := ""
		if p.peek().IsPunct("(") {
			open := p.peek()
			p.skipBalanced()
			args = strings.TrimSpace(p.textFrom(open))
		}
		out = append(out, Decorator{Name: name, Args: args, Pos: positionOf(at)})
	}
	return out
}

// parseEntityName consumes `a.b.c` and returns its text.
func (p *Parser) parseEntityName() string {
	first := p.advance()
	name := first.Value
	for p.peek().IsPunct(".") && (p.peekN(1).Type == TokenIdent || p.peekN(1).Type == TokenPrivateName) {
		p.advance()
		name += "." + p.advance().Value
	}
	return name
}

func (p *Parser) parseImport(start Token) Node {
	p.advance()
	imp := &ImportDeclaration{}

	if p.peek().IsIdent("type") {
		next := p.peekN(1)
		if (next.Type == TokenIdent && !next.IsIdent("from")) || next.IsPunct("{") || next.IsPunct("*") {
			p.advance()
			imp.TypeOnly = true
		}
	}

	if p.peek().Type == TokenString {
		imp.Module = unquote(p.advance().Value)
		p.skipImportAttributes()
		p.match(";")
		imp.nodeBase = nodeBase{kind: KindImportDeclaration, pos: positionOf(start), text: p.textFrom(start)}
		return imp
	}

	if tok := p.peek(); tok.Type == TokenIdent && !tok.IsIdent("from") {
		imp.Default = p.advance().Value
		if p.peek().IsPunct("=") {
			p.skipStatement()
			return p.other(KindImportEqualsDeclaration, start, imp.Default)
		}
		p.match(",")
	}
	if p.match("*") {
		if !p.matchIdent("as") {
			p.addError(p.peek(), "expected 'as' after '*' in import")
		}
		if tok, ok := p.expectIdent(); ok {
			imp.Namespace = tok.Value
		}
	}
	if p.peek().IsPunct("{") {
		imp.Named = p.parseSpecifiers()
	}
	if !p.matchIdent("from") {
		p.addError(p.peek(), "expected 'from' in import, got %s", p.peek())
		p.synchronize()
		return nil
	}
	if p.peek().Type != TokenString {
		p.addError(p.peek(), "expected module specifier, got %s", p.peek())
		p.synchronize()
		return nil
	}
	imp.Module = unquote(p.advance().Value)
	p.skipImportAttributes()
	p.match(";")
	imp.nodeBase = nodeBase{kind: KindImportDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return imp
}

func (p *Parser) skipImportAttributes() {
	if (p.peek().IsIdent("assert") || p.peek().IsIdent("with")) && p.peekN(1).IsPunct("{") && !p.peek().NewlineBefore {
		p.advance()
		p.skipBalanced()
	}
}

// parseSpecifiers parses `{ a, b as c, type d }`.
func (p *Parser) parseSpecifiers() []ImportSpecifier {
	p.expect("{")
	var out []ImportSpecifier
	for !p.atEnd() && !p.peek().IsPunct("}") {
		if p.peek().IsIdent("type") && (p.peekN(1).Type == TokenIdent || p.peekN(1).Type == TokenString) {
			p.advance()
		}
		tok := p.advance()
		if tok.Type != TokenIdent && tok.Type != TokenString {
			p.addError(tok, "expected specifier, got %s", tok)
			continue
		}
		spec := ImportSpecifier{Name: unquote(tok.Value), Local: unquote(tok.Value)}
		if p.matchIdent("as") {
			alias := p.advance()
			spec.Local = unquote(alias.Value)
		}
		out = append(out, spec)
		if !p.match(",") {
			break
		}
	}
	p.expect("}")
	return out
}

func (p *Parser) parseExportDeclaration(start Token) Node {
	exp := &ExportDeclaration{}
	if p.match("*") {
		exp.Star = true
		if p.matchIdent("as") {
			if tok, ok := p.expectIdent(); ok {
				exp.Named = []ImportSpecifier{{Name: "*", Local: tok.Value}}
				exp.Star = false
			}
		}
	} else {
		exp.Named = p.parseSpecifiers()
	}
	if p.matchIdent("from") {
		if p.peek().Type == TokenString {
			exp.Module = unquote(p.advance().Value)
		} else {
			p.addError(p.peek(), "expected module specifier, got %s", p.peek())
		}
	}
	p.skipImportAttributes()
	p.match(";")
	exp.nodeBase = nodeBase{kind: KindExportDeclaration, pos: positionOf(start), text: p.textFrom(start)}
	return exp
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
