package tsparse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// multi-character punctuators, longest first. '<' and '>' are always single
// characters so nested type arguments close cleanly.
var punctuators = []string{
	"...", "??=", "&&=", "||=", "**=", "===", "!==",
	"=>", "?.", "??", "==", "!=", "&&", "||", "**", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

// Lexer tokenizes TypeScript source text. It understands enough of the
// lexical grammar to walk declarations: identifiers, strings, template
// literals, numbers, comments and punctuation.
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	newline bool
	tokens  []Token
	errors  []error
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize scans the entire input and returns all tokens plus any errors.
// Comments are dropped; the final token is always TokenEOF.
func (l *Lexer) Tokenize() ([]Token, []error) {
	for {
		tok := l.next()
		if tok.Type == TokenComment {
			continue
		}
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, l.errors
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(offset int) rune {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
		l.newline = true
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r := l.peek()
		if r == '\uFEFF' || unicode.IsSpace(r) {
			if r == '\u2028' || r == '\u2029' {
				l.newline = true
			}
			l.advance()
			continue
		}
		break
	}
}

func (l *Lexer) errorf(line, col int, format string, args ...any) {
	l.errors = append(l.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Col:     col,
		Pos:     l.pos,
	})
}

func (l *Lexer) next() Token {
	l.skipWhitespace()

	startPos, startLine, startCol := l.pos, l.line, l.col
	newline := l.newline
	l.newline = false
	emit := func(tt TokenType) Token {
		return Token{
			Type:          tt,
			Value:         l.input[startPos:l.pos],
			Pos:           startPos,
			End:           l.pos,
			Line:          startLine,
			Col:           startCol,
			NewlineBefore: newline,
		}
	}

	if l.pos >= len(l.input) {
		return emit(TokenEOF)
	}

	r := l.peek()
	switch {
	case r == '/' && l.peekAt(1) == '/':
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		l.newline = newline
		return emit(TokenComment)
	case r == '/' && l.peekAt(1) == '*':
		l.advance()
		l.advance()
		closed := false
		for l.pos < len(l.input) {
			if l.peek() == '*' && l.peekAt(1) == '/' {
				l.advance()
				l.advance()
				closed = true
				break
			}
			l.advance()
		}
		if !closed {
			l.errorf(startLine, startCol, "unterminated block comment")
		}
		l.newline = l.newline || newline
		return emit(TokenComment)
	case isIdentStart(r):
		l.scanIdent()
		return emit(TokenIdent)
	case r == '#' && isIdentStart(l.peekAt(1)):
		l.advance()
		l.scanIdent()
		return emit(TokenPrivateName)
	case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
		l.scanNumber()
		return emit(TokenNumber)
	case r == '"' || r == '\'':
		l.scanString(r, startLine, startCol)
		return emit(TokenString)
	case r == '`':
		l.scanTemplate(startLine, startCol)
		return emit(TokenTemplate)
	case r == '/' && l.regexAllowed(newline) && l.scanRegex():
		return emit(TokenRegex)
	}

	rest := l.input[l.pos:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return emit(TokenPunct)
		}
	}

	if strings.ContainsRune("{}()[];,<>+-*/%&|^!~?:=.@", r) {
		l.advance()
		return emit(TokenPunct)
	}

	l.advance()
	l.errorf(startLine, startCol, "unexpected character %q", r)
	return emit(TokenIllegal)
}

func (l *Lexer) scanIdent() {
	for l.pos < len(l.input) {
		r := l.peek()
		if !isIdentPart(r) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanNumber() {
	if l.peek() == '0' && strings.ContainsRune("xXoObB", l.peekAt(1)) {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == 'n' {
			l.advance()
		}
		return
	}
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	if l.peek() == '.' && l.peekAt(1) != '.' {
		l.advance()
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	if l.peek() == 'n' {
		l.advance()
	}
}

func (l *Lexer) scanString(quote rune, line, col int) {
	l.advance()
	for l.pos < len(l.input) {
		r := l.peek()
		switch r {
		case '\\':
			l.advance()
			l.advance()
		case quote:
			l.advance()
			return
		case '\n':
			l.errorf(line, col, "unterminated string literal")
			return
		default:
			l.advance()
		}
	}
	l.errorf(line, col, "unterminated string literal")
}

// scanTemplate consumes a template literal including ${...} substitutions,
// tracking brace depth so nested object literals do not end the expression.
func (l *Lexer) scanTemplate(line, col int) {
	l.advance()
	for l.pos < len(l.input) {
		r := l.peek()
		switch {
		case r == '\\':
			l.advance()
			l.advance()
		case r == '`':
			l.advance()
			return
		case r == '$' && l.peekAt(1) == '{':
			l.advance()
			l.advance()
			depth := 1
			for l.pos < len(l.input) && depth > 0 {
				switch c := l.peek(); c {
				case '{':
					depth++
					l.advance()
				case '}':
					depth--
					l.advance()
				case '"', '\'':
					l.scanString(c, l.line, l.col)
				case '`':
					l.scanTemplate(l.line, l.col)
				default:
					l.advance()
				}
			}
		default:
			l.advance()
		}
	}
	l.errorf(line, col, "unterminated template literal")
}

// keywords after which a slash starts an expression rather than dividing.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// regexAllowed reports whether a '/' at the current position can open a
// regular expression literal, judged by the previous significant token.
func (l *Lexer) regexAllowed(newline bool) bool {
	if len(l.tokens) == 0 {
		return true
	}
	prev := l.tokens[len(l.tokens)-1]
	switch prev.Type {
	case TokenIdent:
		return regexKeywords[prev.Value]
	case TokenPunct:
		switch prev.Value {
		case ")", "]", "++", "--":
			return false
		case "}":
			return newline
		}
		return true
	case TokenString, TokenTemplate, TokenNumber, TokenRegex, TokenPrivateName:
		return false
	}
	return true
}

// scanRegex consumes a regular expression literal and its flags. It leaves
// the position untouched and returns false when no closing slash exists on
// the same line.
func (l *Lexer) scanRegex() bool {
	i := l.pos + 1
	inClass := false
	for ; i < len(l.input); i++ {
		c := l.input[i]
		if c == '\n' || c == '\r' {
			return false
		}
		if c == '\\' {
			i++
			continue
		}
		if inClass {
			if c == ']' {
				inClass = false
			}
			continue
		}
		if c == '[' {
			inClass = true
			continue
		}
		if c == '/' {
			break
		}
	}
	if i >= len(l.input) || i == l.pos+1 {
		return false
	}
	for l.pos <= i {
		l.advance()
	}
	for l.pos < len(l.input) && isIdentPart(l.peek()) {
		l.advance()
	}
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200C' || r == '\u200D'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
