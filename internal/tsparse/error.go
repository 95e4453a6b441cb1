package tsparse

import "fmt"

// ParseError is a structured error from the lexer or parser with position
// information.
type ParseError struct {
	File    string
	Message string
	Line    int
	Col     int
	Pos     int
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("line %d col %d: %s", e.Line, e.Col, e.Message)
}

func newParseErrorf(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Col:     tok.Col,
		Pos:     tok.Pos,
	}
}
