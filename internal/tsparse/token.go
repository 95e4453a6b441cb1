package tsparse

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenPrivateName
	TokenString
	TokenTemplate
	TokenRegex
	TokenNumber
	TokenPunct
	TokenComment
	TokenIllegal
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenIdent:       "identifier",
	TokenPrivateName: "private name",
	TokenString:      "string",
	TokenTemplate:    "template",
	TokenRegex:       "regular expression",
	TokenNumber:      "number",
	TokenPunct:       "punctuation",
	TokenComment:     "comment",
	TokenIllegal:     "illegal",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical token with its byte span and 1-based location.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
	Line  int
	Col   int
	// NewlineBefore is set when a line terminator separates this token from
	// the previous one. Statement splitting relies on it for ASI.
	NewlineBefore bool
}

// Is reports whether the token is the given punctuation or identifier text.
func (t Token) Is(value string) bool {
	return (t.Type == TokenPunct || t.Type == TokenIdent) && t.Value == value
}

// IsPunct reports whether the token is the given punctuation.
func (t Token) IsPunct(value string) bool {
	return t.Type == TokenPunct && t.Value == value
}

// IsIdent reports whether the token is the given identifier or keyword.
func (t Token) IsIdent(value string) bool {
	return t.Type == TokenIdent && t.Value == value
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "end of file"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}
