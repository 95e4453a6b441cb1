package tsparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenValues(toks []Token) []string {
	var out []string
	for _, tok := range toks {
		if tok.Type == TokenEOF {
			break
		}
		out = append(out, tok.Value)
	}
	return out
}

func TestLexerDecoratorsAndTypes(t *testing.T) {
	toks, errs := NewLexer(`@primaryKey() id: Array<Map<string, X>>;`).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []string{
		"@", "primaryKey", "(", ")", "id", ":", "Array", "<", "Map", "<",
		"string", ",", "X", ">", ">", ";",
	}, tokenValues(toks))
}

func TestLexerSkipsCommentsAndTracksNewlines(t *testing.T) {
	src := "a // trailing\n/* block\n */ b /* inline */ c"
	toks, errs := NewLexer(src).Tokenize()
	require.Empty(t, errs)
	require.Equal(t, []string{"a", "b", "c"}, tokenValues(toks))

	assert.False(t, toks[0].NewlineBefore)
	assert.True(t, toks[1].NewlineBefore)
	assert.False(t, toks[2].NewlineBefore)
	assert.Equal(t, 3, toks[1].Line)
}

func TestLexerStringsTemplatesAndNumbers(t *testing.T) {
	src := "'it\\'s' \"x\" `a ${ {b: `c`}.b } d` 0x1F 1_000 .5 2e10 10n"
	toks, errs := NewLexer(src).Tokenize()
	require.Empty(t, errs)

	want := []TokenType{TokenString, TokenString, TokenTemplate, TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenEOF}
	var got []TokenType
	for _, tok := range toks {
		got = append(got, tok.Type)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "`a ${ {b: `c`}.b } d`", toks[2].Value)
}

func TestLexerPunctuators(t *testing.T) {
	toks, errs := NewLexer("a ?? b?.c === d => ...e >= f").Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []string{"a", "??", "b", "?.", "c", "===", "d", "=>", "...", "e", ">", "=", "f"}, tokenValues(toks))
}

func TestLexerPrivateNames(t *testing.T) {
	toks, errs := NewLexer("this.#secret = 1").Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, TokenPrivateName, toks[2].Type)
	assert.Equal(t, "#secret", toks[2].Value)
}

func TestLexerReportsUnterminatedString(t *testing.T) {
	_, errs := NewLexer("const a = 'oops\nconst b = 1").Tokenize()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unterminated string literal")
	assert.Contains(t, errs[0].Error(), "line 1 col 11")
}

func TestLexerRegexLiterals(t *testing.T) {
	src := "const a = /\\{[/\"]/g; x = b / c / d\nreturn /}/.test(s)"
	toks, errs := NewLexer(src).Tokenize()
	require.Empty(t, errs)
	assert.Equal(t, []string{
		"const", "a", "=", `/\{[/"]/g`, ";", "x", "=", "b", "/", "c", "/", "d",
		"return", "/}/", ".", "test", "(", "s", ")",
	}, tokenValues(toks))
	assert.Equal(t, TokenRegex, toks[3].Type)
	assert.Equal(t, TokenPunct, toks[8].Type)
	assert.Equal(t, TokenRegex, toks[13].Type)
}
