package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// Error Node messages.
const (
	ErrExpected    = "expected %s"
	ErrUnexpected  = "unexpected %s, expected %s"
	ErrStray       = "unexpected %s"
	ErrTooDeep     = "nesting too deep"
	ErrEmptySelect = "expected projection or FROM after SELECT"
)

// Names of expected constructs, used in messages.
const (
	wantExpr       = "expression"
	wantName       = "name"
	wantType       = "type"
	wantQuery      = "query"
	wantOperator   = "operator after '|'"
	wantSource     = "table or subquery"
	wantProjection = "projection"
	wantSelect     = "SELECT"
	wantStmtEnd    = "';' or end of statement"
	wantCTE        = "common table expression"
	wantWhen       = "WHEN"
	wantCase       = "CASE or DEFAULT"
	wantScope      = "'('"
)

// describe renders a token for messages.
func describe(tok token.Token) string {
	switch {
	case tok.Type == token.EOF:
		return "end of input"
	case tok.Type == token.ILLEGAL:
		return fmt.Sprintf("character %q", tok.Literal)
	case tok.Type.IsKeyword():
		return fmt.Sprintf("keyword %s", tok.Type)
	case tok.Type.IsOperator():
		return fmt.Sprintf("'%s'", tok.Literal)
	case len(tok.Literal) > maxLiteral:
		return fmt.Sprintf("%s %q...", tok.Type, truncate(tok.Literal, maxLiteral))
	default:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
}

// maxLiteral is the longest literal quoted whole in a message, in bytes.
const maxLiteral = 24

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// quote renders a punctuation token for messages.
func quote(lit string) string {
	return "'" + lit + "'"
}
