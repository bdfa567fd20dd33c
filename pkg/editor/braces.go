package editor

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// BracePair is a matched opening and closing bracket.
type BracePair struct {
	Open  token.Token
	Close token.Token
	// Structural pairs delimit records and maps; editors may treat them as
	// block boundaries.
	Structural bool
}

var openers = map[token.TokenType]token.TokenType{
	token.RPAREN:   token.LPAREN,
	token.RBRACKET: token.LBRACKET,
	token.RBRACE:   token.LBRACE,
	token.RSET:     token.LSET,
	token.RMAP:     token.LMAP,
}

func isOpener(t token.TokenType) bool {
	switch t {
	case token.LPAREN, token.LBRACKET, token.LBRACE, token.LSET, token.LMAP:
		return true
	}
	return false
}

// Braces matches the brackets of a token stream and returns the pairs
// ordered by the opening bracket. A closer whose opener is buried under
// unclosed brackets closes them implicitly; a closer with no opener at all
// is ignored.
func Braces(toks []token.Token) []BracePair {
	var (
		stack []token.Token
		out   []BracePair
	)
	for _, tok := range toks {
		if isOpener(tok.Type) {
			stack = append(stack, tok)
			continue
		}
		want, ok := openers[tok.Type]
		if !ok {
			continue
		}
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].Type != want {
				continue
			}
			out = append(out, BracePair{
				Open:       stack[i],
				Close:      tok,
				Structural: want == token.LBRACE || want == token.LMAP,
			})
			stack = stack[:i]
			break
		}
	}
	slices.SortFunc(out, func(a, b BracePair) int {
		return cmp.Compare(a.Open.Pos.Offset, b.Open.Pos.Offset)
	})
	return out
}

// MatchBrace returns the bracket that pairs with the bracket at offset.
func MatchBrace(toks []token.Token, offset int) (token.Token, bool) {
	for _, p := range Braces(toks) {
		switch {
		case p.Open.Span().Contains(offset):
			return p.Close, true
		case p.Close.Span().Contains(offset):
			return p.Open, true
		}
	}
	return token.Token{}, false
}
