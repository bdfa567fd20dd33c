// Package editor derives the structural services an editor needs from a
// syntax tree: highlighting classes, folding regions, brace pairs and
// document symbols.
//
// Everything here is a pure function of its input, so results can be
// computed from a cached tree on any goroutine.
package editor

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Range is a span together with the lines it starts and ends on.
type Range struct {
	Span      token.Span
	StartLine int // 1-based
	EndLine   int // 1-based, the line of the last byte
}

// tokenRange returns the range a single token covers.
func tokenRange(tok token.Token) Range {
	return Range{
		Span:      tok.Span(),
		StartLine: tok.Pos.Line,
		EndLine:   endLine(tok),
	}
}

// nodeRange returns the range from the first to the last significant token
// of n, so leading and trailing trivia are never included.
func nodeRange(n *syntax.Node) (Range, bool) {
	first, ok := n.FirstToken()
	if !ok {
		return Range{}, false
	}
	last, _ := n.LastToken()
	return Range{
		Span:      token.Span{Offset: first.Pos.Offset, Length: last.End() - first.Pos.Offset},
		StartLine: first.Pos.Line,
		EndLine:   endLine(last),
	}, true
}

func endLine(tok token.Token) int {
	return tok.Pos.Line + strings.Count(strings.TrimSuffix(tok.Literal, "\n"), "\n")
}
