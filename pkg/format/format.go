// Package format normalizes SuperSQL source text.
//
// Formatting is deliberately narrow: keywords are recased and trailing
// whitespace is removed from every line. Identifiers, literals, comments,
// line breaks and indentation are left exactly as written, so formatting
// never changes what a program means.
package format

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// KeywordCase selects how keywords are written.
type KeywordCase uint8

// Keyword cases.
const (
	KeywordPreserve KeywordCase = iota
	KeywordUpper
	KeywordLower
)

func (k KeywordCase) String() string {
	switch k {
	case KeywordUpper:
		return "upper"
	case KeywordLower:
		return "lower"
	}
	return "preserve"
}

// ParseKeywordCase parses the names produced by KeywordCase.String.
func ParseKeywordCase(s string) (KeywordCase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "preserve":
		return KeywordPreserve, nil
	case "upper":
		return KeywordUpper, nil
	case "lower":
		return KeywordLower, nil
	}
	return KeywordPreserve, fmt.Errorf("unknown keyword case %q (want upper, lower or preserve)", s)
}

// Options controls formatting.
type Options struct {
	KeywordCase KeywordCase
}

// Edit replaces the text of Span with NewText.
type Edit struct {
	Span    token.Span
	NewText string
}

// Format returns the formatted text of a tree.
func Format(root *syntax.Node, opts Options) string {
	p := newPrinter(opts)
	p.printTree(root)
	return p.String()
}

// Text parses text and formats it.
func Text(text string, opts Options) string {
	return Format(parser.ParseText(text), opts)
}

// Edits returns the token-level changes Format would make, in source order.
// Applying them to the tree's text yields Format's result.
func Edits(root *syntax.Node, opts Options) []Edit {
	p := newPrinter(opts)
	p.printTree(root)
	return p.edits
}
