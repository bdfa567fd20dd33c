package editor

import (
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// FoldKind groups folding regions.
type FoldKind string

// Folding region kinds.
const (
	FoldComment  FoldKind = "comment"
	FoldRecord   FoldKind = "record"
	FoldArray    FoldKind = "array"
	FoldCase     FoldKind = "case"
	FoldScope    FoldKind = "scope"
	FoldFunction FoldKind = "function"
)

// Fold is a region the editor may collapse.
type Fold struct {
	Range
	Kind        FoldKind
	Placeholder string // text shown while collapsed
}

// foldRule says which constructs fold and how long they must be.
type foldRule struct {
	kind        FoldKind
	minLen      int // the region must be longer than this many bytes
	placeholder string
}

var foldRules = map[syntax.Kind]foldRule{
	syntax.RecordExpr: {FoldRecord, 2, "{...}"},
	syntax.ArrayExpr:  {FoldArray, 2, "[...]"},
	syntax.CaseExpr:   {FoldCase, 10, "CASE...END"},
	syntax.Scope:      {FoldScope, 10, "(...)"},
	syntax.FnDecl:     {FoldFunction, 20, "fn ..."},
}

var commentRule = foldRule{FoldComment, 4, "/* ... */"}

// Folds returns the folding regions of the tree in source order. Only
// regions spanning more than one line are returned.
func Folds(root *syntax.Node) []Fold {
	var out []Fold
	for n := range root.Walk() {
		if tok, ok := n.Token(); ok {
			if tok.Type == token.BLOCK_COMMENT {
				out = appendFold(out, tokenRange(tok), commentRule)
			}
			continue
		}
		rule, ok := foldRules[n.Kind()]
		if !ok {
			continue
		}
		if r, ok := nodeRange(n); ok {
			out = appendFold(out, r, rule)
		}
	}
	return out
}

func appendFold(out []Fold, r Range, rule foldRule) []Fold {
	if r.Span.Length <= rule.minLen || r.EndLine <= r.StartLine {
		return out
	}
	return append(out, Fold{Range: r, Kind: rule.kind, Placeholder: rule.placeholder})
}
