package ambiguous

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(UnionDistinct)
}

// UnionDistinct warns about using UNION without ALL (implicit DISTINCT).
var UnionDistinct = lint.RuleDef{
	ID:          "AM02",
	Name:        "ambiguous.union",
	Group:       "ambiguous",
	Description: "UNION without ALL performs implicit DISTINCT which may be unintended.",
	Severity:    lint.SeverityInfo,
	Check:       checkUnionDistinct,
}

func checkUnionDistinct(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.SetOperation) {
		op, ok := unionKeyword(n)
		if !ok {
			continue
		}
		set, _ := ast.AsSetOperation(n)
		if set.All() || hasDistinct(n) {
			continue
		}
		diagnostics = append(diagnostics, file.Report("AM02", lint.SeverityInfo, op.Span(),
			"UNION without ALL performs implicit DISTINCT; use UNION ALL if duplicates are acceptable"))
	}
	return diagnostics
}

// unionKeyword returns the UNION token that is a direct child of n.
func unionKeyword(n *syntax.Node) (token.Token, bool) {
	for c := range n.Children() {
		if tok, ok := c.Token(); ok && tok.Type == token.UNION {
			return tok, true
		}
	}
	return token.Token{}, false
}

func hasDistinct(n *syntax.Node) bool {
	for c := range n.Children() {
		if c.TokenType() == token.DISTINCT {
			return true
		}
	}
	return false
}
