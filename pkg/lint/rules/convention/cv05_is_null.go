package convention

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(IsNull)
}

// IsNull flags comparisons against NULL with = or !=, which never match.
var IsNull = lint.RuleDef{
	ID:          "CV05",
	Name:        "convention.is_null",
	Group:       "convention",
	Description: "Comparisons with NULL should use IS NULL or IS NOT NULL.",
	Severity:    lint.SeverityWarning,
	Check:       checkIsNull,
}

func checkIsNull(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.BinaryExpr) {
		b, _ := ast.AsBinary(n)
		op := b.Op()

		var replacement string
		switch op.Type {
		case token.EQUALS, token.EQ:
			replacement = "IS NULL"
		case token.NE, token.LTGT:
			replacement = "IS NOT NULL"
		default:
			continue
		}

		right, ok := b.Right()
		if isNullLiteral(right, ok) {
			d := file.Report("CV05", lint.SeverityWarning, lint.SpanOf(n),
				"Use "+replacement+" instead of "+op.Literal+" NULL")
			// Replace from the operator through the NULL keyword.
			edit := token.Span{Offset: op.Pos.Offset, Length: lint.SpanOf(right.Node()).End() - op.Pos.Offset}
			d.Fixes = []lint.Fix{{
				Description: "Rewrite as " + replacement,
				TextEdits:   []lint.TextEdit{{Span: edit, NewText: replacement}},
			}}
			diagnostics = append(diagnostics, d)
			continue
		}

		left, ok := b.Left()
		if isNullLiteral(left, ok) {
			diagnostics = append(diagnostics, file.Report("CV05", lint.SeverityWarning, lint.SpanOf(n),
				"Use "+replacement+" instead of comparing NULL with "+op.Literal))
		}
	}
	return diagnostics
}

func isNullLiteral(e ast.Expr, ok bool) bool {
	if !ok {
		return false
	}
	lit, ok := ast.AsLiteral(e.Node())
	return ok && lit.IsNull()
}
