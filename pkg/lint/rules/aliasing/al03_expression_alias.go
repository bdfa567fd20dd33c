package aliasing

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(ExpressionAlias)
}

// ExpressionAlias recommends adding aliases to expression columns.
var ExpressionAlias = lint.RuleDef{
	ID:          "AL03",
	Name:        "aliasing.expression",
	Group:       "aliasing",
	Description: "Expression columns should have explicit aliases.",
	Severity:    lint.SeverityInfo,
	Check:       checkExpressionAlias,
}

func checkExpressionAlias(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		for _, col := range sel.Projections() {
			if _, ok := col.Alias(); ok {
				continue
			}
			e, ok := col.Expr()
			if !ok {
				continue
			}
			switch e.Kind() {
			case syntax.CallExpr, syntax.CaseExpr, syntax.BinaryExpr, syntax.CastExpr, syntax.TypeCast:
				diagnostics = append(diagnostics, file.Report("AL03", lint.SeverityInfo, lint.SpanOf(e.Node()),
					"Expression column should have an explicit alias for clarity"))
			}
		}
	}
	return diagnostics
}
