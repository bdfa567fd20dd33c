package structure

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(PreferUsing)
}

// PreferUsing suggests USING for joins on one same-named column.
var PreferUsing = lint.RuleDef{
	ID:          "ST07",
	Name:        "structure.using",
	Group:       "structure",
	Description: "Prefer USING for joins on same-named columns.",
	Severity:    lint.SeverityHint,
	Check:       checkPreferUsing,
}

func checkPreferUsing(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.Join) {
		join, _ := ast.AsJoin(n)
		cond, ok := join.On()
		if !ok {
			continue
		}
		left, right, ok := query.EqualityOperands(cond)
		if !ok {
			continue
		}
		l, ok := query.Column(left)
		if !ok || !l.Qualified() {
			continue
		}
		r, ok := query.Column(right)
		if !ok || !r.Qualified() || l.Name != r.Name || l.Qualifier == r.Qualifier {
			continue
		}
		diagnostics = append(diagnostics, file.Report("ST07", lint.SeverityHint, lint.SpanOf(cond.Node()),
			"Consider using USING clause for join on same-named columns"))
	}
	return diagnostics
}
