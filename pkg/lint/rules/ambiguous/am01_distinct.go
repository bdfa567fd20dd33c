package ambiguous

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(DistinctWithGroupBy)
}

// DistinctWithGroupBy detects redundant DISTINCT with GROUP BY.
var DistinctWithGroupBy = lint.RuleDef{
	ID:          "AM01",
	Name:        "ambiguous.distinct",
	Group:       "ambiguous",
	Description: "Using DISTINCT with GROUP BY is redundant.",
	Severity:    lint.SeverityWarning,
	Check:       checkDistinctWithGroupBy,
}

func checkDistinctWithGroupBy(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.SelectClause) {
		sel, _ := ast.AsSelectClause(n)
		if !sel.Distinct() {
			continue
		}
		if _, ok := sel.GroupBy(); !ok {
			continue
		}
		diagnostics = append(diagnostics, file.Report("AM01", lint.SeverityWarning, lint.SpanOf(n),
			"Using DISTINCT with GROUP BY is redundant; GROUP BY already produces unique rows"))
	}
	return diagnostics
}
