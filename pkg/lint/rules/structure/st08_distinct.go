package structure

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(DistinctAsGroupBy)
}

// DistinctAsGroupBy notes SELECT DISTINCT over plain columns, which reads
// as a grouping.
var DistinctAsGroupBy = lint.RuleDef{
	ID:          "ST08",
	Name:        "structure.distinct",
	Group:       "structure",
	Description: "DISTINCT on plain columns may be clearer as GROUP BY.",
	Severity:    lint.SeverityInfo,
	Check:       checkDistinctAsGroupBy,
}

func checkDistinctAsGroupBy(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		if !sel.Distinct() {
			continue
		}
		if _, ok := sel.GroupBy(); ok {
			continue
		}
		if !plainColumns(sel.Projections()) {
			continue
		}
		list, _ := sel.ProjectionList()
		diagnostics = append(diagnostics, file.Report("ST08", lint.SeverityInfo, lint.SpanOf(list.Node()),
			"DISTINCT on simple columns could be expressed as GROUP BY for clarity"))
	}
	return diagnostics
}

func plainColumns(projections []ast.Projection) bool {
	if len(projections) == 0 {
		return false
	}
	for _, p := range projections {
		if query.IsWildcard(p) {
			return false
		}
		e, ok := p.Expr()
		if !ok {
			return false
		}
		if _, ok := query.Column(e); !ok {
			return false
		}
	}
	return true
}
