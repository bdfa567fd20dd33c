package ambiguous

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(OrderByAmbiguous)
}

// OrderByAmbiguous warns about ORDER BY keys of a set operation that do
// not name an output column of its first query.
var OrderByAmbiguous = lint.RuleDef{
	ID:          "AM03",
	Name:        "ambiguous.order_by",
	Group:       "ambiguous",
	Description: "ORDER BY column may be ambiguous in set operation.",
	Severity:    lint.SeverityWarning,
	Check:       checkOrderByAmbiguous,
}

func checkOrderByAmbiguous(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, set := range query.SetOperations(file.Root) {
		selects := ast.SelectsOf(set.Node())
		if len(selects) < 2 {
			continue
		}
		order, ok := selects[len(selects)-1].OrderBy()
		if !ok {
			continue
		}
		outputs, known := outputNames(selects[0])
		for _, item := range order.Items() {
			e, ok := item.Expr()
			if !ok {
				continue
			}
			ref, ok := query.Column(e)
			if !ok {
				continue
			}
			if !ref.Qualified() && (!known || outputs[ref.Name]) {
				continue
			}
			diagnostics = append(diagnostics, file.Report("AM03", lint.SeverityWarning, lint.SpanOf(e.Node()),
				"ORDER BY column '"+ref.String()+"' may be ambiguous in set operation; consider using column position"))
		}
	}
	return diagnostics
}

// outputNames returns the column names a SELECT produces. known is false
// when a wildcard makes them unknowable.
func outputNames(sel ast.SelectClause) (names map[string]bool, known bool) {
	names = make(map[string]bool)
	for _, p := range sel.Projections() {
		if query.IsWildcard(p) {
			return nil, false
		}
		if alias, ok := p.Alias(); ok {
			names[alias] = true
			continue
		}
		if e, ok := p.Expr(); ok {
			if ref, ok := query.Column(e); ok {
				names[ref.Name] = true
			}
		}
	}
	return names, true
}
