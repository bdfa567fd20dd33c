package ambiguous

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(OrderByLimitWithUnion)
}

// OrderByLimitWithUnion warns about ORDER BY/LIMIT ambiguity with set
// operations. The clauses attach to the last query in the tree but apply
// to the whole result.
var OrderByLimitWithUnion = lint.RuleDef{
	ID:          "AM09",
	Name:        "ambiguous.order_by_limit",
	Group:       "ambiguous",
	Description: "ORDER BY/LIMIT with set operation may have unexpected scope.",
	Severity:    lint.SeverityWarning,
	Check:       checkOrderByLimitWithUnion,
}

func checkOrderByLimitWithUnion(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, set := range query.SetOperations(file.Root) {
		selects := ast.SelectsOf(set.Node())
		if len(selects) < 2 {
			continue
		}
		last := selects[len(selects)-1]
		if order, ok := last.OrderBy(); ok {
			diagnostics = append(diagnostics, file.Report("AM09", lint.SeverityWarning, lint.SpanOf(order.Node()),
				"ORDER BY in set operation applies to the entire result; use parentheses if you intend to order individual queries"))
		}
		if limit, ok := last.Limit(); ok {
			diagnostics = append(diagnostics, file.Report("AM09", lint.SeverityWarning, lint.SpanOf(limit.Node()),
				"LIMIT in set operation applies to the entire result; use parentheses if you intend to limit individual queries"))
		}
	}
	return diagnostics
}
