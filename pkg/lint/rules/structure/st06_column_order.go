package structure

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(ColumnOrder)
}

// ColumnOrder flags a wildcard followed by named columns.
var ColumnOrder = lint.RuleDef{
	ID:          "ST06",
	Name:        "structure.column_order",
	Group:       "structure",
	Description: "Wildcards should be the last items in a SELECT list.",
	Severity:    lint.SeverityHint,
	Check:       checkColumnOrder,
}

func checkColumnOrder(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		seenWildcard := false
		for _, p := range sel.Projections() {
			if query.IsWildcard(p) {
				seenWildcard = true
				continue
			}
			if seenWildcard {
				diagnostics = append(diagnostics, file.Report("ST06", lint.SeverityHint, lint.SpanOf(p.Node()),
					"Wildcards should appear last in SELECT clause for better readability"))
				break
			}
		}
	}
	return diagnostics
}
