package ambiguous

import (
	"fmt"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(ColumnCountMismatch)
}

// ColumnCountMismatch warns about mismatched column counts in set operations.
var ColumnCountMismatch = lint.RuleDef{
	ID:          "AM04",
	Name:        "ambiguous.column_count",
	Group:       "ambiguous",
	Description: "Mismatched column counts in set operation.",
	Severity:    lint.SeverityError,
	Check:       checkColumnCountMismatch,
}

func checkColumnCountMismatch(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, set := range query.SetOperations(file.Root) {
		selects := ast.SelectsOf(set.Node())
		if len(selects) < 2 {
			continue
		}
		first := countColumns(selects[0])
		if first < 0 {
			continue
		}
		for i, sel := range selects[1:] {
			count := countColumns(sel)
			if count < 0 || count == first {
				continue
			}
			list, _ := sel.ProjectionList()
			diagnostics = append(diagnostics, file.Report("AM04", lint.SeverityError, lint.SpanOf(list.Node()),
				fmt.Sprintf("Column count mismatch in set operation: first query has %d columns, query %d has %d columns", first, i+2, count)))
		}
	}
	return diagnostics
}

// countColumns returns the number of projected columns, or -1 when a
// wildcard or a syntax error makes it unknown.
func countColumns(sel ast.SelectClause) int {
	list, ok := sel.ProjectionList()
	if !ok || list.Node().HasErrors() {
		return -1
	}
	count := 0
	for _, p := range list.Items() {
		if query.IsWildcard(p) {
			return -1
		}
		count++
	}
	return count
}
