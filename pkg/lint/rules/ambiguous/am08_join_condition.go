package ambiguous

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(JoinConditionTables)
}

// JoinConditionTables warns when a join condition qualifies its columns
// but never with the joined table.
var JoinConditionTables = lint.RuleDef{
	ID:          "AM08",
	Name:        "ambiguous.join_condition",
	Group:       "ambiguous",
	Description: "Join condition should reference both tables being joined.",
	Severity:    lint.SeverityWarning,
	Check:       checkJoinConditionTables,
}

func checkJoinConditionTables(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		from, ok := sel.From()
		if !ok {
			continue
		}
		for _, join := range from.Joins() {
			cond, ok := join.On()
			if !ok {
				continue
			}
			src, ok := join.Source()
			if !ok {
				continue
			}
			right, ok := query.SourceName(src)
			if !ok {
				continue
			}

			qualified, hasRight := 0, false
			for _, ref := range query.ColumnsOf(cond.Node()) {
				if !ref.Qualified() {
					continue
				}
				qualified++
				hasRight = hasRight || strings.EqualFold(ref.Qualifier, right)
			}
			if qualified == 0 || hasRight {
				continue
			}
			diagnostics = append(diagnostics, file.Report("AM08", lint.SeverityWarning, lint.SpanOf(cond.Node()),
				"Join condition does not appear to reference the joined table '"+right+"'"))
		}
	}
	return diagnostics
}

