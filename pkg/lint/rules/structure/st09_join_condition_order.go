package structure

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(JoinConditionOrder)
}

// JoinConditionOrder asks join conditions to name the earlier table on
// the left: `FROM a JOIN b ON a.id = b.id`.
var JoinConditionOrder = lint.RuleDef{
	ID:          "ST09",
	Name:        "structure.join_condition_order",
	Group:       "structure",
	Description: "Join conditions should reference tables in join order.",
	Severity:    lint.SeverityHint,
	Check:       checkJoinConditionOrder,
}

func checkJoinConditionOrder(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		from, ok := sel.From()
		if !ok {
			continue
		}
		// Position of each source in join order, by lower-cased name.
		order := make(map[string]int)
		for i, src := range query.Sources(sel) {
			if name, ok := query.SourceName(src); ok {
				order[strings.ToLower(name)] = i
			}
		}
		for _, join := range from.Joins() {
			cond, ok := join.On()
			if !ok {
				continue
			}
			left, right, ok := query.EqualityOperands(cond)
			if !ok {
				continue
			}
			l, lok := query.Column(left)
			r, rok := query.Column(right)
			if !lok || !rok || !l.Qualified() || !r.Qualified() {
				continue
			}
			li, lok := order[strings.ToLower(l.Qualifier)]
			ri, rok := order[strings.ToLower(r.Qualifier)]
			if !lok || !rok || li <= ri {
				continue
			}
			diagnostics = append(diagnostics, file.Report("ST09", lint.SeverityHint, lint.SpanOf(cond.Node()),
				"Join condition should reference left table first; consider rewriting as '"+r.String()+" = "+l.String()+"'"))
		}
	}
	return diagnostics
}
