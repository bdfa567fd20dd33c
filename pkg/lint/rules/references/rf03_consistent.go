package references

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(ConsistentQualification)
}

// ConsistentQualification flags a SELECT that qualifies some columns and
// not others.
var ConsistentQualification = lint.RuleDef{
	ID:          "RF03",
	Name:        "references.consistent",
	Group:       "references",
	Description: "Column references should be qualified consistently.",
	Severity:    lint.SeverityInfo,
	Check:       checkConsistentQualification,
}

func checkConsistentQualification(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		refs := query.Columns(sel)
		qualified := false
		for _, ref := range refs {
			qualified = qualified || ref.Qualified()
		}
		if !qualified {
			continue
		}
		bare := unqualified(sel, refs)
		if len(bare) == 0 {
			continue
		}
		diagnostics = append(diagnostics, file.Report("RF03", lint.SeverityInfo, lint.SpanOf(bare[0].Node),
			"Mixed column qualification style; some columns are qualified, others are not"))
	}
	return diagnostics
}
