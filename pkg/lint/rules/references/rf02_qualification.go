package references

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(Qualification)
}

// Qualification asks for qualified columns once a SELECT reads from more
// than one source.
var Qualification = lint.RuleDef{
	ID:          "RF02",
	Name:        "references.qualification",
	Group:       "references",
	Description: "Columns should be qualified in queries with multiple tables.",
	Severity:    lint.SeverityWarning,
	Check:       checkQualification,
}

func checkQualification(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		if len(query.Sources(sel)) < 2 {
			continue
		}
		for _, ref := range unqualified(sel, query.Columns(sel)) {
			diagnostics = append(diagnostics, file.Report("RF02", lint.SeverityWarning, lint.SpanOf(ref.Node),
				"Column '"+ref.Name+"' should be qualified with table name in multi-table query"))
		}
	}
	return diagnostics
}
