package convention

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(PreferLeftJoin)
}

// PreferLeftJoin recommends LEFT JOIN over RIGHT JOIN.
var PreferLeftJoin = lint.RuleDef{
	ID:          "CV08",
	Name:        "convention.left_join",
	Group:       "convention",
	Description: "Use LEFT JOIN instead of RIGHT JOIN.",
	Severity:    lint.SeverityHint,
	Check:       checkPreferLeftJoin,
}

func checkPreferLeftJoin(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.Join) {
		join, _ := ast.AsJoin(n)
		if join.Type() != "RIGHT" {
			continue
		}
		diagnostics = append(diagnostics, file.Report("CV08", lint.SeverityHint, lint.SpanOf(n),
			"Consider using LEFT JOIN instead of RIGHT JOIN for better readability"))
	}
	return diagnostics
}
