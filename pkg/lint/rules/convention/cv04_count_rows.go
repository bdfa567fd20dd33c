package convention

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(CountRows)
}

// CountRows recommends COUNT(*) over COUNT(1).
var CountRows = lint.RuleDef{
	ID:          "CV04",
	Name:        "convention.count_rows",
	Group:       "convention",
	Description: "Use COUNT(*) to count rows.",
	Severity:    lint.SeverityHint,
	Check:       checkCountRows,
}

func checkCountRows(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.CallExpr) {
		call, _ := ast.AsCall(n)
		if name, ok := call.Func(); !ok || !strings.EqualFold(name, "count") {
			continue
		}
		args := call.Args()
		if len(args) != 1 || call.Distinct() {
			continue
		}
		lit, ok := ast.AsLiteral(args[0].Node())
		if !ok || lit.Type() != token.INT || lit.Value() != "1" {
			continue
		}
		d := file.Report("CV04", lint.SeverityHint, lint.SpanOf(n), "Prefer COUNT(*) over COUNT(1) for counting rows")
		d.Fixes = []lint.Fix{{
			Description: "Replace COUNT(1) with COUNT(*)",
			TextEdits:   []lint.TextEdit{{Span: lint.SpanOf(args[0].Node()), NewText: "*"}},
		}}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}
