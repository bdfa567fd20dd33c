package convention

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(PreferCoalesce)
}

// PreferCoalesce recommends COALESCE over the dialect-specific IFNULL and
// NVL.
var PreferCoalesce = lint.RuleDef{
	ID:          "CV02",
	Name:        "convention.coalesce",
	Group:       "convention",
	Description: "Use COALESCE instead of IFNULL or NVL.",
	Severity:    lint.SeverityHint,
	Check:       checkPreferCoalesce,
}

func checkPreferCoalesce(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.CallExpr) {
		call, _ := ast.AsCall(n)
		name, ok := call.Func()
		if !ok {
			continue
		}
		upper := strings.ToUpper(name)
		if upper != "IFNULL" && upper != "NVL" {
			continue
		}
		fn := callee(n)
		if fn == nil {
			continue
		}
		d := file.Report("CV02", lint.SeverityHint, lint.SpanOf(n),
			"Prefer COALESCE over "+upper+" for better SQL portability")
		d.Fixes = []lint.Fix{{
			Description: "Replace " + name + " with coalesce",
			TextEdits:   []lint.TextEdit{{Span: lint.SpanOf(fn), NewText: "coalesce"}},
		}}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}

// callee returns the function name of a call node.
func callee(call *syntax.Node) *syntax.Node {
	for c := range call.Children() {
		if c.IsTrivia() {
			continue
		}
		if c.Is(syntax.ArgList) {
			return nil
		}
		return c
	}
	return nil
}
