package structure

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(ElseNull)
}

// ElseNull flags `ELSE NULL`, which is what CASE yields without an ELSE.
var ElseNull = lint.RuleDef{
	ID:          "ST01",
	Name:        "structure.else_null",
	Group:       "structure",
	Description: "ELSE NULL is redundant in CASE expressions.",
	Severity:    lint.SeverityHint,
	Check:       checkElseNull,
}

func checkElseNull(file *lint.File, _ map[string]any) []lint.Diagnostic {
	text := file.Text()
	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.CaseExpr) {
		c, _ := ast.AsCase(n)
		e, ok := c.Else()
		if !ok {
			continue
		}
		if lit, ok := ast.AsLiteral(e.Node()); !ok || !lit.IsNull() {
			continue
		}
		elseNode := elseClause(n)
		if elseNode == nil {
			continue
		}

		span := lint.SpanOf(elseNode)
		d := file.Report("ST01", lint.SeverityHint, span, "Redundant ELSE NULL in CASE expression")

		// Take the blank run in front of ELSE with it.
		start := span.Offset
		for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
			start--
		}
		d.Fixes = []lint.Fix{{
			Description: "Remove ELSE NULL",
			TextEdits:   []lint.TextEdit{{Span: token.Span{Offset: start, Length: span.End() - start}}},
		}}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}

func elseClause(n *syntax.Node) *syntax.Node {
	for c := range n.Children() {
		if c.Is(syntax.ElseClause) {
			return c
		}
	}
	return nil
}
