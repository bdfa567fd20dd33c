package aliasing

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(SelfAlias)
}

// SelfAlias warns about tables and columns aliased to their own name.
var SelfAlias = lint.RuleDef{
	ID:          "AL09",
	Name:        "aliasing.self_alias",
	Group:       "aliasing",
	Description: "Table or column aliased to its own name is redundant.",
	Severity:    lint.SeverityHint,
	Check:       checkSelfAlias,
}

func checkSelfAlias(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	report := func(what, name string, value ast.Expr, owner *syntax.Node) {
		alias, _ := query.AliasNode(owner)
		d := file.Report("AL09", lint.SeverityHint, lint.SpanOf(alias),
			what+" '"+name+"' is aliased to its own name; this is redundant")
		// Delete from the end of the value through the alias.
		start := lint.SpanOf(value.Node()).End()
		d.Fixes = []lint.Fix{{
			Description: "Remove redundant alias",
			TextEdits:   []lint.TextEdit{{Span: token.Span{Offset: start, Length: lint.SpanOf(alias).End() - start}}},
		}}
		diagnostics = append(diagnostics, d)
	}

	for _, sel := range query.Selects(file.Root) {
		for _, src := range query.Sources(sel) {
			table, ok := src.Table()
			alias, ok2 := src.Alias()
			if !ok || !ok2 || !strings.EqualFold(table, alias) {
				continue
			}
			e, _ := src.Expr()
			report("Table", table, e, src.Node())
		}
		for _, col := range sel.Projections() {
			alias, ok := col.Alias()
			if !ok {
				continue
			}
			e, ok := col.Expr()
			if !ok {
				continue
			}
			ref, ok := query.Column(e)
			if !ok || ref.Name != alias {
				continue
			}
			report("Column", ref.String(), e, col.Node())
		}
	}
	return diagnostics
}
