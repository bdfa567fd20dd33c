package structure

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(UnusedCTE)
}

// UnusedCTE warns about CTEs that are defined but never used.
var UnusedCTE = lint.RuleDef{
	ID:          "ST03",
	Name:        "structure.unused_cte",
	Group:       "structure",
	Description: "CTE is defined but never referenced.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnusedCTE,
}

func checkUnusedCTE(file *lint.File, _ map[string]any) []lint.Diagnostic {
	f, ok := ast.AsFile(file.Root)
	if !ok {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for _, stmt := range f.Statements() {
		// A CTE may be read anywhere in its statement, including pipe
		// operators after the query and other CTEs.
		used := referencedTables(stmt.Node())
		for q := range stmt.Node().Find(syntax.SQLQuery) {
			sq, _ := ast.AsSQLQuery(q)
			for _, cte := range sq.CTEs() {
				tok, ok := cte.NameToken()
				if !ok {
					continue
				}
				name := ast.Unquote(tok)
				if used[strings.ToLower(name)] {
					continue
				}
				diagnostics = append(diagnostics, file.Report("ST03", lint.SeverityWarning, tok.Span(),
					"CTE '"+name+"' is defined but never referenced"))
			}
		}
	}
	return diagnostics
}

func referencedTables(n *syntax.Node) map[string]bool {
	used := make(map[string]bool)
	for s := range n.Find(syntax.Source) {
		src, _ := ast.AsSource(s)
		if name, ok := src.Table(); ok {
			used[strings.ToLower(name)] = true
		}
	}
	return used
}
