package aliasing

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(UnusedTableAlias)
}

// UnusedTableAlias warns about defined but unused table aliases. A
// reference to the alias alone counts, since it names the whole row.
var UnusedTableAlias = lint.RuleDef{
	ID:          "AL05",
	Name:        "aliasing.unused",
	Group:       "aliasing",
	Description: "Table alias is defined but not referenced.",
	Severity:    lint.SeverityWarning,
	Check:       checkUnusedTableAlias,
}

func checkUnusedTableAlias(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		sources := query.Sources(sel)
		if len(sources) == 0 {
			continue
		}
		mentions := query.Mentions(sel)
		for _, src := range sources {
			alias, ok := src.Alias()
			if !ok || mentions[strings.ToLower(alias)] {
				continue
			}
			node, _ := query.AliasNode(src.Node())
			diagnostics = append(diagnostics, file.Report("AL05", lint.SeverityWarning, lint.SpanOf(node),
				"Table alias '"+alias+"' is defined but never referenced"))
		}
	}
	return diagnostics
}
