package aliasing

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

func init() {
	lint.Register(UniqueTableAlias)
}

// UniqueTableAlias warns about duplicate table aliases.
var UniqueTableAlias = lint.RuleDef{
	ID:          "AL04",
	Name:        "aliasing.unique_table",
	Group:       "aliasing",
	Description: "Table aliases should be unique within a query.",
	Severity:    lint.SeverityError,
	Check:       checkUniqueTableAlias,
}

func checkUniqueTableAlias(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, sel := range query.Selects(file.Root) {
		// Aliases are scoped to one FROM clause; subqueries have their own.
		seen := make(map[string]int)
		for _, src := range query.Sources(sel) {
			alias, ok := src.Alias()
			if !ok {
				continue
			}
			key := strings.ToLower(alias)
			seen[key]++
			if seen[key] != 2 {
				continue
			}
			count := 0
			for _, other := range query.Sources(sel) {
				if a, ok := other.Alias(); ok && strings.EqualFold(a, alias) {
					count++
				}
			}
			node, _ := query.AliasNode(src.Node())
			diagnostics = append(diagnostics, file.Report("AL04", lint.SeverityError, lint.SpanOf(node),
				"Table alias '"+alias+"' is used "+strconv.Itoa(count)+" times; aliases must be unique"))
		}
	}
	return diagnostics
}
