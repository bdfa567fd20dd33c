package references

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
)

// unqualified returns the unqualified column references of sel that do
// not name one of its projection aliases or sources.
func unqualified(sel ast.SelectClause, refs []query.ColumnRef) []query.ColumnRef {
	names := make(map[string]bool)
	for _, p := range sel.Projections() {
		if alias, ok := p.Alias(); ok {
			names[strings.ToLower(alias)] = true
		}
	}
	for _, src := range query.Sources(sel) {
		if name, ok := query.SourceName(src); ok {
			names[strings.ToLower(name)] = true
		}
	}

	var out []query.ColumnRef
	for _, ref := range refs {
		if !ref.Qualified() && !names[strings.ToLower(ref.Name)] {
			out = append(out, ref)
		}
	}
	return out
}
