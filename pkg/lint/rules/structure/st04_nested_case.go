package structure

import (
	"strconv"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(NestedCase)
}

// NestedCase warns about nested CASE expressions which reduce readability.
var NestedCase = lint.RuleDef{
	ID:          "ST04",
	Name:        "structure.nested_case",
	Group:       "structure",
	Description: "Nested CASE expressions reduce readability.",
	Severity:    lint.SeverityInfo,
	ConfigKeys:  []string{"max_depth"},
	Check:       checkNestedCase,
}

func checkNestedCase(file *lint.File, opts map[string]any) []lint.Diagnostic {
	maxDepth := lint.GetIntOption(opts, "max_depth", 1)

	var diagnostics []lint.Diagnostic
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		if n.Is(syntax.CaseExpr) {
			// Only the outermost CASE of a nest is reported.
			if depth := caseDepth(n); depth > maxDepth {
				diagnostics = append(diagnostics, file.Report("ST04", lint.SeverityInfo, lint.SpanOf(n),
					"CASE expressions nested "+strconv.Itoa(depth)+" deep reduce readability; consider refactoring"))
			}
			return
		}
		for c := range n.Children() {
			visit(c)
		}
	}
	visit(file.Root)
	return diagnostics
}

// caseDepth returns how many CASE expressions are nested at n, counting n.
func caseDepth(n *syntax.Node) int {
	deepest := 0
	for c := range n.Children() {
		deepest = max(deepest, caseDepth(c))
	}
	if n.Is(syntax.CaseExpr) {
		return deepest + 1
	}
	return deepest
}
