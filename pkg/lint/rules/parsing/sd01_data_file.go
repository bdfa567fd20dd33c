package parsing

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(DataFileOperators)
}

// DataFileOperators flags query constructs in SuperJSON data files, which
// may only hold values.
var DataFileOperators = lint.RuleDef{
	ID:          "SD01",
	Name:        "syntax.data_file",
	Group:       "syntax",
	Description: "SuperJSON data files hold values only.",
	Severity:    lint.SeverityError,
	FileKinds:   []lint.FileKind{lint.FileData},
	Check:       checkDataFileOperators,
}

const dataFileMessage = "Operators and declarations are not allowed in SuperJSON data files"

func checkDataFileOperators(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		if disallowed(n.Kind()) {
			diagnostics = append(diagnostics,
				file.Report("SD01", lint.SeverityError, lint.SpanOf(n), dataFileMessage))
			return
		}
		for c := range n.Children() {
			visit(c)
		}
	}
	visit(file.Root)
	return diagnostics
}

// disallowed reports whether a node kind only makes sense in a query.
// Expressions nested inside a reported node are not reported again.
func disallowed(k syntax.Kind) bool {
	switch k {
	case syntax.Pipeline, syntax.SQLQuery, syntax.SelectClause, syntax.SetOperation:
		return true
	}
	return k.IsDecl() || k.IsOperator()
}
