package parsing

import (
	"github.com/leapstack-labs/supersql/pkg/lint"
)

func init() {
	lint.Register(SyntaxError)
}

// SyntaxError reports every Error Node of the tree. Errors that cover no
// significant token are drawn on the previous significant token so the
// editor has something to underline.
var SyntaxError = lint.RuleDef{
	ID:          "SS01",
	Name:        "syntax.error",
	Group:       "syntax",
	Description: "Text the grammar cannot match.",
	Severity:    lint.SeverityError,
	FileKinds:   []lint.FileKind{lint.FileQuery, lint.FileData},
	Check:       checkSyntaxError,
}

func checkSyntaxError(file *lint.File, _ map[string]any) []lint.Diagnostic {
	errs := file.Root.Errors()
	if len(errs) == 0 {
		return nil
	}
	diagnostics := make([]lint.Diagnostic, 0, len(errs))
	for _, e := range errs {
		diagnostics = append(diagnostics, file.Report("SS01", lint.SeverityError, e.Anchor, e.Message))
	}
	return diagnostics
}
