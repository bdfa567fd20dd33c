package convention

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

func init() {
	lint.Register(BlockedWords)
}

// BlockedWords warns about pipe operators with side effects, such as load
// which writes into a pool.
var BlockedWords = lint.RuleDef{
	ID:          "CV09",
	Name:        "convention.blocked_words",
	Group:       "convention",
	Description: "Block operators with side effects like LOAD and OUTPUT.",
	Severity:    lint.SeverityWarning,
	ConfigKeys:  []string{"blocked_words"},
	Check:       checkBlockedWords,
}

var defaultBlockedWords = []string{"load", "output"}

func checkBlockedWords(file *lint.File, opts map[string]any) []lint.Diagnostic {
	blocked := make(map[string]bool)
	for _, w := range lint.GetStringSliceOption(opts, "blocked_words", defaultBlockedWords) {
		blocked[strings.ToLower(w)] = true
	}
	if len(blocked) == 0 {
		return nil
	}

	var diagnostics []lint.Diagnostic
	for n := range file.Root.Walk() {
		op, ok := ast.AsOperator(n)
		if !ok {
			continue
		}
		kw, ok := op.Keyword()
		if !ok || !blocked[strings.ToLower(kw.Literal)] {
			continue
		}
		diagnostics = append(diagnostics, file.Report("CV09", lint.SeverityWarning, kw.Span(),
			"Use of blocked word '"+strings.ToUpper(kw.Literal)+"' detected"))
	}
	return diagnostics
}
