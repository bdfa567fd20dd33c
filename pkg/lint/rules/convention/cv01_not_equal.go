package convention

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(NotEqualOperator)
}

// NotEqualOperator recommends one spelling of the not-equal operator.
// The lexer keeps `<>` and `!=` apart, so the written form is known.
var NotEqualOperator = lint.RuleDef{
	ID:          "CV01",
	Name:        "convention.not_equal",
	Group:       "convention",
	Description: "Use one spelling of the not equal operator (!= by default).",
	Severity:    lint.SeverityHint,
	ConfigKeys:  []string{"preferred"},
	Check:       checkNotEqualOperator,
}

func checkNotEqualOperator(file *lint.File, opts map[string]any) []lint.Diagnostic {
	preferred := lint.GetStringOption(opts, "preferred", "!=")
	avoid := token.LTGT
	if preferred == "<>" {
		avoid = token.NE
	}

	var diagnostics []lint.Diagnostic
	for n := range file.Root.Find(syntax.BinaryExpr) {
		b, _ := ast.AsBinary(n)
		op := b.Op()
		if op.Type != avoid {
			continue
		}
		d := file.Report("CV01", lint.SeverityHint, op.Span(),
			"Use "+preferred+" instead of "+op.Literal+" for not equal")
		d.Fixes = []lint.Fix{{
			Description: "Replace " + op.Literal + " with " + preferred,
			TextEdits:   []lint.TextEdit{{Span: op.Span(), NewText: preferred}},
		}}
		diagnostics = append(diagnostics, d)
	}
	return diagnostics
}
