package structure

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/lint/internal/query"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func init() {
	lint.Register(ConstantExpression)
}

// ConstantExpression flags filter conditions that do not depend on the
// row: `1 = 1`, `TRUE`, `0`.
var ConstantExpression = lint.RuleDef{
	ID:          "ST10",
	Name:        "structure.constant_expression",
	Group:       "structure",
	Description: "Constant conditions in WHERE are always true or always false.",
	Severity:    lint.SeverityInfo,
	Check:       checkConstantExpression,
}

func checkConstantExpression(file *lint.File, _ map[string]any) []lint.Diagnostic {
	var conditions []ast.Expr
	for _, kind := range []syntax.Kind{syntax.WhereClause, syntax.WhereOp} {
		for n := range file.Root.Find(kind) {
			w, _ := ast.AsWhereClause(n)
			if e, ok := w.Condition(); ok {
				conditions = append(conditions, e)
			}
		}
	}

	var diagnostics []lint.Diagnostic
	for _, e := range conditions {
		constantConditions(file, e, &diagnostics)
	}
	return diagnostics
}

// constantConditions reports constant operands of the AND/OR tree e.
func constantConditions(file *lint.File, e ast.Expr, out *[]lint.Diagnostic) {
	switch e.Kind() {
	case syntax.ParenExpr:
		for c := range e.Node().Children() {
			if inner, ok := ast.AsExpr(c); ok {
				constantConditions(file, inner, out)
				return
			}
		}
		return
	case syntax.BinaryExpr:
		b, _ := ast.AsBinary(e.Node())
		if t := b.Op().Type; t == token.AND || t == token.OR {
			if l, ok := b.Left(); ok {
				constantConditions(file, l, out)
			}
			if r, ok := b.Right(); ok {
				constantConditions(file, r, out)
			}
			return
		}
	}
	if msg, ok := constantMessage(e); ok {
		*out = append(*out, file.Report("ST10", lint.SeverityInfo, lint.SpanOf(e.Node()), msg))
	}
}

func constantMessage(e ast.Expr) (string, bool) {
	if left, right, ok := query.EqualityOperands(e); ok {
		l, lok := ast.AsLiteral(left.Node())
		r, rok := ast.AsLiteral(right.Node())
		if lok && rok && !l.IsNull() && l.Type() == r.Type() && l.Value() == r.Value() {
			return "Unnecessary constant expression; this condition is always true", true
		}
		return "", false
	}
	lit, ok := ast.AsLiteral(e.Node())
	if !ok {
		return "", false
	}
	switch {
	case lit.Type() == token.TRUE, lit.Type() == token.INT && lit.Value() == "1":
		return "Unnecessary constant expression; this condition is always true", true
	case lit.Type() == token.FALSE, lit.Type() == token.INT && lit.Value() == "0":
		return "Unnecessary constant expression; this condition is always false", true
	}
	return "", false
}
