package ast

import (
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Pipeline is a sequence of elements joined by | or |>.
type Pipeline struct{ view }

// AsPipeline returns the view of a pipeline node.
func AsPipeline(n *syntax.Node) (Pipeline, bool) {
	v, ok := as(n, syntax.Pipeline)
	return Pipeline{v}, ok
}

// Elements returns the elements in order: operators, SQL queries and
// clauses, or bare expressions acting as implied filters. Elements that
// failed to parse are left out.
func (p Pipeline) Elements() []*syntax.Node {
	var out []*syntax.Node
	for _, c := range nodes(p.n) {
		if !c.IsError() {
			out = append(out, c)
		}
	}
	return out
}

// Operators returns the elements that are pipe operators.
func (p Pipeline) Operators() []Operator {
	var out []Operator
	for _, c := range p.Elements() {
		if op, ok := AsOperator(c); ok {
			out = append(out, op)
		}
	}
	return out
}

// Operator is one pipe operator, such as `sort -r x` or `fork (...) (...)`.
type Operator struct{ view }

// AsOperator returns the view of a pipe operator node.
func AsOperator(n *syntax.Node) (Operator, bool) {
	if n == nil || !n.Kind().IsOperator() {
		return Operator{}, false
	}
	return Operator{view{n: n}}, true
}

// Kind returns the operator kind.
func (o Operator) Kind() syntax.Kind { return o.n.Kind() }

// Keyword returns the leading keyword token. Implied operators, written
// without a keyword, report false.
func (o Operator) Keyword() (token.Token, bool) {
	for c := range o.n.Children() {
		if c.IsTrivia() {
			continue
		}
		tok, ok := c.Token()
		if ok && (tok.Type.IsKeyword() || tok.Type == token.QUESTION) {
			return tok, true
		}
		return token.Token{}, false
	}
	return token.Token{}, false
}

// Implied reports whether the operator was written without a keyword.
func (o Operator) Implied() bool {
	_, ok := o.Keyword()
	return !ok
}

// Flag returns a `-x` flag such as sort -r, without the dash.
func (o Operator) Flag() (string, bool) {
	toks := tokens(o.n)
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Type == token.MINUS && toks[i+1].Type == token.IDENT && toks[i].End() == toks[i+1].Pos.Offset {
			return toks[i+1].Literal, true
		}
	}
	return "", false
}

// Exprs returns the expression arguments, such as the predicate of where or
// the count of head.
func (o Operator) Exprs() []Expr { return exprsOf(o.n) }

// Assignments returns every assignment of cut, put, rename and aggregate
// operators, group keys included.
func (o Operator) Assignments() []Assignment {
	var out []Assignment
	for _, c := range children(o.n, syntax.Assignment) {
		out = append(out, Assignment{view{n: c}})
	}
	return out
}

// Aggregates returns the assignments of an aggregation that precede BY.
func (o Operator) Aggregates() []Assignment {
	aggs, _ := o.splitBy()
	return aggs
}

// Keys returns the assignments of an aggregation that follow BY.
func (o Operator) Keys() []Assignment {
	_, keys := o.splitBy()
	return keys
}

func (o Operator) splitBy() (before, after []Assignment) {
	by := false
	for c := range o.n.Children() {
		switch {
		case c.TokenType() == token.BY && c.IsToken():
			by = true
		case c.Is(syntax.Assignment):
			if by {
				after = append(after, Assignment{view{n: c}})
			} else {
				before = append(before, Assignment{view{n: c}})
			}
		}
	}
	return before, after
}

// OrderItems returns the sort keys of sort.
func (o Operator) OrderItems() []OrderItem { return orderItems(o.n) }

// Scopes returns the branches of fork.
func (o Operator) Scopes() []Scope {
	var out []Scope
	for _, c := range children(o.n, syntax.Scope) {
		out = append(out, Scope{view{n: c}})
	}
	return out
}

// Cases returns the cases of switch, the default case last.
func (o Operator) Cases() []SwitchCase {
	var out []SwitchCase
	for _, c := range children(o.n, syntax.SwitchCase) {
		out = append(out, SwitchCase{view{n: c}})
	}
	return out
}

// From returns the sources of a from operator.
func (o Operator) From() (FromClause, bool) { return AsFromClause(o.n) }

// Assignment is `expr` or `target := expr`.
type Assignment struct{ view }

// AsAssignment returns the view of an assignment node.
func AsAssignment(n *syntax.Node) (Assignment, bool) {
	v, ok := as(n, syntax.Assignment)
	return Assignment{v}, ok
}

// Target returns the assigned field, when `:=` is present.
func (a Assignment) Target() (Expr, bool) {
	if !hasToken(a.n, token.ASSIGN) {
		return Expr{}, false
	}
	return firstExpr(a.n)
}

// Value returns the assigned expression, or the sole expression of an
// assignment without `:=`.
func (a Assignment) Value() (Expr, bool) {
	if hasToken(a.n, token.ASSIGN) {
		return exprAfter(a.n, token.ASSIGN)
	}
	return firstExpr(a.n)
}

// Scope is a parenthesized block of declarations and a query.
type Scope struct{ view }

// AsScope returns the view of a scope node.
func AsScope(n *syntax.Node) (Scope, bool) {
	v, ok := as(n, syntax.Scope)
	return Scope{v}, ok
}

// Decls returns the declarations of the scope.
func (s Scope) Decls() []Statement {
	var out []Statement
	for _, c := range nodes(s.n) {
		if c.Kind().IsDecl() {
			out = append(out, Statement{view{n: c}})
		}
	}
	return out
}

// Query returns the query of the scope.
func (s Scope) Query() (*syntax.Node, bool) {
	for _, c := range nodes(s.n) {
		if !c.Kind().IsDecl() && !c.IsError() {
			return c, true
		}
	}
	return nil, false
}

// SwitchCase is one `case expr (scope)` or `default (scope)` branch.
type SwitchCase struct{ view }

// Default reports whether this is the default branch.
func (c SwitchCase) Default() bool { return hasToken(c.n, token.DEFAULT) }

// Value returns the case value.
func (c SwitchCase) Value() (Expr, bool) {
	if c.Default() {
		return Expr{}, false
	}
	return exprAfter(c.n, token.CASE)
}

// Scope returns the branch body.
func (c SwitchCase) Scope() (Scope, bool) { return AsScope(child(c.n, syntax.Scope)) }
