package ast

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// ---------- SQL Queries ----------

// SQLQuery is a SELECT with a WITH clause.
type SQLQuery struct{ view }

// AsSQLQuery returns the view of a sql-query node.
func AsSQLQuery(n *syntax.Node) (SQLQuery, bool) {
	v, ok := as(n, syntax.SQLQuery)
	return SQLQuery{v}, ok
}

// Recursive reports whether the WITH clause is marked RECURSIVE.
func (q SQLQuery) Recursive() bool {
	return hasToken(child(q.n, syntax.WithClause), token.RECURSIVE)
}

// CTEs returns the common table expressions in declaration order.
func (q SQLQuery) CTEs() []CTE {
	var out []CTE
	for _, c := range children(child(q.n, syntax.WithClause), syntax.CTE) {
		out = append(out, CTE{view{n: c}})
	}
	return out
}

// Body returns the query that follows the WITH clause: a select-clause or a
// set-operation.
func (q SQLQuery) Body() (*syntax.Node, bool) {
	for _, c := range nodes(q.n) {
		if c.Is(syntax.SelectClause) || c.Is(syntax.SetOperation) {
			return c, true
		}
	}
	return nil, false
}

// Selects returns every select-clause of the body, left to right.
func (q SQLQuery) Selects() []SelectClause {
	body, _ := q.Body()
	return SelectsOf(body)
}

// CTE is one `name AS (query)` entry of a WITH clause.
type CTE struct{ view }

// AsCTE returns the view of a cte node.
func AsCTE(n *syntax.Node) (CTE, bool) {
	v, ok := as(n, syntax.CTE)
	return CTE{v}, ok
}

// Name returns the name the CTE defines.
func (c CTE) Name() (string, bool) {
	tok, ok := c.NameToken()
	if !ok {
		return "", false
	}
	return Unquote(tok), true
}

// NameToken returns the token of the defined name.
func (c CTE) NameToken() (token.Token, bool) {
	toks := tokens(c.n)
	if len(toks) == 0 || !isNameToken(toks[0].Type) {
		return token.Token{}, false
	}
	return toks[0], true
}

// Query returns the parenthesized query.
func (c CTE) Query() (*syntax.Node, bool) {
	for _, n := range nodes(c.n) {
		if !n.IsError() {
			return n, true
		}
	}
	return nil, false
}

// SetOperation joins two queries with UNION.
type SetOperation struct{ view }

// AsSetOperation returns the view of a set-operation node.
func AsSetOperation(n *syntax.Node) (SetOperation, bool) {
	v, ok := as(n, syntax.SetOperation)
	return SetOperation{v}, ok
}

// All reports whether the operation is UNION ALL.
func (s SetOperation) All() bool { return hasToken(s.n, token.ALL) }

// Left returns the left operand.
func (s SetOperation) Left() (*syntax.Node, bool) {
	ns := nodes(s.n)
	if len(ns) == 0 || ns[0].IsError() {
		return nil, false
	}
	return ns[0], true
}

// Right returns the right operand.
func (s SetOperation) Right() (*syntax.Node, bool) {
	ns := nodes(s.n)
	if len(ns) < 2 || ns[1].IsError() {
		return nil, false
	}
	return ns[1], true
}

// SelectsOf returns the select-clauses of a query node, flattening set
// operations and looking through WITH. Other nodes yield nothing.
func SelectsOf(n *syntax.Node) []SelectClause {
	switch n.Kind() {
	case syntax.SelectClause:
		return []SelectClause{{view{n: n}}}
	case syntax.SetOperation, syntax.SQLQuery:
		var out []SelectClause
		for _, c := range nodes(n) {
			out = append(out, SelectsOf(c)...)
		}
		return out
	}
	return nil
}

// ---------- SELECT ----------

// SelectClause is one SELECT with its clauses.
type SelectClause struct{ view }

// AsSelectClause returns the view of a select-clause node.
func AsSelectClause(n *syntax.Node) (SelectClause, bool) {
	v, ok := as(n, syntax.SelectClause)
	return SelectClause{v}, ok
}

// Distinct reports whether the SELECT is marked DISTINCT.
func (s SelectClause) Distinct() bool { return hasToken(s.n, token.DISTINCT) }

// ProjectionList returns the projection list.
func (s SelectClause) ProjectionList() (ProjectionList, bool) {
	return AsProjectionList(child(s.n, syntax.ProjectionList))
}

// Projections returns the projected items.
func (s SelectClause) Projections() []Projection {
	list, _ := s.ProjectionList()
	return list.Items()
}

// From returns the FROM clause.
func (s SelectClause) From() (FromClause, bool) {
	return AsFromClause(child(s.n, syntax.FromClause))
}

// Where returns the WHERE clause.
func (s SelectClause) Where() (WhereClause, bool) {
	return AsWhereClause(child(s.n, syntax.WhereClause))
}

// GroupBy returns the GROUP BY clause.
func (s SelectClause) GroupBy() (GroupByClause, bool) {
	return AsGroupByClause(child(s.n, syntax.GroupByClause))
}

// Having returns the HAVING clause.
func (s SelectClause) Having() (HavingClause, bool) {
	return AsHavingClause(child(s.n, syntax.HavingClause))
}

// OrderBy returns the ORDER BY clause.
func (s SelectClause) OrderBy() (OrderByClause, bool) {
	return AsOrderByClause(child(s.n, syntax.OrderByClause))
}

// Limit returns the LIMIT/OFFSET clause.
func (s SelectClause) Limit() (LimitClause, bool) {
	return AsLimitClause(child(s.n, syntax.LimitClause))
}

// ProjectionList is the comma-separated list after SELECT.
type ProjectionList struct{ view }

// AsProjectionList returns the view of a projection-list node.
func AsProjectionList(n *syntax.Node) (ProjectionList, bool) {
	v, ok := as(n, syntax.ProjectionList)
	return ProjectionList{v}, ok
}

// Items returns the well-formed projections.
func (l ProjectionList) Items() []Projection {
	var out []Projection
	for _, c := range children(l.n, syntax.Projection) {
		out = append(out, Projection{view{n: c}})
	}
	return out
}

// Projection is one item of a projection list.
type Projection struct{ view }

// AsProjection returns the view of a projection node.
func AsProjection(n *syntax.Node) (Projection, bool) {
	v, ok := as(n, syntax.Projection)
	return Projection{v}, ok
}

// Star reports whether the projection is `*`.
func (p Projection) Star() bool { return child(p.n, syntax.StarExpr) != nil }

// Expr returns the projected expression.
func (p Projection) Expr() (Expr, bool) {
	e, ok := firstExpr(p.n)
	if ok && e.Kind() == syntax.StarExpr {
		return Expr{}, false
	}
	return e, ok
}

// Alias returns the name given with `[AS] name`.
func (p Projection) Alias() (string, bool) {
	return aliasOf(p.n)
}

func aliasOf(n *syntax.Node) (string, bool) {
	a := child(n, syntax.Alias)
	for _, tok := range tokens(a) {
		if tok.Type != token.AS {
			return Unquote(tok), true
		}
	}
	return "", false
}

// ---------- FROM ----------

// FromClause is a SQL FROM clause or a from pipe operator.
type FromClause struct{ view }

// AsFromClause returns the view of a from-clause or from-op node.
func AsFromClause(n *syntax.Node) (FromClause, bool) {
	v, ok := as(n, syntax.FromClause, syntax.FromOp)
	return FromClause{v}, ok
}

// Sources returns the comma-separated sources, not counting joined ones.
func (f FromClause) Sources() []Source {
	var out []Source
	for _, c := range children(f.n, syntax.Source) {
		out = append(out, Source{view{n: c}})
	}
	return out
}

// Joins returns the joins in source order.
func (f FromClause) Joins() []Join {
	var out []Join
	for _, c := range children(f.n, syntax.Join) {
		out = append(out, Join{view{n: c}})
	}
	return out
}

// Source is a table reference, subquery or UNNEST.
type Source struct{ view }

// AsSource returns the view of a source node.
func AsSource(n *syntax.Node) (Source, bool) {
	v, ok := as(n, syntax.Source)
	return Source{v}, ok
}

// Unnest reports whether the source is UNNEST expr.
func (s Source) Unnest() bool { return hasToken(s.n, token.UNNEST) }

// Expr returns the source expression, for table references and UNNEST.
func (s Source) Expr() (Expr, bool) { return firstExpr(s.n) }

// Query returns the parenthesized query of a subquery source.
func (s Source) Query() (*syntax.Node, bool) {
	if !hasToken(s.n, token.LPAREN) {
		return nil, false
	}
	for _, c := range nodes(s.n) {
		if !c.IsError() && !c.Is(syntax.Alias) {
			return c, true
		}
	}
	return nil, false
}

// Table returns the dotted table name of a plain table reference.
func (s Source) Table() (string, bool) {
	if s.Unnest() {
		return "", false
	}
	e, ok := s.Expr()
	if !ok {
		return "", false
	}
	return e.Path()
}

// Alias returns the name given with `[AS] name`.
func (s Source) Alias() (string, bool) { return aliasOf(s.n) }

// Join is one JOIN of a FROM clause.
type Join struct{ view }

// AsJoin returns the view of a join node.
func AsJoin(n *syntax.Node) (Join, bool) {
	v, ok := as(n, syntax.Join)
	return Join{v}, ok
}

// Type returns the join type in upper case: INNER (for a bare JOIN), LEFT,
// RIGHT, FULL, CROSS or ANTI.
func (j Join) Type() string {
	toks := tokens(j.n)
	if len(toks) == 0 || toks[0].Type == token.JOIN {
		return "INNER"
	}
	return strings.ToUpper(toks[0].Literal)
}

// Source returns the joined source.
func (j Join) Source() (Source, bool) { return AsSource(child(j.n, syntax.Source)) }

// On returns the join condition.
func (j Join) On() (Expr, bool) { return exprAfter(j.n, token.ON) }

// Using returns the column names of a USING list.
func (j Join) Using() []string {
	params := child(child(j.n, syntax.UsingList), syntax.ParamList)
	return names(params)
}

// names returns the name tokens of a param-list.
func names(n *syntax.Node) []string {
	var out []string
	for _, tok := range tokens(n) {
		if isNameToken(tok.Type) {
			out = append(out, Unquote(tok))
		}
	}
	return out
}

// ---------- Clauses ----------

// WhereClause is a SQL WHERE clause or a where pipe operator.
type WhereClause struct{ view }

// AsWhereClause returns the view of a where-clause or where-op node.
func AsWhereClause(n *syntax.Node) (WhereClause, bool) {
	v, ok := as(n, syntax.WhereClause, syntax.WhereOp)
	return WhereClause{v}, ok
}

// Condition returns the predicate.
func (w WhereClause) Condition() (Expr, bool) { return firstExpr(w.n) }

// HavingClause is a HAVING clause.
type HavingClause struct{ view }

// AsHavingClause returns the view of a having-clause node.
func AsHavingClause(n *syntax.Node) (HavingClause, bool) {
	v, ok := as(n, syntax.HavingClause)
	return HavingClause{v}, ok
}

// Condition returns the predicate.
func (h HavingClause) Condition() (Expr, bool) { return firstExpr(h.n) }

// GroupByClause is a GROUP BY clause.
type GroupByClause struct{ view }

// AsGroupByClause returns the view of a group-by-clause node.
func AsGroupByClause(n *syntax.Node) (GroupByClause, bool) {
	v, ok := as(n, syntax.GroupByClause)
	return GroupByClause{v}, ok
}

// Exprs returns the grouping expressions.
func (g GroupByClause) Exprs() []Expr { return exprsOf(g.n) }

// OrderByClause is an ORDER BY clause.
type OrderByClause struct{ view }

// AsOrderByClause returns the view of an order-by-clause node.
func AsOrderByClause(n *syntax.Node) (OrderByClause, bool) {
	v, ok := as(n, syntax.OrderByClause)
	return OrderByClause{v}, ok
}

// Items returns the sort keys.
func (o OrderByClause) Items() []OrderItem { return orderItems(o.n) }

func orderItems(n *syntax.Node) []OrderItem {
	var out []OrderItem
	for _, c := range children(n, syntax.OrderItem) {
		out = append(out, OrderItem{view{n: c}})
	}
	return out
}

// OrderItem is one sort key.
type OrderItem struct{ view }

// Expr returns the sort expression.
func (o OrderItem) Expr() (Expr, bool) { return firstExpr(o.n) }

// Desc reports whether the key sorts descending.
func (o OrderItem) Desc() bool { return hasToken(o.n, token.DESC) }

// NullsFirst reports whether NULLS FIRST was given.
func (o OrderItem) NullsFirst() bool { return hasToken(o.n, token.FIRST) }

// LimitClause is LIMIT and/or OFFSET.
type LimitClause struct{ view }

// AsLimitClause returns the view of a limit-clause node.
func AsLimitClause(n *syntax.Node) (LimitClause, bool) {
	v, ok := as(n, syntax.LimitClause)
	return LimitClause{v}, ok
}

// Count returns the LIMIT expression.
func (l LimitClause) Count() (Expr, bool) { return exprAfter(l.n, token.LIMIT) }

// Offset returns the OFFSET expression.
func (l LimitClause) Offset() (Expr, bool) { return exprAfter(l.n, token.OFFSET) }
