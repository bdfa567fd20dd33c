// Package query collects the parts of SQL queries that lint rules inspect:
// the sources of a SELECT, the column references in its expressions and
// the outermost set operations of a tree.
package query

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// ColumnRef is a reference to a column: `name` or `qualifier.name`.
type ColumnRef struct {
	Qualifier string // empty when unqualified
	Name      string
	Node      *syntax.Node
}

// Qualified reports whether the reference names its table.
func (r ColumnRef) Qualified() bool { return r.Qualifier != "" }

// String returns the reference as written, without backquotes.
func (r ColumnRef) String() string {
	if r.Qualifier == "" {
		return r.Name
	}
	return r.Qualifier + "." + r.Name
}

// Selects returns every select-clause under root, nested ones included.
func Selects(root *syntax.Node) []ast.SelectClause {
	var out []ast.SelectClause
	for n := range root.Find(syntax.SelectClause) {
		sel, _ := ast.AsSelectClause(n)
		out = append(out, sel)
	}
	return out
}

// SetOperations returns the set operations under root that are not the
// left operand of another one, so each UNION chain is seen once.
func SetOperations(root *syntax.Node) []ast.SetOperation {
	inner := make(map[*syntax.Node]bool)
	var out []ast.SetOperation
	for n := range root.Find(syntax.SetOperation) {
		set, _ := ast.AsSetOperation(n)
		if left, ok := set.Left(); ok && left.Is(syntax.SetOperation) {
			inner[left] = true
		}
		if !inner[n] {
			out = append(out, set)
		}
	}
	return out
}

// Sources returns the sources of the FROM clause of sel followed by the
// joined ones, in source order.
func Sources(sel ast.SelectClause) []ast.Source {
	from, ok := sel.From()
	if !ok {
		return nil
	}
	out := from.Sources()
	for _, j := range from.Joins() {
		if src, ok := j.Source(); ok {
			out = append(out, src)
		}
	}
	return out
}

// SourceName returns the name columns of src are qualified with: its
// alias, or the last element of its table name.
func SourceName(src ast.Source) (string, bool) {
	if alias, ok := src.Alias(); ok {
		return alias, true
	}
	table, ok := src.Table()
	if !ok {
		return "", false
	}
	return table[strings.LastIndexByte(table, '.')+1:], true
}

// AliasNode returns the alias child of a source or projection.
func AliasNode(n *syntax.Node) (*syntax.Node, bool) {
	for c := range n.Children() {
		if c.Is(syntax.Alias) {
			return c, true
		}
	}
	return nil, false
}

// IsWildcard reports whether p is `*` or `t.*`.
func IsWildcard(p ast.Projection) bool {
	if p.Star() {
		return true
	}
	e, ok := p.Expr()
	if !ok || e.Kind() != syntax.FieldExpr {
		return false
	}
	f, _ := ast.AsField(e.Node())
	name, _ := f.Name()
	return name == "*"
}

// Column returns the reference e is, if it is a plain or qualified column.
func Column(e ast.Expr) (ColumnRef, bool) {
	switch e.Kind() {
	case syntax.NameRef:
		id, _ := ast.AsIdent(e.Node())
		return ColumnRef{Name: id.Name(), Node: e.Node()}, true
	case syntax.FieldExpr:
		f, _ := ast.AsField(e.Node())
		base, ok := f.Base()
		if !ok || base.Kind() != syntax.NameRef {
			return ColumnRef{}, false
		}
		name, ok := f.Name()
		if !ok {
			return ColumnRef{}, false
		}
		id, _ := ast.AsIdent(base.Node())
		return ColumnRef{Qualifier: id.Name(), Name: name, Node: e.Node()}, true
	}
	return ColumnRef{}, false
}

// Columns returns the column references in the expressions of sel:
// projections, join conditions and the WHERE through ORDER BY clauses.
// Subqueries, lambdas and table names are not entered.
func Columns(sel ast.SelectClause) []ColumnRef {
	var out []ColumnRef
	collect(sel.Node(), false, &out)
	return out
}

// ColumnsOf returns the column references in the expression n.
func ColumnsOf(n *syntax.Node) []ColumnRef {
	var out []ColumnRef
	visit(n, false, &out)
	return out
}

// Mentions returns the lower-cased names sel refers to, as columns or as
// qualifiers, subqueries included. Table names in FROM are not mentions.
func Mentions(sel ast.SelectClause) map[string]bool {
	var refs []ColumnRef
	collect(sel.Node(), true, &refs)
	out := make(map[string]bool, len(refs))
	for _, r := range refs {
		if r.Qualified() {
			out[strings.ToLower(r.Qualifier)] = true
		} else {
			out[strings.ToLower(r.Name)] = true
		}
	}
	return out
}

func collect(n *syntax.Node, nested bool, out *[]ColumnRef) {
	for c := range n.Children() {
		visit(c, nested, out)
	}
}

func visit(n *syntax.Node, nested bool, out *[]ColumnRef) {
	if n.IsToken() {
		return
	}
	switch n.Kind() {
	case syntax.Alias, syntax.UsingList, syntax.LambdaExpr:
		return
	case syntax.SelectClause, syntax.SQLQuery, syntax.SetOperation,
		syntax.SubqueryExpr, syntax.ExistsExpr:
		if nested {
			collect(n, nested, out)
		}
		return
	case syntax.Source:
		src, _ := ast.AsSource(n)
		if q, ok := src.Query(); ok && nested {
			visit(q, nested, out)
		}
		if e, ok := src.Expr(); ok && src.Unnest() {
			visit(e.Node(), nested, out)
		}
		return
	case syntax.CallExpr:
		// The callee is a function name, not a column.
		if args := argList(n); args != nil {
			collect(args, nested, out)
		}
		return
	}
	if e, ok := ast.AsExpr(n); ok {
		if ref, ok := Column(e); ok {
			*out = append(*out, ref)
			return
		}
	}
	collect(n, nested, out)
}

func argList(call *syntax.Node) *syntax.Node {
	for c := range call.Children() {
		if c.Is(syntax.ArgList) {
			return c
		}
	}
	return nil
}

// EqualityOperands returns both sides of an `a = b` or `a == b` comparison.
func EqualityOperands(e ast.Expr) (ast.Expr, ast.Expr, bool) {
	b, ok := ast.AsBinary(e.Node())
	if !ok || !e.Node().Is(syntax.BinaryExpr) {
		return ast.Expr{}, ast.Expr{}, false
	}
	if t := b.Op().Type; t != token.EQ && t != token.EQUALS {
		return ast.Expr{}, ast.Expr{}, false
	}
	left, ok := b.Left()
	right, ok2 := b.Right()
	if !ok || !ok2 {
		return ast.Expr{}, ast.Expr{}, false
	}
	return left, right, true
}
