// Package ast provides typed views over SuperSQL syntax trees.
//
// A view wraps a *syntax.Node whose kind matches the view and exposes its
// semantically meaningful children. Views are constructed with the AsX
// functions, which report false when the node has a different kind:
//
//	if sel, ok := ast.AsSelectClause(n); ok {
//	    for _, p := range sel.Projections() {
//	        ...
//	    }
//	}
//
// Accessors never panic. When the parser recovered from an error inside a
// construct, the affected child is an Error Node and the accessor that
// would return it reports it as absent (false, or an empty slice). Trivia
// are never returned.
package ast

import (
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// View is implemented by every typed view.
type View interface {
	Node() *syntax.Node
}

// view is embedded by every typed view.
type view struct {
	n *syntax.Node
}

// Node returns the underlying syntax node, or nil for a zero view.
func (v view) Node() *syntax.Node { return v.n }

// Span returns the byte range of the underlying node.
func (v view) Span() token.Span { return v.n.Span() }

// Text returns the source text of the underlying node.
func (v view) Text() string { return v.n.Text() }

// Valid reports whether the view wraps a node.
func (v view) Valid() bool { return v.n != nil }

// as wraps n when it has one of the given kinds.
func as(n *syntax.Node, kinds ...syntax.Kind) (view, bool) {
	if n == nil {
		return view{}, false
	}
	for _, k := range kinds {
		if n.Is(k) {
			return view{n: n}, true
		}
	}
	return view{}, false
}

// ---------- File ----------

// File is the root of a tree.
type File struct{ view }

// AsFile returns the file view of a root node.
func AsFile(n *syntax.Node) (File, bool) {
	v, ok := as(n, syntax.File)
	return File{v}, ok
}

// Statements returns the top-level statements in source order. Text the
// parser could not attribute to any statement appears as a statement whose
// IsError reports true.
func (f File) Statements() []Statement {
	var out []Statement
	for _, c := range nodes(f.n) {
		out = append(out, Statement{view{n: c}})
	}
	return out
}

// Statement is one top-level declaration or query.
type Statement struct{ view }

// Kind returns the kind of the statement node.
func (s Statement) Kind() syntax.Kind { return s.n.Kind() }

// IsError reports whether the whole statement failed to parse.
func (s Statement) IsError() bool { return s.n.IsError() }

// IsDecl reports whether the statement is a declaration.
func (s Statement) IsDecl() bool { return s.n.Kind().IsDecl() }

// IsQuery reports whether the statement is a query: a SQL query, a pipeline
// or a single pipeline element.
func (s Statement) IsQuery() bool {
	return s.n != nil && !s.IsError() && !s.IsDecl()
}

// ---------- Helpers ----------

// nodes returns the rule-node children of n.
func nodes(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for c := range n.Children() {
		if !c.IsToken() {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first rule-node child of n with kind k.
func child(n *syntax.Node, k syntax.Kind) *syntax.Node {
	for c := range n.Children() {
		if c.Is(k) {
			return c
		}
	}
	return nil
}

// children returns the rule-node children of n with kind k.
func children(n *syntax.Node, k syntax.Kind) []*syntax.Node {
	var out []*syntax.Node
	for c := range n.Children() {
		if c.Is(k) {
			out = append(out, c)
		}
	}
	return out
}

// tokens returns the significant token children of n.
func tokens(n *syntax.Node) []token.Token {
	var out []token.Token
	for c := range n.Children() {
		if tok, ok := c.Token(); ok && !tok.Type.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out
}

// hasToken reports whether n has a direct token child of type t.
func hasToken(n *syntax.Node, t token.TokenType) bool {
	for c := range n.Children() {
		if c.TokenType() == t && c.IsToken() {
			return true
		}
	}
	return false
}

// exprsOf returns the expression children of n.
func exprsOf(n *syntax.Node) []Expr {
	var out []Expr
	for c := range n.Children() {
		if c.Kind().IsExpr() {
			out = append(out, Expr{view{n: c}})
		}
	}
	return out
}

// exprAfter returns the first expression child that follows a token of type
// t among the direct children of n.
func exprAfter(n *syntax.Node, t token.TokenType) (Expr, bool) {
	seen := false
	for c := range n.Children() {
		if c.IsToken() {
			if c.TokenType() == t {
				seen = true
			}
			continue
		}
		if seen {
			if c.Kind().IsExpr() {
				return Expr{view{n: c}}, true
			}
			return Expr{}, false
		}
	}
	return Expr{}, false
}

// firstExpr returns the first expression child of n.
func firstExpr(n *syntax.Node) (Expr, bool) {
	for c := range n.Children() {
		if c.Kind().IsExpr() {
			return Expr{view{n: c}}, true
		}
	}
	return Expr{}, false
}

// isNameToken reports whether t can name something.
func isNameToken(t token.TokenType) bool {
	return t == token.IDENT || t == token.QUOTED_IDENT || t.IsSoftKeyword()
}

// nameAfterKeyword returns the name that directly follows the leading
// keyword of n, as in `const name = ...`.
func nameAfterKeyword(n *syntax.Node) (string, bool) {
	tok, ok := keywordName(n)
	if !ok {
		return "", false
	}
	return Unquote(tok), true
}

func keywordName(n *syntax.Node) (token.Token, bool) {
	i := 0
	for c := range n.Children() {
		if c.IsTrivia() {
			continue
		}
		if i == 1 {
			tok, ok := c.Token()
			if !ok || !isNameToken(tok.Type) {
				return token.Token{}, false
			}
			return tok, true
		}
		i++
	}
	return token.Token{}, false
}

// Unquote returns the name a token spells: backquoted identifiers lose their
// quotes, everything else is returned as written.
func Unquote(tok token.Token) string {
	if tok.Type == token.QUOTED_IDENT {
		s := strings.TrimPrefix(tok.Literal, "`")
		return strings.TrimSuffix(s, "`")
	}
	return tok.Literal
}
