package ast

import (
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Decl is any declaration.
type Decl struct{ view }

// AsDecl returns the view of a declaration node.
func AsDecl(n *syntax.Node) (Decl, bool) {
	if n == nil || !n.Kind().IsDecl() {
		return Decl{}, false
	}
	return Decl{view{n: n}}, true
}

// Kind returns the declaration kind.
func (d Decl) Kind() syntax.Kind { return d.n.Kind() }

// Name returns the declared name. A let declaration reports its first name.
func (d Decl) Name() (string, bool) { return nameAfterKeyword(d.n) }

// NameToken returns the token of the declared name.
func (d Decl) NameToken() (token.Token, bool) { return keywordName(d.n) }

// ConstDecl is `const name = expr`.
type ConstDecl struct{ view }

// AsConstDecl returns the view of a const-decl node.
func AsConstDecl(n *syntax.Node) (ConstDecl, bool) {
	v, ok := as(n, syntax.ConstDecl)
	return ConstDecl{v}, ok
}

// Name returns the constant name.
func (c ConstDecl) Name() (string, bool) { return nameAfterKeyword(c.n) }

// Value returns the constant expression.
func (c ConstDecl) Value() (Expr, bool) { return exprAfter(c.n, token.EQUALS) }

// LetDecl is `let a = x, b = y`.
type LetDecl struct{ view }

// AsLetDecl returns the view of a let-decl node.
func AsLetDecl(n *syntax.Node) (LetDecl, bool) {
	v, ok := as(n, syntax.LetDecl)
	return LetDecl{v}, ok
}

// Binding is one `name = expr` of a let declaration.
type Binding struct {
	Name  string
	Token token.Token // the name as written
	Value Expr
}

// Bindings returns the well-formed bindings in order.
func (l LetDecl) Bindings() []Binding {
	var (
		out  []Binding
		name token.Token
		eq   bool
	)
	for c := range l.n.Children() {
		if c.IsTrivia() {
			continue
		}
		if tok, ok := c.Token(); ok {
			switch {
			case tok.Type == token.EQUALS:
				eq = name.Literal != ""
			case tok.Type == token.COMMA, tok.Type == token.LET:
				name, eq = token.Token{}, false
			case isNameToken(tok.Type):
				name = tok
			}
			continue
		}
		if eq && c.Kind().IsExpr() {
			out = append(out, Binding{Name: Unquote(name), Token: name, Value: Expr{view{n: c}}})
		}
		name, eq = token.Token{}, false
	}
	return out
}

// FnDecl is `fn name(params): expr`.
type FnDecl struct{ view }

// AsFnDecl returns the view of a fn-decl node.
func AsFnDecl(n *syntax.Node) (FnDecl, bool) {
	v, ok := as(n, syntax.FnDecl)
	return FnDecl{v}, ok
}

// Name returns the function name.
func (f FnDecl) Name() (string, bool) { return nameAfterKeyword(f.n) }

// Params returns the parameter names.
func (f FnDecl) Params() []string { return names(child(f.n, syntax.ParamList)) }

// Body returns the function body.
func (f FnDecl) Body() (Expr, bool) { return exprAfter(f.n, token.COLON) }

// OpDecl is `op name(params): (scope)`.
type OpDecl struct{ view }

// AsOpDecl returns the view of an op-decl node.
func AsOpDecl(n *syntax.Node) (OpDecl, bool) {
	v, ok := as(n, syntax.OpDecl)
	return OpDecl{v}, ok
}

// Name returns the operator name.
func (o OpDecl) Name() (string, bool) { return nameAfterKeyword(o.n) }

// Params returns the parameter names.
func (o OpDecl) Params() []string { return names(child(o.n, syntax.ParamList)) }

// Body returns the operator body.
func (o OpDecl) Body() (Scope, bool) { return AsScope(child(o.n, syntax.Scope)) }

// TypeDecl is `type name = type`.
type TypeDecl struct{ view }

// AsTypeDecl returns the view of a type-decl node.
func AsTypeDecl(n *syntax.Node) (TypeDecl, bool) {
	v, ok := as(n, syntax.TypeDecl)
	return TypeDecl{v}, ok
}

// Name returns the type name.
func (t TypeDecl) Name() (string, bool) { return nameAfterKeyword(t.n) }

// Type returns the declared type node.
func (t TypeDecl) Type() (*syntax.Node, bool) {
	for c := range t.n.Children() {
		if c.Kind().IsType() {
			return c, true
		}
	}
	return nil, false
}

// PragmaDecl is `pragma name [= expr]`.
type PragmaDecl struct{ view }

// AsPragmaDecl returns the view of a pragma-decl node.
func AsPragmaDecl(n *syntax.Node) (PragmaDecl, bool) {
	v, ok := as(n, syntax.PragmaDecl)
	return PragmaDecl{v}, ok
}

// Name returns the pragma name.
func (p PragmaDecl) Name() (string, bool) { return nameAfterKeyword(p.n) }

// Value returns the pragma value.
func (p PragmaDecl) Value() (Expr, bool) { return exprAfter(p.n, token.EQUALS) }
