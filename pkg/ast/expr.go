package ast

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Expr is any expression node.
type Expr struct{ view }

// AsExpr returns the view of an expression node.
func AsExpr(n *syntax.Node) (Expr, bool) {
	if n == nil || !n.Kind().IsExpr() {
		return Expr{}, false
	}
	return Expr{view{n: n}}, true
}

// Kind returns the kind of the expression node.
func (e Expr) Kind() syntax.Kind { return e.n.Kind() }

// Path returns the dotted name of a name reference or a chain of field
// accesses on one, as in `schema.table`.
func (e Expr) Path() (string, bool) {
	switch e.Kind() {
	case syntax.NameRef:
		return Ident{e.view}.Name(), true
	case syntax.FieldExpr:
		f := Field{e.view}
		base, ok := f.Base()
		if !ok {
			return "", false
		}
		prefix, ok := base.Path()
		name, ok2 := f.Name()
		if !ok || !ok2 {
			return "", false
		}
		return prefix + "." + name, true
	}
	return "", false
}

// ---------- Names ----------

// Ident is a name reference.
type Ident struct{ view }

// AsIdent returns the view of a name-ref node.
func AsIdent(n *syntax.Node) (Ident, bool) {
	v, ok := as(n, syntax.NameRef)
	return Ident{v}, ok
}

// Name returns the referenced name, without backquotes.
func (i Ident) Name() string {
	toks := tokens(i.n)
	if len(toks) == 0 {
		return ""
	}
	return Unquote(toks[0])
}

// Field is a field access `base.name`.
type Field struct{ view }

// AsField returns the view of a field-expr node.
func AsField(n *syntax.Node) (Field, bool) {
	v, ok := as(n, syntax.FieldExpr)
	return Field{v}, ok
}

// Base returns the expression whose field is accessed.
func (f Field) Base() (Expr, bool) { return firstExpr(f.n) }

// Name returns the accessed field name.
func (f Field) Name() (string, bool) {
	toks := tokens(f.n)
	if len(toks) < 2 || toks[0].Type != token.DOT {
		return "", false
	}
	return Unquote(toks[1]), true
}

// ---------- Literals ----------

// Literal is a constant: a number, string, address, boolean, null or a typed
// literal such as `date '2024-01-01'`.
type Literal struct{ view }

// AsLiteral returns the view of a literal or typed-literal node.
func AsLiteral(n *syntax.Node) (Literal, bool) {
	v, ok := as(n, syntax.Literal, syntax.TypedLiteral)
	return Literal{v}, ok
}

// Token returns the value token. For typed literals that is the string.
func (l Literal) Token() token.Token {
	toks := tokens(l.n)
	if len(toks) == 0 {
		return token.Token{}
	}
	return toks[len(toks)-1]
}

// Type returns the token type of the value.
func (l Literal) Type() token.TokenType { return l.Token().Type }

// IsNull reports whether the literal is null.
func (l Literal) IsNull() bool { return l.Type() == token.NULL }

// Value returns the literal's value as text; strings lose their quotes and
// escapes are resolved.
func (l Literal) Value() string {
	tok := l.Token()
	if tok.Type == token.STRING {
		return StringValue(tok.Literal)
	}
	return tok.Literal
}

// StringValue returns the contents of a quoted string literal. Text that is
// not a complete quoted string is returned unchanged.
func StringValue(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return lit
	}
	if q == '"' {
		if s, err := strconv.Unquote(lit); err == nil {
			return s
		}
	}
	return strings.ReplaceAll(lit[1:len(lit)-1], string(q)+string(q), string(q))
}

// ---------- Operators ----------

// Binary is an infix expression: arithmetic, comparison, logic, IN or IS.
type Binary struct{ view }

// AsBinary returns the view of a binary-expr, in-expr or is-expr node.
func AsBinary(n *syntax.Node) (Binary, bool) {
	v, ok := as(n, syntax.BinaryExpr, syntax.InExpr, syntax.IsExpr)
	return Binary{v}, ok
}

// Op returns the operator token. For `NOT IN` and `IS NOT` it is the IN or
// IS token; see Negated.
func (b Binary) Op() token.Token {
	for _, tok := range tokens(b.n) {
		if tok.Type != token.NOT {
			return tok
		}
	}
	return token.Token{}
}

// Negated reports whether the operator carries NOT.
func (b Binary) Negated() bool { return hasToken(b.n, token.NOT) }

// Left returns the left operand.
func (b Binary) Left() (Expr, bool) {
	es := exprsOf(b.n)
	if len(es) == 0 || es[0].Span().Offset > b.Op().Pos.Offset {
		return Expr{}, false
	}
	return es[0], true
}

// Right returns the right operand.
func (b Binary) Right() (Expr, bool) {
	es := exprsOf(b.n)
	if len(es) == 0 {
		return Expr{}, false
	}
	last := es[len(es)-1]
	if last.Span().Offset < b.Op().End() {
		return Expr{}, false
	}
	return last, true
}

// Unary is a prefix expression.
type Unary struct{ view }

// AsUnary returns the view of a unary-expr node.
func AsUnary(n *syntax.Node) (Unary, bool) {
	v, ok := as(n, syntax.UnaryExpr)
	return Unary{v}, ok
}

// Op returns the operator token.
func (u Unary) Op() token.Token {
	toks := tokens(u.n)
	if len(toks) == 0 {
		return token.Token{}
	}
	return toks[0]
}

// Operand returns the operand.
func (u Unary) Operand() (Expr, bool) { return firstExpr(u.n) }

// ---------- Calls ----------

// Call is a function call.
type Call struct{ view }

// AsCall returns the view of a call-expr node.
func AsCall(n *syntax.Node) (Call, bool) {
	v, ok := as(n, syntax.CallExpr)
	return Call{v}, ok
}

// Func returns the called name, such as `count` or `math.abs`.
func (c Call) Func() (string, bool) {
	if toks := tokens(c.n); len(toks) > 0 {
		return toks[0].Literal, true
	}
	callee, ok := firstExpr(c.n)
	if !ok {
		return "", false
	}
	return callee.Path()
}

// Args returns the arguments. A `*` argument is a star-expr.
func (c Call) Args() []Expr { return exprsOf(child(c.n, syntax.ArgList)) }

// Star reports whether the call is f(*).
func (c Call) Star() bool {
	return child(child(c.n, syntax.ArgList), syntax.StarExpr) != nil
}

// Distinct reports whether the arguments are marked DISTINCT.
func (c Call) Distinct() bool {
	return hasToken(child(c.n, syntax.ArgList), token.DISTINCT)
}

// ---------- Composite Values ----------

// Record is a record literal.
type Record struct{ view }

// AsRecord returns the view of a record-expr node.
func AsRecord(n *syntax.Node) (Record, bool) {
	v, ok := as(n, syntax.RecordExpr)
	return Record{v}, ok
}

// Fields returns the fields and spreads in order.
func (r Record) Fields() []RecordField {
	var out []RecordField
	for c := range r.n.Children() {
		if c.Is(syntax.RecordField) || c.Is(syntax.SpreadExpr) {
			out = append(out, RecordField{view{n: c}})
		}
	}
	return out
}

// RecordField is `label: value`, a bare value, or `...value`.
type RecordField struct{ view }

// Spread reports whether the field spreads another record.
func (f RecordField) Spread() bool { return f.n.Is(syntax.SpreadExpr) }

// Label returns the explicit field label.
func (f RecordField) Label() (string, bool) {
	if f.Spread() {
		return "", false
	}
	toks := tokens(f.n)
	if len(toks) < 2 || toks[1].Type != token.COLON {
		return "", false
	}
	if toks[0].Type == token.STRING {
		return StringValue(toks[0].Literal), true
	}
	return Unquote(toks[0]), true
}

// Value returns the field value.
func (f RecordField) Value() (Expr, bool) { return firstExpr(f.n) }

// Array is an array or set literal.
type Array struct{ view }

// AsArray returns the view of an array-expr or set-expr node.
func AsArray(n *syntax.Node) (Array, bool) {
	v, ok := as(n, syntax.ArrayExpr, syntax.SetExpr)
	return Array{v}, ok
}

// IsSet reports whether the literal is a set `|[...]|`.
func (a Array) IsSet() bool { return a.n.Is(syntax.SetExpr) }

// Elements returns the elements; spreads appear as spread-expr.
func (a Array) Elements() []Expr { return exprsOf(a.n) }

// ---------- CASE and CAST ----------

// Case is CASE ... END.
type Case struct{ view }

// AsCase returns the view of a case-expr node.
func AsCase(n *syntax.Node) (Case, bool) {
	v, ok := as(n, syntax.CaseExpr)
	return Case{v}, ok
}

// Subject returns the operand of a simple CASE x WHEN ... form.
func (c Case) Subject() (Expr, bool) { return exprAfter(c.n, token.CASE) }

// Whens returns the WHEN branches.
func (c Case) Whens() []When {
	var out []When
	for _, w := range children(c.n, syntax.WhenClause) {
		out = append(out, When{view{n: w}})
	}
	return out
}

// Else returns the ELSE result.
func (c Case) Else() (Expr, bool) {
	return firstExpr(child(c.n, syntax.ElseClause))
}

// When is one WHEN cond THEN result branch.
type When struct{ view }

// Condition returns the WHEN expression.
func (w When) Condition() (Expr, bool) { return exprAfter(w.n, token.WHEN) }

// Result returns the THEN expression.
func (w When) Result() (Expr, bool) { return exprAfter(w.n, token.THEN) }

// Cast is CAST(x AS type) or x::type.
type Cast struct{ view }

// AsCast returns the view of a cast-expr or type-cast node.
func AsCast(n *syntax.Node) (Cast, bool) {
	v, ok := as(n, syntax.CastExpr, syntax.TypeCast)
	return Cast{v}, ok
}

// Value returns the expression being cast.
func (c Cast) Value() (Expr, bool) { return firstExpr(c.n) }

// Type returns the target type node.
func (c Cast) Type() (*syntax.Node, bool) {
	for k := range c.n.Children() {
		if k.Kind().IsType() {
			return k, true
		}
	}
	return nil, false
}

// ---------- F-Strings ----------

// FString is an interpolated string f"...{expr}...".
type FString struct{ view }

// AsFString returns the view of an fstring node.
func AsFString(n *syntax.Node) (FString, bool) {
	v, ok := as(n, syntax.FString)
	return FString{v}, ok
}

// Segments returns the literal text runs in order.
func (f FString) Segments() []string {
	var out []string
	for _, tok := range tokens(f.n) {
		if tok.Type == token.FSTRING_TEXT {
			out = append(out, tok.Literal)
		}
	}
	return out
}

// Interpolations returns the interpolated expressions in order.
func (f FString) Interpolations() []Expr {
	var out []Expr
	for _, in := range children(f.n, syntax.Interpolation) {
		if e, ok := firstExpr(in); ok {
			out = append(out, e)
		}
	}
	return out
}
