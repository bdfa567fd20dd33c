package editor

import (
	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// SymbolKind classifies a document symbol.
type SymbolKind uint8

// Symbol kinds.
const (
	SymbolConst SymbolKind = iota + 1
	SymbolVariable
	SymbolFunction
	SymbolOperator
	SymbolType
	SymbolTable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolConst:
		return "const"
	case SymbolVariable:
		return "let"
	case SymbolFunction:
		return "fn"
	case SymbolOperator:
		return "op"
	case SymbolType:
		return "type"
	case SymbolTable:
		return "cte"
	}
	return "unknown"
}

// Symbol is a named declaration in a document.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Range     Range      // the whole declaration
	Selection token.Span // the name
	Children  []Symbol   // declarations local to an op body
}

var declKinds = map[syntax.Kind]SymbolKind{
	syntax.ConstDecl: SymbolConst,
	syntax.FnDecl:    SymbolFunction,
	syntax.OpDecl:    SymbolOperator,
	syntax.TypeDecl:  SymbolType,
}

// Symbols returns the declarations and common table expressions of a
// document in source order. Declarations whose name failed to parse are
// skipped.
func Symbols(root *syntax.Node) []Symbol {
	file, ok := ast.AsFile(root)
	if !ok {
		return nil
	}
	var out []Symbol
	for _, stmt := range file.Statements() {
		out = append(out, declSymbols(stmt.Node())...)
		out = append(out, cteSymbols(stmt.Node())...)
	}
	return out
}

func declSymbols(n *syntax.Node) []Symbol {
	if l, ok := ast.AsLetDecl(n); ok {
		var out []Symbol
		for _, b := range l.Bindings() {
			r := tokenRange(b.Token)
			if vr, ok := nodeRange(b.Value.Node()); ok {
				r.Span = r.Span.Cover(vr.Span)
				r.EndLine = vr.EndLine
			}
			out = append(out, Symbol{Name: b.Name, Kind: SymbolVariable, Range: r, Selection: b.Token.Span()})
		}
		return out
	}

	kind, ok := declKinds[n.Kind()]
	if !ok {
		return nil
	}
	d, _ := ast.AsDecl(n)
	tok, ok := d.NameToken()
	if !ok {
		return nil
	}
	r, _ := nodeRange(n)
	sym := Symbol{Name: ast.Unquote(tok), Kind: kind, Range: r, Selection: tok.Span()}
	if op, ok := ast.AsOpDecl(n); ok {
		if body, ok := op.Body(); ok {
			for _, local := range body.Decls() {
				sym.Children = append(sym.Children, declSymbols(local.Node())...)
			}
		}
	}
	return []Symbol{sym}
}

func cteSymbols(n *syntax.Node) []Symbol {
	var out []Symbol
	for q := range n.Find(syntax.SQLQuery) {
		sq, _ := ast.AsSQLQuery(q)
		for _, cte := range sq.CTEs() {
			tok, ok := cte.NameToken()
			if !ok {
				continue
			}
			r, _ := nodeRange(cte.Node())
			out = append(out, Symbol{Name: ast.Unquote(tok), Kind: SymbolTable, Range: r, Selection: tok.Span()})
		}
	}
	return out
}
