// Package syntax is the lossless concrete syntax tree of SuperSQL.
//
// Every grammar rule match is a Node tagged with a Kind; every token the lexer
// produced, trivia included, is a leaf Node of kind TokenNode. Concatenating
// the leaves of any node reproduces exactly the source text it spans, which is
// what lets editors map any offset back to structure and print a tree back to
// identical text.
//
// Nodes are immutable once built. A new edit means a new tree.
package syntax

import (
	"iter"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// Node is a syntax tree element: either a rule match with ordered children,
// or a leaf holding one token.
type Node struct {
	kind     Kind
	tok      token.Token // leaves only
	children []*Node
	span     token.Span
	message  string // error nodes only
}

// Kind returns the node's tag.
func (n *Node) Kind() Kind {
	if n == nil {
		return InvalidKind
	}
	return n.kind
}

// Is reports whether the node is non-nil and has the given kind.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.kind == k
}

// IsToken reports whether the node is a leaf.
func (n *Node) IsToken() bool {
	return n.Is(TokenNode)
}

// IsError reports whether the node marks text the parser could not match.
func (n *Node) IsError() bool {
	return n.Is(ErrorNode)
}

// IsTrivia reports whether the node is a whitespace or comment leaf.
func (n *Node) IsTrivia() bool {
	return n.IsToken() && n.tok.Type.IsTrivia()
}

// Token returns the token of a leaf.
func (n *Node) Token() (token.Token, bool) {
	if !n.IsToken() {
		return token.Token{}, false
	}
	return n.tok, true
}

// TokenType returns the token type of a leaf, or EOF for rule nodes.
func (n *Node) TokenType() token.TokenType {
	if !n.IsToken() {
		return token.EOF
	}
	return n.tok.Type
}

// Message describes what the parser expected, for error nodes.
func (n *Node) Message() string {
	if n == nil {
		return ""
	}
	return n.message
}

// Span returns the byte range the node covers.
func (n *Node) Span() token.Span {
	if n == nil {
		return token.Span{}
	}
	return n.span
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// Child returns the i-th direct child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children yields the direct children in source order, trivia included.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}
		for _, c := range n.children {
			if !yield(c) {
				return
			}
		}
	}
}

// Walk yields the node and all of its descendants depth-first, in source
// order. Each call starts a fresh traversal.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Find yields every descendant (including n) with the given kind.
func (n *Node) Find(k Kind) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for d := range n.Walk() {
			if d.kind == k && !yield(d) {
				return
			}
		}
	}
}

// Tokens yields the leaf tokens under the node in source order.
func (n *Node) Tokens() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for d := range n.Walk() {
			if d.kind == TokenNode && !yield(d.tok) {
				return
			}
		}
	}
}

// Text reconstructs the source text the node spans.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	if n.kind == TokenNode {
		return n.tok.Literal
	}
	var sb strings.Builder
	sb.Grow(n.span.Length)
	for tok := range n.Tokens() {
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}

// FirstToken returns the first significant token under the node.
func (n *Node) FirstToken() (token.Token, bool) {
	for tok := range n.Tokens() {
		if !tok.Type.IsTrivia() {
			return tok, true
		}
	}
	return token.Token{}, false
}

// LastToken returns the last significant token under the node.
func (n *Node) LastToken() (token.Token, bool) {
	var last token.Token
	found := false
	for tok := range n.Tokens() {
		if !tok.Type.IsTrivia() {
			last, found = tok, true
		}
	}
	return last, found
}

// SyntaxError is one Error Node flattened for diagnostics.
type SyntaxError struct {
	Span    token.Span
	Message string
	// Anchor is where an editor should draw the error. It equals Span unless
	// the error covers no significant token, in which case it is the previous
	// significant token (or the error position itself at start of file).
	Anchor token.Span
}

// Errors returns every Error Node under n in source order.
func (n *Node) Errors() []SyntaxError {
	var (
		errs []SyntaxError
		prev *token.Token
	)
	var visit func(*Node)
	visit = func(c *Node) {
		if c.kind == TokenNode {
			if !c.tok.Type.IsTrivia() {
				tok := c.tok
				prev = &tok
			}
			return
		}
		if c.kind == ErrorNode {
			e := SyntaxError{Span: c.span, Message: c.message, Anchor: c.span}
			if first, ok := c.FirstToken(); ok {
				last, _ := c.LastToken()
				e.Anchor = token.Span{Offset: first.Pos.Offset, Length: last.End() - first.Pos.Offset}
			} else if prev != nil {
				e.Anchor = prev.Span()
			} else {
				e.Anchor = token.Span{Offset: c.span.Offset}
			}
			errs = append(errs, e)
		}
		for _, cc := range c.children {
			visit(cc)
		}
	}
	if n != nil {
		visit(n)
	}
	return errs
}

// HasErrors reports whether any Error Node exists under n.
func (n *Node) HasErrors() bool {
	for range n.Find(ErrorNode) {
		return true
	}
	return false
}

// NodeAt returns the deepest node whose span contains offset. Leaves are
// returned when offset falls on a token.
func (n *Node) NodeAt(offset int) *Node {
	if n == nil || !n.span.Contains(offset) {
		return nil
	}
	cur := n
	for {
		var next *Node
		for _, c := range cur.children {
			if c.span.Contains(offset) {
				next = c
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}
