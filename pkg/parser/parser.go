// Package parser turns SuperSQL text into a lossless syntax tree.
//
// # Usage
//
//	root := parser.ParseText("select a from t | head 5")
//	for _, e := range root.Errors() {
//	    // report e.Span, e.Message
//	}
//
// Parsing never fails: text the grammar cannot match becomes Error Nodes
// and the parser resumes at the next synchronization token of the
// enclosing rules (see grammar.yaml). Every token, trivia included, ends up
// as a leaf of the tree, so root.Text() always equals the input.
//
// # Grammar Overview
//
// The parser is recursive descent for statements, SQL clauses and pipe
// operators, and precedence climbing for expressions:
//
//	file      → { statement [";"] } EOF
//	statement → decl | query
//	query     → element { ("|" | "|>") element }
//	element   → sql_query | operator | expr
//
// See each file for the rules of that section.
package parser

import (
	"fmt"
	"sync"

	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Parser builds syntax trees from token streams. It holds only the
// compiled tables and is safe for concurrent use.
type Parser struct {
	tables *grammar.Tables
	lexer  *Lexer
}

// NewParser creates a parser over compiled tables.
func NewParser(tables *grammar.Tables) *Parser {
	return &Parser{tables: tables, lexer: NewLexer(tables.Lexical)}
}

var defaults = sync.OnceValue(func() *Parser {
	return NewParser(grammar.Default())
})

func defaultLexer() *Lexer {
	return defaults().lexer
}

// Parse builds a tree from tokens using the default grammar.
func Parse(tokens []token.Token) *syntax.Node {
	return defaults().Parse(tokens)
}

// ParseText lexes and parses text using the default grammar.
func ParseText(text string) *syntax.Node {
	return defaults().ParseText(text)
}

// ParseText lexes and parses text.
func (p *Parser) ParseText(text string) *syntax.Node {
	return p.Parse(p.lexer.Tokenize(text))
}

// Parse builds a tree from a token stream as produced by a Lexer. A missing
// trailing EOF is added. It panics with *InvariantError when the stream is
// not contiguous.
func (p *Parser) Parse(tokens []token.Token) *syntax.Node {
	toks := checkStream(tokens)
	ps := &parse{
		syn:     p.tables.Syntax,
		toks:    toks,
		b:       syntax.NewBuilder(),
		lastErr: -1,
	}
	for i, tok := range toks {
		if !tok.Type.IsTrivia() {
			ps.sig = append(ps.sig, i)
		}
	}
	ps.parseFile()
	root := ps.b.Root()

	end := toks[len(toks)-1].Pos.Offset
	if ps.flushed != len(toks)-1 {
		panic(&InvariantError{Invariant: "all tokens consumed", Detail: fmt.Sprintf("%d of %d tokens in tree", ps.flushed, len(toks)-1)})
	}
	if root.Span().Length != end {
		panic(&InvariantError{Invariant: "lossless tree", Detail: fmt.Sprintf("tree spans %d bytes, input has %d", root.Span().Length, end)})
	}
	return root
}

// checkStream validates contiguity and returns the stream with exactly one
// EOF at its end.
func checkStream(tokens []token.Token) []token.Token {
	offset := 0
	for i, tok := range tokens {
		if tok.Pos.Offset != offset {
			panic(&InvariantError{Invariant: "contiguous tokens", Detail: fmt.Sprintf("token %d (%s) at offset %d, expected %d", i, tok.Type, tok.Pos.Offset, offset)})
		}
		if tok.Type == token.EOF && i != len(tokens)-1 {
			panic(&InvariantError{Invariant: "contiguous tokens", Detail: fmt.Sprintf("EOF at token %d of %d", i, len(tokens))})
		}
		offset = tok.End()
	}
	if n := len(tokens); n > 0 && tokens[n-1].Type == token.EOF {
		return tokens
	}

	pos := token.Position{Line: 1, Column: 1, Offset: offset}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		pos = last.Pos
		for _, c := range []byte(last.Literal) {
			if c == '\n' {
				pos.Line++
				pos.Column = 1
			} else {
				pos.Column++
			}
		}
		pos.Offset = offset
	}
	out := make([]token.Token, len(tokens), len(tokens)+1)
	copy(out, tokens)
	return append(out, token.Token{Type: token.EOF, Pos: pos})
}

// InvariantError reports a broken internal guarantee of the parser. It is
// the only value the parser panics with, and always indicates a bug or a
// hand-built token stream that no Lexer could produce.
type InvariantError struct {
	Invariant string
	Detail    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("parser invariant %q violated: %s", e.Invariant, e.Detail)
}

// parse is the state of one Parse call.
type parse struct {
	syn     *grammar.SyntaxTables
	toks    []token.Token
	sig     []int // indexes of significant tokens in toks, EOF last
	i       int   // current position in sig
	flushed int   // tokens of toks already pushed to the builder
	b       *syntax.Builder

	recovery []token.Set // cumulative sync sets of the enclosing rules
	lastErr  int         // position in sig where the last Error Node ended
	depth    int
	noCall   bool // "(" after an operand starts a scope, not a call
}

// ---------- Token Helpers ----------

// at returns the type of the current significant token.
func (p *parse) at() token.TokenType {
	return p.toks[p.sig[p.i]].Type
}

// peek returns the type of the significant token n positions ahead.
func (p *parse) peek(n int) token.TokenType {
	j := p.i + n
	if j >= len(p.sig) {
		return token.EOF
	}
	return p.toks[p.sig[j]].Type
}

// cur returns the current significant token.
func (p *parse) cur() token.Token {
	return p.toks[p.sig[p.i]]
}

func (p *parse) atEOF() bool {
	return p.at() == token.EOF
}

// atAny reports whether the current token is one of types.
func (p *parse) atAny(types ...token.TokenType) bool {
	t := p.at()
	for _, tt := range types {
		if t == tt {
			return true
		}
	}
	return false
}

// newlineBefore reports whether the trivia before the current token
// contain a line break.
func (p *parse) newlineBefore() bool {
	for j := p.sig[p.i] - 1; j >= 0 && p.toks[j].Type.IsTrivia(); j-- {
		for _, c := range []byte(p.toks[j].Literal) {
			if c == '\n' {
				return true
			}
		}
	}
	return false
}

// adjacent reports whether the significant tokens at n and n+1 touch, with
// no trivia between them.
func (p *parse) adjacent(n int) bool {
	j := p.i + n
	if j+1 >= len(p.sig) {
		return false
	}
	return p.sig[j]+1 == p.sig[j+1]
}

// flushTrivia pushes the trivia before the current token into the
// innermost open node.
func (p *parse) flushTrivia() {
	for p.flushed < p.sig[p.i] {
		p.b.Push(p.toks[p.flushed])
		p.flushed++
	}
}

// bump consumes the current token. EOF is never consumed.
func (p *parse) bump() {
	if p.atEOF() {
		return
	}
	p.flushTrivia()
	p.b.Push(p.toks[p.sig[p.i]])
	p.flushed++
	p.i++
}

// eat consumes the current token if it has type t.
func (p *parse) eat(t token.TokenType) bool {
	if p.at() == t {
		p.bump()
		return true
	}
	return false
}

// open starts a node at the current token. Pending trivia go to the parent.
func (p *parse) open() syntax.Marker {
	p.flushTrivia()
	return p.b.Open()
}

// checkpoint marks the current token so a node can later be wrapped
// around what follows it.
func (p *parse) checkpoint() syntax.Checkpoint {
	p.flushTrivia()
	return p.b.Checkpoint()
}

// ---------- Recovery ----------

// enter pushes the recovery set of rule on top of the enclosing ones. The
// returned function pops it.
func (p *parse) enter(rule grammar.Rule) func() {
	p.recovery = append(p.recovery, p.sync().Union(p.syn.Recovery(rule)))
	return func() {
		p.recovery = p.recovery[:len(p.recovery)-1]
	}
}

// sync returns the tokens the parser may resynchronize on.
func (p *parse) sync() token.Set {
	if len(p.recovery) == 0 {
		return token.Set{}
	}
	return p.recovery[len(p.recovery)-1]
}

// closeError closes m as an Error Node.
func (p *parse) closeError(m syntax.Marker, msg string) {
	p.b.CloseError(m, msg)
	p.lastErr = p.i
}

// missing emits an Error Node with no significant tokens. It absorbs the
// pending trivia so the node spans the gap where something was expected.
// Nothing is emitted right after another Error Node: one mistake yields
// one error, not one per construct still waiting for input.
func (p *parse) missing(expected string) {
	if p.lastErr == p.i {
		return
	}
	m := p.b.Open()
	p.flushTrivia()
	p.closeError(m, fmt.Sprintf(ErrExpected, expected))
}

// recover reports that expected was not found. If the current token is a
// synchronization token (or EOF) a missing node is emitted; otherwise the
// tokens up to the next synchronization token are wrapped in an Error Node.
func (p *parse) recover(expected string) {
	p.recoverUntil(expected, token.Set{})
}

// recoverUntil is recover with extra synchronization tokens.
func (p *parse) recoverUntil(expected string, extra token.Set) {
	stop := p.sync().Union(extra)
	if p.atEOF() || stop.Has(p.at()) {
		p.missing(expected)
		return
	}
	msg := fmt.Sprintf(ErrUnexpected, describe(p.cur()), expected)
	m := p.open()
	for !p.atEOF() && !stop.Has(p.at()) {
		p.bump()
	}
	p.closeError(m, msg)
}

// skip wraps at least one token, and everything up to the next
// synchronization token, in an Error Node.
func (p *parse) skip(msg string) {
	m := p.open()
	p.bump()
	for !p.atEOF() && !p.sync().Has(p.at()) {
		p.bump()
	}
	p.closeError(m, msg)
}

// expect consumes a token of type t, recovering when it is absent. what
// names the token in the error message.
func (p *parse) expect(t token.TokenType, what string) bool {
	if p.eat(t) {
		return true
	}
	p.recoverUntil(what, token.NewSet(t))
	return p.eat(t)
}

// descend enters one level of nesting. Past the configured maximum it
// reports an error, absorbs the offending tokens and returns false. Every
// call must be paired with ascend.
func (p *parse) descend() bool {
	p.depth++
	if p.depth <= p.syn.MaxDepth {
		return true
	}
	m := p.open()
	for !p.atEOF() && !p.sync().Has(p.at()) {
		p.bump()
	}
	p.closeError(m, ErrTooDeep)
	return false
}

func (p *parse) ascend() {
	p.depth--
}
