package parser

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Lexer splits SuperSQL text into tokens, trivia included. It never fails:
// text no rule matches becomes ILLEGAL tokens. A Lexer keeps no per-input
// state and is safe for concurrent use.
type Lexer struct {
	tables *grammar.LexTables
}

// NewLexer creates a Lexer over compiled lexical tables.
func NewLexer(tables *grammar.LexTables) *Lexer {
	return &Lexer{tables: tables}
}

// Tokenize returns all tokens of text, ending with EOF.
func (l *Lexer) Tokenize(text string) []token.Token {
	var tokens []token.Token
	for tok := range l.Scan(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Scan yields the tokens of text lazily, ending with EOF.
func (l *Lexer) Scan(text string) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		s := &scanner{
			input: text,
			line:  1,
			col:   1,
			stack: []*grammar.State{l.tables.Initial()},
		}
		for {
			tok := s.next()
			if !yield(tok) || tok.Type == token.EOF {
				return
			}
		}
	}
}

// Tokenize returns all tokens of text using the default rules.
func Tokenize(text string) []token.Token {
	return defaultLexer().Tokenize(text)
}

// scanner is the per-input state of a Lexer.
type scanner struct {
	input  string
	offset int
	line   int
	col    int
	stack  []*grammar.State
}

func (s *scanner) next() token.Token {
	pos := token.Position{Line: s.line, Column: s.col, Offset: s.offset}
	if s.offset >= len(s.input) {
		return token.Token{Type: token.EOF, Pos: pos}
	}

	rest := s.input[s.offset:]
	state := s.stack[len(s.stack)-1]

	// Longest match; rules are ordered by priority, so a later rule only
	// wins when strictly longer.
	var best *grammar.LexRule
	size := 0
	for _, r := range state.Candidates(rest[0]) {
		if n := r.Match(rest); n > size {
			best, size = r, n
		}
	}

	typ := token.ILLEGAL
	if best == nil {
		// One rune, or one byte of invalid UTF-8.
		_, size = utf8.DecodeRuneInString(rest)
	} else {
		typ = best.Type
		switch {
		case best.Pop:
			s.pop()
		case best.Push != nil:
			s.stack = append(s.stack, best.Push)
		}
	}

	lit := rest[:size]
	s.advance(lit)
	return token.Token{Type: typ, Literal: lit, Pos: pos}
}

// pop leaves the current state. The initial state is never popped.
func (s *scanner) pop() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *scanner) advance(lit string) {
	s.offset += len(lit)
	if nl := strings.Count(lit, "\n"); nl > 0 {
		s.line += nl
		s.col = len(lit) - strings.LastIndexByte(lit, '\n')
		return
	}
	s.col += len(lit)
}
