package parser

import (
	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Type grammar:
//
//	type      → atom { "|" atom }
//	atom      → TYPENAME | NULL | name
//	          | "{" [field {"," field}] "}"
//	          | "[" type "]" | "|[" type "]|" | "|{" type ":" type "}|"
//	field     → (name | STRING | keyword) ":" type
//
// Unions are only parsed where "|" cannot mean a pipe: inside brackets and
// in type declarations.

// parseType parses a type. With union set, "|" joins alternatives.
func (p *parse) parseType(union bool) {
	defer p.ascend()
	if !p.descend() {
		return
	}
	pop := p.enter(grammar.RuleType)
	defer pop()

	cp := p.checkpoint()
	p.parseTypeAtom()
	if !union || p.at() != token.PIPE {
		return
	}
	m := p.b.OpenAt(cp)
	for p.eat(token.PIPE) {
		p.parseTypeAtom()
	}
	p.b.Close(m, syntax.UnionType)
}

func (p *parse) parseTypeAtom() {
	t := p.at()
	if !atTypeStart(t) {
		p.recover(wantType)
		return
	}
	m := p.open()
	switch {
	case t == token.TYPENAME || t == token.NULL || t == token.DATE || t == token.TIMESTAMP:
		p.bump()
		p.b.Close(m, syntax.PrimitiveType)

	case isName(t):
		p.bump()
		p.b.Close(m, syntax.NamedType)

	case t == token.LBRACE:
		p.bump()
		pop := p.enter(grammar.RuleRecord)
		for p.at() != token.RBRACE && !p.atEOF() {
			f := p.open()
			if isName(p.at()) || p.at() == token.STRING || p.at().IsKeyword() {
				p.bump()
			} else {
				p.recover(wantName)
			}
			p.expect(token.COLON, quote(":"))
			p.parseType(true)
			p.b.Close(f, syntax.TypeField)
			if !p.eat(token.COMMA) {
				break
			}
		}
		pop()
		p.expect(token.RBRACE, quote("}"))
		p.b.Close(m, syntax.RecordType)

	case t == token.LBRACKET:
		p.bump()
		p.parseType(true)
		p.expect(token.RBRACKET, quote("]"))
		p.b.Close(m, syntax.ArrayType)

	case t == token.LSET:
		p.bump()
		p.parseType(true)
		p.expect(token.RSET, quote("]|"))
		p.b.Close(m, syntax.SetType)

	case t == token.LMAP:
		p.bump()
		p.parseType(true)
		p.expect(token.COLON, quote(":"))
		p.parseType(true)
		p.expect(token.RMAP, quote("}|"))
		p.b.Close(m, syntax.MapType)
	}
}

func atTypeStart(t token.TokenType) bool {
	switch t {
	case token.TYPENAME, token.NULL, token.DATE, token.TIMESTAMP,
		token.LBRACE, token.LBRACKET, token.LSET, token.LMAP:
		return true
	}
	return isName(t)
}
