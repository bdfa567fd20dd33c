package parser

import (
	"fmt"

	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Statement grammar:
//
//	file        → { statement [";"] } EOF
//	statement   → decl | query
//	decl        → const_decl | let_decl | fn_decl | op_decl | type_decl | pragma_decl
//	const_decl  → CONST name "=" expr
//	let_decl    → LET name "=" expr { "," name "=" expr }
//	fn_decl     → FN name params ":" expr
//	op_decl     → OP name params ":" scope
//	type_decl   → TYPE name "=" type
//	pragma_decl → PRAGMA name ["=" expr]
//	scope       → "(" { decl [";"] } query ")"
//	query       → element { ("|" | "|>") element }

// parseFile parses the whole token stream into the root node.
func (p *parse) parseFile() {
	m := p.b.Open()
	pop := p.enter(grammar.RuleFile)

	for !p.atEOF() {
		switch {
		case p.at() == token.SEMICOLON:
			p.bump()
		case p.atStatementStart():
			p.parseStatement()
		default:
			p.skip(fmt.Sprintf(ErrStray, describe(p.cur())))
		}
	}

	pop()
	p.flushTrivia()
	p.b.Close(m, syntax.File)
}

// parseStatement parses one declaration or query.
func (p *parse) parseStatement() {
	pop := p.enter(grammar.RuleStatement)
	defer pop()

	if p.atDeclStart() {
		p.parseDecl()
		return
	}
	p.parseQuery()
	if p.atEOF() || p.atAny(token.SEMICOLON, token.RPAREN) || p.atNextStatement() {
		return
	}
	p.recover(wantStmtEnd)
}

// atNextStatement reports whether a new statement may start at the current
// token without a separating ";": it must begin with a keyword, or sit on a
// new line.
func (p *parse) atNextStatement() bool {
	if !p.atStatementStart() {
		return false
	}
	return p.at().IsKeyword() || p.newlineBefore()
}

func (p *parse) atStatementStart() bool {
	return p.atDeclStart() || p.atElementStart()
}

func (p *parse) atDeclStart() bool {
	switch p.at() {
	case token.CONST, token.LET, token.FN, token.OP, token.TYPE, token.PRAGMA:
		return true
	}
	return false
}

// ---------- Declarations ----------

func (p *parse) parseDecl() {
	pop := p.enter(grammar.RuleDecl)
	defer pop()

	m := p.open()
	switch p.at() {
	case token.CONST:
		p.bump()
		p.expectName()
		p.expect(token.EQUALS, quote("="))
		p.parseOperand(0)
		p.b.Close(m, syntax.ConstDecl)

	case token.LET:
		p.bump()
		for {
			p.expectName()
			p.expect(token.EQUALS, quote("="))
			p.parseOperand(0)
			if !p.eat(token.COMMA) {
				break
			}
		}
		p.b.Close(m, syntax.LetDecl)

	case token.FN:
		p.bump()
		p.expectName()
		p.parseParams(true)
		p.expect(token.COLON, quote(":"))
		p.parseOperand(0)
		p.b.Close(m, syntax.FnDecl)

	case token.OP:
		p.bump()
		p.expectName()
		p.parseParams(true)
		p.expect(token.COLON, quote(":"))
		p.parseScope()
		p.b.Close(m, syntax.OpDecl)

	case token.TYPE:
		p.bump()
		p.expectName()
		p.expect(token.EQUALS, quote("="))
		p.parseType(true)
		p.b.Close(m, syntax.TypeDecl)

	case token.PRAGMA:
		p.bump()
		p.expectName()
		if p.eat(token.EQUALS) {
			p.parseOperand(0)
		}
		p.b.Close(m, syntax.PragmaDecl)
	}
}

// parseParams parses a parameter list. With parens false the names are
// bare, as in `lambda x, y: ...`.
func (p *parse) parseParams(parens bool) {
	pop := p.enter(grammar.RuleParamList)
	defer pop()

	m := p.open()
	if parens {
		if !p.expect(token.LPAREN, quote("(")) {
			p.b.Close(m, syntax.ParamList)
			return
		}
		if p.eat(token.RPAREN) {
			p.b.Close(m, syntax.ParamList)
			return
		}
	}
	for {
		p.expectName()
		if !p.eat(token.COMMA) {
			break
		}
	}
	if parens {
		p.expect(token.RPAREN, quote(")"))
	}
	p.b.Close(m, syntax.ParamList)
}

// isName reports whether t can be used as a name.
func isName(t token.TokenType) bool {
	return t == token.IDENT || t == token.QUOTED_IDENT || t.IsSoftKeyword()
}

// expectName consumes a name token.
func (p *parse) expectName() bool {
	if isName(p.at()) {
		p.bump()
		return true
	}
	p.recover(wantName)
	return false
}

// ---------- Queries ----------

// parseScope parses a parenthesized block of declarations followed by a
// query.
func (p *parse) parseScope() {
	defer p.ascend()
	if !p.descend() {
		return
	}

	m := p.open()
	if !p.expect(token.LPAREN, wantScope) {
		p.b.Close(m, syntax.Scope)
		return
	}
	pop := p.enter(grammar.RuleScope)
	p.parseScopeBody()
	pop()
	p.expect(token.RPAREN, quote(")"))
	p.b.Close(m, syntax.Scope)
}

// parseScopeBody parses `{ decl [";"] } query` up to a closing paren.
func (p *parse) parseScopeBody() {
	for p.atDeclStart() {
		p.parseDecl()
		p.eat(token.SEMICOLON)
	}
	if p.at() == token.RPAREN {
		return
	}
	if p.atElementStart() {
		p.parseQuery()
		return
	}
	p.recover(wantQuery)
}

// parseQuery parses a pipeline. A single element is not wrapped.
func (p *parse) parseQuery() {
	defer p.ascend()
	if !p.descend() {
		return
	}

	cp := p.checkpoint()
	pop := p.enter(grammar.RulePipeline)
	p.parseElement()
	pop()
	p.parsePipelineTail(cp)
}

// parsePipelineTail wraps everything since cp in a pipeline when a pipe
// follows, and parses the remaining elements.
func (p *parse) parsePipelineTail(cp syntax.Checkpoint) {
	if !p.atPipe() {
		return
	}
	pop := p.enter(grammar.RulePipeline)
	defer pop()

	m := p.b.OpenAt(cp)
	for p.atPipe() {
		p.bump()
		if p.atElementStart() {
			p.parseElement()
		} else {
			p.recover(wantOperator)
		}
	}
	p.b.Close(m, syntax.Pipeline)
}

func (p *parse) atPipe() bool {
	return p.at() == token.PIPE || p.at() == token.PIPE_GT
}

// atElementStart reports whether a pipeline element can start here.
func (p *parse) atElementStart() bool {
	t := p.at()
	if t == token.SELECT || t == token.WITH {
		return true
	}
	return p.atOperatorStart() || p.atExprStart()
}

// parseElement parses one pipeline element.
func (p *parse) parseElement() {
	switch {
	case p.atAny(token.SELECT, token.WITH):
		p.parseSQLQuery()
	case p.atOperatorStart():
		p.parseOperator()
	default:
		p.parseImplied()
	}
}
