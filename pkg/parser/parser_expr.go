package parser

import (
	"math"

	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Expression parsing uses precedence climbing over the operator table of
// grammar.yaml: prefix operators, then a primary, then any number of
// postfix operators (field access, index, call, cast), then infix operators
// whose precedence is at least the current minimum.
//
//	primary → literal | name | "(" query | expr {"," expr} ")" | record
//	        | array | set | map | case | cast | fstring | lambda | exists
//	        | extract | substring | (DATE|TIMESTAMP|INTERVAL) STRING
//	postfix → "." name | "[" [expr] [":" [expr]] "]" | "(" args ")" | "::" type

// postfixPrecedence is a minimum precedence that admits only primaries and
// postfix operators.
const postfixPrecedence = math.MaxInt32

// parseExpr parses a full expression.
func (p *parse) parseExpr() {
	p.parseExprBP(0)
}

// parseOperand parses an expression if one starts here and reports an
// error otherwise.
func (p *parse) parseOperand(minPrec int) {
	if p.atExprStart() {
		p.parseExprBP(minPrec)
		return
	}
	p.recover(wantExpr)
}

// parseExprBP parses an expression whose infix operators all bind at least
// as tightly as minPrec.
func (p *parse) parseExprBP(minPrec int) {
	defer p.ascend()
	if !p.descend() {
		return
	}

	cp := p.checkpoint()
	p.parseUnary()

	for {
		t := p.at()
		if _, ok := p.syn.Postfix(t); ok && p.postfixApplies(t) {
			p.parsePostfix(cp, t)
			continue
		}
		b, ok := p.syn.Infix(t)
		if !ok || b.Precedence < minPrec {
			return
		}
		if t == token.NOT && !p.atNegatedPredicate() {
			return
		}
		p.parseInfix(cp, t, b)
	}
}

// atNegatedPredicate reports whether NOT starts `NOT IN`, `NOT LIKE` or
// `NOT BETWEEN`.
func (p *parse) atNegatedPredicate() bool {
	switch p.peek(1) {
	case token.IN, token.LIKE, token.BETWEEN:
		return true
	}
	return false
}

func (p *parse) postfixApplies(t token.TokenType) bool {
	return t != token.LPAREN || !p.noCall
}

func (p *parse) parseUnary() {
	if b, ok := p.syn.Prefix(p.at()); ok {
		m := p.open()
		p.bump()
		p.parseOperand(b.Precedence)
		p.b.Close(m, syntax.UnaryExpr)
		return
	}
	p.parsePrimary()
}

func (p *parse) parseInfix(cp syntax.Checkpoint, t token.TokenType, b grammar.Binding) {
	next := b.Precedence + 1
	if b.Assoc == grammar.AssocRight {
		next = b.Precedence
	}

	m := p.b.OpenAt(cp)
	kind := syntax.BinaryExpr
	p.bump()
	if t == token.NOT {
		t = p.at()
		p.bump()
	}

	switch t {
	case token.QUESTION:
		p.parseOperand(0)
		p.expect(token.COLON, quote(":"))
		p.parseOperand(next)
		kind = syntax.ConditionalExpr
	case token.IS:
		p.eat(token.NOT)
		p.parseOperand(next)
		kind = syntax.IsExpr
	case token.IN:
		p.parseOperand(next)
		kind = syntax.InExpr
	case token.BETWEEN:
		p.parseOperand(next)
		p.expect(token.AND, "AND")
		p.parseOperand(next)
		kind = syntax.BetweenExpr
	default:
		p.parseOperand(next)
	}
	p.b.Close(m, kind)
}

func (p *parse) parsePostfix(cp syntax.Checkpoint, t token.TokenType) {
	m := p.b.OpenAt(cp)
	switch t {
	case token.DOT:
		p.bump()
		if isName(p.at()) || p.at().IsKeyword() || p.at() == token.STAR {
			p.bump()
		} else {
			p.recover(wantName)
		}
		p.b.Close(m, syntax.FieldExpr)

	case token.LBRACKET:
		p.bump()
		pop := p.enter(grammar.RuleBracket)
		p.withCalls(func() {
			if p.at() != token.COLON {
				p.parseOperand(0)
			}
			if p.eat(token.COLON) && p.at() != token.RBRACKET {
				p.parseOperand(0)
			}
		})
		pop()
		p.expect(token.RBRACKET, quote("]"))
		p.b.Close(m, syntax.IndexExpr)

	case token.LPAREN:
		p.parseArgList(false)
		p.b.Close(m, syntax.CallExpr)

	case token.CAST_OP:
		p.bump()
		p.parseType(false)
		p.b.Close(m, syntax.TypeCast)
	}
}

// parseArgList parses a parenthesized argument list. With sql set, FROM
// and FOR also separate arguments, as in SUBSTRING(s FROM 1 FOR 2).
func (p *parse) parseArgList(sql bool) {
	pop := p.enter(grammar.RuleArgList)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // (
	if p.at() != token.RPAREN {
		for {
			p.parseArg()
			if p.eat(token.COMMA) {
				continue
			}
			if sql && (p.eat(token.FROM) || p.eat(token.FOR)) {
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN, quote(")"))
	p.b.Close(m, syntax.ArgList)
}

func (p *parse) parseArg() {
	if p.at() == token.STAR && (p.peek(1) == token.RPAREN || p.peek(1) == token.COMMA) {
		m := p.open()
		p.bump()
		p.b.Close(m, syntax.StarExpr)
		return
	}
	if p.at() == token.DISTINCT || p.at() == token.ALL {
		p.bump()
	}
	p.parseOperand(0)
}

// ---------- Primaries ----------

// atExprStart reports whether an expression can start at the current token.
func (p *parse) atExprStart() bool {
	t := p.at()
	if t.IsLiteral() && t != token.FSTRING_TEXT && t != token.FSTRING_END {
		return true
	}
	if isName(t) {
		return true
	}
	if _, ok := p.syn.Prefix(t); ok {
		return true
	}
	switch t {
	case token.TRUE, token.FALSE, token.NULL,
		token.LPAREN, token.LBRACE, token.LBRACKET, token.LSET, token.LMAP,
		token.CASE, token.CAST, token.EXTRACT, token.SUBSTRING, token.EXISTS,
		token.LAMBDA, token.DATE, token.TIMESTAMP, token.INTERVAL:
		return true
	}
	return false
}

func (p *parse) parsePrimary() {
	t := p.at()
	switch {
	case t == token.FSTRING_START:
		p.parseFString()

	case isName(t):
		m := p.open()
		p.bump()
		p.b.Close(m, syntax.NameRef)

	case t == token.DATE || t == token.TIMESTAMP || t == token.INTERVAL:
		m := p.open()
		p.bump()
		if p.at() == token.STRING {
			p.bump()
			p.b.Close(m, syntax.TypedLiteral)
		} else {
			p.b.Close(m, syntax.NameRef)
		}

	case t.IsLiteral() && t != token.FSTRING_TEXT && t != token.FSTRING_END,
		t == token.TRUE, t == token.FALSE, t == token.NULL:
		m := p.open()
		p.bump()
		p.b.Close(m, syntax.Literal)

	case t == token.LPAREN:
		p.parseParen()
	case t == token.LBRACE:
		p.parseRecord()
	case t == token.LBRACKET:
		p.parseSequence(token.RBRACKET, grammar.RuleBracket, syntax.ArrayExpr)
	case t == token.LSET:
		p.parseSequence(token.RSET, grammar.RuleSet, syntax.SetExpr)
	case t == token.LMAP:
		p.parseMap()
	case t == token.CASE:
		p.parseCase()
	case t == token.CAST:
		p.parseCast()
	case t == token.EXTRACT:
		p.parseExtract()
	case t == token.SUBSTRING:
		m := p.open()
		p.bump()
		if p.at() == token.LPAREN {
			p.parseArgList(true)
			p.b.Close(m, syntax.CallExpr)
		} else {
			p.b.Close(m, syntax.NameRef)
		}
	case t == token.EXISTS:
		m := p.open()
		p.bump()
		p.withCalls(p.parseParenQuery)
		p.b.Close(m, syntax.ExistsExpr)
	case t == token.LAMBDA:
		p.parseLambda()

	default:
		p.recover(wantExpr)
	}
}

// atQueryStart reports whether the current token can only start a query,
// not an expression.
func (p *parse) atQueryStart() bool {
	return p.atAny(token.SELECT, token.WITH) || p.atDeclStart() ||
		(p.atOperatorStart() && !p.atExprStart()) ||
		(p.at().IsPipeKeyword() && p.atOperatorStart())
}

// parseParen parses a parenthesized expression, expression list or query.
func (p *parse) parseParen() {
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // (
	pop := p.enter(grammar.RuleParen)

	kind := syntax.ParenExpr
	switch {
	case p.at() == token.RPAREN:
		p.missing(wantExpr)
	case p.atQueryStart():
		kind = syntax.SubqueryExpr
		p.parseScopeBody()
	default:
		cp := p.checkpoint()
		p.parseOperand(0)
		if p.atPipe() {
			kind = syntax.SubqueryExpr
			p.parsePipelineTail(cp)
		}
		for p.eat(token.COMMA) {
			p.parseOperand(0)
		}
	}
	pop()
	p.expect(token.RPAREN, quote(")"))
	p.b.Close(m, kind)
}

// parseRecord parses `{ field {"," field} }` where a field is `name: expr`,
// `...expr` or a bare expression.
func (p *parse) parseRecord() {
	pop := p.enter(grammar.RuleRecord)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // {
	for p.at() != token.RBRACE && !p.atEOF() {
		switch {
		case p.at() == token.SPREAD:
			p.parseSpread()
		case p.atFieldLabel():
			f := p.open()
			p.bump()
			p.bump() // :
			p.parseOperand(0)
			p.b.Close(f, syntax.RecordField)
		case p.atExprStart():
			f := p.open()
			p.parseExpr()
			p.b.Close(f, syntax.RecordField)
		default:
			p.recover(wantExpr)
		}
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE, quote("}"))
	p.b.Close(m, syntax.RecordExpr)
}

// atFieldLabel reports whether the current token labels a record field:
// a name, string or keyword followed by ":".
func (p *parse) atFieldLabel() bool {
	t := p.at()
	if p.peek(1) != token.COLON {
		return false
	}
	return isName(t) || t == token.STRING || t.IsKeyword()
}

func (p *parse) parseSpread() {
	m := p.open()
	p.bump()
	p.parseOperand(0)
	p.b.Close(m, syntax.SpreadExpr)
}

// parseSequence parses an array or set literal.
func (p *parse) parseSequence(closing token.TokenType, rule grammar.Rule, kind syntax.Kind) {
	pop := p.enter(rule)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump()
	for p.at() != closing && !p.atEOF() {
		if p.at() == token.SPREAD {
			p.parseSpread()
		} else {
			p.parseOperand(0)
		}
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expect(closing, quote(closingText(closing)))
	p.b.Close(m, kind)
}

func (p *parse) parseMap() {
	pop := p.enter(grammar.RuleMap)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // |{
	for p.at() != token.RMAP && !p.atEOF() {
		e := p.open()
		p.parseOperand(0)
		p.expect(token.COLON, quote(":"))
		p.parseOperand(0)
		p.b.Close(e, syntax.MapEntry)
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expect(token.RMAP, quote("}|"))
	p.b.Close(m, syntax.MapExpr)
}

func closingText(t token.TokenType) string {
	switch t {
	case token.RBRACKET:
		return "]"
	case token.RSET:
		return "]|"
	case token.RMAP:
		return "}|"
	case token.RBRACE:
		return "}"
	}
	return ")"
}

// parseCase parses `CASE [expr] { WHEN expr THEN expr } [ELSE expr] END`.
func (p *parse) parseCase() {
	pop := p.enter(grammar.RuleCase)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // CASE
	if p.at() != token.WHEN && p.atExprStart() {
		p.parseExpr()
	}
	if p.at() != token.WHEN {
		p.recover(wantWhen)
	}
	for p.at() == token.WHEN {
		w := p.open()
		p.bump()
		p.parseOperand(0)
		p.expect(token.THEN, "THEN")
		p.parseOperand(0)
		p.b.Close(w, syntax.WhenClause)
	}
	if p.at() == token.ELSE {
		e := p.open()
		p.bump()
		p.parseOperand(0)
		p.b.Close(e, syntax.ElseClause)
	}
	p.expect(token.END, "END")
	p.b.Close(m, syntax.CaseExpr)
}

// parseCast parses `CAST "(" expr (AS|",") type ")"`.
func (p *parse) parseCast() {
	m := p.open()
	p.bump() // CAST
	if p.at() != token.LPAREN {
		p.b.Close(m, syntax.NameRef)
		return
	}
	pop := p.enter(grammar.RuleParen)
	saved := p.noCall
	p.noCall = false
	p.bump()
	p.parseOperand(0)
	if p.at() == token.AS || p.at() == token.COMMA {
		p.bump()
	} else {
		p.recover("AS")
	}
	p.parseType(true)
	p.noCall = saved
	pop()
	p.expect(token.RPAREN, quote(")"))
	p.b.Close(m, syntax.CastExpr)
}

// parseExtract parses `EXTRACT "(" name FROM expr ")"`.
func (p *parse) parseExtract() {
	m := p.open()
	p.bump() // EXTRACT
	if p.at() != token.LPAREN {
		p.b.Close(m, syntax.NameRef)
		return
	}
	pop := p.enter(grammar.RuleParen)
	saved := p.noCall
	p.noCall = false
	p.bump()
	if isName(p.at()) || p.at().IsKeyword() {
		p.bump()
	} else {
		p.recover(wantName)
	}
	p.expect(token.FROM, "FROM")
	p.parseOperand(0)
	p.noCall = saved
	pop()
	p.expect(token.RPAREN, quote(")"))
	p.b.Close(m, syntax.ExtractExpr)
}

// parseLambda parses `LAMBDA params ":" expr`; the parameters may be
// parenthesized.
func (p *parse) parseLambda() {
	m := p.open()
	p.bump() // LAMBDA
	p.parseParams(p.at() == token.LPAREN)
	p.expect(token.COLON, quote(":"))
	p.parseOperand(0)
	p.b.Close(m, syntax.LambdaExpr)
}

// parseFString parses `f"` { text | "{" expr "}" } `"`.
func (p *parse) parseFString() {
	pop := p.enter(grammar.RuleFString)
	defer pop()
	saved := p.noCall
	p.noCall = false
	defer func() { p.noCall = saved }()

	m := p.open()
	p.bump() // f"
	for {
		switch p.at() {
		case token.FSTRING_TEXT:
			p.bump()
			continue
		case token.LBRACE:
			i := p.open()
			p.bump()
			p.parseOperand(0)
			p.expect(token.RBRACE, quote("}"))
			p.b.Close(i, syntax.Interpolation)
			continue
		}
		break
	}
	p.expect(token.FSTRING_END, `'"'`)
	p.b.Close(m, syntax.FString)
}
