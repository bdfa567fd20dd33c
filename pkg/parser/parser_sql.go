package parser

import (
	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// SQL grammar:
//
//	sql_query   → [WITH [RECURSIVE] cte {"," cte}] select_core
//	              { UNION [ALL|DISTINCT] select_core }
//	cte         → name AS "(" query ")"
//	select_core → SELECT [DISTINCT|ALL] projection [from] [where]
//	              [group_by] [having] [order_by] [limit]
//	projection  → item {"," item}
//	item        → "*" | expr [[AS] name]
//	from        → FROM source {"," source | join}
//	source      → (operand | "(" query ")") [[AS] name]
//	            | UNNEST expr [WITH ORDINALITY] [[AS] name]
//	join        → [LEFT|RIGHT|INNER|FULL|CROSS|ANTI] [OUTER] JOIN source
//	              [ON expr | USING "(" name {"," name} ")"]
//
// ORDER BY and LIMIT belong to the select-clause they follow, so in a
// UNION they attach to the last branch.

// parseSQLQuery parses a SELECT statement, optionally with CTEs.
func (p *parse) parseSQLQuery() {
	if p.at() != token.WITH {
		p.parseSelectChain()
		return
	}
	m := p.open()
	p.parseWithClause()
	if p.at() == token.SELECT {
		p.parseSelectChain()
	} else {
		p.recover(wantSelect)
	}
	p.b.Close(m, syntax.SQLQuery)
}

// parseSelectChain parses select-clauses joined by UNION.
func (p *parse) parseSelectChain() {
	cp := p.checkpoint()
	p.parseSelect()
	for p.at() == token.UNION {
		m := p.b.OpenAt(cp)
		p.bump()
		if p.at() == token.ALL || p.at() == token.DISTINCT {
			p.bump()
		}
		if p.at() == token.SELECT {
			p.parseSelect()
		} else {
			p.recover(wantSelect)
		}
		p.b.Close(m, syntax.SetOperation)
	}
}

func (p *parse) parseWithClause() {
	pop := p.enter(grammar.RuleWith)
	defer pop()

	m := p.open()
	p.bump() // WITH
	p.eat(token.RECURSIVE)
	for {
		if isName(p.at()) {
			p.parseCTE()
		} else {
			p.recover(wantCTE)
		}
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.b.Close(m, syntax.WithClause)
}

func (p *parse) parseCTE() {
	m := p.open()
	p.bump() // name
	p.expect(token.AS, "AS")
	p.parseParenQuery()
	p.b.Close(m, syntax.CTE)
}

// parseParenQuery parses `"(" query ")"` into the open node.
func (p *parse) parseParenQuery() {
	if !p.expect(token.LPAREN, quote("(")) {
		return
	}
	pop := p.enter(grammar.RuleParen)
	p.parseScopeBody()
	pop()
	p.expect(token.RPAREN, quote(")"))
}

// parseSelect parses SELECT through its trailing clauses. A SELECT followed
// by nothing it could own becomes a single Error Node.
func (p *parse) parseSelect() {
	pop := p.enter(grammar.RuleSelect)
	defer pop()

	m := p.open()
	p.bump() // SELECT
	if p.at() == token.DISTINCT || p.at() == token.ALL {
		p.bump()
	}

	switch {
	case p.at() == token.STAR || p.atExprStart():
		p.parseProjectionList()
	case p.at() == token.FROM || p.atSelectClause():
		p.missing(wantProjection)
	case p.atEOF() || p.sync().Has(p.at()):
		p.closeError(m, ErrEmptySelect)
		return
	default:
		p.recover(wantProjection)
	}

	if p.at() == token.FROM {
		p.parseFromClause(syntax.FromClause)
	}
	p.parseClauses()
	p.b.Close(m, syntax.SelectClause)
}

// atSelectClause reports whether the current token starts a clause that may
// follow the projection.
func (p *parse) atSelectClause() bool {
	switch p.at() {
	case token.WHERE, token.GROUP, token.HAVING, token.ORDER, token.LIMIT, token.OFFSET:
		return true
	}
	return false
}

// parseClauses parses the optional WHERE .. LIMIT clauses in order.
func (p *parse) parseClauses() {
	if p.at() == token.WHERE {
		p.parseWhereClause()
	}
	if p.at() == token.GROUP {
		p.parseGroupBy()
	}
	if p.at() == token.HAVING {
		p.parseHaving()
	}
	if p.at() == token.ORDER {
		p.parseOrderBy()
	}
	if p.at() == token.LIMIT || p.at() == token.OFFSET {
		p.parseLimit()
	}
}

func (p *parse) parseProjectionList() {
	pop := p.enter(grammar.RuleProjection)
	defer pop()

	m := p.open()
	for {
		if p.at() == token.STAR || p.atExprStart() {
			p.parseProjection()
		} else {
			p.recover(wantExpr)
		}
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.b.Close(m, syntax.ProjectionList)
}

func (p *parse) parseProjection() {
	m := p.open()
	if p.at() == token.STAR {
		s := p.open()
		p.bump()
		p.b.Close(s, syntax.StarExpr)
	} else {
		p.parseExpr()
		p.parseAlias()
	}
	p.b.Close(m, syntax.Projection)
}

// parseAlias parses an optional `[AS] name`. Without AS only plain and
// quoted identifiers count, so keywords are never taken as aliases.
func (p *parse) parseAlias() {
	switch {
	case p.at() == token.AS:
		m := p.open()
		p.bump()
		p.expectName()
		p.b.Close(m, syntax.Alias)
	case p.at() == token.IDENT || p.at() == token.QUOTED_IDENT:
		m := p.open()
		p.bump()
		p.b.Close(m, syntax.Alias)
	}
}

// parseFromClause parses FROM with its sources and joins, closing the node
// as kind (from-clause, or from-op in a pipeline).
func (p *parse) parseFromClause(kind syntax.Kind) {
	pop := p.enter(grammar.RuleFrom)
	defer pop()

	m := p.open()
	p.bump() // FROM
	p.parseSource()
	for {
		switch {
		case p.eat(token.COMMA):
			p.parseSource()
			continue
		case p.atJoin():
			p.parseJoin()
			continue
		}
		break
	}
	p.b.Close(m, kind)
}

func (p *parse) parseSource() {
	m := p.open()
	switch {
	case p.at() == token.UNNEST:
		p.bump()
		p.parseOperand(0)
		if p.at() == token.WITH && p.peek(1) == token.ORDINALITY {
			p.bump()
			p.bump()
		}
	case p.at() == token.LPAREN:
		p.bump()
		pop := p.enter(grammar.RuleParen)
		p.parseScopeBody()
		pop()
		p.expect(token.RPAREN, quote(")"))
	case p.atExprStart():
		p.parseExprBP(postfixPrecedence)
	default:
		p.recover(wantSource)
		p.b.Close(m, syntax.Source)
		return
	}
	p.parseAlias()
	p.b.Close(m, syntax.Source)
}

// atJoin reports whether a join starts here. Join modifiers only count when
// JOIN or OUTER follows, so LEFT and RIGHT stay usable as names.
func (p *parse) atJoin() bool {
	switch p.at() {
	case token.JOIN:
		return true
	case token.LEFT, token.RIGHT, token.INNER, token.FULL, token.CROSS, token.ANTI:
		return p.peek(1) == token.JOIN || p.peek(1) == token.OUTER
	}
	return false
}

func (p *parse) parseJoin() {
	pop := p.enter(grammar.RuleJoin)
	defer pop()

	m := p.open()
	if p.at() != token.JOIN {
		p.bump() // modifier
	}
	p.eat(token.OUTER)
	p.expect(token.JOIN, "JOIN")
	p.parseSource()

	switch p.at() {
	case token.ON:
		p.bump()
		p.parseOperand(0)
	case token.USING:
		u := p.open()
		p.bump()
		p.parseParams(true)
		p.b.Close(u, syntax.UsingList)
	}
	p.b.Close(m, syntax.Join)
}

func (p *parse) parseWhereClause() {
	pop := p.enter(grammar.RuleWhere)
	defer pop()

	m := p.open()
	p.bump()
	p.parseOperand(0)
	p.b.Close(m, syntax.WhereClause)
}

func (p *parse) parseGroupBy() {
	pop := p.enter(grammar.RuleGroupBy)
	defer pop()

	m := p.open()
	p.bump() // GROUP
	p.expect(token.BY, "BY")
	p.parseExprList()
	p.b.Close(m, syntax.GroupByClause)
}

func (p *parse) parseHaving() {
	m := p.open()
	p.bump()
	p.parseOperand(0)
	p.b.Close(m, syntax.HavingClause)
}

func (p *parse) parseOrderBy() {
	pop := p.enter(grammar.RuleOrderBy)
	defer pop()

	m := p.open()
	p.bump() // ORDER
	p.expect(token.BY, "BY")
	p.parseOrderItems(true)
	p.b.Close(m, syntax.OrderByClause)
}

// parseOrderItems parses `expr [ASC|DESC] [NULLS FIRST|LAST]` items
// separated by commas. When required is false an empty list is accepted.
func (p *parse) parseOrderItems(required bool) {
	if !required && !p.atExprStart() {
		return
	}
	for {
		m := p.open()
		p.parseOperand(0)
		if p.at() == token.ASC || p.at() == token.DESC {
			p.bump()
		}
		if p.eat(token.NULLS) {
			if p.at() == token.FIRST || p.at() == token.LAST {
				p.bump()
			} else {
				p.recover("FIRST or LAST")
			}
		}
		p.b.Close(m, syntax.OrderItem)
		if !p.eat(token.COMMA) {
			return
		}
	}
}

func (p *parse) parseLimit() {
	pop := p.enter(grammar.RuleLimit)
	defer pop()

	m := p.open()
	if p.eat(token.LIMIT) {
		p.parseOperand(0)
	}
	if p.eat(token.OFFSET) {
		p.parseOperand(0)
	}
	p.b.Close(m, syntax.LimitClause)
}

// parseExprList parses one or more comma-separated expressions into the
// open node.
func (p *parse) parseExprList() {
	for {
		p.parseOperand(0)
		if !p.eat(token.COMMA) {
			return
		}
	}
}
