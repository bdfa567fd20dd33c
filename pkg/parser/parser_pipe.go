package parser

import (
	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Pipe operator grammar (one operator per pipeline element):
//
//	from_op      → FROM source {"," source | join}
//	where_op     → WHERE expr
//	sort_op      → SORT [-r] [order_item {"," order_item}]
//	head_op      → HEAD [expr]           (tail, skip likewise)
//	cut_op       → CUT assignments        (put, rename likewise)
//	drop_op      → DROP expr {"," expr}
//	aggregate_op → (AGGREGATE|SUMMARIZE) [assignments] [BY assignments]
//	fork_op      → FORK scope {scope}
//	switch_op    → SWITCH [expr] { CASE expr scope } [DEFAULT scope]
//	search_op    → (SEARCH | "?") expr
//	implied      → expr | assignment {"," assignment} [BY assignments]
//
// GROUP BY, HAVING, ORDER BY, LIMIT and DISTINCT may also stand alone as
// operators after a pipe.

// operatorKinds maps operator keywords to the node kind they produce.
var operatorKinds = map[token.TokenType]syntax.Kind{
	token.FROM:      syntax.FromOp,
	token.WHERE:     syntax.WhereOp,
	token.SORT:      syntax.SortOp,
	token.HEAD:      syntax.HeadOp,
	token.TAIL:      syntax.TailOp,
	token.SKIP:      syntax.SkipOp,
	token.TOP:       syntax.TopOp,
	token.CUT:       syntax.CutOp,
	token.DROP:      syntax.DropOp,
	token.PUT:       syntax.PutOp,
	token.RENAME:    syntax.RenameOp,
	token.UNIQ:      syntax.UniqOp,
	token.FUSE:      syntax.FuseOp,
	token.SHAPES:    syntax.ShapesOp,
	token.PASS:      syntax.PassOp,
	token.EXPLODE:   syntax.ExplodeOp,
	token.MERGE:     syntax.MergeOp,
	token.UNNEST:    syntax.UnnestOp,
	token.LOAD:      syntax.LoadOp,
	token.OUTPUT:    syntax.OutputOp,
	token.DEBUG:     syntax.DebugOp,
	token.COUNT:     syntax.CountOp,
	token.CALL:      syntax.CallOp,
	token.AGGREGATE: syntax.AggregateOp,
	token.SUMMARIZE: syntax.AggregateOp,
	token.SEARCH:    syntax.SearchOp,
	token.QUESTION:  syntax.SearchOp,
	token.ASSERT:    syntax.AssertOp,
	token.VALUES:    syntax.ValuesOp,
	token.DISTINCT:  syntax.DistinctOp,
	token.FORK:      syntax.ForkOp,
	token.SWITCH:    syntax.SwitchOp,
}

// atOperatorStart reports whether a pipe operator starts here. A pipe
// keyword directly followed by "(" is a function call, as in count().
func (p *parse) atOperatorStart() bool {
	t := p.at()
	switch t {
	case token.GROUP, token.HAVING, token.ORDER, token.LIMIT, token.OFFSET:
		return true
	}
	if _, ok := operatorKinds[t]; !ok {
		return false
	}
	if t.IsPipeKeyword() && p.peek(1) == token.LPAREN && p.adjacent(0) {
		return t == token.FORK || t == token.SWITCH
	}
	return true
}

// parseOperator parses one pipe operator.
func (p *parse) parseOperator() {
	pop := p.enter(grammar.RuleOperator)
	defer pop()

	switch p.at() {
	case token.GROUP:
		p.parseGroupBy()
		return
	case token.HAVING:
		p.parseHaving()
		return
	case token.ORDER:
		p.parseOrderBy()
		return
	case token.LIMIT, token.OFFSET:
		p.parseLimit()
		return
	case token.FROM:
		p.parseFromClause(syntax.FromOp)
		return
	}

	kind := operatorKinds[p.at()]
	m := p.open()
	p.bump()

	switch kind {
	case syntax.WhereOp, syntax.SearchOp, syntax.AssertOp, syntax.MergeOp,
		syntax.UnnestOp, syntax.CallOp:
		p.parseOperand(0)

	case syntax.HeadOp, syntax.TailOp, syntax.SkipOp, syntax.DebugOp, syntax.ShapesOp:
		p.parseOptionalExpr()

	case syntax.TopOp:
		p.parseOptionalExpr()
		if p.eat(token.BY) {
			p.parseExprList()
		}

	case syntax.SortOp:
		p.eatFlag("r")
		p.parseOrderItems(false)

	case syntax.UniqOp:
		p.eatFlag("c")

	case syntax.CutOp, syntax.PutOp, syntax.RenameOp:
		p.parseAssignments()

	case syntax.DropOp, syntax.ValuesOp, syntax.DistinctOp:
		p.parseExprList()

	case syntax.ExplodeOp:
		p.parseExprList()
		if p.eat(token.BY) {
			p.parseType(false)
		}
		if p.eat(token.AS) {
			p.expectName()
		}

	case syntax.LoadOp, syntax.OutputOp:
		p.parseOperand(0)
		for isName(p.at()) && p.peek(1) == token.EQUALS {
			p.bump()
			p.bump()
			p.parseOperand(0)
		}

	case syntax.AggregateOp:
		if p.at() != token.BY {
			p.parseAssignments()
		}
		if p.eat(token.BY) {
			p.parseAssignments()
		}

	case syntax.ForkOp:
		p.parseScope()
		for p.at() == token.LPAREN {
			p.parseScope()
		}

	case syntax.SwitchOp:
		p.parseSwitchBody()
	}
	p.b.Close(m, kind)
}

// parseOptionalExpr parses an expression if one starts here. A keyword on a
// new line starts the next statement instead.
func (p *parse) parseOptionalExpr() {
	if p.atExprStart() && !(p.newlineBefore() && p.at().IsKeyword()) {
		p.parseExpr()
	}
}

// eatFlag consumes a `-name` flag such as `sort -r`. The dash and name must
// touch.
func (p *parse) eatFlag(names ...string) bool {
	if p.at() != token.MINUS || p.peek(1) != token.IDENT || !p.adjacent(0) {
		return false
	}
	lit := p.toks[p.sig[p.i+1]].Literal
	for _, n := range names {
		if lit == n {
			p.bump()
			p.bump()
			return true
		}
	}
	return false
}

// parseSwitchBody parses `[expr] { CASE expr scope } [DEFAULT scope]`. The
// scrutinee and case values are parsed without calls so that "(" opens the
// case scope.
func (p *parse) parseSwitchBody() {
	pop := p.enter(grammar.RuleSwitch)
	defer pop()

	saved := p.noCall
	p.noCall = true
	defer func() { p.noCall = saved }()

	if p.at() != token.CASE && p.at() != token.DEFAULT && p.atExprStart() {
		p.parseExpr()
	}
	cases := 0
	for p.at() == token.CASE {
		m := p.open()
		p.bump()
		p.parseOperand(0)
		p.withCalls(p.parseScope)
		p.b.Close(m, syntax.SwitchCase)
		cases++
	}
	if p.at() == token.DEFAULT {
		m := p.open()
		p.bump()
		p.withCalls(p.parseScope)
		p.b.Close(m, syntax.SwitchCase)
		cases++
	}
	if cases == 0 {
		p.recover(wantCase)
	}
}

// withCalls runs fn with call parsing enabled.
func (p *parse) withCalls(fn func()) {
	saved := p.noCall
	p.noCall = false
	fn()
	p.noCall = saved
}

// parseAssignments parses `assignment {"," assignment}`.
func (p *parse) parseAssignments() {
	pop := p.enter(grammar.RuleAssignments)
	defer pop()

	for {
		p.parseAssignment()
		if !p.eat(token.COMMA) {
			return
		}
	}
}

// parseAssignment parses `expr [":=" expr]` into an assignment node.
func (p *parse) parseAssignment() {
	cp := p.checkpoint()
	p.parseOperand(0)
	m := p.b.OpenAt(cp)
	if p.eat(token.ASSIGN) {
		p.parseOperand(0)
	}
	p.b.Close(m, syntax.Assignment)
}

// parseImplied parses an element that starts with an expression. A bare
// expression is an implied filter. Assignments followed by BY, or several
// comma-separated items, are an implied aggregation; lone assignments
// without BY are an implied put.
func (p *parse) parseImplied() {
	cp := p.checkpoint()
	p.parseExpr()
	if !p.atAny(token.ASSIGN, token.COMMA, token.BY) {
		return
	}

	pop := p.enter(grammar.RuleAssignments)
	a := p.b.OpenAt(cp)
	assigned := p.eat(token.ASSIGN)
	if assigned {
		p.parseOperand(0)
	}
	p.b.Close(a, syntax.Assignment)

	m := p.b.OpenAt(cp)
	multiple := false
	for p.eat(token.COMMA) {
		multiple = true
		p.parseAssignment()
	}
	pop()

	kind := syntax.PutOp
	if p.eat(token.BY) {
		p.parseAssignments()
		kind = syntax.AggregateOp
	} else if multiple || !assigned {
		kind = syntax.AggregateOp
	}
	p.b.Close(m, kind)
}
