package parser_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// statements returns the rule-node children of the root.
func statements(root *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for c := range root.Children() {
		if !c.IsToken() {
			out = append(out, c)
		}
	}
	return out
}

// kinds returns the kinds of nodes.
func kinds(nodes []*syntax.Node) []syntax.Kind {
	out := make([]syntax.Kind, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Kind())
	}
	return out
}

// elements returns the kinds of the elements of a pipeline statement.
func elements(t *testing.T, stmt *syntax.Node) []syntax.Kind {
	t.Helper()
	require.True(t, stmt.Is(syntax.Pipeline), "got %s", stmt.Kind())
	var out []syntax.Kind
	for c := range stmt.Children() {
		if !c.IsToken() {
			out = append(out, c.Kind())
		}
	}
	return out
}

// ---------- Scenarios ----------

func TestParseText_SelectClause(t *testing.T) {
	root := parser.ParseText("select a from t")

	assert.Empty(t, root.Errors())
	assert.Equal(t, []string{
		"file[0,15)",
		"select-clause[0,15)",
		"projection-list[7,8)",
		"projection[7,8)",
		"name-ref[7,8)",
		"from-clause[9,15)",
		"source[14,15)",
		"name-ref[14,15)",
	}, root.Outline())
}

func TestParseText_MissingProjection(t *testing.T) {
	root := parser.ParseText("select from t")

	stmts := statements(root)
	require.Len(t, stmts, 1)
	sel := stmts[0]
	require.True(t, sel.Is(syntax.SelectClause))

	var inner []*syntax.Node
	for c := range sel.Children() {
		if !c.IsToken() {
			inner = append(inner, c)
		}
	}
	require.Equal(t, []syntax.Kind{syntax.ErrorNode, syntax.FromClause}, kinds(inner))
	assert.Equal(t, token.Span{Offset: 6, Length: 1}, inner[0].Span())
	assert.Equal(t, "expected projection", inner[0].Message())
	assert.False(t, inner[1].HasErrors())

	errs := root.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, token.Span{Offset: 0, Length: 6}, errs[0].Anchor, "anchored on SELECT")
}

func TestParseText_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "  \n", "-- only a comment"} {
		root := parser.ParseText(in)
		assert.True(t, root.Is(syntax.File))
		assert.Empty(t, statements(root))
		assert.Equal(t, in, root.Text())
		assert.Empty(t, root.Errors())
	}
}

func TestParseText_TrailingIncompleteStatement(t *testing.T) {
	root := parser.ParseText("select a from t; select")

	stmts := statements(root)
	require.Equal(t, []syntax.Kind{syntax.SelectClause, syntax.ErrorNode}, kinds(stmts))
	assert.False(t, stmts[0].HasErrors())
	assert.Equal(t, "select", stmts[1].Text())
	assert.Equal(t, parser.ErrEmptySelect, stmts[1].Message())
}

func TestParseText_RecoveryIsLocal(t *testing.T) {
	root := parser.ParseText("select a from t; %%% ; select b from u")

	stmts := statements(root)
	require.Equal(t, []syntax.Kind{syntax.SelectClause, syntax.ErrorNode, syntax.SelectClause}, kinds(stmts))
	assert.False(t, stmts[0].HasErrors())
	assert.False(t, stmts[2].HasErrors())

	errs := root.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, token.Span{Offset: 17, Length: 3}, errs[0].Span)
	assert.Equal(t, "unexpected '%'", errs[0].Message)

	// One broken construct yields one error, however many rules are left
	// waiting for input after it.
	for _, broken := range []string{
		"select case when from t",
		"fn f(: x",
		`select f"x{ from t`,
		"select {a: from t",
		"select a + from t",
	} {
		t.Run(broken, func(t *testing.T) {
			in := "select a from t; " + broken + "; select b from u"
			root := parser.ParseText(in)

			stmts := statements(root)
			require.GreaterOrEqual(t, len(stmts), 2)
			assert.False(t, stmts[0].HasErrors(), root.Dump(false))
			assert.False(t, stmts[len(stmts)-1].HasErrors(), root.Dump(false))
			assert.Equal(t, "select b from u", stmts[len(stmts)-1].Text())
			assert.Len(t, root.Errors(), 1, root.Dump(false))
			assert.Equal(t, in, root.Text())
		})
	}
}

// ---------- Statements ----------

func TestParseText_CleanInputs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []syntax.Kind
	}{
		{
			name:  "full select",
			input: "with c as (select a from t) select a, count(*) as n from c left join d on c.a = d.a where a > 1 group by a having n > 2 order by n desc limit 10",
			want:  []syntax.Kind{syntax.SQLQuery},
		},
		{
			name:  "union",
			input: "select a from t union all select b from u",
			want:  []syntax.Kind{syntax.SetOperation},
		},
		{
			name:  "statements without semicolons",
			input: "const n = 5\nfrom t | head n\nselect 1",
			want:  []syntax.Kind{syntax.ConstDecl, syntax.Pipeline, syntax.SelectClause},
		},
		{
			name:  "declarations",
			input: "let a = 1, b = 2; fn inc(x): x + 1; op top3(k): (sort -r k | head 3); pragma index_case = 1",
			want:  []syntax.Kind{syntax.LetDecl, syntax.FnDecl, syntax.OpDecl, syntax.PragmaDecl},
		},
		{
			name:  "type declaration",
			input: "type entry = {name: string, tags: [string], attrs: |{string: string}|, score: float64 | null}",
			want:  []syntax.Kind{syntax.TypeDecl},
		},
		{
			name:  "expressions",
			input: `values {a: 1, ...r}, [1, 2], |[3]|, f"x={x}", x::int64, cast(y as string), case when a then b else c end, a ? b : c, x not in [1], y between 1 and 2, z is not null, lambda x: x * 2, date '2024-01-01'`,
			want:  []syntax.Kind{syntax.ValuesOp},
		},
		{
			name:  "subquery and exists",
			input: "select a from t where exists (select 1 from u) and b in (select c from v)",
			want:  []syntax.Kind{syntax.SelectClause},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parser.ParseText(tt.input)
			require.Empty(t, root.Errors(), root.Dump(false))
			assert.Equal(t, tt.want, kinds(statements(root)))
			assert.Equal(t, tt.input, root.Text())
		})
	}
}

func TestParseText_Pipelines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []syntax.Kind
	}{
		{
			name:  "operators",
			input: "from t | where x > 1 | sort -r y | head 5",
			want:  []syntax.Kind{syntax.FromOp, syntax.WhereOp, syntax.SortOp, syntax.HeadOp},
		},
		{
			name:  "implied aggregate",
			input: "from logs\n| where severity == \"error\"\n| count() by severity\n| sort -r count",
			want:  []syntax.Kind{syntax.FromOp, syntax.WhereOp, syntax.AggregateOp, syntax.SortOp},
		},
		{
			name:  "implied filter and put",
			input: "from t | x > 1 | y := x + 1",
			want:  []syntax.Kind{syntax.FromOp, syntax.BinaryExpr, syntax.PutOp},
		},
		{
			name:  "aggregate with several functions",
			input: "from t | sum(x), n := count() by k",
			want:  []syntax.Kind{syntax.FromOp, syntax.AggregateOp},
		},
		{
			name:  "sql clauses after a pipe",
			input: "from t |> group by a |> order by a |> limit 3 |> distinct a",
			want:  []syntax.Kind{syntax.FromOp, syntax.GroupByClause, syntax.OrderByClause, syntax.LimitClause, syntax.DistinctOp},
		},
		{
			name:  "select after a pipe",
			input: "from t | select a where a > 1",
			want:  []syntax.Kind{syntax.FromOp, syntax.SelectClause},
		},
		{
			name:  "fork",
			input: "from t | fork (where a) (where b | pass) | uniq -c",
			want:  []syntax.Kind{syntax.FromOp, syntax.ForkOp, syntax.UniqOp},
		},
		{
			name:  "switch",
			input: "from t | switch x case 1 (put y := 2) case 2 (pass) default (drop x)",
			want:  []syntax.Kind{syntax.FromOp, syntax.SwitchOp},
		},
		{
			name:  "cut rename explode",
			input: "from t | cut a, b := c | rename d := e | explode f by string as g",
			want:  []syntax.Kind{syntax.FromOp, syntax.CutOp, syntax.RenameOp, syntax.ExplodeOp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parser.ParseText(tt.input)
			require.Empty(t, root.Errors(), root.Dump(false))
			stmts := statements(root)
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.want, elements(t, stmts[0]))
		})
	}
}

func TestParseText_SwitchCases(t *testing.T) {
	root := parser.ParseText("from t | switch x case 1 (pass) default (pass)")
	require.Empty(t, root.Errors())

	var cases int
	for range root.Find(syntax.SwitchCase) {
		cases++
	}
	assert.Equal(t, 2, cases)
	for range root.Find(syntax.CallExpr) {
		t.Fatal("case value followed by a scope must not parse as a call")
	}
}

func TestParseText_UnionTypeOnlyWhereUnambiguous(t *testing.T) {
	root := parser.ParseText("from t | x::string | head 1")
	require.Empty(t, root.Errors(), root.Dump(false))
	for range root.Find(syntax.UnionType) {
		t.Fatal("a cast type must not swallow the following pipe")
	}

	root = parser.ParseText("values cast(x as int64 | string)")
	require.Empty(t, root.Errors(), root.Dump(false))
	_, found := firstOf(root, syntax.UnionType)
	assert.True(t, found)
}

func TestParseText_ErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"missing operand", "select a + from t", []string{"expected expression"}},
		{"unclosed paren", "select (a from t", []string{"expected ')'"}},
		{"missing join source", "select a from t join on x", []string{"expected table or subquery"}},
		{"empty pipe element", "from t | | head", []string{"expected operator after '|'"}},
		{"case without when", "values case x end", []string{"expected WHEN"}},
		{"bad type", "type t = 42", []string{"unexpected INT \"42\", expected type"}},
		{"stray token", ") select a from t", []string{"unexpected ')'"}},
		{"trailing garbage", "select a from t %", []string{"unexpected '%', expected ';' or end of statement"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parser.ParseText(tt.input)
			var got []string
			for _, e := range root.Errors() {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.want, got, root.Dump(false))
			assert.Equal(t, tt.input, root.Text())
		})
	}
}

func TestParseText_UnterminatedFStringEndsAtLine(t *testing.T) {
	in := "values f\"open {x}\nselect a from t"
	root := parser.ParseText(in)

	stmts := statements(root)
	require.Len(t, stmts, 2, root.Dump(false))
	assert.True(t, stmts[0].HasErrors())
	assert.False(t, stmts[1].HasErrors())
	assert.Equal(t, "select a from t", stmts[1].Text())

	errs := root.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, `expected '"'`, errs[0].Message)
}

func TestParseText_LongLiteralMessage(t *testing.T) {
	// The 24th byte falls inside "é".
	lit := "'" + strings.Repeat("a", 22) + strings.Repeat("é", 8) + "'"
	root := parser.ParseText("type t = " + lit)

	errs := root.Errors()
	require.Len(t, errs, 1)
	msg := errs[0].Message
	assert.True(t, utf8.ValidString(msg))
	assert.NotContains(t, msg, `\x`)
	assert.Contains(t, msg, `"'`+strings.Repeat("a", 22)+`"...`)
}

func TestParseText_RecoverySyncsOnEnclosingRules(t *testing.T) {
	// The error in the projection must not swallow the FROM clause or the
	// closing paren of the subquery.
	in := "select a from (select %% from u) where b"
	root := parser.ParseText(in)

	errs := root.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "%%", in[errs[0].Span.Offset:errs[0].Span.End()])
	assert.Equal(t, "unexpected '%', expected projection", errs[0].Message)

	_, hasWhere := firstOf(root, syntax.WhereClause)
	assert.True(t, hasWhere)
	var froms int
	for range root.Find(syntax.FromClause) {
		froms++
	}
	assert.Equal(t, 2, froms)
}

func TestParseText_DepthLimit(t *testing.T) {
	in := strings.Repeat("(", 400) + "1" + strings.Repeat(")", 400)
	root := parser.ParseText(in)

	assert.Equal(t, in, root.Text())
	var msgs []string
	for _, e := range root.Errors() {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, parser.ErrTooDeep)
}

func TestParseText_Deterministic(t *testing.T) {
	in := "from t | where a > 1 | %% | count() by b; select from"
	first := parser.ParseText(in)
	for range 5 {
		again := parser.ParseText(in)
		assert.Equal(t, first.Outline(), again.Outline())
		assert.Equal(t, first.Errors(), again.Errors())
	}
}

// ---------- Token Streams ----------

func TestParse_AddsMissingEOF(t *testing.T) {
	toks := parser.Tokenize("select a")
	root := parser.Parse(toks[:len(toks)-1])
	assert.Equal(t, "select a", root.Text())
	assert.Empty(t, root.Errors())
}

func TestParse_PanicsOnGaps(t *testing.T) {
	toks := []token.Token{
		{Type: token.IDENT, Literal: "a", Pos: token.Position{Line: 1, Column: 1, Offset: 0}},
		{Type: token.IDENT, Literal: "b", Pos: token.Position{Line: 1, Column: 6, Offset: 5}},
	}
	assert.PanicsWithError(t,
		`parser invariant "contiguous tokens" violated: token 1 (IDENT) at offset 5, expected 1`,
		func() { parser.Parse(toks) })
}

func firstOf(root *syntax.Node, k syntax.Kind) (*syntax.Node, bool) {
	for n := range root.Find(k) {
		return n, true
	}
	return nil, false
}

// ---------- Totality ----------

func FuzzParseText(f *testing.F) {
	seeds := []string{
		"",
		"select a from t",
		"select from t",
		"select a from t; select",
		"from t | where x > 1 | sort -r y | head 5",
		"from t | fork (where a) (pass) | switch x case 1 (pass) default (pass)",
		"type t = {a: [int64], b: |{string: ip}| | null}",
		`values f"{ {a: |[1]|} }", cast(x as string)`,
		"((((]|}|)))",
		"with c as (select",
		"\xff\x00 select \"unterminated",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, in string) {
		root := parser.ParseText(in)
		if root.Text() != in {
			t.Fatalf("tree text differs from input %q", in)
		}
		for _, e := range root.Errors() {
			if e.Span.Offset < 0 || e.Span.End() > len(in) {
				t.Fatalf("error span %v outside input", e.Span)
			}
		}
		again := parser.ParseText(in)
		if len(again.Outline()) != len(root.Outline()) {
			t.Fatalf("nondeterministic parse of %q", in)
		}
	})
}
