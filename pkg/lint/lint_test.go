package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    lint.Severity
		wantErr bool
	}{
		{in: "error", want: lint.SeverityError},
		{in: "Warning", want: lint.SeverityWarning},
		{in: "warn", want: lint.SeverityWarning},
		{in: " info ", want: lint.SeverityInfo},
		{in: "hint", want: lint.SeverityHint},
		{in: "fatal", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lint.ParseSeverity(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverity_Text(t *testing.T) {
	b, err := lint.SeverityInfo.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "info", string(b))

	var s lint.Severity
	require.NoError(t, s.UnmarshalText([]byte("hint")))
	assert.Equal(t, lint.SeverityHint, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))
}

func TestFileKindOf(t *testing.T) {
	assert.Equal(t, lint.FileQuery, lint.FileKindOf("q/top.spq"))
	assert.Equal(t, lint.FileData, lint.FileKindOf("data/events.SUP"))
	assert.Equal(t, lint.FileQuery, lint.FileKindOf("run.sh"))
	assert.Equal(t, "data", lint.FileData.String())
}

func TestFile_Position(t *testing.T) {
	f := lint.NewFile(parser.ParseText("from t\n| head 1\n"), lint.FileQuery)

	tests := []struct {
		offset int
		want   token.Position
	}{
		{0, token.Position{Line: 1, Column: 1, Offset: 0}},
		{5, token.Position{Line: 1, Column: 6, Offset: 5}},
		{7, token.Position{Line: 2, Column: 1, Offset: 7}},
		{9, token.Position{Line: 2, Column: 3, Offset: 9}},
		{16, token.Position{Line: 3, Column: 1, Offset: 16}},
		{99, token.Position{Line: 3, Column: 1, Offset: 16}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Position(tt.offset), "offset %d", tt.offset)
	}
}

func TestSpanOf_SkipsTrivia(t *testing.T) {
	text := "from t | head 1 -- first\n"
	root := parser.ParseText(text)
	var head *syntax.Node
	for n := range root.Find(syntax.HeadOp) {
		head = n
	}
	require.NotNil(t, head)

	s := lint.SpanOf(head)
	assert.Equal(t, "head 1", text[s.Offset:s.End()])
}

func TestApplyEdits(t *testing.T) {
	text := "select a <> b from t"
	got, err := lint.ApplyEdits(text, []lint.TextEdit{
		{Span: token.Span{Offset: 14, Length: 6}, NewText: "from u"},
		{Span: token.Span{Offset: 9, Length: 2}, NewText: "!="},
	})
	require.NoError(t, err)
	assert.Equal(t, "select a != b from u", got)

	_, err = lint.ApplyEdits(text, []lint.TextEdit{
		{Span: token.Span{Offset: 7, Length: 4}},
		{Span: token.Span{Offset: 9, Length: 2}},
	})
	require.ErrorIs(t, err, lint.ErrOverlappingEdits)

	_, err = lint.ApplyEdits(text, []lint.TextEdit{{Span: token.Span{Offset: 18, Length: 5}}})
	assert.Error(t, err)
}

func TestFixEdits_SkipsOverlaps(t *testing.T) {
	fix := func(off, n int, repl string) []lint.Fix {
		return []lint.Fix{{TextEdits: []lint.TextEdit{{Span: token.Span{Offset: off, Length: n}, NewText: repl}}}}
	}
	diags := []lint.Diagnostic{
		{RuleID: "A", Fixes: fix(0, 4, "x")},
		{RuleID: "B"},
		{RuleID: "C", Fixes: fix(2, 4, "y")},
		{RuleID: "D", Fixes: fix(6, 1, "z")},
	}
	edits := lint.FixEdits(diags)
	require.Len(t, edits, 2)
	assert.Equal(t, "x", edits[0].NewText)
	assert.Equal(t, "z", edits[1].NewText)
}

func TestOptions(t *testing.T) {
	opts := map[string]any{
		"int":    3,
		"float":  4.0,
		"envint": " 5 ",
		"bad":    "five",
		"str":    "<>",
		"list":   []any{"load", 1, "output"},
		"csv":    "load, output,,",
	}

	assert.Equal(t, 3, lint.GetIntOption(opts, "int", 0))
	assert.Equal(t, 4, lint.GetIntOption(opts, "float", 0))
	assert.Equal(t, 5, lint.GetIntOption(opts, "envint", 0))
	assert.Equal(t, 9, lint.GetIntOption(opts, "bad", 9))
	assert.Equal(t, 9, lint.GetIntOption(nil, "int", 9))

	assert.Equal(t, "<>", lint.GetStringOption(opts, "str", "!="))
	assert.Equal(t, "!=", lint.GetStringOption(opts, "missing", "!="))

	assert.Equal(t, []string{"load", "output"}, lint.GetStringSliceOption(opts, "list", nil))
	assert.Equal(t, []string{"load", "output"}, lint.GetStringSliceOption(opts, "csv", nil))
	assert.Equal(t, []string{"x"}, lint.GetStringSliceOption(opts, "missing", []string{"x"}))
}

func TestConfig(t *testing.T) {
	c := lint.NewConfig().
		Disable("AM01").
		SetSeverity("CV05", lint.SeverityError).
		SetRuleOptions("AL06", map[string]any{"min_length": 3})

	assert.True(t, c.IsDisabled("AM01"))
	assert.False(t, c.IsDisabled("AM02"))
	assert.Equal(t, lint.SeverityError, c.GetSeverity("CV05", lint.SeverityWarning))
	assert.Equal(t, lint.SeverityHint, c.GetSeverity("CV01", lint.SeverityHint))
	assert.Equal(t, 3, c.GetRuleOptions("AL06")["min_length"])

	var nilConfig *lint.Config
	assert.False(t, nilConfig.IsDisabled("AM01"))
	assert.Nil(t, nilConfig.GetRuleOptions("AL06"))
}
