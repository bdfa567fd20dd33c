package parsing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/lint"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/supersql/pkg/parser"
)

// Helper to run analysis and filter by rule ID
func runRule(t *testing.T, text string, kind lint.FileKind, ruleID string) []lint.Diagnostic {
	t.Helper()
	diags := lint.NewAnalyzer(nil).AnalyzeTree(parser.ParseText(text), kind)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func TestSS01_SyntaxError(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		kind      lint.FileKind
		wantDiags int
	}{
		{name: "valid query", text: "select a from t", wantDiags: 0},
		{name: "empty", text: "", wantDiags: 0},
		{name: "dangling select", text: "select a from t; select", wantDiags: 1},
		{name: "recovery between statements", text: "select a from t; %%% ; select b from u", wantDiags: 1},
		{name: "data file", text: "{a: 1}; %%%", kind: lint.FileData, wantDiags: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, tt.kind, "SS01")
			assert.Len(t, diags, tt.wantDiags)
			for _, d := range diags {
				assert.Equal(t, lint.SeverityError, d.Severity)
				assert.NotEmpty(t, d.Message)
			}
		})
	}
}

func TestSS01_EmptyErrorAnchorsOnPreviousToken(t *testing.T) {
	text := "select from t"
	diags := runRule(t, text, lint.FileQuery, "SS01")
	require.Len(t, diags, 1)
	assert.Equal(t, "select", text[diags[0].Span.Offset:diags[0].Span.End()])
	assert.Equal(t, 1, diags[0].Pos.Column)
}

func TestSD01_DataFile(t *testing.T) {
	const msg = "Operators and declarations are not allowed in SuperJSON data files"

	tests := []struct {
		name     string
		text     string
		wantText []string
	}{
		{
			name: "values only",
			text: "{a: 1, b: [1, 2]}\n{a: 2, b: |[3]|}\n\"text\"\n",
		},
		{
			name:     "pipeline",
			text:     "{a: 1}\nfrom t | head 1\n",
			wantText: []string{"from t | head 1"},
		},
		{
			name:     "declaration",
			text:     "const x = 1\n{a: x}",
			wantText: []string{"const x = 1"},
		},
		{
			name:     "single operator",
			text:     "sort a",
			wantText: []string{"sort a"},
		},
		{
			name:     "sql",
			text:     "select * from t",
			wantText: []string{"select * from t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, lint.FileData, "SD01")
			var got []string
			for _, d := range diags {
				assert.Equal(t, msg, d.Message)
				got = append(got, tt.text[d.Span.Offset:d.Span.End()])
			}
			assert.Equal(t, tt.wantText, got)
		})
	}
}

func TestSD01_QueryFilesUnaffected(t *testing.T) {
	assert.Empty(t, runRule(t, "from t | head 1", lint.FileQuery, "SD01"))
}
