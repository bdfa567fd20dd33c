package references_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/lint"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/supersql/pkg/parser"
)

// Helper to run analysis and filter by rule ID
func runRule(t *testing.T, text string, ruleID string) []lint.Diagnostic {
	t.Helper()
	diags := lint.NewAnalyzer(lint.NewConfig()).AnalyzeTree(parser.ParseText(text), lint.FileQuery)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func TestRF02_Qualification(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantMsgs []string
	}{
		{
			name: "unqualified columns in a join",
			sql:  "SELECT a, u.b FROM t JOIN u ON t.id = u.id WHERE c > 1",
			wantMsgs: []string{
				"Column 'a' should be qualified with table name in multi-table query",
				"Column 'c' should be qualified with table name in multi-table query",
			},
		},
		{
			name:     "comma join",
			sql:      "SELECT x.a, b FROM x, y",
			wantMsgs: []string{"Column 'b' should be qualified with table name in multi-table query"},
		},
		{
			name: "single table",
			sql:  "SELECT a, b FROM t WHERE c > 1",
		},
		{
			name: "projection alias in ORDER BY",
			sql:  "SELECT t.a AS total FROM t JOIN u ON t.id = u.id ORDER BY total",
		},
		{
			name: "function names are not columns",
			sql:  "SELECT count(t.a) AS n FROM t JOIN u ON t.id = u.id",
		},
		{
			name: "subquery checked on its own",
			sql:  "SELECT t.a FROM t JOIN u ON t.id = u.id WHERE t.b IN (SELECT b FROM v)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, d := range runRule(t, tt.sql, "RF02") {
				got = append(got, d.Message)
			}
			assert.Equal(t, tt.wantMsgs, got)
		})
	}
}

func TestRF03_Consistent(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{
			name:     "mixed",
			sql:      "SELECT t.a, b FROM t",
			wantDiag: true,
		},
		{
			name:     "all qualified",
			sql:      "SELECT t.a, t.b FROM t WHERE t.c = 1",
			wantDiag: false,
		},
		{
			name:     "none qualified",
			sql:      "SELECT a, b FROM t WHERE c = 1",
			wantDiag: false,
		},
		{
			name:     "alias reference is not a column",
			sql:      "SELECT t.a AS x FROM t ORDER BY x",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "RF03")
			if tt.wantDiag {
				assert.NotEmpty(t, diags, "expected RF03 diagnostic")
			} else {
				assert.Empty(t, diags, "unexpected RF03 diagnostic")
			}
		})
	}
}

func TestRF03_PointsAtFirstUnqualified(t *testing.T) {
	text := "SELECT t.a, b, c FROM t"
	diags := runRule(t, text, "RF03")
	require.Len(t, diags, 1)
	assert.Equal(t, "Mixed column qualification style; some columns are qualified, others are not", diags[0].Message)
	assert.Equal(t, "b", text[diags[0].Span.Offset:diags[0].Span.End()])
}
