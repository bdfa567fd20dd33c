package convention_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/lint"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/supersql/pkg/parser"
)

// Helper to run analysis and filter by rule ID
func runRule(t *testing.T, text string, ruleID string, opts map[string]any) []lint.Diagnostic {
	t.Helper()
	config := lint.NewConfig()
	if opts != nil {
		config.SetRuleOptions(ruleID, opts)
	}
	diags := lint.NewAnalyzer(config).AnalyzeTree(parser.ParseText(text), lint.FileQuery)

	var filtered []lint.Diagnostic
	for _, d := range diags {
		if d.RuleID == ruleID {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func TestCV01_NotEqual(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		opts      map[string]any
		wantDiags int
		wantFixed string
	}{
		{
			name:      "ltgt flagged by default",
			text:      "select a from t where a <> 1",
			wantDiags: 1,
			wantFixed: "select a from t where a != 1",
		},
		{
			name:      "bang equal accepted by default",
			text:      "from t | where a != 1",
			wantDiags: 0,
		},
		{
			name:      "prefer ltgt",
			text:      "from t | where a != 1 and b != 2",
			opts:      map[string]any{"preferred": "<>"},
			wantDiags: 2,
			wantFixed: "from t | where a <> 1 and b <> 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, "CV01", tt.opts)
			require.Len(t, diags, tt.wantDiags)
			if tt.wantFixed == "" {
				return
			}
			fixed, err := lint.ApplyEdits(tt.text, lint.FixEdits(diags))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFixed, fixed)
		})
	}
}

func TestCV05_IsNull(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantDiag  bool
		wantFixed string
	}{
		{
			name:      "equals null",
			text:      "select a from t where b = null",
			wantDiag:  true,
			wantFixed: "select a from t where b IS NULL",
		},
		{
			name:      "double equals null in a pipe",
			text:      "from t | where b == NULL",
			wantDiag:  true,
			wantFixed: "from t | where b IS NULL",
		},
		{
			name:      "not equal null",
			text:      "from t | where b != null",
			wantDiag:  true,
			wantFixed: "from t | where b IS NOT NULL",
		},
		{
			name:     "null on the left has no fix",
			text:     "from t | where null = b",
			wantDiag: true,
		},
		{
			name:     "is null",
			text:     "select a from t where b is null",
			wantDiag: false,
		},
		{
			name:     "compare with value",
			text:     "from t | where b = 1",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, "CV05", nil)
			if !tt.wantDiag {
				assert.Empty(t, diags)
				return
			}
			require.Len(t, diags, 1)
			if tt.wantFixed == "" {
				assert.Empty(t, diags[0].Fixes)
				return
			}
			fixed, err := lint.ApplyEdits(tt.text, lint.FixEdits(diags))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFixed, fixed)
		})
	}
}

func TestCV09_BlockedWords(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		opts      map[string]any
		wantWords []string
	}{
		{
			name:      "load is blocked by default",
			text:      "from staging | load prod",
			wantWords: []string{"load"},
		},
		{
			name:      "output is blocked by default",
			text:      "from t | output main",
			wantWords: []string{"output"},
		},
		{
			name: "read-only query",
			text: "from t | sort x | head 5",
		},
		{
			name:      "custom list",
			text:      "from t | debug x | load p",
			opts:      map[string]any{"blocked_words": []any{"debug"}},
			wantWords: []string{"debug"},
		},
		{
			name: "empty list blocks nothing",
			text: "from t | load p",
			opts: map[string]any{"blocked_words": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, d := range runRule(t, tt.text, "CV09", tt.opts) {
				got = append(got, tt.text[d.Span.Offset:d.Span.End()])
				assert.Contains(t, d.Message, "blocked word")
			}
			assert.Equal(t, tt.wantWords, got)
		})
	}
}

func TestCV02_Coalesce(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantMsgs  []string
		wantFixed string
	}{
		{
			name:      "ifnull",
			text:      "select ifnull(a, 0) as a from t",
			wantMsgs:  []string{"Prefer COALESCE over IFNULL for better SQL portability"},
			wantFixed: "select coalesce(a, 0) as a from t",
		},
		{
			name:      "nvl in a pipe",
			text:      "from t | where NVL(a, 0) > 1",
			wantMsgs:  []string{"Prefer COALESCE over NVL for better SQL portability"},
			wantFixed: "from t | where coalesce(a, 0) > 1",
		},
		{
			name: "coalesce",
			text: "select coalesce(a, 0) as a from t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, "CV02", nil)
			var got []string
			for _, d := range diags {
				got = append(got, d.Message)
			}
			assert.Equal(t, tt.wantMsgs, got)
			if tt.wantFixed == "" {
				return
			}
			fixed, err := lint.ApplyEdits(tt.text, lint.FixEdits(diags))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFixed, fixed)
		})
	}
}

func TestCV04_CountRows(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantDiags int
		wantFixed string
	}{
		{
			name:      "count(1)",
			text:      "select count(1) as n from t",
			wantDiags: 1,
			wantFixed: "select count(*) as n from t",
		},
		{
			name:      "upper case",
			text:      "SELECT COUNT( 1 ) AS n FROM t",
			wantDiags: 1,
			wantFixed: "SELECT COUNT( * ) AS n FROM t",
		},
		{
			name:      "count(*)",
			text:      "select count(*) as n from t",
			wantDiags: 0,
		},
		{
			name:      "count of a column",
			text:      "select count(a) as n from t",
			wantDiags: 0,
		},
		{
			name:      "sum(1)",
			text:      "select sum(1) as n from t",
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.text, "CV04", nil)
			require.Len(t, diags, tt.wantDiags)
			if tt.wantFixed == "" {
				return
			}
			assert.Equal(t, "Prefer COUNT(*) over COUNT(1) for counting rows", diags[0].Message)
			fixed, err := lint.ApplyEdits(tt.text, lint.FixEdits(diags))
			require.NoError(t, err)
			assert.Equal(t, tt.wantFixed, fixed)
		})
	}
}

func TestCV08_LeftJoin(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{
			name:     "right join",
			sql:      "SELECT t.a FROM t RIGHT JOIN u ON t.id = u.id",
			wantDiag: true,
		},
		{
			name:     "right outer join",
			sql:      "SELECT t.a FROM t RIGHT OUTER JOIN u ON t.id = u.id",
			wantDiag: true,
		},
		{
			name:     "left join",
			sql:      "SELECT t.a FROM t LEFT JOIN u ON t.id = u.id",
			wantDiag: false,
		},
		{
			name:     "inner join",
			sql:      "SELECT t.a FROM t JOIN u ON t.id = u.id",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "CV08", nil)
			if tt.wantDiag {
				require.Len(t, diags, 1)
				assert.Equal(t, "Consider using LEFT JOIN instead of RIGHT JOIN for better readability", diags[0].Message)
			} else {
				assert.Empty(t, diags, "unexpected CV08 diagnostic")
			}
		})
	}
}
