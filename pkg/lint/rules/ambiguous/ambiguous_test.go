package ambiguous_test

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

func TestAM01_DistinctWithGroupBy(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantDiag bool
	}{
		{
			name:     "distinct with group by",
			sql:      "SELECT DISTINCT a FROM t GROUP BY a",
			wantDiag: true,
		},
		{
			name:     "distinct only",
			sql:      "SELECT DISTINCT a FROM t",
			wantDiag: false,
		},
		{
			name:     "group by only",
			sql:      "SELECT a, count() FROM t GROUP BY a",
			wantDiag: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, tt.sql, "AM01")
			if tt.wantDiag {
				assert.NotEmpty(t, diags, "expected AM01 diagnostic")
			} else {
				assert.Empty(t, diags, "unexpected AM01 diagnostic")
			}
		})
	}
}

func TestAM02_Union(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantDiags int
	}{
		{
			name:      "union",
			sql:       "SELECT a FROM t UNION SELECT a FROM u",
			wantDiags: 1,
		},
		{
			name:      "chained unions",
			sql:       "SELECT a FROM t UNION SELECT a FROM u UNION ALL SELECT a FROM v UNION SELECT a FROM w",
			wantDiags: 2,
		},
		{
			name:      "union all",
			sql:       "SELECT a FROM t UNION ALL SELECT a FROM u",
			wantDiags: 0,
		},
		{
			name:      "explicit union distinct",
			sql:       "SELECT a FROM t UNION DISTINCT SELECT a FROM u",
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, runRule(t, tt.sql, "AM02"), tt.wantDiags)
		})
	}
}

func TestAM02_PointsAtKeyword(t *testing.T) {
	text := "select 1 union select 2"
	diags := runRule(t, text, "AM02")
	require.Len(t, diags, 1)
	assert.Equal(t, "union", text[diags[0].Span.Offset:diags[0].Span.End()])
	assert.Equal(t, lint.SeverityInfo, diags[0].Severity)
}

// messages runs ruleID over sql and returns the diagnostic messages.
func messages(t *testing.T, sql, ruleID string) []string {
	t.Helper()
	var got []string
	for _, d := range runRule(t, sql, ruleID) {
		got = append(got, d.Message)
	}
	return got
}

func TestAM03_OrderByInSetOperation(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantMsgs []string
	}{
		{
			name: "output column",
			sql:  "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a",
		},
		{
			name: "output alias",
			sql:  "SELECT a AS x FROM t UNION ALL SELECT b FROM u ORDER BY x",
		},
		{
			name:     "column not in output",
			sql:      "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY b",
			wantMsgs: []string{"ORDER BY column 'b' may be ambiguous in set operation; consider using column position"},
		},
		{
			name:     "qualified column",
			sql:      "SELECT t.a FROM t UNION ALL SELECT u.a FROM u ORDER BY t.a",
			wantMsgs: []string{"ORDER BY column 't.a' may be ambiguous in set operation; consider using column position"},
		},
		{
			name: "wildcard output",
			sql:  "SELECT * FROM t UNION ALL SELECT * FROM u ORDER BY b",
		},
		{
			name: "no set operation",
			sql:  "SELECT a FROM t ORDER BY b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsgs, messages(t, tt.sql, "AM03"))
		})
	}
}

func TestAM04_ColumnCount(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantMsgs []string
	}{
		{
			name:     "second query shorter",
			sql:      "SELECT a, b FROM t UNION ALL SELECT a FROM u",
			wantMsgs: []string{"Column count mismatch in set operation: first query has 2 columns, query 2 has 1 columns"},
		},
		{
			name:     "third query longer",
			sql:      "SELECT a FROM t UNION ALL SELECT a FROM u UNION ALL SELECT a, b FROM v",
			wantMsgs: []string{"Column count mismatch in set operation: first query has 1 columns, query 3 has 2 columns"},
		},
		{
			name: "matching counts",
			sql:  "SELECT a, b FROM t UNION SELECT c, d FROM u",
		},
		{
			name: "wildcard",
			sql:  "SELECT * FROM t UNION ALL SELECT a FROM u",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsgs, messages(t, tt.sql, "AM04"))
		})
	}
}

func TestAM04_PointsAtProjections(t *testing.T) {
	text := "SELECT a, b FROM t UNION ALL SELECT a FROM u"
	diags := runRule(t, text, "AM04")
	require.Len(t, diags, 1)
	assert.Equal(t, lint.SeverityError, diags[0].Severity)
	assert.Equal(t, "a", text[diags[0].Span.Offset:diags[0].Span.End()])
	assert.Equal(t, 36, diags[0].Span.Offset)
}

func TestAM08_JoinCondition(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantMsgs []string
	}{
		{
			name:     "condition ignores joined table",
			sql:      "SELECT t.a FROM t JOIN u ON t.id = t.parent",
			wantMsgs: []string{"Join condition does not appear to reference the joined table 'u'"},
		},
		{
			name:     "table name used instead of alias",
			sql:      "SELECT t.a FROM t JOIN users x ON t.id = users.id",
			wantMsgs: []string{"Join condition does not appear to reference the joined table 'x'"},
		},
		{
			name: "both tables",
			sql:  "SELECT t.a FROM t JOIN u ON t.id = u.id",
		},
		{
			name: "joined alias",
			sql:  "SELECT t.a FROM t JOIN users x ON t.id = x.id",
		},
		{
			name: "unqualified condition",
			sql:  "SELECT a FROM t JOIN u ON id = parent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsgs, messages(t, tt.sql, "AM08"))
		})
	}
}

func TestAM09_OrderByLimit(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		wantMsgs []string
	}{
		{
			name: "order by and limit after union",
			sql:  "SELECT a FROM t UNION ALL SELECT a FROM u ORDER BY a LIMIT 10",
			wantMsgs: []string{
				"ORDER BY in set operation applies to the entire result; use parentheses if you intend to order individual queries",
				"LIMIT in set operation applies to the entire result; use parentheses if you intend to limit individual queries",
			},
		},
		{
			name: "plain union",
			sql:  "SELECT a FROM t UNION ALL SELECT a FROM u",
		},
		{
			name: "single query",
			sql:  "SELECT a FROM t ORDER BY a LIMIT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsgs, messages(t, tt.sql, "AM09"))
		})
	}
}
