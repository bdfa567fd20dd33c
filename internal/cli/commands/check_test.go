package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli/config"
	"github.com/leapstack-labs/supersql/internal/cli/testutil"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

func TestCheck_Clean(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.WriteFiles(t, map[string]string{"ok.spq": "from t | head 1\n"})

	out, _, err := execute(t, NewCheckCommand(), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found in 1 file(s)")
	testutil.AssertNoANSI(t, out)
}

func TestCheck_SyntaxErrorFails(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.WriteFiles(t, map[string]string{
		"bad.spq":  "select from t\n",
		"hint.spq": "from t | where a <> 1\n",
	})

	out, _, err := execute(t, NewCheckCommand(), "", dir)
	require.ErrorIs(t, err, ErrDiagnostics)

	assert.Contains(t, out, filepath.Join(dir, "bad.spq"))
	assert.Contains(t, out, "1:1")
	assert.Contains(t, out, "expected projection")
	assert.Contains(t, out, "SS01")
	assert.Contains(t, out, "CV01")
	assert.Contains(t, out, "in 2 file(s)")
}

func TestCheck_SeverityFilter(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.WriteFiles(t, map[string]string{"hint.spq": "from t | where a <> 1\n"})

	out, _, err := execute(t, NewCheckCommand(), "", "--severity", "warning", dir)
	require.NoError(t, err)
	testutil.AssertNotContains(t, out, "CV01")
	testutil.AssertContains(t, out, "No issues found")

	_, _, err = execute(t, NewCheckCommand(), "", "--severity", "loud", dir)
	assert.Error(t, err)
}

func TestCheck_DisabledByConfig(t *testing.T) {
	useConfig(t, func(cfg *config.Config) {
		cfg.Lint.Disable = []string{"ss01"}
	})

	out, _, err := execute(t, NewCheckCommand(), "select from t", "-")
	require.NoError(t, err)
	assert.NotContains(t, out, "SS01")
}

func TestCheck_Fix(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.WriteFiles(t, map[string]string{"q.spq": "from t | where a <> 1 | where b <> 2\n"})
	path := filepath.Join(dir, "q.spq")

	out, _, err := execute(t, NewCheckCommand(), "", "--fix", path)
	require.NoError(t, err)

	assert.Equal(t, "from t | where a != 1 | where b != 2\n", testutil.ReadFile(t, path))
	assert.Contains(t, out, "fixed 2 issue(s)")
	assert.NotContains(t, out, "CV01")
}

func TestCheck_FixNeedsFiles(t *testing.T) {
	useConfig(t, nil)
	_, _, err := execute(t, NewCheckCommand(), "from t", "--fix", "-")
	assert.Error(t, err)
}

func TestCheck_ShellScript(t *testing.T) {
	useConfig(t, nil)
	dir := testutil.WriteFiles(t, map[string]string{"run.sh": "#!/bin/sh\nsuper -c 'select from t' in.json\n"})

	out, _, err := execute(t, NewCheckCommand(), "", dir)
	require.ErrorIs(t, err, ErrDiagnostics)
	assert.Contains(t, out, "2:11")
	assert.Contains(t, out, "SS01")
}

func TestCheck_JSON(t *testing.T) {
	useConfig(t, func(cfg *config.Config) { cfg.OutputFormat = "json" })

	out, _, err := execute(t, NewCheckCommand(), "from t | where a <> 1", "-")
	require.NoError(t, err)

	var result CheckJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, "<stdin>", result.Files[0].Path)
	assert.Equal(t, 1, result.Summary.Files)

	var cv01 *DiagnosticJSON
	for i, d := range result.Files[0].Diagnostics {
		if d.Rule == "CV01" {
			cv01 = &result.Files[0].Diagnostics[i]
		}
	}
	require.NotNil(t, cv01)
	assert.Equal(t, "hint", cv01.Severity)
	assert.Equal(t, 1, cv01.Line)
	assert.Equal(t, 18, cv01.Column)
	assert.True(t, cv01.Fixable)
}

func TestSummarize(t *testing.T) {
	results := []FileResult{
		{Path: "a", Diagnostics: []lint.Diagnostic{{Severity: lint.SeverityError}, {Severity: lint.SeverityHint}}},
		{Path: "b", Diagnostics: []lint.Diagnostic{{Severity: lint.SeverityWarning}, {Severity: lint.SeverityInfo}}, Fixed: 3},
	}

	s := summarize(results)
	assert.Equal(t, CheckSummary{Files: 2, Errors: 1, Warnings: 1, Infos: 1, Hints: 1, Fixed: 3}, s)
	assert.Equal(t, 4, s.Total())
}
