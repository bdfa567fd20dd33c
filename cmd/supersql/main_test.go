// Package main provides tests for the SuperSQL CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli"
	"github.com/leapstack-labs/supersql/internal/cli/config"
)

// run executes the root command in dir and returns stdout and stderr.
func run(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "SuperSQL v"+cli.Version)
}

func TestHelpCommand(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "", "--help")
	require.NoError(t, err)

	for _, expected := range []string{"tokens", "parse", "check", "fmt", "highlight", "rules", "repl", "lsp", "completion"} {
		assert.Contains(t, out, expected)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := run(t, t.TempDir(), "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "supersql")
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "", "unknown-command")
	assert.Error(t, err)
}

func TestCheck_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.spq", "from t | where a <> 1\n")

	out, _, err := run(t, dir, "", "check", "-o", "json", ".")
	require.NoError(t, err)

	var result struct {
		Summary struct {
			Files int `json:"files"`
			Hints int `json:"hints"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Summary.Files)
	assert.GreaterOrEqual(t, result.Summary.Hints, 1)
}

func TestCheck_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "supersql.yaml", `
output: text
lint:
  severity:
    cv01: error
`)
	writeFile(t, dir, "q.spq", "from t | where a <> 1\n")

	out, _, err := run(t, dir, "", "check", "q.spq")
	require.Error(t, err)
	assert.Contains(t, out, "CV01")
	assert.Equal(t, "supersql.yaml", filepath.Base(config.GetConfigFileUsed()))

	out, _, err = run(t, dir, "", "check", "--disable", "CV01", "q.spq")
	require.NoError(t, err)
	assert.NotContains(t, out, "CV01")
}

func TestCheck_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.spq", "from t | where a <> 1\n")
	t.Setenv("SUPERSQL_LINT_DISABLE", "CV01")

	out, _, err := run(t, dir, "", "check", "-o", "text", "q.spq")
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found in 1 file(s)")
}

func TestFmt_KeywordCaseFlag(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "from t | head 1\n", "fmt", "-o", "text", "--keyword-case", "upper")
	require.NoError(t, err)
	assert.Equal(t, "FROM t | HEAD 1\n", out)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "supersql.yaml", "output: yaml\n")

	_, _, err := run(t, dir, "", "rules")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "supersql.yaml", "output: text\n")

	out, errOut, err := run(t, dir, "from t", "parse", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "file [0,6)")
	assert.Contains(t, errOut, "using config file")
	assert.NotContains(t, out, "level=DEBUG")
}
