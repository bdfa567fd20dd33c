package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/config"
)

// useConfig installs a text-output configuration for one test.
func useConfig(t *testing.T, mutate func(cfg *config.Config)) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputFormat = "text"
	cfg.Jobs = 2
	if mutate != nil {
		mutate(cfg)
	}
	config.SetCurrentConfig(cfg)
	t.Cleanup(config.ResetConfig)
	return cfg
}

// execute runs cmd with args and stdin and returns what it wrote.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	// The root command sets these; without them cobra prints usage into out.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	// A nil slice makes cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
