package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/config"
	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/lint"
	_ "github.com/leapstack-labs/supersql/pkg/lint/rules" // register lint rules
)

// ErrDiagnostics is returned when a check finds error-severity diagnostics.
var ErrDiagnostics = errors.New("diagnostics with error severity found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd from the loaded
// configuration and the logger stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Analyzer builds a lint analyzer from the lint section of the config.
func (c *CommandContext) Analyzer() (*lint.Analyzer, error) {
	lintCfg, err := c.Cfg.BuildLintConfig()
	if err != nil {
		return nil, err
	}
	return lint.NewAnalyzer(lintCfg), nil
}

// Jobs returns the number of files processed in parallel.
func (c *CommandContext) Jobs() int {
	if c.Cfg.Jobs > 0 {
		return c.Cfg.Jobs
	}
	return config.DefaultJobs()
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
