package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/config"
	"github.com/leapstack-labs/supersql/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for IDE integration.

The server communicates over stdin/stdout using JSON-RPC. Diagnostics,
folding, symbols, semantic tokens and formatting come from the syntax tree.
Completion and hover are relayed to the external super-lsp binary when it
is found; the tree answers whenever it is absent, slow or broken.`,
		Example: `  # Start LSP server (usually called by an IDE)
  supersql lsp

  # Use a specific super-lsp binary
  supersql lsp --server-path /opt/super/bin/super-lsp

  # Tree-only features
  supersql lsp --bridge=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	cmd.Flags().String("server-path", "", "Path to the super-lsp binary")
	cmd.Flags().Bool("bridge", true, "Relay completion and hover to super-lsp")
	cmd.Flags().Duration("bridge-timeout", config.DefaultLSPTimeout, "Deadline for super-lsp requests")
	cmd.Flags().Bool("show-notifications", true, "Show super-lsp status messages in the editor")

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	opts, err := lspOptions(cfg, version)
	if err != nil {
		return err
	}
	opts.Logger = logger

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	return server.Run()
}

// lspOptions converts the configuration into server options.
func lspOptions(cfg *config.Config, version string) (lsp.Options, error) {
	lintCfg, err := cfg.BuildLintConfig()
	if err != nil {
		return lsp.Options{}, err
	}
	fopts, err := cfg.FormatOptions()
	if err != nil {
		return lsp.Options{}, err
	}
	return lsp.Options{
		Lint:   lintCfg,
		Format: fopts,
		Bridge: lsp.BridgeOptions{
			Enabled:           cfg.LSP.Enabled,
			ServerPath:        cfg.LSP.ServerPath,
			Timeout:           cfg.LSP.Timeout,
			ShowNotifications: cfg.LSP.ShowNotifications,
		},
		Version: version,
	}, nil
}
