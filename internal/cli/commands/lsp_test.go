package commands

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli/config"
	"github.com/leapstack-labs/supersql/pkg/format"
)

func TestLSPOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Lint.Disable = []string{"CV01"}
	cfg.Format.KeywordCase = "lower"
	cfg.LSP.ServerPath = "/opt/super-lsp"
	cfg.LSP.Timeout = 5 * time.Second

	opts, err := lspOptions(cfg, "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", opts.Version)
	assert.True(t, opts.Lint.IsDisabled("CV01"))
	assert.Equal(t, format.KeywordLower, opts.Format.KeywordCase)
	assert.Equal(t, cfg.LSP.Enabled, opts.Bridge.Enabled)
	assert.Equal(t, "/opt/super-lsp", opts.Bridge.ServerPath)
	assert.Equal(t, 5*time.Second, opts.Bridge.Timeout)
}

func TestLSPOptions_InvalidKeywordCase(t *testing.T) {
	cfg := config.Default()
	cfg.Format.KeywordCase = "title"

	_, err := lspOptions(cfg, "dev")
	assert.Error(t, err)
}

func TestLSPCommand_Initialize(t *testing.T) {
	useConfig(t, func(cfg *config.Config) { cfg.LSP.Enabled = false })

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"rootUri":"file:///work"}}`
	stdin := fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)

	out, _, err := execute(t, NewLSPCommand("9.9.9"), stdin)
	require.NoError(t, err)

	assert.Contains(t, out, "Content-Length:")
	assert.Contains(t, out, `"capabilities"`)
	assert.Contains(t, out, `"version":"9.9.9"`)
}
