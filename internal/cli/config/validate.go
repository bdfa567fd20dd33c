package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/format"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be auto, text or json", c.OutputFormat)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}

	if _, err := format.ParseKeywordCase(c.Format.KeywordCase); err != nil {
		return fmt.Errorf("format.keyword_case: %w", err)
	}

	if c.LSP.Timeout < 0 {
		return fmt.Errorf("lsp.timeout must not be negative, got %s", c.LSP.Timeout)
	}

	if _, err := c.BuildLintConfig(); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel converts a log_level value into a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", s)
}
