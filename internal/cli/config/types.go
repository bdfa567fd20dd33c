// Package config provides configuration management for the SuperSQL CLI.
//
// Values are layered with koanf: built-in defaults, then supersql.yaml found
// upward from the working directory, then SUPERSQL_ environment variables,
// then flags that were explicitly set on the command line.
package config

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/leapstack-labs/supersql/pkg/format"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	LogLevel     string     `koanf:"log_level"`
	Verbose      bool       `koanf:"verbose"`
	OutputFormat string     `koanf:"output"`
	Jobs         int        `koanf:"jobs"`
	Lint         LintConfig `koanf:"lint"`
	Format       FmtConfig  `koanf:"format"`
	LSP          LSPConfig  `koanf:"lsp"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when none was found. Not loaded from configuration.
	ProjectRoot string `koanf:"-"`
}

// LintConfig selects and tunes lint rules.
type LintConfig struct {
	Disable  []string                  `koanf:"disable"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// FmtConfig holds formatter settings.
type FmtConfig struct {
	KeywordCase string `koanf:"keyword_case"`
}

// LSPConfig holds the language server settings, including the bridge to the
// external super-lsp binary.
type LSPConfig struct {
	Enabled           bool          `koanf:"enabled"`
	ServerPath        string        `koanf:"server_path"`
	Timeout           time.Duration `koanf:"timeout"`
	ShowNotifications bool          `koanf:"show_notifications"`
}

// Default configuration values.
const (
	DefaultLogLevel    = "info"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultKeywordCase = "preserve"
	DefaultLSPTimeout  = 2 * time.Second
)

// DefaultJobs is the default number of files processed in parallel.
func DefaultJobs() int {
	return runtime.NumCPU()
}

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Jobs:         DefaultJobs(),
		Format:       FmtConfig{KeywordCase: DefaultKeywordCase},
		LSP: LSPConfig{
			Enabled:           true,
			Timeout:           DefaultLSPTimeout,
			ShowNotifications: true,
		},
	}
}

// BuildLintConfig converts the lint section into a lint.Config.
// Rule IDs are matched case-insensitively and stored upper case.
func (c *Config) BuildLintConfig() (*lint.Config, error) {
	lc := lint.NewConfig()
	for _, id := range c.Lint.Disable {
		lc.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}

	ids := make([]string, 0, len(c.Lint.Severity))
	for id := range c.Lint.Severity {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		sev, err := lint.ParseSeverity(c.Lint.Severity[id])
		if err != nil {
			return nil, fmt.Errorf("lint.severity.%s: %w", id, err)
		}
		lc.SetSeverity(strings.ToUpper(id), sev)
	}

	for id, opts := range c.Lint.Rules {
		lc.SetRuleOptions(strings.ToUpper(id), opts)
	}
	return lc, nil
}

// FormatOptions converts the format section into format.Options.
func (c *Config) FormatOptions() (format.Options, error) {
	kc, err := format.ParseKeywordCase(c.Format.KeywordCase)
	if err != nil {
		return format.Options{}, fmt.Errorf("format.keyword_case: %w", err)
	}
	return format.Options{KeywordCase: kc}, nil
}
