package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/internal/provider"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Fix      bool   // Apply the first fix of each diagnostic
	Watch    bool   // Re-check files when they change
	Severity string // Minimum severity reported: error, warning, info, hint
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report syntax errors and lint findings",
		Long: `Parse SuperSQL programs and run the lint rules over them.

Directories are searched recursively for .spq, .sup and shell script files;
programs embedded in shell scripts (super -c '...' and heredocs) are checked
in place. Use - to read standard input. Without arguments the current
directory is checked.

The command fails when any error-severity diagnostic is reported.
Rules can be disabled or re-graded in supersql.yaml.`,
		Example: `  # Check the current directory
  supersql check

  # Check files and apply available fixes
  supersql check --fix queries/

  # Only report errors
  supersql check --severity error

  # Re-check on every save
  supersql check --watch queries/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "Apply available fixes to the files")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().StringSlice("disable", nil, "Rule IDs to disable")
	cmd.Flags().IntP("jobs", "j", 0, "Files checked in parallel (default: number of CPUs)")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path        string
	Diagnostics []lint.Diagnostic
	Fixed       int // edits applied by --fix
}

// CheckSummary counts the diagnostics of a run.
type CheckSummary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
	Fixed    int `json:"fixed"`
}

// Total returns the number of diagnostics.
func (s CheckSummary) Total() int {
	return s.Errors + s.Warnings + s.Infos + s.Hints
}

// checker lints files with one analyzer.
type checker struct {
	cmd      *cobra.Command
	analyzer *lint.Analyzer
	minimum  lint.Severity
	fix      bool
	jobs     int
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	minimum, err := lint.ParseSeverity(opts.Severity)
	if err != nil {
		return fmt.Errorf("--severity: %w", err)
	}
	analyzer, err := cmdCtx.Analyzer()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := collectSources(args)
	if err != nil {
		return err
	}
	if slices.Contains(paths, stdinPath) && (opts.Fix || opts.Watch) {
		return errors.New("--fix and --watch need files, not standard input")
	}

	c := &checker{
		cmd:      cmd,
		analyzer: analyzer,
		minimum:  minimum,
		fix:      opts.Fix,
		jobs:     cmdCtx.Jobs(),
	}

	ctx := cmd.Context()
	results, err := c.checkAll(ctx, paths)
	if err != nil {
		return err
	}
	summary, err := renderCheckResults(r, results)
	if err != nil {
		return err
	}

	if !opts.Watch {
		if summary.Errors > 0 {
			return ErrDiagnostics
		}
		return nil
	}

	w, err := newSourceWatcher(args, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if r.EffectiveMode() == output.ModeText {
		r.Println(r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)"))
	}
	return w.Run(ctx, func(changed []string) {
		results, err := c.checkAll(ctx, changed)
		if err != nil {
			cmdCtx.Logger.Error("check failed", "error", err)
			return
		}
		if _, err := renderCheckResults(r, results); err != nil {
			cmdCtx.Logger.Error("render failed", "error", err)
		}
	})
}

// checkAll checks files in parallel, keeping the order of paths.
func (c *checker) checkAll(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.jobs))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.checkFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *checker) checkFile(path string) (FileResult, error) {
	text, err := readSource(c.cmd, path)
	if err != nil {
		return FileResult{}, err
	}

	res := FileResult{Path: path}
	if path == stdinPath {
		res.Path = "<stdin>"
	}

	doc := provider.Parse(text, path, 0)
	diags := doc.Lint(c.analyzer)

	if c.fix {
		if edits := lint.FixEdits(diags); len(edits) > 0 {
			fixed, err := lint.ApplyEdits(text, edits)
			if err != nil {
				return FileResult{}, fmt.Errorf("failed to fix %s: %w", path, err)
			}
			if err := writeFilePreservingMode(path, fixed); err != nil {
				return FileResult{}, err
			}
			res.Fixed = len(edits)
			diags = provider.Parse(fixed, path, 0).Lint(c.analyzer)
		}
	}

	for _, d := range diags {
		if d.Severity <= c.minimum {
			res.Diagnostics = append(res.Diagnostics, d)
		}
	}
	return res, nil
}

func summarize(results []FileResult) CheckSummary {
	s := CheckSummary{Files: len(results)}
	for _, res := range results {
		s.Fixed += res.Fixed
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case lint.SeverityError:
				s.Errors++
			case lint.SeverityWarning:
				s.Warnings++
			case lint.SeverityInfo:
				s.Infos++
			default:
				s.Hints++
			}
		}
	}
	return s
}

// DiagnosticJSON is the JSON form of a diagnostic.
type DiagnosticJSON struct {
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	EndLine   int    `json:"end_line"`
	EndColumn int    `json:"end_column"`
	Fixable   bool   `json:"fixable,omitempty"`
}

// FileJSON is the JSON form of a checked file.
type FileJSON struct {
	Path        string           `json:"path"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Fixed       int              `json:"fixed,omitempty"`
}

// CheckJSONOutput is the JSON output of the check command.
type CheckJSONOutput struct {
	Files   []FileJSON   `json:"files"`
	Summary CheckSummary `json:"summary"`
}

// renderCheckResults writes the results and returns their summary.
func renderCheckResults(r *output.Renderer, results []FileResult) (CheckSummary, error) {
	summary := summarize(results)

	if r.EffectiveMode() == output.ModeJSON {
		out := CheckJSONOutput{Files: make([]FileJSON, 0, len(results)), Summary: summary}
		for _, res := range results {
			f := FileJSON{Path: res.Path, Diagnostics: make([]DiagnosticJSON, 0, len(res.Diagnostics)), Fixed: res.Fixed}
			for _, d := range res.Diagnostics {
				f.Diagnostics = append(f.Diagnostics, DiagnosticJSON{
					Rule:      d.RuleID,
					Severity:  d.Severity.String(),
					Message:   d.Message,
					Line:      d.Pos.Line,
					Column:    d.Pos.Column,
					EndLine:   d.EndPos.Line,
					EndColumn: d.EndPos.Column,
					Fixable:   len(d.Fixes) > 0,
				})
			}
			out.Files = append(out.Files, f)
		}
		return summary, r.JSON(out)
	}

	styles := r.Styles()
	for _, res := range results {
		if len(res.Diagnostics) == 0 && res.Fixed == 0 {
			continue
		}
		r.Println(styles.Path.Render(res.Path))
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s  %s %s\n",
				styles.Muted.Render(fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)),
				styles.Severity(d.Severity).Render(fmt.Sprintf("%-7s", d.Severity)),
				d.Message,
				styles.Muted.Render(d.RuleID),
			)
		}
		if res.Fixed > 0 {
			r.Printf("  %s\n", styles.Success.Render(fmt.Sprintf("fixed %d issue(s)", res.Fixed)))
		}
	}

	if summary.Total() == 0 {
		r.Success(fmt.Sprintf("No issues found in %d file(s)", summary.Files))
		return summary, nil
	}
	r.Println("")
	r.Printf("Summary: %d error(s), %d warning(s), %d info, %d hint(s) in %d file(s)\n",
		summary.Errors, summary.Warnings, summary.Infos, summary.Hints, summary.Files)
	return summary, nil
}
