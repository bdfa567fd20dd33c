package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/internal/provider"
	"github.com/leapstack-labs/supersql/pkg/format"
	"github.com/leapstack-labs/supersql/pkg/inject"
	"github.com/leapstack-labs/supersql/pkg/lint"
)

// ErrUnformatted is returned by fmt --check when a file would change.
var ErrUnformatted = errors.New("some files are not formatted")

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Write bool // Rewrite files in place
	Check bool // List files that would change
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Normalize keyword case and trailing whitespace",
		Long: `Format SuperSQL programs.

Formatting changes keyword case (upper, lower or preserve) and removes
trailing whitespace; nothing else is touched. Programs embedded in shell
scripts are formatted in place.

Without arguments standard input is formatted to standard output. With
files, the formatted text is printed unless --write or --check is set.`,
		Example: `  # Upper-case keywords of standard input
  echo 'from t | sort x' | supersql fmt --keyword-case upper

  # Rewrite every program under a directory
  supersql fmt -w queries/

  # Fail if anything would change
  supersql fmt --check queries/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "List files whose formatting would change")
	cmd.Flags().String("keyword-case", "", "Keyword case: upper, lower, preserve")
	cmd.Flags().IntP("jobs", "j", 0, "Files formatted in parallel (default: number of CPUs)")

	_ = cmd.RegisterFlagCompletionFunc("keyword-case", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"upper", "lower", "preserve"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// fmtResult is the outcome of formatting one file.
type fmtResult struct {
	Path      string `json:"path"`
	Changed   bool   `json:"changed"`
	Formatted string `json:"-"`
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if opts.Write && opts.Check {
		return errors.New("--write and --check cannot be combined")
	}
	fopts, err := cmdCtx.Cfg.FormatOptions()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{stdinPath}
	}
	paths, err := collectSources(args)
	if err != nil {
		return err
	}

	results := make([]fmtResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, cmdCtx.Jobs()))
	for i, path := range paths {
		g.Go(func() error {
			res, err := formatFile(ctx, cmd, path, fopts, opts.Write)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	changed := 0
	for _, res := range results {
		if res.Changed {
			changed++
			cmdCtx.Logger.Debug("formatted", "path", res.Path)
		}
	}

	switch {
	case opts.Check || opts.Write:
		if r.EffectiveMode() == output.ModeJSON {
			if err := r.JSON(results); err != nil {
				return err
			}
		} else {
			for _, res := range results {
				if res.Changed {
					r.Println(res.Path)
				}
			}
		}
		if opts.Check && changed > 0 {
			return ErrUnformatted
		}
	default:
		for _, res := range results {
			r.Printf("%s", res.Formatted)
		}
	}
	return nil
}

func formatFile(ctx context.Context, cmd *cobra.Command, path string, opts format.Options, write bool) (fmtResult, error) {
	if err := ctx.Err(); err != nil {
		return fmtResult{}, err
	}
	text, err := readSource(cmd, path)
	if err != nil {
		return fmtResult{}, err
	}
	formatted, err := formatSource(path, text, opts)
	if err != nil {
		return fmtResult{}, fmt.Errorf("failed to format %s: %w", path, err)
	}

	res := fmtResult{Path: path, Changed: formatted != text, Formatted: formatted}
	if path == stdinPath {
		res.Path = "<stdin>"
		return res, nil
	}
	if write && res.Changed {
		if err := writeFilePreservingMode(path, formatted); err != nil {
			return fmtResult{}, err
		}
	}
	return res, nil
}

// formatSource formats a program, or the programs embedded in a shell
// script. The rest of a script is left alone.
func formatSource(path, text string, opts format.Options) (string, error) {
	if !provider.IsShellScript(path) {
		return format.Text(text, opts), nil
	}

	var edits []lint.TextEdit
	for _, prog := range inject.Parse(text) {
		for _, e := range format.Edits(prog.Root, opts) {
			edits = append(edits, lint.TextEdit{Span: prog.ToScript(e.Span), NewText: e.NewText})
		}
	}
	return lint.ApplyEdits(text, edits)
}
