package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/token"
)

const (
	replPrompt         = "supersql> "
	replContinuePrompt = "     ...> "
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	HistoryFile string
	Tree        bool // Print the syntax tree of every input
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Check programs interactively",
		Long: `Start an interactive session that parses and lints each input.

End a line with \ to continue the program on the next line. Type .help
for the session commands.`,
		Example: `  # Start a session
  supersql repl

  # Show the tree of every input
  supersql repl --tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.HistoryFile, "history", defaultHistoryFile(), "History file (empty to disable)")
	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "Print the syntax tree of every input")

	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".supersql_history")
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	cmdCtx := NewCommandContext(cmd)
	analyzer, err := cmdCtx.Analyzer()
	if err != nil {
		return err
	}

	// REPL output is always meant for a person.
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText)
	session := &replSession{r: r, analyzer: analyzer, showTree: opts.Tree}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     opts.HistoryFile,
		AutoComplete:    newKeywordCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r.Println("SuperSQL REPL")
	r.Println("Type .help for commands, .quit to exit")
	r.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if session.feed(line) {
			break
		}
		if session.pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

// replSession holds the state of an interactive session.
type replSession struct {
	r          *output.Renderer
	analyzer   *lint.Analyzer
	showTree   bool
	showTokens bool
	buf        strings.Builder
}

// feed handles one input line and reports whether the session should end.
func (s *replSession) feed(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !s.pending() {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.dotCommand(trimmed)
		}
	}

	if rest, ok := strings.CutSuffix(strings.TrimRight(line, " \t"), `\`); ok {
		s.buf.WriteString(rest)
		s.buf.WriteByte('\n')
		return false
	}
	s.buf.WriteString(line)
	text := s.buf.String()
	s.buf.Reset()
	s.eval(text)
	return false
}

func (s *replSession) pending() bool { return s.buf.Len() > 0 }

func (s *replSession) reset() { s.buf.Reset() }

// eval parses and lints one program.
func (s *replSession) eval(text string) {
	root := parser.ParseText(text)
	if s.showTokens {
		_ = renderTokens(s.r, selectTokens(parser.Tokenize(text), false))
	}
	if s.showTree {
		s.r.Printf("%s", root.Dump(false))
	}

	diags := s.analyzer.AnalyzeTree(root, lint.FileQuery)
	if len(diags) == 0 {
		s.r.Success("ok")
		return
	}
	styles := s.r.Styles()
	for _, d := range diags {
		s.r.Printf("%s %s %s %s\n",
			styles.Muted.Render(fmt.Sprintf("%d:%d", d.Pos.Line, d.Pos.Column)),
			styles.Severity(d.Severity).Render(d.Severity.String()),
			d.Message,
			styles.Muted.Render(d.RuleID),
		)
	}
}

func (s *replSession) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.r.Writer())
	case ".tree":
		s.showTree = !s.showTree
		s.r.Printf("tree output %s\n", onOff(s.showTree))
	case ".tokens":
		s.showTokens = !s.showTokens
		s.r.Printf("token output %s\n", onOff(s.showTokens))
	case ".clear":
		s.r.Printf("\033[H\033[2J")
	default:
		_, _ = fmt.Fprintf(s.r.ErrWriter(), "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tree           Toggle printing the syntax tree
  .tokens         Toggle printing the token stream
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - End a line with \ to continue on the next line
  - Use arrow keys to navigate history
  - Tab completion works for keywords
`
	_, _ = fmt.Fprintln(w, help)
}

// newKeywordCompleter completes dot-commands and keywords.
func newKeywordCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".tree"),
		readline.PcItem(".tokens"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	for _, kw := range keywordWords() {
		items = append(items, readline.PcItem(kw))
	}
	return readline.NewPrefixCompleter(items...)
}

// keywordWords returns the keywords as typed in programs.
func keywordWords() []string {
	var out []string
	for _, t := range token.Keywords() {
		name := t.String()
		if strings.Contains(name, "_") {
			continue
		}
		out = append(out, strings.ToLower(name))
	}
	return out
}
