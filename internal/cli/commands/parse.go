package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Trivia  bool // Include whitespace and comment leaves
	Outline bool // Print node kinds only
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of a program",
		Long: `Parse a SuperSQL program and print its lossless syntax tree.

Reads standard input when no file is given. Parsing never fails: text the
grammar cannot match becomes an error node, listed after the tree.`,
		Example: `  # Tree of a file
  supersql parse query.spq

  # Node kinds only
  supersql parse --outline query.spq

  # Tree as JSON, with trivia leaves
  supersql parse --trivia -o json query.spq`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, singleSource(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Trivia, "trivia", false, "Include whitespace and comment leaves")
	cmd.Flags().BoolVar(&opts.Outline, "outline", false, "Print node kinds only")

	return cmd
}

// NodeJSON is the JSON form of a syntax tree node.
type NodeJSON struct {
	Kind     string      `json:"kind"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Token    string      `json:"token,omitempty"`
	Literal  string      `json:"literal,omitempty"`
	Message  string      `json:"message,omitempty"`
	Children []*NodeJSON `json:"children,omitempty"`
}

// ParseJSONOutput is the JSON output of the parse command.
type ParseJSONOutput struct {
	Tree   *NodeJSON         `json:"tree,omitempty"`
	Kinds  []string          `json:"outline,omitempty"`
	Errors []SyntaxErrorJSON `json:"errors"`
}

// SyntaxErrorJSON is the JSON form of a syntax error.
type SyntaxErrorJSON struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Message string `json:"message"`
}

func runParse(cmd *cobra.Command, path string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)
	text, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	root := parser.ParseText(text)
	cmdCtx.Logger.Debug("parsed", "path", path, "errors", len(root.Errors()))
	return renderTree(cmdCtx.Renderer, root, opts)
}

func renderTree(r *output.Renderer, root *syntax.Node, opts *ParseOptions) error {
	file := lint.NewFile(root, lint.FileQuery)
	errs := root.Errors()

	if r.EffectiveMode() == output.ModeJSON {
		out := ParseJSONOutput{Errors: make([]SyntaxErrorJSON, 0, len(errs))}
		if opts.Outline {
			out.Kinds = root.Outline()
		} else {
			out.Tree = toNodeJSON(root, opts.Trivia)
		}
		for _, e := range errs {
			pos := file.Position(e.Anchor.Offset)
			out.Errors = append(out.Errors, SyntaxErrorJSON{
				Line:    pos.Line,
				Column:  pos.Column,
				Start:   e.Span.Offset,
				End:     e.Span.End(),
				Message: e.Message,
			})
		}
		return r.JSON(out)
	}

	if opts.Outline {
		r.Println(strings.Join(root.Outline(), "\n"))
	} else {
		r.Printf("%s", root.Dump(opts.Trivia))
	}

	if len(errs) == 0 {
		return nil
	}
	styles := r.Styles()
	r.Println("")
	for _, e := range errs {
		pos := file.Position(e.Anchor.Offset)
		r.Printf("%s %s %s\n",
			styles.Muted.Render(fmt.Sprintf("%d:%d", pos.Line, pos.Column)),
			styles.Error.Render("error"),
			e.Message,
		)
	}
	return nil
}

func toNodeJSON(n *syntax.Node, trivia bool) *NodeJSON {
	span := n.Span()
	out := &NodeJSON{Kind: n.Kind().String(), Start: span.Offset, End: span.End(), Message: n.Message()}
	if tok, ok := n.Token(); ok {
		out.Token = tok.Type.String()
		out.Literal = tok.Literal
		return out
	}
	for c := range n.Children() {
		if c.IsTrivia() && !trivia {
			continue
		}
		out.Children = append(out.Children, toNodeJSON(c, trivia))
	}
	return out
}
