package commands

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/parser"
)

// NewHighlightCommand creates the highlight command.
func NewHighlightCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "Print a program with syntax highlighting",
		Long: `Print a SuperSQL program with its tokens colored by highlighting class.

Reads standard input when no file is given. In JSON mode the classified
tokens are printed instead, one entry per token.`,
		Example: `  # Colored source
  supersql highlight query.spq

  # Highlighting classes as JSON
  supersql highlight -o json query.spq`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHighlight(cmd, singleSource(args))
		},
	}

	return cmd
}

// HighlightJSON is the JSON form of a classified token.
type HighlightJSON struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
	Class  string `json:"class"`
}

func runHighlight(cmd *cobra.Command, path string) error {
	cmdCtx := NewCommandContext(cmd)
	text, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	highlights := editor.Highlights(parser.ParseText(text))
	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]HighlightJSON, 0, len(highlights))
		for _, h := range highlights {
			out = append(out, HighlightJSON{
				Line:   h.Token.Pos.Line,
				Column: h.Token.Pos.Column,
				Offset: h.Token.Pos.Offset,
				Text:   h.Token.Literal,
				Class:  h.Class.String(),
			})
		}
		return r.JSON(out)
	}

	r.Printf("%s", renderHighlighted(r.Styles(), text, highlights))
	return nil
}

// renderHighlighted styles every classified token of text. The text
// between tokens is copied unchanged.
func renderHighlighted(styles *output.Styles, text string, highlights []editor.Highlight) string {
	var sb strings.Builder
	pos := 0
	for _, h := range highlights {
		start := h.Token.Pos.Offset
		if start < pos {
			continue
		}
		sb.WriteString(text[pos:start])
		writeStyled(&sb, styles.Class(h.Class), h.Token.Literal)
		pos = h.Token.End()
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// writeStyled renders s line by line so multi-line tokens are not padded
// into a block.
func writeStyled(sb *strings.Builder, style lipgloss.Style, s string) {
	style = style.TabWidth(lipgloss.NoTabConversion)
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line != "" {
			sb.WriteString(style.Render(line))
		}
	}
}
