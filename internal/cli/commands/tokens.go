package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/supersql/internal/cli/output"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Trivia bool // Include whitespace and comments
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Long: `Lex a SuperSQL program and print its tokens.

Reads standard input when no file is given. Whitespace and comments are
left out unless --trivia is set.`,
		Example: `  # Tokens of a file
  supersql tokens query.spq

  # Tokens of standard input, as JSON
  echo 'from t | head 1' | supersql tokens -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, singleSource(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Trivia, "trivia", false, "Include whitespace and comments")

	return cmd
}

// TokenJSON is the JSON form of a token.
type TokenJSON struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
}

func runTokens(cmd *cobra.Command, path string, opts *TokensOptions) error {
	cmdCtx := NewCommandContext(cmd)
	text, err := readSource(cmd, path)
	if err != nil {
		return err
	}

	toks := selectTokens(parser.Tokenize(text), opts.Trivia)
	cmdCtx.Logger.Debug("tokenized", "path", path, "tokens", len(toks))
	return renderTokens(cmdCtx.Renderer, toks)
}

// selectTokens drops EOF and, unless trivia is set, trivia tokens.
func selectTokens(toks []token.Token, trivia bool) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Type == token.EOF || (!trivia && tok.Type.IsTrivia()) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func renderTokens(r *output.Renderer, toks []token.Token) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]TokenJSON, 0, len(toks))
		for _, tok := range toks {
			out = append(out, TokenJSON{
				Type:    tok.Type.String(),
				Literal: tok.Literal,
				Line:    tok.Pos.Line,
				Column:  tok.Pos.Column,
				Offset:  tok.Pos.Offset,
			})
		}
		return r.JSON(out)
	}

	rows := make([]table.Row, 0, len(toks))
	for _, tok := range toks {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column),
			tok.Type.String(),
			fmt.Sprintf("%q", tok.Literal),
		})
	}
	r.Table(table.Row{"Pos", "Type", "Literal"}, rows)
	return nil
}
