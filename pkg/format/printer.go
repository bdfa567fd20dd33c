package format

import (
	"bytes"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// printer rewrites a token stream. It is not safe for concurrent use: the
// casers keep state between calls.
type printer struct {
	opts   Options
	caser  cases.Caser
	output *bytes.Buffer
	edits  []Edit
}

func newPrinter(opts Options) *printer {
	p := &printer{opts: opts, output: &bytes.Buffer{}}
	switch opts.KeywordCase {
	case KeywordUpper:
		p.caser = cases.Upper(language.Und)
	case KeywordLower:
		p.caser = cases.Lower(language.Und)
	}
	return p
}

// String returns the formatted output.
func (p *printer) String() string {
	return p.output.String()
}

func (p *printer) printTree(root *syntax.Node) {
	if root == nil {
		return
	}
	keywords := keywordOffsets(root)

	var toks []token.Token
	for tok := range root.Tokens() {
		toks = append(toks, tok)
	}
	for i, tok := range toks {
		text := tok.Literal
		switch tok.Type {
		case token.WHITESPACE:
			text = trimLineEnds(text, i == len(toks)-1)
		case token.LINE_COMMENT:
			text = trimBlank(text)
		default:
			if keywords[tok.Pos.Offset] && p.opts.KeywordCase != KeywordPreserve {
				text = p.caser.String(text)
			}
		}
		p.write(tok, text)
	}
}

func (p *printer) write(tok token.Token, text string) {
	if text != tok.Literal {
		p.edits = append(p.edits, Edit{Span: tok.Span(), NewText: text})
	}
	p.output.WriteString(text)
}

// keywordOffsets returns the offsets of tokens used as keywords. Soft
// keywords used as names, such as a field called count, are not included.
func keywordOffsets(root *syntax.Node) map[int]bool {
	out := make(map[int]bool)
	for _, h := range editor.Highlights(root) {
		switch h.Class {
		case editor.ClassKeyword, editor.ClassPipeKeyword, editor.ClassDeclKeyword:
			out[h.Token.Pos.Offset] = true
		case editor.ClassConstant:
			switch h.Token.Type {
			case token.TRUE, token.FALSE, token.NULL:
				out[h.Token.Pos.Offset] = true
			}
		}
	}
	return out
}

// trimLineEnds drops blanks in front of every line break of a whitespace
// token, and all trailing blanks when the token ends the file.
func trimLineEnds(ws string, last bool) string {
	lines := strings.Split(ws, "\n")
	for i := range lines {
		if i < len(lines)-1 || last {
			lines[i] = trimBlank(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

// trimBlank removes trailing spaces and tabs, keeping a final carriage
// return so CRLF line breaks survive.
func trimBlank(line string) string {
	if rest, ok := strings.CutSuffix(line, "\r"); ok {
		return strings.TrimRight(rest, " \t") + "\r"
	}
	return strings.TrimRight(line, " \t")
}
