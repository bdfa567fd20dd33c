package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/grammar"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// significant returns the non-trivia token types of text, without EOF.
func significant(text string) []token.TokenType {
	var out []token.TokenType
	for _, tok := range parser.Tokenize(text) {
		if tok.Type.IsTrivia() || tok.Type == token.EOF {
			continue
		}
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.TokenType
	}{
		{"keyword wins over ident at equal length", "select", []token.TokenType{token.SELECT}},
		{"longer ident beats keyword prefix", "selected", []token.TokenType{token.IDENT}},
		{"keywords are case insensitive", "SeLeCt", []token.TokenType{token.SELECT}},
		{"pipe and pipe-gt", "a | b |> c", []token.TokenType{token.IDENT, token.PIPE, token.IDENT, token.PIPE_GT, token.IDENT}},
		{"ltgt stays distinct", "a <> b", []token.TokenType{token.IDENT, token.LTGT, token.IDENT}},
		{"cast and assign", "x::int64 y:=1", []token.TokenType{token.IDENT, token.CAST_OP, token.TYPENAME, token.IDENT, token.ASSIGN, token.INT}},
		{"numbers", "1 1.5 0x1f 1h30m", []token.TokenType{token.INT, token.FLOAT, token.HEX, token.DURATION}},
		{"network literals", "10.0.0.1 10.0.0.0/8 fe80::1", []token.TokenType{token.IP4, token.IP4NET, token.IP6}},
		{"strings", `"a" 'b' r'c'`, []token.TokenType{token.STRING, token.STRING, token.RAW_STRING}},
		{"quoted identifier", "`my col`", []token.TokenType{token.QUOTED_IDENT}},
		{"illegal character", "a # b", []token.TokenType{token.IDENT, token.ILLEGAL, token.IDENT}},
		{"set literal", "|[1,2]|", []token.TokenType{token.LSET, token.INT, token.COMMA, token.INT, token.RSET}},
		{"map literal", `|{"a":1}|`, []token.TokenType{token.LMAP, token.STRING, token.COLON, token.INT, token.RMAP}},
		{"set close only inside a set", "x[1]|y", []token.TokenType{token.IDENT, token.LBRACKET, token.INT, token.RBRACKET, token.PIPE, token.IDENT}},
		{"nested record inside set", "|[{a:1}]|", []token.TokenType{token.LSET, token.LBRACE, token.IDENT, token.COLON, token.INT, token.RBRACE, token.RSET}},
		{
			"f-string with interpolation",
			`f"n={x+1}!"`,
			[]token.TokenType{token.FSTRING_START, token.FSTRING_TEXT, token.LBRACE, token.IDENT, token.PLUS, token.INT, token.RBRACE, token.FSTRING_TEXT, token.FSTRING_END},
		},
		{
			"record inside interpolation",
			`f"{ {a:1} }"`,
			[]token.TokenType{token.FSTRING_START, token.LBRACE, token.LBRACE, token.IDENT, token.COLON, token.INT, token.RBRACE, token.RBRACE, token.FSTRING_END},
		},
		{"unterminated string stops at end of line", "'open\nselect", []token.TokenType{token.STRING, token.SELECT}},
		{"unterminated f-string stops at end of line", "f\"open\nselect a", []token.TokenType{token.FSTRING_START, token.FSTRING_TEXT, token.SELECT, token.IDENT}},
		{"raw strings span lines", "r'a\nb' x", []token.TokenType{token.RAW_STRING, token.IDENT}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, significant(tt.input))
		})
	}
}

func TestTokenize_Trivia(t *testing.T) {
	toks := parser.Tokenize("a -- note\n/* block */ b")

	var types []token.TokenType
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.TokenType{
		token.IDENT, token.WHITESPACE, token.LINE_COMMENT, token.WHITESPACE,
		token.BLOCK_COMMENT, token.WHITESPACE, token.IDENT, token.EOF,
	}, types)
}

func TestTokenize_Positions(t *testing.T) {
	toks := parser.Tokenize("a\n  bb")
	require.Len(t, toks, 4)

	b := toks[2]
	assert.Equal(t, "bb", b.Literal)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 4}, b.Pos)

	eof := toks[3]
	assert.Equal(t, token.EOF, eof.Type)
	assert.Equal(t, token.Position{Line: 2, Column: 5, Offset: 6}, eof.Pos)
}

func TestTokenize_CoversInput(t *testing.T) {
	inputs := []string{
		"",
		"select a from t",
		"from t | where x > 1 | sort -r y",
		"\x00\xff weird ünïcode €",
		`f"unterminated {x`,
		"/* unterminated",
		"|[1, |{a:1}| ]|",
		"]| }| ) ]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			toks := parser.Tokenize(in)
			require.NotEmpty(t, toks)
			assert.Equal(t, token.EOF, toks[len(toks)-1].Type)

			var sb strings.Builder
			offset := 0
			for _, tok := range toks {
				assert.Equal(t, offset, tok.Pos.Offset)
				offset = tok.End()
				sb.WriteString(tok.Literal)
			}
			assert.Equal(t, in, sb.String())
		})
	}
}

func TestScan_StopsEarly(t *testing.T) {
	var got []token.TokenType
	lexer := parser.NewLexer(grammar.Default().Lexical)
	for tok := range lexer.Scan("a b c") {
		got = append(got, tok.Type)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []token.TokenType{token.IDENT, token.WHITESPACE}, got)
}

func BenchmarkTokenize(b *testing.B) {
	text := strings.Repeat("select a, b + 1 as c from t where x <> 'y' order by a;\n", 2000)
	b.SetBytes(int64(len(text)))
	for b.Loop() {
		parser.Tokenize(text)
	}
}
