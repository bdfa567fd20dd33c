package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/internal/cli/config"
	"github.com/leapstack-labs/supersql/internal/cli/testutil"
	"github.com/leapstack-labs/supersql/pkg/editor"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func jsonOutput(cfg *config.Config) { cfg.OutputFormat = "json" }

func TestTokens_Text(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewTokensCommand(), "from t -- note")
	require.NoError(t, err)

	assert.Contains(t, out, "POS")
	assert.Contains(t, out, "FROM")
	assert.Contains(t, out, `"t"`)
	assert.NotContains(t, out, "-- note")
	assert.NotContains(t, out, "EOF")
}

func TestTokens_JSON(t *testing.T) {
	useConfig(t, jsonOutput)

	out, _, err := execute(t, NewTokensCommand(), "from t", "--trivia")
	require.NoError(t, err)

	var toks []TokenJSON
	require.NoError(t, json.Unmarshal([]byte(out), &toks))
	require.Len(t, toks, 3)
	assert.Equal(t, TokenJSON{Type: "FROM", Literal: "from", Line: 1, Column: 1, Offset: 0}, toks[0])
	assert.Equal(t, "IDENT", toks[2].Type)
	assert.Equal(t, 5, toks[2].Offset)
}

func TestSelectTokens(t *testing.T) {
	toks := parser.Tokenize("a -- c\nb")
	assert.Len(t, selectTokens(toks, false), 2)
	all := selectTokens(toks, true)
	assert.Greater(t, len(all), 2)
	for _, tok := range all {
		assert.NotEqual(t, token.EOF, tok.Type)
	}
}

func TestParse_Text(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewParseCommand(), "select from t")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "file [0,13)"))
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "1:1 error expected projection")
}

func TestParse_Outline(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewParseCommand(), "from t | head 1", "--outline")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, parser.ParseText("from t | head 1").Outline(), lines)
}

func TestParse_JSON(t *testing.T) {
	useConfig(t, jsonOutput)

	out, _, err := execute(t, NewParseCommand(), "select from t")
	require.NoError(t, err)

	var result ParseJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Tree)
	assert.Equal(t, "file", result.Tree.Kind)
	assert.Equal(t, 13, result.Tree.End)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "expected projection", result.Errors[0].Message)
	assert.Equal(t, 1, result.Errors[0].Line)
}

func TestToNodeJSON_Trivia(t *testing.T) {
	root := parser.ParseText("from t")
	count := func(n *NodeJSON) int {
		var walk func(*NodeJSON) int
		walk = func(n *NodeJSON) int {
			c := 1
			for _, child := range n.Children {
				c += walk(child)
			}
			return c
		}
		return walk(n)
	}
	assert.Greater(t, count(toNodeJSON(root, true)), count(toNodeJSON(root, false)))
}

func TestHighlight_JSON(t *testing.T) {
	useConfig(t, jsonOutput)

	out, _, err := execute(t, NewHighlightCommand(), "from t | head 1")
	require.NoError(t, err)

	var hs []HighlightJSON
	require.NoError(t, json.Unmarshal([]byte(out), &hs))
	require.NotEmpty(t, hs)
	assert.Equal(t, "from", hs[0].Text)
	assert.Equal(t, 0, hs[0].Offset)
}

func TestHighlight_PlainKeepsText(t *testing.T) {
	useConfig(t, nil)
	text := "from t\t| head 1 -- done\n| put s := 'a\nb'\n"

	out, _, err := execute(t, NewHighlightCommand(), text)
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestRenderHighlighted_Styled(t *testing.T) {
	r := testutil.NewTestRendererText()
	text := "from t | head 1"

	got := renderHighlighted(r.Styles(), text, editor.Highlights(parser.ParseText(text)))
	assert.Contains(t, got, "\x1b[")
	assert.Equal(t, text, testutil.StripANSI(got))
}
