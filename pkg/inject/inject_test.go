package inject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/inject"
	"github.com/leapstack-labs/supersql/pkg/token"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		script string
		kinds  []inject.Kind
		texts  []string
	}{
		{
			name:   "single quoted argument",
			script: "super -c 'from t | head 1'",
			kinds:  []inject.Kind{inject.Argument},
			texts:  []string{"from t | head 1"},
		},
		{
			name:   "double quoted with escapes and options",
			script: `super -s -c "values \"x\"" data.json`,
			kinds:  []inject.Kind{inject.Argument},
			texts:  []string{`values \"x\"`},
		},
		{
			name:   "long flag",
			script: "echo hi; super --command 'from t'",
			kinds:  []inject.Kind{inject.Argument},
			texts:  []string{"from t"},
		},
		{
			name:   "two commands",
			script: "super -c 'from a'\nsuper -c 'from b'\n",
			kinds:  []inject.Kind{inject.Argument, inject.Argument},
			texts:  []string{"from a", "from b"},
		},
		{
			name:   "heredoc after -c",
			script: "super -c <<EOF\nfrom t\n| head 1\nEOF\necho done\n",
			kinds:  []inject.Kind{inject.Heredoc},
			texts:  []string{"from t\n| head 1\n"},
		},
		{
			name:   "marker heredoc",
			script: "cat <<'SPQ' | super -\nfrom t\nSPQ\n",
			kinds:  []inject.Kind{inject.Heredoc},
			texts:  []string{"from t\n"},
		},
		{
			name:   "indented marker",
			script: "cat <<-ZQ\n\tfrom t\n\tZQ\n",
			kinds:  []inject.Kind{inject.Heredoc},
			texts:  []string{"\tfrom t\n"},
		},
		{
			name:   "crlf heredoc",
			script: "cat <<SUPERSQL\r\nfrom t\r\nSUPERSQL\r\n",
			kinds:  []inject.Kind{inject.Heredoc},
			texts:  []string{"from t\r\n"},
		},
		{
			name:   "unterminated quote runs to end",
			script: "super -c 'from t",
			kinds:  []inject.Kind{inject.Argument},
			texts:  []string{"from t"},
		},
		{
			name:   "heredoc inside argument dropped",
			script: "super -c 'cat <<SPQ\nx\nSPQ'",
			kinds:  []inject.Kind{inject.Argument},
			texts:  []string{"cat <<SPQ\nx\nSPQ"},
		},
		{
			name:   "other heredoc ignored",
			script: "cat <<EOF\nhello\nEOF\n",
		},
		{
			name:   "here-string ignored",
			script: "super -c <<< 'from t'",
		},
		{
			name:   "other command ignored",
			script: "superuser -c 'from t'",
		},
		{
			name:   "unquoted argument ignored",
			script: "super -c query.spq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions := inject.Find(tt.script)
			require.Len(t, regions, len(tt.texts))
			for i, r := range regions {
				assert.Equal(t, tt.kinds[i], r.Kind)
				assert.Equal(t, tt.texts[i], r.Text(tt.script))
			}
		})
	}
}

func TestRegion_Details(t *testing.T) {
	regions := inject.Find("cat <<'SPQ'\nfrom t\nSPQ\nsuper -c \"head 1\"")
	require.Len(t, regions, 2)

	assert.Equal(t, "SPQ", regions[0].Marker)
	assert.Equal(t, 12, regions[0].Span.Offset)
	assert.Equal(t, byte('"'), regions[1].Quote)
	assert.Equal(t, "argument", regions[1].Kind.String())
	assert.Equal(t, "heredoc", regions[0].Kind.String())
}

func TestRegion_ToScript(t *testing.T) {
	r := inject.Region{Kind: inject.Argument, Span: token.Span{Offset: 10, Length: 15}}
	assert.Equal(t, token.Span{Offset: 12, Length: 3}, r.ToScript(token.Span{Offset: 2, Length: 3}))
}

func TestParse(t *testing.T) {
	script := "super -c 'select from t'\nsuper -c 'from t | head 1'\n"
	progs := inject.Parse(script)
	require.Len(t, progs, 2)

	require.True(t, progs[0].Root.HasErrors())
	errs := progs[0].Root.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, 16, progs[0].ToScript(errs[0].Span).Offset)

	assert.False(t, progs[1].Root.HasErrors())
	assert.Equal(t, "from t | head 1", progs[1].Root.Text())
}
