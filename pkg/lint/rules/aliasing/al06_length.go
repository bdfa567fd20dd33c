package aliasing

import (
	"strconv"
	"unicode/utf8"

	"github.com/leapstack-labs/supersql/pkg/ast"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

func init() {
	lint.Register(AliasLength)
}

// AliasLength enforces alias length constraints.
var AliasLength = lint.RuleDef{
	ID:          "AL06",
	Name:        "aliasing.length",
	Group:       "aliasing",
	Description: "Alias length should be between min and max characters.",
	Severity:    lint.SeverityInfo,
	ConfigKeys:  []string{"min_length", "max_length"},
	Check:       checkAliasLength,
}

const (
	defaultMinLength = 1
	defaultMaxLength = 30
)

func checkAliasLength(file *lint.File, opts map[string]any) []lint.Diagnostic {
	minLen := lint.GetIntOption(opts, "min_length", defaultMinLength)
	maxLen := lint.GetIntOption(opts, "max_length", defaultMaxLength)

	var diagnostics []lint.Diagnostic
	check := func(what string, n *syntax.Node, alias string) {
		var msg string
		switch length := utf8.RuneCountInString(alias); {
		case length < minLen:
			msg = what + " alias '" + alias + "' is too short; minimum length is " + strconv.Itoa(minLen)
		case length > maxLen:
			msg = what + " alias '" + alias + "' is too long; maximum length is " + strconv.Itoa(maxLen)
		default:
			return
		}
		diagnostics = append(diagnostics, file.Report("AL06", lint.SeverityInfo, lint.SpanOf(aliasNode(n)), msg))
	}

	for n := range file.Root.Walk() {
		switch n.Kind() {
		case syntax.Source:
			src, _ := ast.AsSource(n)
			if alias, ok := src.Alias(); ok {
				check("Table", n, alias)
			}
		case syntax.Projection:
			p, _ := ast.AsProjection(n)
			if alias, ok := p.Alias(); ok {
				check("Column", n, alias)
			}
		}
	}
	return diagnostics
}

func aliasNode(n *syntax.Node) *syntax.Node {
	for c := range n.Children() {
		if c.Is(syntax.Alias) {
			return c
		}
	}
	return n
}
