package lint

import (
	"cmp"
	"slices"

	"github.com/leapstack-labs/supersql/pkg/syntax"
)

// Analyzer runs the registered lint rules against parsed files.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs every enabled rule that applies to the file's kind and
// returns the diagnostics ordered by position, then rule ID.
func (a *Analyzer) Analyze(file *File) []Diagnostic {
	if file == nil || file.Root == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID()) || !rule.AppliesTo(file.Kind) {
			continue
		}

		diags := rule.Check(file, a.config.GetRuleOptions(rule.ID()))
		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID(), diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	slices.SortStableFunc(diagnostics, func(x, y Diagnostic) int {
		if c := cmp.Compare(x.Span.Offset, y.Span.Offset); c != 0 {
			return c
		}
		return cmp.Compare(x.RuleID, y.RuleID)
	})
	return diagnostics
}

// AnalyzeTree wraps root in a File of the given kind and analyzes it.
func (a *Analyzer) AnalyzeTree(root *syntax.Node, kind FileKind) []Diagnostic {
	if root == nil {
		return nil
	}
	return a.Analyze(NewFile(root, kind))
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d Diagnostic) bool { return d.Severity == SeverityError })
}
