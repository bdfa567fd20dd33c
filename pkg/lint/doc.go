// Package lint checks SuperSQL syntax trees.
//
// # Rule Registration
//
// Rules are registered via init() functions when their packages are imported:
//
//	import _ "github.com/leapstack-labs/supersql/pkg/lint/rules"
//
// # Rule Categories
//
//   - SS (Syntax): parse errors and SuperJSON data-file checks
//   - AL (Aliasing): alias usage and naming
//   - AM (Ambiguous): constructs whose meaning is easy to misread
//   - CV (Convention): preferred spellings and blocked operators
//   - RF (References): column qualification
//   - ST (Structure): query structure and style
//
// Rules run on query files (.spq) unless they declare other FileKinds;
// data files (.sup) only see the rules that opt in.
//
// # Configuration
//
// Use Config to control which rules are enabled, their severity and options:
//
//	config := lint.NewConfig()
//	config.Disable("AM01")
//	config.SetSeverity("CV05", lint.SeverityError)
//	config.SetRuleOptions("AL06", map[string]any{"min_length": 3})
//
//	diags := lint.NewAnalyzer(config).Analyze(lint.NewFile(root, lint.FileQuery))
//
// # Creating Custom Rules
//
//	var MyRule = lint.RuleDef{
//		ID:          "MY01",
//		Name:        "my.custom_rule",
//		Group:       "custom",
//		Description: "My custom rule description",
//		Severity:    lint.SeverityWarning,
//		Check:       checkMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
