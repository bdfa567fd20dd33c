// Package rules provides the SuperSQL lint rule implementations.
//
// Rules are organized by category, following SQLFluff's naming where the
// rule has an SQL counterpart:
//   - parsing: syntax errors and SuperJSON data-file checks (SS01, SD01)
//   - ambiguous: ambiguous constructs (AM01-AM09)
//   - structure: query structure and style (ST01-ST10)
//   - convention: preferred spellings and blocked operators (CV01-CV09)
//   - aliasing: alias usage and naming (AL03-AL09)
//   - references: column qualification (RF02-RF03)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/supersql/pkg/lint/rules"
package rules
