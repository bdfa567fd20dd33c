package lint

import "slices"

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "AM01" or "SS01"
	ID() string

	// Name returns the human-readable name, e.g., "ambiguous.distinct"
	Name() string

	// Group returns the category, e.g., "syntax", "structure"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// AppliesTo reports whether the rule runs on files of the given kind.
	AppliesTo(kind FileKind) bool

	// Check analyzes a file and returns diagnostics. The opts parameter
	// contains rule-specific options from configuration.
	Check(file *File, opts map[string]any) []Diagnostic
}

// CheckFunc analyzes a file and returns diagnostics.
type CheckFunc func(file *File, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless; all context comes via the Check function parameters.
type RuleDef struct {
	ID          string
	Name        string
	Group       string
	Description string
	Severity    Severity
	ConfigKeys  []string
	// FileKinds restricts the rule to some kinds of file; empty means
	// query files only.
	FileKinds []FileKind
	Check     CheckFunc
}

// RuleInfo provides metadata about a rule for documentation/tooling.
type RuleInfo struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty"`
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) RuleInfo {
	return RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
	}
}

// wrappedRuleDef adapts a RuleDef to the Rule interface.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement Rule.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                { return w.def.ID }
func (w *wrappedRuleDef) Name() string              { return w.def.Name }
func (w *wrappedRuleDef) Group() string             { return w.def.Group }
func (w *wrappedRuleDef) Description() string       { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string      { return w.def.ConfigKeys }

func (w *wrappedRuleDef) AppliesTo(kind FileKind) bool {
	if len(w.def.FileKinds) == 0 {
		return kind == FileQuery
	}
	return slices.Contains(w.def.FileKinds, kind)
}

func (w *wrappedRuleDef) Check(file *File, opts map[string]any) []Diagnostic {
	return w.def.Check(file, opts)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
