package grammar

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// Rule names a grammar rule that owns a recovery set.
type Rule string

// Grammar rules the parser consults for recovery. grammar.yaml may only name
// these.
const (
	RuleFile        Rule = "file"
	RuleStatement   Rule = "statement"
	RuleDecl        Rule = "declaration"
	RulePipeline    Rule = "pipeline"
	RuleOperator    Rule = "operator"
	RuleScope       Rule = "scope"
	RuleWith        Rule = "with-clause"
	RuleSelect      Rule = "select-clause"
	RuleProjection  Rule = "projection-list"
	RuleFrom        Rule = "from-clause"
	RuleJoin        Rule = "join"
	RuleWhere       Rule = "where-clause"
	RuleGroupBy     Rule = "group-by-clause"
	RuleOrderBy     Rule = "order-by-clause"
	RuleLimit       Rule = "limit-clause"
	RuleParen       Rule = "paren"
	RuleArgList     Rule = "arg-list"
	RuleBracket     Rule = "bracket"
	RuleRecord      Rule = "record"
	RuleSet         Rule = "set-literal"
	RuleMap         Rule = "map-literal"
	RuleCase        Rule = "case-expr"
	RuleSwitch      Rule = "switch-op"
	RuleFString     Rule = "fstring"
	RuleType        Rule = "type"
	RuleParamList   Rule = "param-list"
	RuleAssignments Rule = "assignments"
)

var knownRules = []Rule{
	RuleFile, RuleStatement, RuleDecl, RulePipeline, RuleOperator, RuleScope,
	RuleWith, RuleSelect, RuleProjection, RuleFrom, RuleJoin, RuleWhere,
	RuleGroupBy, RuleOrderBy, RuleLimit, RuleParen, RuleArgList, RuleBracket,
	RuleRecord, RuleSet, RuleMap, RuleCase, RuleSwitch, RuleFString, RuleType,
	RuleParamList, RuleAssignments,
}

// Assoc is operator associativity.
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

func (a Assoc) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// Binding is the precedence and associativity of an operator token. Higher
// precedence binds tighter.
type Binding struct {
	Precedence int
	Assoc      Assoc
}

// SyntaxTables are the compiled parser tables.
type SyntaxTables struct {
	MaxDepth int

	infix    map[token.TokenType]Binding
	prefix   map[token.TokenType]Binding
	postfix  map[token.TokenType]Binding
	recovery map[Rule]token.Set
}

// Infix returns the binding of t as a binary operator.
func (s *SyntaxTables) Infix(t token.TokenType) (Binding, bool) {
	b, ok := s.infix[t]
	return b, ok
}

// Prefix returns the binding of t as a unary prefix operator.
func (s *SyntaxTables) Prefix(t token.TokenType) (Binding, bool) {
	b, ok := s.prefix[t]
	return b, ok
}

// Postfix returns the binding of t as a postfix operator (call, index,
// field access, cast).
func (s *SyntaxTables) Postfix(t token.TokenType) (Binding, bool) {
	b, ok := s.postfix[t]
	return b, ok
}

// Recovery returns the synchronization tokens of a rule. Unlisted rules have
// an empty set.
func (s *SyntaxTables) Recovery(r Rule) token.Set {
	return s.recovery[r]
}

// grammarFile mirrors grammar.yaml.
type grammarFile struct {
	Version   int `yaml:"version"`
	MaxDepth  int `yaml:"max_depth"`
	Operators struct {
		Infix   []opSpec `yaml:"infix"`
		Prefix  []opSpec `yaml:"prefix"`
		Postfix []opSpec `yaml:"postfix"`
	} `yaml:"operators"`
	Recovery map[string][]string `yaml:"recovery"`
}

type opSpec struct {
	Tokens     []string `yaml:"tokens"`
	Precedence int      `yaml:"precedence"`
	Assoc      string   `yaml:"assoc"`
}

func compileSyntax(f *grammarFile) (*SyntaxTables, error) {
	if f.MaxDepth <= 0 {
		return nil, &RuleError{File: GrammarFile, Rule: "max_depth", Err: fmt.Errorf("must be positive, got %d", f.MaxDepth)}
	}
	tables := &SyntaxTables{
		MaxDepth: f.MaxDepth,
		recovery: make(map[Rule]token.Set, len(f.Recovery)),
	}

	var err error
	if tables.infix, err = compileOps("infix", f.Operators.Infix); err != nil {
		return nil, err
	}
	if tables.prefix, err = compileOps("prefix", f.Operators.Prefix); err != nil {
		return nil, err
	}
	if tables.postfix, err = compileOps("postfix", f.Operators.Postfix); err != nil {
		return nil, err
	}

	for name, kinds := range f.Recovery {
		rule := Rule(name)
		if !slices.Contains(knownRules, rule) {
			return nil, &RuleError{File: GrammarFile, Rule: name, Err: fmt.Errorf("unknown grammar rule")}
		}
		var set token.Set
		for _, k := range kinds {
			t, ok := token.Lookup(k)
			if !ok {
				return nil, &RuleError{File: GrammarFile, Rule: name, Err: fmt.Errorf("unknown token kind %q", k)}
			}
			set = set.With(t)
		}
		tables.recovery[rule] = set
	}
	return tables, nil
}

func compileOps(section string, specs []opSpec) (map[token.TokenType]Binding, error) {
	out := make(map[token.TokenType]Binding)
	for i, spec := range specs {
		rule := fmt.Sprintf("operators.%s[%d]", section, i)
		if spec.Precedence <= 0 {
			return nil, &RuleError{File: GrammarFile, Rule: rule, Err: fmt.Errorf("precedence must be positive")}
		}
		var assoc Assoc
		switch spec.Assoc {
		case "", "left":
			assoc = AssocLeft
		case "right":
			assoc = AssocRight
		default:
			return nil, &RuleError{File: GrammarFile, Rule: rule, Err: fmt.Errorf("unknown associativity %q", spec.Assoc)}
		}
		for _, k := range spec.Tokens {
			t, ok := token.Lookup(k)
			if !ok {
				return nil, &RuleError{File: GrammarFile, Rule: rule, Err: fmt.Errorf("unknown token kind %q", k)}
			}
			if _, dup := out[t]; dup {
				return nil, &RuleError{File: GrammarFile, Rule: rule, Err: fmt.Errorf("%s listed twice", k)}
			}
			out[t] = Binding{Precedence: spec.Precedence, Assoc: assoc}
		}
	}
	return out, nil
}
