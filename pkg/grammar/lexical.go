package grammar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// LexTables are the compiled lexical rules, partitioned into states.
type LexTables struct {
	states  []*State
	initial *State
}

// Initial returns the state the lexer starts in.
func (l *LexTables) Initial() *State {
	return l.initial
}

// State returns the state with the given name.
func (l *LexTables) State(name string) (*State, bool) {
	for _, s := range l.states {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// State is a named set of rules. Rules are ordered by priority: on equal
// match length the rule that comes first wins.
type State struct {
	Name  string
	Rules []*LexRule

	byFirst [256][]*LexRule
}

// Candidates returns, in priority order, the rules that can match input
// starting with byte b. Every other rule of the state fails on such input.
func (s *State) Candidates(b byte) []*LexRule {
	return s.byFirst[b]
}

func (s *State) index() {
	for b := range 256 {
		for _, r := range s.Rules {
			if r.first.has(byte(b)) {
				s.byFirst[b] = append(s.byFirst[b], r)
			}
		}
	}
}

type matchKind int

const (
	matchPattern matchKind = iota
	matchLiteral
	matchWord
)

// LexRule is one compiled lexical rule.
type LexRule struct {
	Type     token.TokenType
	Priority int
	Push     *State // state entered after this rule matches, if any
	Pop      bool   // leave the current state after this rule matches

	kind   matchKind
	text   string // literal or lower-cased word
	re     *regexp.Regexp
	prefix string // literal prefix of re, for quick rejection
	first  byteSet
}

// Match returns the length of the longest match of the rule at the start of
// input, or 0 when the rule does not match.
func (r *LexRule) Match(input string) int {
	switch r.kind {
	case matchLiteral:
		if strings.HasPrefix(input, r.text) {
			return len(r.text)
		}
	case matchWord:
		if len(input) >= len(r.text) && strings.EqualFold(input[:len(r.text)], r.text) {
			return len(r.text)
		}
	case matchPattern:
		if r.prefix != "" && !strings.HasPrefix(input, r.prefix) {
			return 0
		}
		if loc := r.re.FindStringIndex(input); loc != nil {
			return loc[1]
		}
	}
	return 0
}

func (r *LexRule) String() string {
	switch r.kind {
	case matchLiteral:
		return fmt.Sprintf("%s literal %q", r.Type, r.text)
	case matchWord:
		return fmt.Sprintf("%s word %q", r.Type, r.text)
	default:
		return fmt.Sprintf("%s pattern %s", r.Type, r.re)
	}
}

// lexerFile mirrors lexer.yaml.
type lexerFile struct {
	Version int         `yaml:"version"`
	States  []stateSpec `yaml:"states"`
}

type stateSpec struct {
	Name    string     `yaml:"name"`
	Extends string     `yaml:"extends"`
	Rules   []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Kind    string   `yaml:"kind"`
	Pattern string   `yaml:"pattern"`
	Literal string   `yaml:"literal"`
	Word    string   `yaml:"word"`
	Words   []string `yaml:"words"`
	Push    string   `yaml:"push"`
	Pop     bool     `yaml:"pop"`
}

// compileLexer turns the decoded rule file into tables. The first state is
// the initial one.
func compileLexer(f *lexerFile) (*LexTables, error) {
	if len(f.States) == 0 {
		return nil, &RuleError{File: LexerFile, Err: fmt.Errorf("no states defined")}
	}

	specs := make(map[string]*stateSpec, len(f.States))
	tables := &LexTables{}
	for i := range f.States {
		spec := &f.States[i]
		if spec.Name == "" {
			return nil, &RuleError{File: LexerFile, Err: fmt.Errorf("state %d has no name", i)}
		}
		if _, dup := specs[spec.Name]; dup {
			return nil, &RuleError{File: LexerFile, Rule: spec.Name, Err: fmt.Errorf("duplicate state")}
		}
		specs[spec.Name] = spec
		tables.states = append(tables.states, &State{Name: spec.Name})
	}
	tables.initial = tables.states[0]

	byName := make(map[string]*State, len(tables.states))
	for _, s := range tables.states {
		byName[s.Name] = s
	}

	for _, s := range tables.states {
		chain, err := extendsChain(specs, s.Name)
		if err != nil {
			return nil, err
		}
		for _, spec := range chain {
			for j, rs := range spec.Rules {
				rules, err := compileRule(rs, byName)
				if err != nil {
					return nil, &RuleError{File: LexerFile, Rule: fmt.Sprintf("%s[%d]", spec.Name, j), Err: err}
				}
				for _, r := range rules {
					r.Priority = len(s.Rules)
					s.Rules = append(s.Rules, r)
				}
			}
		}
		s.index()
	}
	return tables, nil
}

// extendsChain returns the state followed by its ancestors, nearest first.
func extendsChain(specs map[string]*stateSpec, name string) ([]*stateSpec, error) {
	var chain []*stateSpec
	seen := make(map[string]bool)
	for name != "" {
		if seen[name] {
			return nil, &RuleError{File: LexerFile, Rule: name, Err: fmt.Errorf("state inheritance cycle")}
		}
		seen[name] = true
		spec, ok := specs[name]
		if !ok {
			return nil, &RuleError{File: LexerFile, Rule: name, Err: fmt.Errorf("unknown state")}
		}
		chain = append(chain, spec)
		name = spec.Extends
	}
	return chain, nil
}

func compileRule(rs ruleSpec, states map[string]*State) ([]*LexRule, error) {
	typ, ok := token.Lookup(rs.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", rs.Kind)
	}

	base := LexRule{Type: typ, Pop: rs.Pop}
	if rs.Push != "" {
		target, ok := states[rs.Push]
		if !ok {
			return nil, fmt.Errorf("push to unknown state %q", rs.Push)
		}
		base.Push = target
	}

	set := 0
	for _, present := range []bool{rs.Pattern != "", rs.Literal != "", rs.Word != "", len(rs.Words) > 0} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%s: exactly one of pattern, literal, word, words is required", rs.Kind)
	}

	switch {
	case rs.Literal != "":
		r := base
		r.kind = matchLiteral
		r.text = rs.Literal
		r.first = textFirst(r.text, false)
		return []*LexRule{&r}, nil

	case rs.Word != "" || len(rs.Words) > 0:
		words := rs.Words
		if rs.Word != "" {
			words = []string{rs.Word}
		}
		rules := make([]*LexRule, 0, len(words))
		for _, w := range words {
			if w == "" {
				return nil, fmt.Errorf("%s: empty word", rs.Kind)
			}
			r := base
			r.kind = matchWord
			r.text = strings.ToLower(w)
			r.first = textFirst(r.text, true)
			rules = append(rules, &r)
		}
		return rules, nil

	default:
		re, err := regexp.Compile(`^(?:` + rs.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rs.Kind, err)
		}
		re.Longest()
		r := base
		r.kind = matchPattern
		r.re = re
		r.prefix, _ = re.LiteralPrefix()
		r.first = patternFirst(rs.Pattern)
		return []*LexRule{&r}, nil
	}
}
