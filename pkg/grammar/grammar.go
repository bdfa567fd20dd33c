// Package grammar loads the declarative SuperSQL rule files.
//
// The lexical rules (lexer.yaml) and the syntactic tables (grammar.yaml) are
// data, not code: both files are embedded, carry a format version and are
// compiled exactly once into immutable tables that every lexer and parser
// instance shares.
package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Version is the rule-file format this package understands.
const Version = 1

// Rule file names, used in errors.
const (
	LexerFile   = "lexer.yaml"
	GrammarFile = "grammar.yaml"
)

//go:embed lexer.yaml
var lexerYAML []byte

//go:embed grammar.yaml
var grammarYAML []byte

// ErrVersion is returned when a rule file declares an unsupported version.
var ErrVersion = errors.New("unsupported rule file version")

// RuleError reports an invalid rule in one of the rule files.
type RuleError struct {
	File string
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.File, e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// Tables bundles the compiled lexical and syntactic rules.
type Tables struct {
	Lexical *LexTables
	Syntax  *SyntaxTables
}

// Load compiles a pair of rule files.
func Load(lexerSrc, grammarSrc []byte) (*Tables, error) {
	var lf lexerFile
	if err := decode(LexerFile, lexerSrc, &lf); err != nil {
		return nil, err
	}
	if lf.Version != Version {
		return nil, &RuleError{File: LexerFile, Err: fmt.Errorf("%w: %d", ErrVersion, lf.Version)}
	}
	var gf grammarFile
	if err := decode(GrammarFile, grammarSrc, &gf); err != nil {
		return nil, err
	}
	if gf.Version != Version {
		return nil, &RuleError{File: GrammarFile, Err: fmt.Errorf("%w: %d", ErrVersion, gf.Version)}
	}

	lex, err := compileLexer(&lf)
	if err != nil {
		return nil, err
	}
	syn, err := compileSyntax(&gf)
	if err != nil {
		return nil, err
	}
	return &Tables{Lexical: lex, Syntax: syn}, nil
}

func decode(file string, src []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return &RuleError{File: file, Err: err}
	}
	return nil
}

var loadDefault = sync.OnceValues(func() (*Tables, error) {
	return Load(lexerYAML, grammarYAML)
})

// Default returns the tables compiled from the embedded rule files. The
// embedded files ship with the binary, so a compile failure is a build
// defect and panics.
func Default() *Tables {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("grammar: embedded rules: %v", err))
	}
	return t
}

// Sources returns the embedded rule files, for tooling that wants to show or
// derive from them.
func Sources() (lexer, grammar []byte) {
	return bytes.Clone(lexerYAML), bytes.Clone(grammarYAML)
}
