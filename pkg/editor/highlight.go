package editor

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Class is a highlighting category.
type Class uint8

// Highlighting classes.
const (
	ClassNone Class = iota
	ClassKeyword
	ClassPipeKeyword
	ClassDeclKeyword
	ClassType
	ClassConstant
	ClassNumber
	ClassString
	ClassFString
	ClassComment
	ClassOperator
	ClassBracket
	ClassPunctuation
	ClassIdentifier
	ClassFunction
	ClassBadCharacter
)

var classNames = [...]string{
	ClassNone:         "none",
	ClassKeyword:      "keyword",
	ClassPipeKeyword:  "pipe-keyword",
	ClassDeclKeyword:  "decl-keyword",
	ClassType:         "type",
	ClassConstant:     "constant",
	ClassNumber:       "number",
	ClassString:       "string",
	ClassFString:      "fstring",
	ClassComment:      "comment",
	ClassOperator:     "operator",
	ClassBracket:      "bracket",
	ClassPunctuation:  "punctuation",
	ClassIdentifier:   "identifier",
	ClassFunction:     "function",
	ClassBadCharacter: "bad-character",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "none"
}

// Classes returns every class except ClassNone, in declaration order. The
// index of a class in this slice is stable and is used as the semantic
// token type index by the language server.
func Classes() []Class {
	out := make([]Class, 0, len(classNames)-1)
	for c := ClassKeyword; int(c) < len(classNames); c++ {
		out = append(out, c)
	}
	return out
}

// ClassOf returns the class of a token type taken on its own.
func ClassOf(t token.TokenType) Class {
	switch t {
	case token.LINE_COMMENT, token.BLOCK_COMMENT:
		return ClassComment
	case token.ILLEGAL:
		return ClassBadCharacter
	case token.TYPENAME:
		return ClassType
	case token.TRUE, token.FALSE, token.NULL, token.NAN, token.INF:
		return ClassConstant
	case token.INT, token.FLOAT, token.HEX, token.DURATION, token.DATETIME,
		token.IP4, token.IP4NET, token.IP6, token.IP6NET:
		return ClassNumber
	case token.STRING, token.RAW_STRING:
		return ClassString
	case token.FSTRING_START, token.FSTRING_TEXT, token.FSTRING_END:
		return ClassFString
	case token.IDENT, token.QUOTED_IDENT:
		return ClassIdentifier
	case token.LPAREN, token.RPAREN, token.LBRACKET, token.RBRACKET,
		token.LBRACE, token.RBRACE, token.LSET, token.RSET, token.LMAP, token.RMAP:
		return ClassBracket
	case token.COMMA, token.SEMICOLON, token.DOT:
		return ClassPunctuation
	}
	switch {
	case t.IsOperator():
		return ClassOperator
	case t.IsPipeKeyword():
		return ClassPipeKeyword
	case t.IsDeclKeyword():
		return ClassDeclKeyword
	case t.IsKeyword():
		return ClassKeyword
	}
	return ClassNone
}

// Highlight is the class of one token.
type Highlight struct {
	Token token.Token
	Class Class
}

// Highlights classifies every non-whitespace token of the tree in source
// order. Classification uses the tree where the token alone is ambiguous:
// a soft keyword used as a name is an identifier, and a builtin function
// name directly followed by "(" is a function.
func Highlights(root *syntax.Node) []Highlight {
	var leaves []leaf
	collect(root, syntax.InvalidKind, &leaves)

	out := make([]Highlight, 0, len(leaves))
	for i, l := range leaves {
		if l.tok.Type == token.WHITESPACE || l.tok.Type == token.EOF {
			continue
		}
		class := ClassOf(l.tok.Type)
		if l.tok.Type.IsSoftKeyword() && namePosition(l.parent) {
			class = ClassIdentifier
		}
		if class == ClassIdentifier && l.tok.Type != token.QUOTED_IDENT &&
			nextSignificant(leaves, i) == token.LPAREN {
			if _, ok := LookupBuiltin(l.tok.Literal); ok {
				class = ClassFunction
			}
		}
		out = append(out, Highlight{Token: l.tok, Class: class})
	}
	return out
}

type leaf struct {
	tok    token.Token
	parent syntax.Kind
}

func collect(n *syntax.Node, parent syntax.Kind, out *[]leaf) {
	if tok, ok := n.Token(); ok {
		*out = append(*out, leaf{tok: tok, parent: parent})
		return
	}
	for c := range n.Children() {
		collect(c, n.Kind(), out)
	}
}

// namePosition reports whether a token directly under a node of kind k
// is used as a name.
func namePosition(k syntax.Kind) bool {
	switch k {
	case syntax.NameRef, syntax.Alias, syntax.ParamList, syntax.NamedType, syntax.FieldExpr:
		return true
	}
	return false
}

func nextSignificant(leaves []leaf, i int) token.TokenType {
	for _, l := range leaves[i+1:] {
		if !l.tok.Type.IsTrivia() {
			return l.tok.Type
		}
	}
	return token.EOF
}

// Builtin describes a function provided by the query runtime.
type Builtin struct {
	Name      string
	Aggregate bool
}

var (
	scalarFunctions = []string{
		"abs", "base64", "bucket", "ceil", "cidr_match", "coalesce", "compare",
		"date_part", "fields", "flatten", "floor", "grep", "grok", "has",
		"has_error", "hex", "is_error", "join", "kind", "ksuid", "len", "length",
		"levenshtein", "log", "lower", "max", "min", "missing", "nameof",
		"nest_dotted", "network_of", "now", "nullif", "parse_sup", "parse_uri",
		"position", "pow", "quiet", "regexp", "regexp_replace", "replace",
		"round", "split", "sqrt", "strftime", "trim", "typename", "typeof",
		"under", "unflatten", "upper",
	}
	// count and fuse are keywords too; they count as builtins only in call
	// position.
	aggregateFunctions = []string{
		"any", "avg", "collect", "collect_map", "count", "dcount", "fuse", "sum",
	}
)

var builtins = func() map[string]Builtin {
	m := make(map[string]Builtin, len(scalarFunctions)+len(aggregateFunctions))
	for _, name := range scalarFunctions {
		m[name] = Builtin{Name: name}
	}
	for _, name := range aggregateFunctions {
		m[name] = Builtin{Name: name, Aggregate: true}
	}
	return m
}()

// LookupBuiltin returns the builtin with the given name, ignoring case.
func LookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtins[strings.ToLower(name)]
	return b, ok
}

// Builtins returns every builtin sorted by name.
func Builtins() []Builtin {
	out := make([]Builtin, 0, len(builtins))
	for _, b := range builtins {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Builtin) int { return strings.Compare(a.Name, b.Name) })
	return out
}
