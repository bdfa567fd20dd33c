// Package token defines the lexical vocabulary of SuperSQL.
//
// Token types are plain constants so that the lexer tables, the parser and the
// editor services can switch on them cheaply. The lexer tables refer to them
// by name (see Lookup), so renaming a constant means updating lexer.yaml too.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow the lexer table conventions
const (
	// Special tokens
	EOF     TokenType = iota // end of input, never emitted by the lexer
	ILLEGAL                  // a single character no rule matches

	triviaBeg
	WHITESPACE
	LINE_COMMENT  // -- comment
	BLOCK_COMMENT // /* comment */
	triviaEnd

	literalBeg
	IDENT         // name, $special, _bar
	QUOTED_IDENT  // `name`
	INT           // 42
	FLOAT         // 1.5, .5, 1e10
	HEX           // 0x1f
	DURATION      // 1h30m, 500ms
	DATETIME      // 2024-01-01T00:00:00Z
	IP4           // 10.0.0.1
	IP4NET        // 10.0.0.0/8
	IP6           // fe80::1
	IP6NET        // fe80::/10
	STRING        // "text" or 'text'
	RAW_STRING    // r'text'
	NAN           // NaN
	INF           // +Inf, -Inf
	FSTRING_START // f"
	FSTRING_TEXT  // text between interpolations
	FSTRING_END   // closing " of an f-string
	literalEnd

	operatorBeg
	PIPE      // |
	PIPE_GT   // |>
	EQ        // ==
	NE        // !=
	LTGT      // <>
	LT        // <
	GT        // >
	LE        // <=
	GE        // >=
	EQUALS    // =
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	CAST_OP   // ::
	ASSIGN    // :=
	SPREAD    // ...
	CONCAT    // ||
	TILDE     // ~
	BANG      // !
	QUESTION  // ?
	COLON     // :
	AT        // @
	AMP       // &
	ARROW     // =>
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	LSET      // |[
	RSET      // ]|
	LMAP      // |{
	RMAP      // }|
	operatorEnd

	keywordBeg
	// SQL keywords (alphabetical)
	ALL
	AND
	ANTI
	AS
	ASC
	BETWEEN
	BY
	CASE
	CAST
	CROSS
	DATE
	DESC
	DISTINCT
	ELSE
	END
	EXISTS
	EXTRACT
	FALSE
	FIRST
	FOR
	FROM
	FULL
	GROUP
	HAVING
	IN
	INNER
	INTERVAL
	IS
	JOIN
	LAST
	LEFT
	LIKE
	LIMIT
	NOT
	NULL
	NULLS
	OFFSET
	ON
	OR
	ORDER
	ORDINALITY
	OUTER
	RECURSIVE
	RIGHT
	SELECT
	SUBSTRING
	THEN
	TIMESTAMP
	TRUE
	UNION
	USING
	VALUES
	WHEN
	WHERE
	WITH

	pipeBeg
	// Pipe operator keywords
	AGGREGATE
	ASSERT
	CALL
	COUNT
	CUT
	DEBUG
	DEFAULT
	DROP
	EXPLODE
	FORK
	FUSE
	HEAD
	LOAD
	MERGE
	OUTPUT
	PASS
	PUT
	RENAME
	SEARCH
	SHAPES
	SKIP
	SORT
	SUMMARIZE
	SWITCH
	TAIL
	TOP
	UNIQ
	UNNEST
	pipeEnd

	declBeg
	// Declaration keywords
	CONST
	FN
	LAMBDA
	LET
	OP
	PRAGMA
	TYPE
	declEnd

	TYPENAME // int64, string, ip, ...
	keywordEnd

	maxToken
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	WHITESPACE:    "WHITESPACE",
	LINE_COMMENT:  "LINE_COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",

	IDENT:         "IDENT",
	QUOTED_IDENT:  "QUOTED_IDENT",
	INT:           "INT",
	FLOAT:         "FLOAT",
	HEX:           "HEX",
	DURATION:      "DURATION",
	DATETIME:      "DATETIME",
	IP4:           "IP4",
	IP4NET:        "IP4NET",
	IP6:           "IP6",
	IP6NET:        "IP6NET",
	STRING:        "STRING",
	RAW_STRING:    "RAW_STRING",
	NAN:           "NAN",
	INF:           "INF",
	FSTRING_START: "FSTRING_START",
	FSTRING_TEXT:  "FSTRING_TEXT",
	FSTRING_END:   "FSTRING_END",

	PIPE:      "PIPE",
	PIPE_GT:   "PIPE_GT",
	EQ:        "EQ",
	NE:        "NE",
	LTGT:      "LTGT",
	LT:        "LT",
	GT:        "GT",
	LE:        "LE",
	GE:        "GE",
	EQUALS:    "EQUALS",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	STAR:      "STAR",
	SLASH:     "SLASH",
	PERCENT:   "PERCENT",
	CAST_OP:   "CAST_OP",
	ASSIGN:    "ASSIGN",
	SPREAD:    "SPREAD",
	CONCAT:    "CONCAT",
	TILDE:     "TILDE",
	BANG:      "BANG",
	QUESTION:  "QUESTION",
	COLON:     "COLON",
	AT:        "AT",
	AMP:       "AMP",
	ARROW:     "ARROW",
	COMMA:     "COMMA",
	SEMICOLON: "SEMICOLON",
	DOT:       "DOT",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LSET:      "LSET",
	RSET:      "RSET",
	LMAP:      "LMAP",
	RMAP:      "RMAP",

	ALL:        "ALL",
	AND:        "AND",
	ANTI:       "ANTI",
	AS:         "AS",
	ASC:        "ASC",
	BETWEEN:    "BETWEEN",
	BY:         "BY",
	CASE:       "CASE",
	CAST:       "CAST",
	CROSS:      "CROSS",
	DATE:       "DATE",
	DESC:       "DESC",
	DISTINCT:   "DISTINCT",
	ELSE:       "ELSE",
	END:        "END",
	EXISTS:     "EXISTS",
	EXTRACT:    "EXTRACT",
	FALSE:      "FALSE",
	FIRST:      "FIRST",
	FOR:        "FOR",
	FROM:       "FROM",
	FULL:       "FULL",
	GROUP:      "GROUP",
	HAVING:     "HAVING",
	IN:         "IN",
	INNER:      "INNER",
	INTERVAL:   "INTERVAL",
	IS:         "IS",
	JOIN:       "JOIN",
	LAST:       "LAST",
	LEFT:       "LEFT",
	LIKE:       "LIKE",
	LIMIT:      "LIMIT",
	NOT:        "NOT",
	NULL:       "NULL",
	NULLS:      "NULLS",
	OFFSET:     "OFFSET",
	ON:         "ON",
	OR:         "OR",
	ORDER:      "ORDER",
	ORDINALITY: "ORDINALITY",
	OUTER:      "OUTER",
	RECURSIVE:  "RECURSIVE",
	RIGHT:      "RIGHT",
	SELECT:     "SELECT",
	SUBSTRING:  "SUBSTRING",
	THEN:       "THEN",
	TIMESTAMP:  "TIMESTAMP",
	TRUE:       "TRUE",
	UNION:      "UNION",
	USING:      "USING",
	VALUES:     "VALUES",
	WHEN:       "WHEN",
	WHERE:      "WHERE",
	WITH:       "WITH",

	AGGREGATE: "AGGREGATE",
	ASSERT:    "ASSERT",
	CALL:      "CALL",
	COUNT:     "COUNT",
	CUT:       "CUT",
	DEBUG:     "DEBUG",
	DEFAULT:   "DEFAULT",
	DROP:      "DROP",
	EXPLODE:   "EXPLODE",
	FORK:      "FORK",
	FUSE:      "FUSE",
	HEAD:      "HEAD",
	LOAD:      "LOAD",
	MERGE:     "MERGE",
	OUTPUT:    "OUTPUT",
	PASS:      "PASS",
	PUT:       "PUT",
	RENAME:    "RENAME",
	SEARCH:    "SEARCH",
	SHAPES:    "SHAPES",
	SKIP:      "SKIP",
	SORT:      "SORT",
	SUMMARIZE: "SUMMARIZE",
	SWITCH:    "SWITCH",
	TAIL:      "TAIL",
	TOP:       "TOP",
	UNIQ:      "UNIQ",
	UNNEST:    "UNNEST",

	CONST:  "CONST",
	FN:     "FN",
	LAMBDA: "LAMBDA",
	LET:    "LET",
	OP:     "OP",
	PRAGMA: "PRAGMA",
	TYPE:   "TYPE",

	TYPENAME: "TYPENAME",
}

// byName is the reverse of tokenNames, built once at init.
var byName = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenNames))
	for t, name := range tokenNames {
		m[name] = t
	}
	return m
}()

// String returns the string representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Lookup returns the token type with the given constant name, as used by the
// lexer tables ("SELECT", "IDENT", "PIPE_GT").
func Lookup(name string) (TokenType, bool) {
	t, ok := byName[name]
	return t, ok
}

// IsTrivia reports whether the token carries no syntax (whitespace or comments).
func (t TokenType) IsTrivia() bool {
	return t > triviaBeg && t < triviaEnd
}

// IsComment reports whether the token is a line or block comment.
func (t TokenType) IsComment() bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT
}

// IsLiteral reports whether the token is an identifier or literal value.
func (t TokenType) IsLiteral() bool {
	return t > literalBeg && t < literalEnd
}

// IsOperator reports whether the token is an operator or punctuation.
func (t TokenType) IsOperator() bool {
	return t > operatorBeg && t < operatorEnd
}

// IsKeyword reports whether the token is any reserved or contextual word.
func (t TokenType) IsKeyword() bool {
	return t > keywordBeg && t < keywordEnd
}

// IsSQLKeyword reports whether the token is one of the SQL keywords.
func (t TokenType) IsSQLKeyword() bool {
	return t > keywordBeg && t < pipeBeg
}

// IsPipeKeyword reports whether the token names a pipe operator.
func (t TokenType) IsPipeKeyword() bool {
	return t > pipeBeg && t < pipeEnd
}

// IsDeclKeyword reports whether the token starts a declaration.
func (t TokenType) IsDeclKeyword() bool {
	return t > declBeg && t < declEnd
}

// IsSoftKeyword reports whether the keyword may also be used as a name in
// expression position, e.g. a field called "count" or a function "left".
func (t TokenType) IsSoftKeyword() bool {
	switch t {
	case FIRST, LAST, LEFT, RIGHT, TYPENAME:
		return true
	case LAMBDA:
		return false
	}
	return t.IsPipeKeyword() || t.IsDeclKeyword()
}

// Keywords returns every keyword token type in declaration order, without
// TYPENAME.
func Keywords() []TokenType {
	var out []TokenType
	for t := keywordBeg + 1; t < TYPENAME; t++ {
		if _, ok := tokenNames[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Token represents a lexical token. Tokens are values and are never modified
// after the lexer produces them.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Span returns the byte range the token covers.
func (t Token) Span() Span {
	return Span{Offset: t.Pos.Offset, Length: len(t.Literal)}
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Pos.Offset + len(t.Literal)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}
