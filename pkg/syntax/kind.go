package syntax

import "fmt"

// Kind tags a Node with the grammar rule that produced it.
type Kind uint16

// Node kinds. The kebab-case names in kindNames are part of the public
// vocabulary: editor integrations and grammar.yaml refer to them.
const (
	InvalidKind Kind = iota
	TokenNode        // leaf wrapping a single token
	File
	ErrorNode

	// Declarations
	ConstDecl
	LetDecl
	FnDecl
	OpDecl
	TypeDecl
	PragmaDecl
	ParamList

	// Queries
	Pipeline
	Scope
	SQLQuery
	WithClause
	CTE
	SetOperation
	SelectClause
	ProjectionList
	Projection
	Alias
	FromClause
	Source
	Join
	UsingList
	WhereClause
	GroupByClause
	HavingClause
	OrderByClause
	OrderItem
	LimitClause

	// Pipe operators
	FromOp
	WhereOp
	SortOp
	HeadOp
	TailOp
	SkipOp
	TopOp
	CutOp
	DropOp
	PutOp
	RenameOp
	UniqOp
	FuseOp
	ShapesOp
	PassOp
	ExplodeOp
	MergeOp
	UnnestOp
	LoadOp
	OutputOp
	DebugOp
	CountOp
	CallOp
	AggregateOp
	SearchOp
	AssertOp
	ValuesOp
	DistinctOp
	ForkOp
	SwitchOp
	SwitchCase
	Assignment
	ExprList

	// Expressions
	BinaryExpr
	UnaryExpr
	ConditionalExpr
	ParenExpr
	SubqueryExpr
	CallExpr
	ArgList
	NameRef
	Literal
	TypedLiteral
	RecordExpr
	RecordField
	SpreadExpr
	ArrayExpr
	SetExpr
	MapExpr
	MapEntry
	IndexExpr
	FieldExpr
	CastExpr
	TypeCast
	CaseExpr
	WhenClause
	ElseClause
	FString
	Interpolation
	LambdaExpr
	ExistsExpr
	InExpr
	BetweenExpr
	IsExpr
	ExtractExpr
	StarExpr

	// Types
	PrimitiveType
	NamedType
	RecordType
	TypeField
	ArrayType
	SetType
	MapType
	UnionType

	maxKind
)

var kindNames = [...]string{
	InvalidKind: "invalid",
	TokenNode:   "token",
	File:        "file",
	ErrorNode:   "error",

	ConstDecl:  "const-decl",
	LetDecl:    "let-decl",
	FnDecl:     "fn-decl",
	OpDecl:     "op-decl",
	TypeDecl:   "type-decl",
	PragmaDecl: "pragma-decl",
	ParamList:  "param-list",

	Pipeline:       "pipeline",
	Scope:          "scope",
	SQLQuery:       "sql-query",
	WithClause:     "with-clause",
	CTE:            "cte",
	SetOperation:   "set-operation",
	SelectClause:   "select-clause",
	ProjectionList: "projection-list",
	Projection:     "projection",
	Alias:          "alias",
	FromClause:     "from-clause",
	Source:         "source",
	Join:           "join",
	UsingList:      "using-list",
	WhereClause:    "where-clause",
	GroupByClause:  "group-by-clause",
	HavingClause:   "having-clause",
	OrderByClause:  "order-by-clause",
	OrderItem:      "order-item",
	LimitClause:    "limit-clause",

	FromOp:      "from-op",
	WhereOp:     "where-op",
	SortOp:      "sort-op",
	HeadOp:      "head-op",
	TailOp:      "tail-op",
	SkipOp:      "skip-op",
	TopOp:       "top-op",
	CutOp:       "cut-op",
	DropOp:      "drop-op",
	PutOp:       "put-op",
	RenameOp:    "rename-op",
	UniqOp:      "uniq-op",
	FuseOp:      "fuse-op",
	ShapesOp:    "shapes-op",
	PassOp:      "pass-op",
	ExplodeOp:   "explode-op",
	MergeOp:     "merge-op",
	UnnestOp:    "unnest-op",
	LoadOp:      "load-op",
	OutputOp:    "output-op",
	DebugOp:     "debug-op",
	CountOp:     "count-op",
	CallOp:      "call-op",
	AggregateOp: "aggregate-op",
	SearchOp:    "search-op",
	AssertOp:    "assert-op",
	ValuesOp:    "values-op",
	DistinctOp:  "distinct-op",
	ForkOp:      "fork-op",
	SwitchOp:    "switch-op",
	SwitchCase:  "switch-case",
	Assignment:  "assignment",
	ExprList:    "expr-list",

	BinaryExpr:      "binary-expr",
	UnaryExpr:       "unary-expr",
	ConditionalExpr: "conditional-expr",
	ParenExpr:       "paren-expr",
	SubqueryExpr:    "subquery-expr",
	CallExpr:        "call-expr",
	ArgList:         "arg-list",
	NameRef:         "name-ref",
	Literal:         "literal",
	TypedLiteral:    "typed-literal",
	RecordExpr:      "record-expr",
	RecordField:     "record-field",
	SpreadExpr:      "spread-expr",
	ArrayExpr:       "array-expr",
	SetExpr:         "set-expr",
	MapExpr:         "map-expr",
	MapEntry:        "map-entry",
	IndexExpr:       "index-expr",
	FieldExpr:       "field-expr",
	CastExpr:        "cast-expr",
	TypeCast:        "type-cast",
	CaseExpr:        "case-expr",
	WhenClause:      "when-clause",
	ElseClause:      "else-clause",
	FString:         "fstring",
	Interpolation:   "interpolation",
	LambdaExpr:      "lambda-expr",
	ExistsExpr:      "exists-expr",
	InExpr:          "in-expr",
	BetweenExpr:     "between-expr",
	IsExpr:          "is-expr",
	ExtractExpr:     "extract-expr",
	StarExpr:        "star-expr",

	PrimitiveType: "primitive-type",
	NamedType:     "named-type",
	RecordType:    "record-type",
	TypeField:     "type-field",
	ArrayType:     "array-type",
	SetType:       "set-type",
	MapType:       "map-type",
	UnionType:     "union-type",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name != "" {
			m[name] = Kind(k)
		}
	}
	return m
}()

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// KindByName returns the kind with the given kebab-case name.
func KindByName(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// IsOperator reports whether the kind is a pipe operator.
func (k Kind) IsOperator() bool {
	return k >= FromOp && k <= SwitchOp
}

// IsDecl reports whether the kind is a declaration.
func (k Kind) IsDecl() bool {
	return k >= ConstDecl && k <= PragmaDecl
}

// IsExpr reports whether the kind is an expression. Helper kinds that only
// appear inside expressions (arg-list, record-field, when-clause, ...) are not.
func (k Kind) IsExpr() bool {
	switch k {
	case ArgList, RecordField, MapEntry, WhenClause, ElseClause, Interpolation:
		return false
	}
	return k >= BinaryExpr && k <= StarExpr
}

// IsType reports whether the kind is a type expression.
func (k Kind) IsType() bool {
	return k >= PrimitiveType && k <= UnionType
}
