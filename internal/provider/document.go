package provider

import (
	"time"

	"github.com/zeebo/xxh3"

	"github.com/leapstack-labs/supersql/pkg/inject"
	"github.com/leapstack-labs/supersql/pkg/lint"
	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
)

// ParsedDocument holds the parse result for a single document version.
// It is never modified after Parse returns.
type ParsedDocument struct {
	URI     string
	Version int
	Content string
	Hash    uint64 // xxh3 of Content
	Kind    lint.FileKind

	Root *syntax.Node
	File *lint.File

	ParsedAt time.Time
}

// Parse creates a ParsedDocument from content.
func Parse(content string, uri string, version int) *ParsedDocument {
	root := parser.ParseText(content)
	kind := lint.FileKindOf(uri)
	return &ParsedDocument{
		URI:      uri,
		Version:  version,
		Content:  content,
		Hash:     xxh3.HashString(content),
		Kind:     kind,
		Root:     root,
		File:     lint.NewFile(root, kind),
		ParsedAt: time.Now(),
	}
}

// HasErrors reports whether the tree holds any Error Node.
func (d *ParsedDocument) HasErrors() bool {
	return d.Root.HasErrors()
}

// Errors returns the syntax errors of the document in source order.
func (d *ParsedDocument) Errors() []syntax.SyntaxError {
	return d.Root.Errors()
}

// Embedded returns the SuperSQL programs of a shell script document.
// Other documents have none.
func (d *ParsedDocument) Embedded() []inject.Program {
	if !IsShellScript(d.URI) {
		return nil
	}
	return inject.Parse(d.Content)
}

// Lint runs the analyzer over the document. Shell scripts are linted per
// embedded program, with spans and fixes shifted back into the script.
func (d *ParsedDocument) Lint(a *lint.Analyzer) []lint.Diagnostic {
	if !IsShellScript(d.URI) {
		return a.Analyze(d.File)
	}

	var out []lint.Diagnostic
	for _, prog := range d.Embedded() {
		for _, diag := range a.AnalyzeTree(prog.Root, lint.FileQuery) {
			diag.Span = prog.ToScript(diag.Span)
			diag.Pos = d.File.Position(diag.Span.Offset)
			diag.EndPos = d.File.Position(diag.Span.End())
			fixes := make([]lint.Fix, len(diag.Fixes))
			for i, fix := range diag.Fixes {
				edits := make([]lint.TextEdit, len(fix.TextEdits))
				for j, e := range fix.TextEdits {
					edits[j] = lint.TextEdit{Span: prog.ToScript(e.Span), NewText: e.NewText}
				}
				fixes[i] = lint.Fix{Description: fix.Description, TextEdits: edits}
			}
			diag.Fixes = fixes
			out = append(out, diag)
		}
	}
	return out
}
