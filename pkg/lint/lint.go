package lint

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityHint indicates a suggestion for improvement.
	SeverityHint
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ParseSeverity parses the names produced by Severity.String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// FileKind selects which rules apply to a document.
type FileKind uint8

// File kinds.
const (
	// FileQuery is a SuperSQL program (.spq, or text injected from a shell script).
	FileQuery FileKind = iota
	// FileData is a SuperJSON data file (.sup) holding values only.
	FileData
)

func (k FileKind) String() string {
	if k == FileData {
		return "data"
	}
	return "query"
}

// FileKindOf returns the kind implied by a file name.
func FileKindOf(path string) FileKind {
	if strings.EqualFold(filepath.Ext(path), ".sup") {
		return FileData
	}
	return FileQuery
}

// File is one parsed document handed to the rules.
type File struct {
	Root *syntax.Node
	Kind FileKind

	text  string
	lines []int // offsets of line starts
}

// NewFile wraps a parsed tree.
func NewFile(root *syntax.Node, kind FileKind) *File {
	f := &File{Root: root, Kind: kind, text: root.Text()}
	f.lines = append(f.lines, 0)
	for i := 0; i < len(f.text); i++ {
		if f.text[i] == '\n' {
			f.lines = append(f.lines, i+1)
		}
	}
	return f
}

// Text returns the source text of the file.
func (f *File) Text() string { return f.text }

// Position converts a byte offset into a line and column.
func (f *File) Position(offset int) token.Position {
	offset = max(0, min(offset, len(f.text)))
	line := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	return token.Position{Line: line + 1, Column: offset - f.lines[line] + 1, Offset: offset}
}

// Report builds a diagnostic anchored at span.
func (f *File) Report(ruleID string, severity Severity, span token.Span, message string) Diagnostic {
	return Diagnostic{
		RuleID:   ruleID,
		Severity: severity,
		Message:  message,
		Span:     span,
		Pos:      f.Position(span.Offset),
		EndPos:   f.Position(span.End()),
	}
}

// SpanOf returns the span from the first to the last significant token of
// n, so leading and trailing comments are not underlined. Nodes without
// significant tokens keep their own span.
func SpanOf(n *syntax.Node) token.Span {
	first, ok := n.FirstToken()
	if !ok {
		return n.Span()
	}
	last, _ := n.LastToken()
	return token.Span{Offset: first.Pos.Offset, Length: last.End() - first.Pos.Offset}
}

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string         `json:"rule"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Span     token.Span     `json:"span"`
	Pos      token.Position `json:"pos"`
	EndPos   token.Position `json:"end_pos"`
	Fixes    []Fix          `json:"fixes,omitempty"`
}

// Fix represents a suggested code fix.
type Fix struct {
	Description string     `json:"description"`
	TextEdits   []TextEdit `json:"edits"`
}

// TextEdit replaces the text of Span with NewText.
type TextEdit struct {
	Span    token.Span `json:"span"`
	NewText string     `json:"new_text"`
}

// ErrOverlappingEdits is returned by ApplyEdits when two edits touch the
// same bytes.
var ErrOverlappingEdits = errors.New("overlapping text edits")

// ApplyEdits applies edits to text. Edits may come in any order but must
// not overlap.
func ApplyEdits(text string, edits []TextEdit) (string, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		return cmp.Compare(a.Span.Offset, b.Span.Offset)
	})

	var sb strings.Builder
	pos := 0
	for _, e := range sorted {
		if e.Span.Offset < pos {
			return "", fmt.Errorf("edit at offset %d: %w", e.Span.Offset, ErrOverlappingEdits)
		}
		if e.Span.End() > len(text) {
			return "", fmt.Errorf("edit at offset %d runs past end of text (%d bytes)", e.Span.Offset, len(text))
		}
		sb.WriteString(text[pos:e.Span.Offset])
		sb.WriteString(e.NewText)
		pos = e.Span.End()
	}
	sb.WriteString(text[pos:])
	return sb.String(), nil
}

// FixEdits collects the edits of the first fix of every diagnostic,
// skipping fixes that overlap one already taken.
func FixEdits(diags []Diagnostic) []TextEdit {
	var (
		out   []TextEdit
		taken []token.Span
	)
	for _, d := range diags {
		if len(d.Fixes) == 0 {
			continue
		}
		edits := d.Fixes[0].TextEdits
		if slices.ContainsFunc(edits, func(e TextEdit) bool { return overlapsAny(e.Span, taken) }) {
			continue
		}
		for _, e := range edits {
			taken = append(taken, e.Span)
		}
		out = append(out, edits...)
	}
	return out
}

func overlapsAny(s token.Span, spans []token.Span) bool {
	for _, o := range spans {
		if s.Offset < o.End() && o.Offset < s.End() {
			return true
		}
		if s.Offset == o.Offset {
			return true
		}
	}
	return false
}
