package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// Document is a snapshot of an open text document. A change replaces the
// snapshot, so a Document may be read from any goroutine.
type Document struct {
	URI     string // Document URI (file:///path/to/file.spq)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// NewDocument builds a snapshot.
func NewDocument(uri string, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) *Document {
	doc := NewDocument(uri, content, version)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[uri] = doc
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces the content of an open document. Updates for unknown
// documents or older versions are ignored.
func (s *DocumentStore) Update(uri string, content string, version int) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.documents[uri]
	if !ok || version < cur.Version {
		return cur, false
	}
	doc := NewDocument(uri, content, version)
	s.documents[uri] = doc
	return doc, true
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// lineEnd returns the offset of the end of line, before its newline.
func (d *Document) lineEnd(line int) int {
	if line+1 < len(d.Lines) {
		return d.Lines[line+1] - 1
	}
	return len(d.Content)
}

// PositionToOffset converts a Position to a byte offset in the document.
// Characters count UTF-16 code units; positions past the end of a line
// clamp to the line end.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset, end := d.Lines[line], d.lineEnd(line)
	for units := uint32(0); offset < end && units < pos.Character; {
		r, size := utf8.DecodeRuneInString(d.Content[offset:end])
		units += uint32(utf16Len(r))
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}

	offset = max(0, min(offset, len(d.Content)))

	// Binary search for the line
	line := sort.Search(len(d.Lines), func(i int) bool { return d.Lines[i] > offset }) - 1

	var character uint32
	for _, r := range d.Content[d.Lines[line]:offset] {
		character += uint32(utf16Len(r))
	}
	return Position{
		Line:      uint32(line), //nolint:gosec // G115: line is always non-negative
		Character: character,
	}
}

// SpanToRange converts a byte span to an LSP range.
func (d *Document) SpanToRange(s token.Span) Range {
	return Range{Start: d.OffsetToPosition(s.Offset), End: d.OffsetToPosition(s.End())}
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// utf16Width returns the length of s in UTF-16 code units.
func utf16Width(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16Len(r)) //nolint:gosec // G115: at most 2
	}
	return n
}

// GetTextBefore returns the text before the given position.
func (d *Document) GetTextBefore(pos Position) string {
	return d.Content[:d.PositionToOffset(pos)]
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}
	return d.Content[d.Lines[line]:d.lineEnd(line)]
}

// GetWordAtPosition returns the word at the given position and its range.
func (d *Document) GetWordAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)

	// Find word boundaries
	start := offset
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}

	end := offset
	for end < len(d.Content) && isWordChar(d.Content[end]) {
		end++
	}

	if start == end {
		return "", Range{Start: pos, End: pos}
	}

	return d.Content[start:end], Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// isWordChar returns true if the character is part of a word.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '$'
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return filepath.FromSlash(u.Path)
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
