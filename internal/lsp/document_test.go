package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/token"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///test/query.spq"

	opened := store.Open(uri, "from t | head 1", 1)
	doc := store.Get(uri)
	require.NotNil(t, doc)
	assert.Same(t, opened, doc)
	assert.Equal(t, uri, doc.URI)
	assert.Equal(t, "from t | head 1", doc.Content)
	assert.Equal(t, 1, doc.Version)

	store.Close(uri)
	assert.Nil(t, store.Get(uri))
}

func TestDocumentStore_Update(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		version     int
		wantOK      bool
		wantContent string
	}{
		{name: "newer version", uri: "file:///q.spq", version: 2, wantOK: true, wantContent: "values 2"},
		{name: "same version", uri: "file:///q.spq", version: 1, wantOK: true, wantContent: "values 2"},
		{name: "older version", uri: "file:///q.spq", version: 0, wantOK: false, wantContent: "values 1"},
		{name: "unknown document", uri: "file:///other.spq", version: 5, wantOK: false, wantContent: "values 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewDocumentStore()
			before := store.Open("file:///q.spq", "values 1", 1)

			doc, ok := store.Update(tt.uri, "values 2", tt.version)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.version, doc.Version)
				// Snapshots are immutable.
				assert.Equal(t, "values 1", before.Content)
			}
			assert.Equal(t, tt.wantContent, store.Get("file:///q.spq").Content)
		})
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()
	store.Open("file:///c.spq", "from c", 1)
	store.Open("file:///a.spq", "from a", 1)
	store.Open("file:///b.sh", "super -c 'from b'", 1)

	assert.Equal(t, []string{"file:///a.spq", "file:///b.sh", "file:///c.spq"}, store.List())
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content  string
		expected []int
	}{
		{"", []int{0}},
		{"abc", []int{0}},
		{"a\nb", []int{0, 2}},
		{"a\nb\nc", []int{0, 2, 4}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"from t\r\n| head 1", []int{0, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.expected, computeLineOffsets(tt.content))
		})
	}
}

func TestDocument_PositionToOffset(t *testing.T) {
	doc := NewDocument("file:///q.spq", "line0\nline1\nline2", 1)

	tests := []struct {
		pos      Position
		expected int
	}{
		{Position{Line: 0, Character: 0}, 0},
		{Position{Line: 0, Character: 3}, 3},
		{Position{Line: 1, Character: 0}, 6},
		{Position{Line: 1, Character: 4}, 10},
		{Position{Line: 2, Character: 5}, 17},
		{Position{Line: 0, Character: 100}, 5},  // clamps to the line end
		{Position{Line: 100, Character: 0}, 17}, // past the last line
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.PositionToOffset(tt.pos), "%+v", tt.pos)
	}
}

func TestDocument_OffsetToPosition(t *testing.T) {
	doc := NewDocument("file:///q.spq", "line0\nline1\nline2", 1)

	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{5, Position{Line: 0, Character: 5}},
		{6, Position{Line: 1, Character: 0}},
		{10, Position{Line: 1, Character: 4}},
		{17, Position{Line: 2, Character: 5}},
		{-1, Position{Line: 0, Character: 0}},
		{100, Position{Line: 2, Character: 5}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.OffsetToPosition(tt.offset), "offset %d", tt.offset)
	}
}

func TestDocument_UTF16Positions(t *testing.T) {
	// "é" is two bytes and one UTF-16 unit; "😀" is four bytes and two units.
	content := "values 'é😀' | head 1"
	doc := NewDocument("file:///q.spq", content, 1)

	pipe := len("values 'é😀' ")
	assert.Equal(t, Position{Line: 0, Character: 13}, doc.OffsetToPosition(pipe))
	assert.Equal(t, pipe, doc.PositionToOffset(Position{Line: 0, Character: 13}))

	assert.Equal(t, Range{
		Start: Position{Line: 0, Character: 7},
		End:   Position{Line: 0, Character: 12},
	}, doc.SpanToRange(token.Span{Offset: 7, Length: len("'é😀'")}))

	assert.Equal(t, uint32(5), utf16Width("'é😀'"))
}

func TestDocument_GetLine(t *testing.T) {
	doc := NewDocument("file:///q.spq", "line0\r\nline1\nline2", 1)

	tests := []struct {
		line     int
		expected string
	}{
		{0, "line0\r"},
		{1, "line1"},
		{2, "line2"},
		{-1, ""},
		{100, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, doc.GetLine(tt.line), "line %d", tt.line)
	}
}

func TestDocument_GetWordAtPosition(t *testing.T) {
	doc := NewDocument("file:///q.spq", "from users | where $since < ts", 1)

	tests := []struct {
		char     uint32
		expected string
	}{
		{0, "from"},
		{3, "from"},
		{7, "users"},
		{10, "users"},
		{11, ""},
		{20, "$since"},
		{28, "ts"},
	}

	for _, tt := range tests {
		word, _ := doc.GetWordAtPosition(Position{Line: 0, Character: tt.char})
		assert.Equal(t, tt.expected, word, "character %d", tt.char)
	}

	_, rng := doc.GetWordAtPosition(Position{Line: 0, Character: 7})
	assert.Equal(t, Range{Start: Position{Character: 5}, End: Position{Character: 10}}, rng)
}

func TestDocument_GetTextBefore(t *testing.T) {
	doc := NewDocument("file:///q.spq", "from t | so", 1)

	assert.Empty(t, doc.GetTextBefore(Position{}))
	assert.Equal(t, "from", doc.GetTextBefore(Position{Character: 4}))
	assert.Equal(t, "from t | so", doc.GetTextBefore(Position{Character: 11}))
}

func TestURIConversions(t *testing.T) {
	tests := []struct {
		uri  string
		path string
	}{
		{"file:///home/user/query.spq", "/home/user/query.spq"},
		{"file:///home/user/my%20queries/q.spq", "/home/user/my queries/q.spq"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.path, URIToPath(tt.uri))
			assert.Equal(t, tt.uri, PathToURI(tt.path))
		})
	}

	assert.Equal(t, "/already/a/path.spq", URIToPath("/already/a/path.spq"))
	assert.Equal(t, "file:///already/uri.spq", PathToURI("file:///already/uri.spq"))
}

func TestIsWordChar(t *testing.T) {
	for _, c := range "azAZ09_$" {
		assert.True(t, isWordChar(byte(c)), "%q", c)
	}
	for _, c := range " \t\n!@#%^&*()-+=[]{}|;':\",./<>?" {
		assert.False(t, isWordChar(byte(c)), "%q", c)
	}
}
