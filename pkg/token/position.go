package token

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in bytes
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is a half-open byte range [Offset, Offset+Length) of the source text.
type Span struct {
	Offset int
	Length int
}

// End returns the offset just past the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Offset && offset < s.End()
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.Length == 0
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	start := min(s.Offset, o.Offset)
	end := max(s.End(), o.End())
	return Span{Offset: start, Length: end - start}
}
