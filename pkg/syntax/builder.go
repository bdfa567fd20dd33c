package syntax

import (
	"fmt"

	"github.com/leapstack-labs/supersql/pkg/token"
)

// Builder assembles a tree bottom-up while the parser walks the token stream.
// Nodes are opened and closed in stack order; the kind of a node is decided
// when it is closed, so a rule can turn itself into an Error Node after the
// fact. Builder panics on misuse: those are parser bugs, not input errors.
type Builder struct {
	frames []frame
	offset int
	root   *Node
}

type frame struct {
	children []*Node
	start    int
}

// Marker identifies an open node.
type Marker struct {
	depth int
}

// Checkpoint remembers a position among the children of the innermost open
// node, so a node can later be opened around everything pushed since.
type Checkpoint struct {
	depth  int
	index  int
	offset int
}

// NewBuilder returns a builder positioned at offset 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// Offset returns the end offset of everything pushed so far.
func (b *Builder) Offset() int {
	return b.offset
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int {
	return len(b.frames)
}

// Open starts a new node as the last child of the innermost open node.
func (b *Builder) Open() Marker {
	if b.root != nil {
		panic("syntax: Open after the root was closed")
	}
	b.frames = append(b.frames, frame{start: b.offset})
	return Marker{depth: len(b.frames) - 1}
}

// Checkpoint records the current child position of the innermost open node.
func (b *Builder) Checkpoint() Checkpoint {
	if len(b.frames) == 0 {
		panic("syntax: Checkpoint with no open node")
	}
	top := len(b.frames) - 1
	return Checkpoint{depth: top, index: len(b.frames[top].children), offset: b.offset}
}

// OpenAt starts a new node that adopts every child pushed to the innermost
// open node since cp was taken.
func (b *Builder) OpenAt(cp Checkpoint) Marker {
	top := len(b.frames) - 1
	if cp.depth != top {
		panic(fmt.Sprintf("syntax: checkpoint depth %d does not match open depth %d", cp.depth, top))
	}
	parent := &b.frames[top]
	adopted := make([]*Node, len(parent.children)-cp.index)
	copy(adopted, parent.children[cp.index:])
	parent.children = parent.children[:cp.index]
	b.frames = append(b.frames, frame{children: adopted, start: cp.offset})
	return Marker{depth: len(b.frames) - 1}
}

// Push appends a token leaf to the innermost open node. Tokens must be pushed
// contiguously: each one starts where the previous one ended.
func (b *Builder) Push(tok token.Token) {
	if len(b.frames) == 0 {
		panic("syntax: Push with no open node")
	}
	if tok.Pos.Offset != b.offset {
		panic(fmt.Sprintf("syntax: token %s at offset %d, expected %d", tok.Type, tok.Pos.Offset, b.offset))
	}
	leaf := &Node{kind: TokenNode, tok: tok, span: tok.Span()}
	top := &b.frames[len(b.frames)-1]
	top.children = append(top.children, leaf)
	b.offset = tok.End()
}

// Close finishes the node opened with m and tags it with kind.
func (b *Builder) Close(m Marker, kind Kind) *Node {
	return b.close(m, kind, "")
}

// CloseError finishes the node opened with m as an Error Node.
func (b *Builder) CloseError(m Marker, message string) *Node {
	return b.close(m, ErrorNode, message)
}

func (b *Builder) close(m Marker, kind Kind, message string) *Node {
	top := len(b.frames) - 1
	if m.depth != top {
		panic(fmt.Sprintf("syntax: closing %s at depth %d but innermost open node is at depth %d", kind, m.depth, top))
	}
	f := b.frames[top]
	b.frames = b.frames[:top]

	n := &Node{kind: kind, children: f.children, message: message}
	if len(f.children) == 0 {
		n.span = token.Span{Offset: f.start}
	} else {
		first := f.children[0].span
		last := f.children[len(f.children)-1].span
		n.span = token.Span{Offset: first.Offset, Length: last.End() - first.Offset}
	}

	if top == 0 {
		b.root = n
	} else {
		parent := &b.frames[top-1]
		parent.children = append(parent.children, n)
	}
	return n
}

// Root returns the closed root node. It panics while nodes are still open.
func (b *Builder) Root() *Node {
	if b.root == nil || len(b.frames) != 0 {
		panic("syntax: Root called before the tree was complete")
	}
	return b.root
}
