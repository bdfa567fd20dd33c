package syntax

import (
	"fmt"
	"strings"
)

// Dump renders the tree as indented text, one node per line:
//
//	select-clause [0,15)
//	  SELECT "select" [0,6)
//	  projection-list [7,8)
//
// Trivia leaves are left out unless trivia is true. Error nodes carry their
// message in parentheses.
func (n *Node) Dump(trivia bool) string {
	var sb strings.Builder
	n.dump(&sb, 0, trivia)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int, trivia bool) {
	if n == nil {
		return
	}
	if n.IsTrivia() && !trivia {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	span := fmt.Sprintf("[%d,%d)", n.span.Offset, n.span.End())
	switch n.kind {
	case TokenNode:
		fmt.Fprintf(sb, "%s %q %s\n", n.tok.Type, n.tok.Literal, span)
		return
	case ErrorNode:
		fmt.Fprintf(sb, "%s %s (%s)\n", n.kind, span, n.message)
	default:
		fmt.Fprintf(sb, "%s %s\n", n.kind, span)
	}
	for _, c := range n.children {
		c.dump(sb, depth+1, trivia)
	}
}

// Outline returns the node kinds of the tree in pre-order, without leaves.
// Two parses of the same text always produce the same outline.
func (n *Node) Outline() []string {
	var out []string
	for d := range n.Walk() {
		if d.kind != TokenNode {
			out = append(out, fmt.Sprintf("%s[%d,%d)", d.kind, d.span.Offset, d.span.End()))
		}
	}
	return out
}
