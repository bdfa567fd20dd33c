// Package inject finds SuperSQL programs embedded in shell scripts.
//
// Recognized forms:
//
//	super [options] -c '...'        (or --command, single or double quotes)
//	super [options] -c <<EOF        (any marker after -c/--command)
//	cat <<SPQ                       (markers SUPERSQL, SUPER, SPQ, ZQ, SUPERDB)
//
// Regions are reported as byte spans of the script so diagnostics computed
// on the embedded program can be shifted back into the script.
package inject

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/leapstack-labs/supersql/pkg/parser"
	"github.com/leapstack-labs/supersql/pkg/syntax"
	"github.com/leapstack-labs/supersql/pkg/token"
)

// Kind tells how a program is embedded.
type Kind uint8

// Region kinds.
const (
	Argument Kind = iota + 1 // quoted -c/--command argument
	Heredoc                  // here-document body
)

func (k Kind) String() string {
	switch k {
	case Argument:
		return "argument"
	case Heredoc:
		return "heredoc"
	}
	return "unknown"
}

// Region is one embedded program.
type Region struct {
	Kind   Kind
	Span   token.Span // the program text, without quotes or heredoc lines
	Marker string     // heredoc delimiter word
	Quote  byte       // quote character of an argument
}

// Text returns the program text of the region.
func (r Region) Text(script string) string {
	return script[r.Span.Offset:r.Span.End()]
}

// ToScript shifts a span inside the program to script coordinates.
func (r Region) ToScript(s token.Span) token.Span {
	return token.Span{Offset: r.Span.Offset + s.Offset, Length: s.Length}
}

// markers name heredocs that hold SuperSQL whatever command reads them.
var markers = []string{"SUPERSQL", "SUPER", "SPQ", "ZQ", "SUPERDB"}

var (
	// superCommand matches `super [options] -c` up to the argument.
	superCommand = regexp.MustCompile(`\bsuper[ \t]+(?:[^\n]*?[ \t])?(?:-c|--command)[ \t]*`)
	// heredocStart matches `<<WORD`, `<<-WORD`, `<<'WORD'` and `<<"WORD"`.
	heredocStart = regexp.MustCompile(`<<(-?)[ \t]*(['"]?)([A-Za-z_][A-Za-z0-9_]*)(['"]?)`)
	// commandBeforeHeredoc matches a line prefix ending in `super ... -c`.
	commandBeforeHeredoc = regexp.MustCompile(superCommand.String() + `$`)
)

// Find returns the embedded programs of a script ordered by offset.
// Regions never overlap; an unterminated quote or heredoc runs to the end
// of the script.
func Find(script string) []Region {
	var found []Region
	found = append(found, arguments(script)...)
	found = append(found, heredocs(script)...)
	slices.SortFunc(found, func(a, b Region) int { return cmp.Compare(a.Span.Offset, b.Span.Offset) })

	out := found[:0]
	end := -1
	for _, r := range found {
		if r.Span.Offset < end {
			continue
		}
		out = append(out, r)
		end = r.Span.End()
	}
	return out
}

func arguments(script string) []Region {
	var out []Region
	for _, m := range superCommand.FindAllStringIndex(script, -1) {
		open := m[1]
		if open >= len(script) || (script[open] != '\'' && script[open] != '"') {
			continue
		}
		quote := script[open]
		start := open + 1
		out = append(out, Region{
			Kind:  Argument,
			Span:  token.Span{Offset: start, Length: closingQuote(script, start, quote) - start},
			Quote: quote,
		})
	}
	return out
}

// closingQuote returns the offset of the quote ending a shell string that
// starts at start. Double-quoted strings honor backslash escapes.
func closingQuote(script string, start int, quote byte) int {
	for i := start; i < len(script); i++ {
		switch script[i] {
		case '\\':
			if quote == '"' {
				i++
			}
		case quote:
			return i
		}
	}
	return len(script)
}

func heredocs(script string) []Region {
	var out []Region
	for _, m := range heredocStart.FindAllStringSubmatchIndex(script, -1) {
		if m[0] > 0 && script[m[0]-1] == '<' {
			continue // <<< here-string
		}
		if (m[4] == m[5]) != (m[8] == m[9]) {
			continue // unbalanced quotes around the marker
		}
		marker := script[m[6]:m[7]]
		lineStart := strings.LastIndexByte(script[:m[0]], '\n') + 1
		if !isMarker(marker) && !commandBeforeHeredoc.MatchString(script[lineStart:m[0]]) {
			continue
		}

		nl := strings.IndexByte(script[m[1]:], '\n')
		if nl < 0 {
			continue
		}
		body := m[1] + nl + 1
		end := heredocEnd(script, body, marker, m[3] > m[2])
		out = append(out, Region{
			Kind:   Heredoc,
			Span:   token.Span{Offset: body, Length: end - body},
			Marker: marker,
		})
	}
	return out
}

func isMarker(word string) bool {
	return slices.ContainsFunc(markers, func(m string) bool { return strings.EqualFold(m, word) })
}

// heredocEnd returns the offset of the line holding the closing marker.
// With <<- the marker may be indented by tabs.
func heredocEnd(script string, body int, marker string, stripTabs bool) int {
	for pos := body; pos < len(script); {
		line, rest, found := strings.Cut(script[pos:], "\n")
		check := strings.TrimSuffix(line, "\r")
		if stripTabs {
			check = strings.TrimLeft(check, "\t")
		}
		if check == marker {
			return pos
		}
		if !found {
			break
		}
		pos = len(script) - len(rest)
	}
	return len(script)
}

// Program is a parsed region.
type Program struct {
	Region
	Root *syntax.Node
}

// Parse finds and parses every embedded program of a script.
func Parse(script string) []Program {
	regions := Find(script)
	out := make([]Program, 0, len(regions))
	for _, r := range regions {
		out = append(out, Program{Region: r, Root: parser.ParseText(r.Text(script))})
	}
	return out
}
