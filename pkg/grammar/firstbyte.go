package grammar

import (
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// byteSet is a set of bytes.
type byteSet [4]uint64

func (s *byteSet) add(b byte) { s[b>>6] |= 1 << (b & 63) }

func (s *byteSet) remove(b byte) { s[b>>6] &^= 1 << (b & 63) }

func (s *byteSet) has(b byte) bool { return s[b>>6]&(1<<(b&63)) != 0 }

func (s *byteSet) union(o byteSet) {
	for i := range s {
		s[i] |= o[i]
	}
}

func (s *byteSet) addRange(lo, hi byte) {
	for b := int(lo); b <= int(hi); b++ {
		s.add(byte(b))
	}
}

func allBytes() byteSet {
	return byteSet{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
}

// addRune adds the leading byte of r and, when fold is set, of every rune
// that folds to r.
func (s *byteSet) addRune(r rune, fold bool) {
	var buf [utf8.UTFMax]byte
	utf8.EncodeRune(buf[:], r)
	s.add(buf[0])
	if !fold {
		return
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		utf8.EncodeRune(buf[:], f)
		s.add(buf[0])
	}
}

// textFirst returns the bytes a literal or word rule can start with.
func textFirst(text string, fold bool) byteSet {
	var s byteSet
	r, _ := utf8.DecodeRuneInString(text)
	s.addRune(r, fold)
	return s
}

// patternFirst returns the bytes a match of pattern can start with. The
// set may be larger than needed, never smaller.
func patternFirst(pattern string) byteSet {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return allBytes()
	}
	s, _ := firstOf(re.Simplify())
	return s
}

// firstOf returns the possible first bytes of re and whether re can match
// the empty string.
func firstOf(re *syntax.Regexp) (byteSet, bool) {
	var s byteSet
	switch re.Op {
	case syntax.OpNoMatch:
		return s, false
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return s, true
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return s, true
		}
		s.addRune(re.Rune[0], re.Flags&syntax.FoldCase != 0)
		return s, false
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			lo, hi := re.Rune[i], re.Rune[i+1]
			if lo < utf8.RuneSelf {
				s.addRange(byte(lo), byte(min(hi, utf8.RuneSelf-1)))
			}
			if hi >= utf8.RuneSelf {
				// Multi-byte runes and invalid bytes, which match as U+FFFD.
				s.addRange(utf8.RuneSelf, 0xff)
			}
		}
		return s, false
	case syntax.OpAnyCharNotNL:
		s = allBytes()
		s.remove('\n')
		return s, false
	case syntax.OpAnyChar:
		return allBytes(), false
	case syntax.OpCapture, syntax.OpPlus:
		return firstOf(re.Sub[0])
	case syntax.OpStar, syntax.OpQuest:
		s, _ = firstOf(re.Sub[0])
		return s, true
	case syntax.OpRepeat:
		f, nullable := firstOf(re.Sub[0])
		return f, nullable || re.Min == 0
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			f, nullable := firstOf(sub)
			s.union(f)
			if !nullable {
				return s, false
			}
		}
		return s, true
	case syntax.OpAlternate:
		nullable := false
		for _, sub := range re.Sub {
			f, n := firstOf(sub)
			s.union(f)
			nullable = nullable || n
		}
		return s, nullable
	}
	return allBytes(), true
}
