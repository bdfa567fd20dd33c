package token

// Set is an immutable bit set of token types, used for recovery sets and
// FIRST sets in the parser.
type Set struct {
	bits [4]uint64
}

// NewSet returns a set containing the given token types.
func NewSet(types ...TokenType) Set {
	var s Set
	for _, t := range types {
		s.bits[t>>6] |= 1 << (uint(t) & 63)
	}
	return s
}

// Has reports whether t is in the set.
func (s Set) Has(t TokenType) bool {
	if t < 0 || t >= maxToken {
		return false
	}
	return s.bits[t>>6]&(1<<(uint(t)&63)) != 0
}

// Union returns the set of types in either s or o.
func (s Set) Union(o Set) Set {
	for i := range s.bits {
		s.bits[i] |= o.bits[i]
	}
	return s
}

// With returns a copy of s with the given types added.
func (s Set) With(types ...TokenType) Set {
	return s.Union(NewSet(types...))
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool {
	return s.bits == [4]uint64{}
}

// Types returns the members in ascending order.
func (s Set) Types() []TokenType {
	var out []TokenType
	for t := TokenType(0); t < maxToken; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}
