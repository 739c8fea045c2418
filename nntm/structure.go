package nntm

import "strings"

// Structure is a sequence-length array of pair partners plus marks for
// which helix ends have a chosen 5'/3' dangle (§3). Pairs[i] == -1 means
// position i is unpaired; Pairs[i] == j implies Pairs[j] == i.
type Structure struct {
	Pairs []int
	D5    []bool // D5[i]: base i is consumed as a 5' dangle of some branch
	D3    []bool // D3[i]: base i is consumed as a 3' dangle of some branch
}

// NewStructure allocates an all-unpaired structure of length n.
func NewStructure(n int) *Structure {
	pairs := make([]int, n)
	for i := range pairs {
		pairs[i] = -1
	}
	return &Structure{Pairs: pairs, D5: make([]bool, n), D3: make([]bool, n)}
}

// MarkPair records that i and j are paired with each other.
func (s *Structure) MarkPair(i, j int) {
	s.Pairs[i] = j
	s.Pairs[j] = i
}

// Clone returns a deep copy, used by the traceback and the suboptimal
// enumerator's partial-structure branching.
func (s *Structure) Clone() *Structure {
	c := &Structure{
		Pairs: append([]int(nil), s.Pairs...),
		D5:    append([]bool(nil), s.D5...),
		D3:    append([]bool(nil), s.D3...),
	}
	return c
}

// DotBracket renders the structure in parenthesized dot-bracket notation.
func (s *Structure) DotBracket() string {
	var sb strings.Builder
	for i, p := range s.Pairs {
		switch {
		case p < 0:
			sb.WriteByte('.')
		case p > i:
			sb.WriteByte('(')
		default:
			sb.WriteByte(')')
		}
	}
	return sb.String()
}

// Equal reports whether two structures have identical pairings (dangle
// marks are not part of structural identity).
func (s *Structure) Equal(o *Structure) bool {
	if len(s.Pairs) != len(o.Pairs) {
		return false
	}
	for i := range s.Pairs {
		if s.Pairs[i] != o.Pairs[i] {
			return false
		}
	}
	return true
}
