package nntm

import (
	"fmt"

	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
)

// ParseDotBracket builds a Structure from parenthesized dot-bracket
// notation over seq, the format rnascorer reads its structure files in
// (§6 "rnascorer"). Unmatched or crossing parentheses are reported as
// errors rather than silently accepted.
func ParseDotBracket(seq *rnaseq.Sequence, db string) (*Structure, error) {
	n := seq.Len()
	if len(db) != n {
		return nil, fmt.Errorf("nntm: dot-bracket length %d does not match sequence length %d", len(db), n)
	}

	st := NewStructure(n)
	var stack []int
	for i, c := range db {
		switch c {
		case '.':
		case '(':
			stack = append(stack, i)
		case ')':
			if len(stack) == 0 {
				return nil, fmt.Errorf("nntm: unmatched ')' at position %d", i)
			}
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			st.MarkPair(j, i)
		default:
			return nil, fmt.Errorf("nntm: invalid dot-bracket character %q at position %d", c, i)
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("nntm: unmatched '(' at position %d", stack[len(stack)-1])
	}
	return st, nil
}

// Evaluate computes a structure's total free energy independent of any
// DP table already built for it — the operation rnascorer needs to
// score a structure read from a file rather than produced by
// Fill/Traceback. It recomputes V, FM, FM1, and W exactly the way Fill
// does, with V pinned to the given structure's actual pairs instead of
// searched for, so the result reflects m.Dangles (NoDangle, ChooseDangle,
// or BothDangle) precisely as Fill would have scored this same structure.
func (m *NNTM) Evaluate(seq *rnaseq.Sequence, st *Structure) rational.Rat {
	n := len(st.Pairs)
	t := newTables(n)

	// Each pinned pair carries a large bonus, taken back off at the end,
	// so fillFM/fillFM1/fillW keep every pair instead of leaving out a
	// branch whose own energy is positive.
	pin := rational.FromInt64(1_000_000_000)
	var pinned int64
	for width := 0; width < n; width++ {
		for i := 0; i+width < n; i++ {
			j := i + width
			m.fillKnownV(seq, st, t, i, j)
			if !t.V[i][j].IsInf() {
				t.V[i][j] = t.V[i][j].Sub(pin)
				pinned++
			}
			m.fillFM(seq, t, i, j)
			m.fillFM1(seq, t, i, j)
		}
	}
	for j := 0; j < n; j++ {
		m.fillW(seq, t, j)
	}

	return t.MFE().Add(pin.Mul(rational.FromInt64(pinned)))
}

// fillKnownV is fillV with the hairpin/stack/interior-loop search
// replaced by a direct lookup into the given structure: (i,j) is either
// exactly the pair st records, or not a pair at all. The multiloop case
// still runs multiloopEnergy's full dangle-variant candidate search,
// since which branches exist is known but how they dangle is not.
func (m *NNTM) fillKnownV(seq *rnaseq.Sequence, st *Structure, t *Tables, i, j int) {
	if j <= i || st.Pairs[i] != j {
		t.V[i][j] = rational.Inf()
		return
	}

	children := immediateChildren(st, i, j)
	switch len(children) {
	case 0:
		t.V[i][j] = m.EH(seq, i, j)
	case 1:
		ip, jp := children[0].i, children[0].j
		if ip == i+1 && jp == j-1 {
			t.V[i][j] = m.ES(seq, i, j).Add(t.V[ip][jp])
		} else {
			t.V[i][j] = m.EL(seq, i, j, ip, jp).Add(t.V[ip][jp])
		}
	default:
		t.V[i][j] = m.multiloopEnergy(seq, t, i, j)
	}
}
