package nntm

import (
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/turner"
)

type label int

const (
	lW label = iota
	lV
	lVBI
	lM
	lM1
)

type segment struct {
	i, j  int
	label label
}

// Traceback reconstructs the single MFE structure from filled tables,
// starting from (0, n-1, W) and resolving one Segment at a time from a
// work stack (§4.3). Ties are broken by first-match in the same
// enumeration order Fill uses.
func (m *NNTM) Traceback(seq *rnaseq.Sequence, t *Tables) *Structure {
	n := seq.Len()
	st := NewStructure(n)
	if n == 0 {
		return st
	}

	stack := []segment{{0, n - 1, lW}}
	for len(stack) > 0 {
		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		i, j := seg.i, seg.j
		if (seg.label == lM || seg.label == lM1) && j <= i {
			continue
		}
		if (seg.label == lV || seg.label == lVBI) && j-i <= Turn {
			continue
		}

		var children []segment
		switch seg.label {
		case lW:
			children = m.traceW(seq, t, st, i, j)
		case lV:
			children = m.traceV(seq, t, st, i, j)
		case lVBI:
			children = m.traceVBI(seq, t, st, i, j)
		case lM:
			children = m.traceM(seq, t, st, i, j)
		case lM1:
			children = m.traceM1(seq, t, st, i, j)
		}
		stack = append(stack, children...)
	}
	return st
}

func (m *NNTM) traceW(seq *rnaseq.Sequence, t *Tables, st *Structure, i, j int) []segment {
	target := t.W[j]
	if j == 0 {
		return nil
	}

	if t.W[j-1].Equal(target) {
		return []segment{{i, j - 1, lW}}
	}

	for l := 0; l < j-Turn; l++ {
		var wim1 rational.Rat
		if l > 0 {
			wim1 = t.W[l-1]
		} else {
			wim1 = rational.Zero()
		}
		tail := func(i2, l2 int) []segment {
			if l2 > 0 {
				return []segment{{l2, j, lV}, {i2, l2 - 1, lW}}
			}
			return []segment{{l2, j, lV}}
		}

		switch m.Dangles {
		case NoDangle:
			if t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j)).Equal(target) {
				st.MarkPair(l, j)
				return tail(i, l)
			}
		case ChooseDangle:
			if t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j)).Equal(target) {
				st.MarkPair(l, j)
				return tail(i, l)
			}
			if l+1 < j-Turn {
				d5 := m.EdBranchD5(seq, l+1, j)
				if t.V[l+1][j].Add(wim1).Add(m.AUPenalty(seq, l+1, j)).Add(d5).Equal(target) {
					st.MarkPair(l+1, j)
					st.D5[l] = true
					segs := []segment{{l + 1, j, lV}}
					if l > 0 {
						segs = append(segs, segment{i, l - 1, lW})
					}
					return segs
				}
			}
			if l < j-Turn-1 {
				d3 := m.EdBranchD3(seq, l, j-1)
				if t.V[l][j-1].Add(wim1).Add(m.AUPenalty(seq, l, j-1)).Add(d3).Equal(target) {
					st.MarkPair(l, j-1)
					st.D3[j] = true
					return tail(i, l)
				}
			}
			if l+1 < j-Turn-1 {
				d5 := m.EdBranchD5(seq, l+1, j-1)
				d3 := m.EdBranchD3(seq, l+1, j-1)
				if t.V[l+1][j-1].Add(wim1).Add(m.AUPenalty(seq, l+1, j-1)).Add(d5).Add(d3).Equal(target) {
					st.MarkPair(l+1, j-1)
					st.D5[l] = true
					st.D3[j] = true
					segs := []segment{{l + 1, j - 1, lV}}
					if l > 0 {
						segs = append(segs, segment{i, l - 1, lW})
					}
					return segs
				}
			}
		case BothDangle:
			d5 := m.EdBranchD5(seq, l, j)
			d3 := m.EdBranchD3(seq, l, j)
			if t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j)).Add(d5).Add(d3).Equal(target) {
				st.MarkPair(l, j)
				return tail(i, l)
			}
		}
	}
	return nil
}

func (m *NNTM) traceV(seq *rnaseq.Sequence, t *Tables, st *Structure, i, j int) []segment {
	target := t.V[i][j]
	st.MarkPair(i, j)

	if m.EH(seq, i, j).Equal(target) {
		return nil
	}
	if m.ES(seq, i, j).Add(t.V[i+1][j-1]).Equal(target) {
		return []segment{{i + 1, j - 1, lV}}
	}
	if t.VBI[i][j].Equal(target) {
		return []segment{{i, j, lVBI}}
	}

	a, b, c := m.Params.A, m.Params.B, m.Params.C
	aup := m.AUPenalty(seq, i, j)
	for k := i + 2; k <= j-Turn-1; k++ {
		switch m.Dangles {
		case NoDangle:
			if t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(a).Add(c).Equal(target) {
				return []segment{{i + 1, k, lM}, {k + 1, j - 1, lM1}}
			}
		case ChooseDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)
			if t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(a).Add(c).Equal(target) {
				return []segment{{i + 1, k, lM}, {k + 1, j - 1, lM1}}
			}
			if k > i+2 && t.FM[i+2][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(d5).Add(a).Add(b).Add(c).Equal(target) {
				st.D5[i+1] = true
				return []segment{{i + 2, k, lM}, {k + 1, j - 1, lM1}}
			}
			if k <= j-Turn-2 && t.FM[i+1][k].Add(t.FM1[k+1][j-2]).Add(aup).Add(d3).Add(a).Add(b).Add(c).Equal(target) {
				st.D3[j-1] = true
				return []segment{{i + 1, k, lM}, {k + 1, j - 2, lM1}}
			}
			if k > i+2 && k <= j-Turn-2 && t.FM[i+2][k].Add(t.FM1[k+1][j-2]).Add(aup).Add(d5).Add(d3).Add(a).Add(b).Add(b).Add(c).Equal(target) {
				st.D5[i+1] = true
				st.D3[j-1] = true
				return []segment{{i + 2, k, lM}, {k + 1, j - 2, lM1}}
			}
		case BothDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)
			if t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(d5).Add(d3).Add(a).Add(c).Equal(target) {
				return []segment{{i + 1, k, lM}, {k + 1, j - 1, lM1}}
			}
		}
	}
	return nil
}

func (m *NNTM) traceVBI(seq *rnaseq.Sequence, t *Tables, st *Structure, i, j int) []segment {
	st.MarkPair(i, j)
	target := t.VBI[i][j]
	n := seq.Len()

	maxP := j - 2 - Turn
	if i+turner.MaxLoop+1 < maxP {
		maxP = i + turner.MaxLoop + 1
	}
	for p := i + 1; p <= maxP; p++ {
		minQ := j - i + p - turner.MaxLoop - 2
		if minQ < p+1+Turn {
			minQ = p + 1 + Turn
		}
		maxQ := j - 1
		if p == i+1 {
			maxQ = j - 2
		}
		for q := minQ; q <= maxQ; q++ {
			if q < 0 || q >= n || !seq.CanPairAt(p, q) {
				continue
			}
			if t.V[p][q].Add(m.EL(seq, i, j, p, q)).Equal(target) {
				return []segment{{p, q, lV}}
			}
		}
	}
	return nil
}

func (m *NNTM) traceM(seq *rnaseq.Sequence, t *Tables, st *Structure, i, j int) []segment {
	target := t.FM[i][j]
	b, c := m.Params.B, m.Params.C

	if t.FM[i][j-1].Add(b).Equal(target) {
		return []segment{{i, j - 1, lM}}
	}
	if segs, ok := m.traceBranch(seq, st, t, i, j, c, target); ok {
		return segs
	}
	for k := i + Turn + 1; k <= j-Turn-1; k++ {
		if segs, ok := m.traceMultiTail(seq, st, t, i, j, k, c, target); ok {
			return segs
		}
	}
	for k := i; k <= j-Turn-1; k++ {
		if segs, ok := m.traceLeading(seq, st, t, i, j, k, b, c, target); ok {
			return segs
		}
	}
	return nil
}

func (m *NNTM) traceM1(seq *rnaseq.Sequence, t *Tables, st *Structure, i, j int) []segment {
	target := t.FM1[i][j]
	if t.FM1[i][j-1].Add(m.Params.B).Equal(target) {
		return []segment{{i, j - 1, lM1}}
	}
	segs, _ := m.traceBranch(seq, st, t, i, j, m.Params.C, target)
	return segs
}

// traceBranch handles the "whole region is exactly one branch" case
// shared between FM and FM1.
func (m *NNTM) traceBranch(seq *rnaseq.Sequence, st *Structure, t *Tables, i, j int, c, target rational.Rat) ([]segment, bool) {
	aup := m.AUPenalty(seq, i, j)
	b := m.Params.B

	switch m.Dangles {
	case NoDangle:
		if t.V[i][j].Add(c).Add(aup).Equal(target) {
			return []segment{{i, j, lV}}, true
		}
	case ChooseDangle:
		d5 := m.EdBranchD5(seq, i, j)
		d3 := m.EdBranchD3(seq, i, j)
		if t.V[i][j].Add(c).Add(aup).Equal(target) {
			return []segment{{i, j, lV}}, true
		}
		if i+1 < j && t.V[i+1][j].Add(c).Add(b).Add(m.AUPenalty(seq, i+1, j)).Add(d5).Equal(target) {
			st.D5[i] = true
			return []segment{{i + 1, j, lV}}, true
		}
		if i < j-1 && t.V[i][j-1].Add(c).Add(b).Add(m.AUPenalty(seq, i, j-1)).Add(d3).Equal(target) {
			st.D3[j] = true
			return []segment{{i, j - 1, lV}}, true
		}
		if i+1 < j-1 && t.V[i+1][j-1].Add(c).Add(b).Add(b).Add(m.AUPenalty(seq, i+1, j-1)).Add(d5).Add(d3).Equal(target) {
			st.D5[i] = true
			st.D3[j] = true
			return []segment{{i + 1, j - 1, lV}}, true
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, i, j)
		d3 := m.EdBranchD3(seq, i, j)
		if t.V[i][j].Add(c).Add(aup).Add(d5).Add(d3).Equal(target) {
			return []segment{{i, j, lV}}, true
		}
	}
	return nil, false
}

func (m *NNTM) traceMultiTail(seq *rnaseq.Sequence, st *Structure, t *Tables, i, j, k int, c, target rational.Rat) ([]segment, bool) {
	b := m.Params.B
	prefix := t.FM[i][k]
	base := segment{i, k, lM}

	switch m.Dangles {
	case NoDangle:
		if prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j)).Equal(target) {
			return []segment{base, {k + 1, j, lV}}, true
		}
	case ChooseDangle:
		if prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j)).Equal(target) {
			return []segment{base, {k + 1, j, lV}}, true
		}
		if k+2 <= j-Turn {
			d5 := m.EdBranchD5(seq, k+2, j)
			if prefix.Add(t.V[k+2][j]).Add(c).Add(b).Add(m.AUPenalty(seq, k+2, j)).Add(d5).Equal(target) {
				st.D5[k+1] = true
				return []segment{base, {k + 2, j, lV}}, true
			}
		}
		if k+1 <= j-1-Turn {
			d3 := m.EdBranchD3(seq, k+1, j-1)
			if prefix.Add(t.V[k+1][j-1]).Add(c).Add(b).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3).Equal(target) {
				st.D3[j] = true
				return []segment{base, {k + 1, j - 1, lV}}, true
			}
		}
		if k+2 <= j-1-Turn {
			d5 := m.EdBranchD5(seq, k+2, j-1)
			d3 := m.EdBranchD3(seq, k+2, j-1)
			if prefix.Add(t.V[k+2][j-1]).Add(c).Add(b).Add(b).Add(m.AUPenalty(seq, k+2, j-1)).Add(d5).Add(d3).Equal(target) {
				st.D5[k+1] = true
				st.D3[j] = true
				return []segment{base, {k + 2, j - 1, lV}}, true
			}
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, k+1, j)
		d3 := m.EdBranchD3(seq, k+1, j)
		if prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j)).Add(d5).Add(d3).Equal(target) {
			return []segment{base, {k + 1, j, lV}}, true
		}
	}
	return nil, false
}

func (m *NNTM) traceLeading(seq *rnaseq.Sequence, st *Structure, t *Tables, i, j, k int, b, c, target rational.Rat) ([]segment, bool) {
	leading := func(count int) rational.Rat { return b.Mul(rational.FromInt64(int64(count))) }

	switch m.Dangles {
	case NoDangle:
		if t.V[k+1][j].Add(c).Add(leading(k-i+1)).Add(m.AUPenalty(seq, k+1, j)).Equal(target) {
			return []segment{{k + 1, j, lV}}, true
		}
	case ChooseDangle:
		if t.V[k+1][j].Add(c).Add(leading(k+1-i)).Add(m.AUPenalty(seq, k+1, j)).Equal(target) {
			return []segment{{k + 1, j, lV}}, true
		}
		if k+2 <= j-Turn {
			d5 := m.EdBranchD5(seq, k+2, j)
			if t.V[k+2][j].Add(c).Add(leading(k+2-i)).Add(m.AUPenalty(seq, k+2, j)).Add(d5).Equal(target) {
				st.D5[k+1] = true
				return []segment{{k + 2, j, lV}}, true
			}
		}
		if k+1 <= j-1-Turn {
			d3 := m.EdBranchD3(seq, k+1, j-1)
			if t.V[k+1][j-1].Add(c).Add(leading(k+1-i+1)).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3).Equal(target) {
				st.D3[j] = true
				return []segment{{k + 1, j - 1, lV}}, true
			}
		}
		if k+2 <= j-1-Turn {
			d5 := m.EdBranchD5(seq, k+2, j-1)
			d3 := m.EdBranchD3(seq, k+2, j-1)
			if t.V[k+2][j-1].Add(c).Add(leading(k+2-i+1)).Add(m.AUPenalty(seq, k+2, j-1)).Add(d5).Add(d3).Equal(target) {
				st.D5[k+1] = true
				st.D3[j] = true
				return []segment{{k + 2, j - 1, lV}}, true
			}
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, k+1, j)
		d3 := m.EdBranchD3(seq, k+1, j)
		if t.V[k+1][j].Add(c).Add(leading(k-i+1)).Add(m.AUPenalty(seq, k+1, j)).Add(d5).Add(d3).Equal(target) {
			return []segment{{k + 1, j, lV}}, true
		}
	}
	return nil, false
}
