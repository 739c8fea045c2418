package nntm

import (
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/turner"
)

// Turn is the minimum number of unpaired bases a hairpin must enclose; a
// pair (i,j) is only ever considered valid when j-i > Turn (§3).
const Turn = turner.Turn

// Fill runs the full Θ(n⁴) (Θ(n²·MAXLOOP²) in practice) dynamic program
// over seq, populating V, VBI, FM, FM1 in order of increasing interval
// width and then W in order of increasing right endpoint (§4.2).
func (m *NNTM) Fill(seq *rnaseq.Sequence) *Tables {
	n := seq.Len()
	t := newTables(n)

	for width := 0; width < n; width++ {
		for i := 0; i+width < n; i++ {
			j := i + width
			m.fillVBI(seq, t, i, j)
			m.fillV(seq, t, i, j)
			m.fillFM(seq, t, i, j)
			m.fillFM1(seq, t, i, j)
		}
	}

	for j := 0; j < n; j++ {
		m.fillW(seq, t, j)
	}

	return t
}

func (m *NNTM) fillV(seq *rnaseq.Sequence, t *Tables, i, j int) {
	if j-i <= Turn || !seq.CanPairAt(i, j) {
		t.V[i][j] = rational.Inf()
		return
	}

	best := m.EH(seq, i, j)
	best = rational.Min(best, m.ES(seq, i, j).Add(t.V[i+1][j-1]))
	best = rational.Min(best, t.VBI[i][j])
	best = rational.Min(best, m.multiloopEnergy(seq, t, i, j))

	t.V[i][j] = best
}

// multiloopEnergy searches every way of splitting (i,j)'s interior into
// a run of FM branches followed by one closing FM1 branch, the
// multiloop option of V's recurrence (§4.2). Exposed as its own method
// so Evaluate can reuse the identical dangle-variant candidate search
// when recomputing a known structure's energy, instead of duplicating
// it.
func (m *NNTM) multiloopEnergy(seq *rnaseq.Sequence, t *Tables, i, j int) rational.Rat {
	best := rational.Inf()
	a, b, c := m.Params.A, m.Params.B, m.Params.C
	aup := m.AUPenalty(seq, i, j)

	for k := i + 2; k <= j-Turn-1; k++ {
		switch m.Dangles {
		case NoDangle:
			cand := t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(a).Add(c)
			best = rational.Min(best, cand)
		case ChooseDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)
			cand0 := t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(a).Add(c)
			best = rational.Min(best, cand0)
			if k > i+2 {
				cand1 := t.FM[i+2][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(d5).Add(a).Add(b).Add(c)
				best = rational.Min(best, cand1)
			}
			if k <= j-Turn-2 {
				cand2 := t.FM[i+1][k].Add(t.FM1[k+1][j-2]).Add(aup).Add(d3).Add(a).Add(b).Add(c)
				best = rational.Min(best, cand2)
			}
			if k > i+2 && k <= j-Turn-2 {
				cand3 := t.FM[i+2][k].Add(t.FM1[k+1][j-2]).Add(aup).Add(d5).Add(d3).Add(a).Add(b).Add(b).Add(c)
				best = rational.Min(best, cand3)
			}
		case BothDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)
			cand := t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(aup).Add(d5).Add(d3).Add(a).Add(c)
			best = rational.Min(best, cand)
		}
	}

	return best
}

func (m *NNTM) fillVBI(seq *rnaseq.Sequence, t *Tables, i, j int) {
	if j-i <= Turn || !seq.CanPairAt(i, j) {
		t.VBI[i][j] = rational.Inf()
		return
	}
	n := seq.Len()
	best := rational.Inf()

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
			cand := t.V[p][q].Add(m.EL(seq, i, j, p, q))
			best = rational.Min(best, cand)
		}
	}

	t.VBI[i][j] = best
}

func (m *NNTM) fillFM(seq *rnaseq.Sequence, t *Tables, i, j int) {
	if j <= i {
		t.FM[i][j] = rational.Inf()
		return
	}
	best := rational.Inf()
	b := m.Params.B
	c := m.Params.C

	// (a) trailing free base
	best = rational.Min(best, t.FM[i][j-1].Add(b))

	// (b) the whole region [i,j] is a single branch
	best = rational.Min(best, m.branchEnergy(seq, t, i, j, c))

	// (c) multiple branches: FM[i,k] + a trailing single branch
	for k := i + Turn + 1; k <= j-Turn-1; k++ {
		best = rational.Min(best, m.multiBranchTail(seq, t, i, j, k, c))
	}

	// (d) a single branch preceded by (k-i+1) free bases
	for k := i; k <= j-Turn-1; k++ {
		best = rational.Min(best, m.leadingFreeBasesThenBranch(seq, t, i, j, k, b, c))
	}

	t.FM[i][j] = best
}

func (m *NNTM) fillFM1(seq *rnaseq.Sequence, t *Tables, i, j int) {
	if j <= i {
		t.FM1[i][j] = rational.Inf()
		return
	}
	best := rational.Min(t.FM1[i][j-1].Add(m.Params.B), m.branchEnergy(seq, t, i, j, m.Params.C))
	t.FM1[i][j] = best
}

// branchEnergy is the energy of treating [i,j] as exactly one helix
// branch, under every dangle-mode variant. It is shared between FM's
// "whole region is a single branch" case and FM1's only branch option.
func (m *NNTM) branchEnergy(seq *rnaseq.Sequence, t *Tables, i, j int, c rational.Rat) rational.Rat {
	aup := m.AUPenalty(seq, i, j)
	b := m.Params.B
	best := rational.Inf()

	switch m.Dangles {
	case NoDangle:
		best = t.V[i][j].Add(c).Add(aup)
	case ChooseDangle:
		d5 := m.EdBranchD5(seq, i, j)
		d3 := m.EdBranchD3(seq, i, j)
		best = rational.Min(best, t.V[i][j].Add(c).Add(aup))
		if i+1 < j {
			best = rational.Min(best, t.V[i+1][j].Add(c).Add(b).Add(m.AUPenalty(seq, i+1, j)).Add(d5))
		}
		if i < j-1 {
			best = rational.Min(best, t.V[i][j-1].Add(c).Add(b).Add(m.AUPenalty(seq, i, j-1)).Add(d3))
		}
		if i+1 < j-1 {
			best = rational.Min(best, t.V[i+1][j-1].Add(c).Add(b).Add(b).Add(m.AUPenalty(seq, i+1, j-1)).Add(d5).Add(d3))
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, i, j)
		d3 := m.EdBranchD3(seq, i, j)
		best = t.V[i][j].Add(c).Add(aup).Add(d5).Add(d3)
	}
	return best
}

func (m *NNTM) multiBranchTail(seq *rnaseq.Sequence, t *Tables, i, j, k int, c rational.Rat) rational.Rat {
	b := m.Params.B
	prefix := t.FM[i][k]
	best := rational.Inf()

	switch m.Dangles {
	case NoDangle:
		best = prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j))
	case ChooseDangle:
		best = rational.Min(best, prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j)))
		if k+2 <= j-Turn {
			d5 := m.EdBranchD5(seq, k+2, j)
			best = rational.Min(best, prefix.Add(t.V[k+2][j]).Add(c).Add(b).Add(m.AUPenalty(seq, k+2, j)).Add(d5))
		}
		if k+1 <= j-1-Turn {
			d3 := m.EdBranchD3(seq, k+1, j-1)
			best = rational.Min(best, prefix.Add(t.V[k+1][j-1]).Add(c).Add(b).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3))
		}
		if k+2 <= j-1-Turn {
			d5 := m.EdBranchD5(seq, k+2, j-1)
			d3 := m.EdBranchD3(seq, k+2, j-1)
			best = rational.Min(best, prefix.Add(t.V[k+2][j-1]).Add(c).Add(b).Add(b).Add(m.AUPenalty(seq, k+2, j-1)).Add(d5).Add(d3))
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, k+1, j)
		d3 := m.EdBranchD3(seq, k+1, j)
		best = prefix.Add(t.V[k+1][j]).Add(c).Add(m.AUPenalty(seq, k+1, j)).Add(d5).Add(d3)
	}
	return best
}

func (m *NNTM) leadingFreeBasesThenBranch(seq *rnaseq.Sequence, t *Tables, i, j, k int, b, c rational.Rat) rational.Rat {
	best := rational.Inf()
	leading := func(count int) rational.Rat { return b.Mul(rational.FromInt64(int64(count))) }

	switch m.Dangles {
	case NoDangle:
		best = t.V[k+1][j].Add(c).Add(leading(k-i+1)).Add(m.AUPenalty(seq, k+1, j))
	case ChooseDangle:
		best = rational.Min(best, t.V[k+1][j].Add(c).Add(leading(k+1-i)).Add(m.AUPenalty(seq, k+1, j)))
		if k+2 <= j-Turn {
			d5 := m.EdBranchD5(seq, k+2, j)
			best = rational.Min(best, t.V[k+2][j].Add(c).Add(leading(k+2-i)).Add(m.AUPenalty(seq, k+2, j)).Add(d5))
		}
		if k+1 <= j-1-Turn {
			d3 := m.EdBranchD3(seq, k+1, j-1)
			best = rational.Min(best, t.V[k+1][j-1].Add(c).Add(leading(k+1-i+1)).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3))
		}
		if k+2 <= j-1-Turn {
			d5 := m.EdBranchD5(seq, k+2, j-1)
			d3 := m.EdBranchD3(seq, k+2, j-1)
			best = rational.Min(best, t.V[k+2][j-1].Add(c).Add(leading(k+2-i+1)).Add(m.AUPenalty(seq, k+2, j-1)).Add(d5).Add(d3))
		}
	case BothDangle:
		d5 := m.EdBranchD5(seq, k+1, j)
		d3 := m.EdBranchD3(seq, k+1, j)
		best = t.V[k+1][j].Add(c).Add(leading(k-i+1)).Add(m.AUPenalty(seq, k+1, j)).Add(d5).Add(d3)
	}
	return best
}

func (m *NNTM) fillW(seq *rnaseq.Sequence, t *Tables, j int) {
	if j == 0 {
		t.W[0] = rational.Zero()
		return
	}
	best := t.W[j-1]

	for l := 0; l < j-Turn; l++ {
		var wim1 rational.Rat
		if l > 0 {
			wim1 = t.W[l-1]
		} else {
			wim1 = rational.Zero()
		}

		switch m.Dangles {
		case NoDangle:
			cand := t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j))
			best = rational.Min(best, cand)
		case ChooseDangle:
			cand0 := t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j))
			best = rational.Min(best, cand0)
			if l+1 < j-Turn {
				d5 := m.EdBranchD5(seq, l+1, j)
				cand1 := t.V[l+1][j].Add(wim1).Add(m.AUPenalty(seq, l+1, j)).Add(d5)
				best = rational.Min(best, cand1)
			}
			if l < j-Turn-1 {
				d3 := m.EdBranchD3(seq, l, j-1)
				cand2 := t.V[l][j-1].Add(wim1).Add(m.AUPenalty(seq, l, j-1)).Add(d3)
				best = rational.Min(best, cand2)
			}
			if l+1 < j-Turn-1 {
				d5 := m.EdBranchD5(seq, l+1, j-1)
				d3 := m.EdBranchD3(seq, l+1, j-1)
				cand3 := t.V[l+1][j-1].Add(wim1).Add(m.AUPenalty(seq, l+1, j-1)).Add(d5).Add(d3)
				best = rational.Min(best, cand3)
			}
		case BothDangle:
			d5 := m.EdBranchD5(seq, l, j)
			d3 := m.EdBranchD3(seq, l, j)
			cand := t.V[l][j].Add(wim1).Add(m.AUPenalty(seq, l, j)).Add(d5).Add(d3)
			best = rational.Min(best, cand)
		}
	}

	t.W[j] = best
}
