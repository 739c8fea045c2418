package subopt

import (
	"sort"

	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/turner"
)

// Turn is the minimum hairpin/loop span the DP enforces everywhere else.
const Turn = nntm.Turn

// StructureWithScore pairs a fully resolved structure with its
// parametric score decomposition.
type StructureWithScore struct {
	Structure *nntm.Structure
	Score     nntm.ScoreVector
}

// Enumerate lists every structure whose energy is within delta of the
// filled tables' minimum, working a stack of PartialStructures exactly
// as nntm-subopt.cc's suboptimal_structures does: pop a partial
// structure, resolve its top pending segment one candidate recurrence
// term at a time, and push a clone for every candidate that still fits
// under upper_bound. When nothing fits, the partial structure (minus
// the segment just tried) goes back on the stack so its other pending
// segments still get a chance. When sorted is true, results come back
// ordered from lowest to highest energy.
func Enumerate(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, delta rational.Rat, sorted bool) []StructureWithScore {
	n := seq.Len()
	upperBound := t.MFE().Add(delta)
	tables := map[Label][][]rational.Rat{LV: t.V, LVBI: t.VBI, LM: t.FM, LM1: t.FM1}

	first := newPartialStructure(n)
	if n > 0 {
		first.push(Segment{0, n - 1, LW})
	}

	stack := []PartialStructure{first}
	var results []StructureWithScore

	for len(stack) > 0 {
		ps := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if ps.empty() {
			results = append(results, StructureWithScore{
				Structure: ps.Structure,
				Score:     m.Score(ps.Structure, ps.Total),
			})
			continue
		}

		seg := ps.pop()
		bound := upperBound // less what the other pending segments still owe
		for _, r := range ps.pending {
			owed := t.W[r.J]
			if r.Label != LW {
				owed = tables[r.Label][r.I][r.J]
			}
			bound = bound.Sub(owed)
		}
		var pushed bool
		if seg.J-seg.I >= Turn {
			switch seg.Label {
			case LW:
				pushed = traceW(m, seq, t, ps, seg.I, seg.J, bound, &stack)
			case LV:
				pushed = traceV(m, seq, t, ps, seg.I, seg.J, bound, &stack)
			case LVBI:
				pushed = traceVBI(m, seq, t, ps, seg.I, seg.J, bound, &stack)
			case LM:
				pushed = traceM(m, seq, t, ps, seg.I, seg.J, bound, &stack)
			case LM1:
				pushed = traceM1(m, seq, t, ps, seg.I, seg.J, bound, &stack)
			}
		}
		if !pushed {
			stack = append(stack, ps)
		}
	}

	if sorted {
		sort.Slice(results, func(x, y int) bool {
			return results[x].Score.Energy.Less(results[y].Score.Energy)
		})
	}
	return results
}

func fits(candidate, ps rational.Rat, upperBound rational.Rat) bool {
	return candidate.Add(ps).LessEq(upperBound)
}

func traceV(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false

	if fits(m.EH(seq, i, j), ps.Total, upperBound) {
		child := ps.clone()
		child.accumulate(m.EH(seq, i, j))
		child.Structure.MarkPair(i, j)
		*stack = append(*stack, child)
		pushed = true
	}

	if fits(m.ES(seq, i, j).Add(t.V[i+1][j-1]), ps.Total, upperBound) {
		child := ps.clone()
		child.push(Segment{i + 1, j - 1, LV})
		child.accumulate(m.ES(seq, i, j))
		child.Structure.MarkPair(i, j)
		*stack = append(*stack, child)
		pushed = true
	}

	if fits(t.VBI[i][j], ps.Total, upperBound) {
		if traceVBI(m, seq, t, ps, i, j, upperBound, stack) {
			pushed = true
		}
	}

	a, b, c := m.Params.A, m.Params.B, m.Params.C
	aup := m.AUPenalty(seq, i, j)

	for k := i + 2; k <= j-Turn-1; k++ {
		switch m.Dangles {
		case nntm.NoDangle:
			bonus := aup.Add(a).Add(c)
			if fits(t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(bonus), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i + 1, k, LM})
				child.push(Segment{k + 1, j - 1, LM1})
				child.accumulate(bonus)
				child.Structure.MarkPair(i, j)
				*stack = append(*stack, child)
				pushed = true
			}
		case nntm.ChooseDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)

			bonus0 := aup.Add(a).Add(c)
			if fits(t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(bonus0), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i + 1, k, LM})
				child.push(Segment{k + 1, j - 1, LM1})
				child.accumulate(bonus0)
				child.Structure.MarkPair(i, j)
				*stack = append(*stack, child)
				pushed = true
			}
			if k > i+2 {
				bonus1 := aup.Add(d5).Add(a).Add(b).Add(c)
				if fits(t.FM[i+2][k].Add(t.FM1[k+1][j-1]).Add(bonus1), ps.Total, upperBound) {
					child := ps.clone()
					child.push(Segment{i + 2, k, LM})
					child.push(Segment{k + 1, j - 1, LM1})
					child.accumulate(bonus1)
					child.Structure.MarkPair(i, j)
					child.Structure.D5[i+1] = true
					*stack = append(*stack, child)
					pushed = true
				}
			}
			if k <= j-Turn-2 {
				bonus2 := aup.Add(d3).Add(a).Add(b).Add(c)
				if fits(t.FM[i+1][k].Add(t.FM1[k+1][j-2]).Add(bonus2), ps.Total, upperBound) {
					child := ps.clone()
					child.push(Segment{i + 1, k, LM})
					child.push(Segment{k + 1, j - 2, LM1})
					child.accumulate(bonus2)
					child.Structure.MarkPair(i, j)
					child.Structure.D3[j-1] = true
					*stack = append(*stack, child)
					pushed = true
				}
			}
			if k > i+2 && k <= j-Turn-2 {
				bonus3 := aup.Add(d5).Add(d3).Add(a).Add(b).Add(b).Add(c)
				if fits(t.FM[i+2][k].Add(t.FM1[k+1][j-2]).Add(bonus3), ps.Total, upperBound) {
					child := ps.clone()
					child.push(Segment{i + 2, k, LM})
					child.push(Segment{k + 1, j - 2, LM1})
					child.accumulate(bonus3)
					child.Structure.MarkPair(i, j)
					child.Structure.D5[i+1] = true
					child.Structure.D3[j-1] = true
					*stack = append(*stack, child)
					pushed = true
				}
			}
		case nntm.BothDangle:
			d5 := m.EdInteriorD5(seq, i, j)
			d3 := m.EdInteriorD3(seq, i, j)
			bonus := aup.Add(d5).Add(d3).Add(a).Add(c)
			if fits(t.FM[i+1][k].Add(t.FM1[k+1][j-1]).Add(bonus), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i + 1, k, LM})
				child.push(Segment{k + 1, j - 1, LM1})
				child.accumulate(bonus)
				child.Structure.MarkPair(i, j)
				*stack = append(*stack, child)
				pushed = true
			}
		}
	}

	return pushed
}

func traceVBI(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false
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
			e := m.EL(seq, i, j, p, q)
			if fits(t.V[p][q].Add(e), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{p, q, LV})
				child.accumulate(e)
				child.Structure.MarkPair(i, j)
				*stack = append(*stack, child)
				pushed = true
			}
		}
	}
	return pushed
}

func traceW(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false

	for l := 0; l < j-Turn; l++ {
		var wim1 rational.Rat
		if l > 0 {
			wim1 = t.W[l-1]
		} else {
			wim1 = rational.Zero()
		}

		pushBranch := func(bi, bj int, bonus rational.Rat, setD5, setD3 func(*nntm.Structure)) {
			child := ps.clone()
			child.push(Segment{bi, bj, LV})
			if l > i {
				child.push(Segment{i, l - 1, LW})
			}
			child.accumulate(bonus)
			if setD5 != nil {
				setD5(child.Structure)
			}
			if setD3 != nil {
				setD3(child.Structure)
			}
			*stack = append(*stack, child)
			pushed = true
		}

		switch m.Dangles {
		case nntm.NoDangle:
			bonus := m.AUPenalty(seq, l, j)
			if fits(t.V[l][j].Add(wim1).Add(bonus), ps.Total, upperBound) {
				pushBranch(l, j, bonus, nil, nil)
			}
		case nntm.ChooseDangle:
			d5 := m.EdBranchD5(seq, l+1, j)
			d3 := m.EdBranchD3(seq, l, j-1)
			d53 := m.EdBranchD5(seq, l+1, j-1).Add(m.EdBranchD3(seq, l+1, j-1))

			bonus0 := m.AUPenalty(seq, l, j)
			if fits(t.V[l][j].Add(wim1).Add(bonus0), ps.Total, upperBound) {
				pushBranch(l, j, bonus0, nil, nil)
			}
			if l+1 < j-Turn {
				bonus1 := m.AUPenalty(seq, l+1, j).Add(d5)
				if fits(t.V[l+1][j].Add(wim1).Add(bonus1), ps.Total, upperBound) {
					lcopy := l
					pushBranch(l+1, j, bonus1, func(s *nntm.Structure) { s.D5[lcopy] = true }, nil)
				}
			}
			if l < j-Turn-1 {
				bonus2 := m.AUPenalty(seq, l, j-1).Add(d3)
				if fits(t.V[l][j-1].Add(wim1).Add(bonus2), ps.Total, upperBound) {
					pushBranch(l, j-1, bonus2, nil, func(s *nntm.Structure) { s.D3[j] = true })
				}
			}
			if l+1 < j-Turn-1 {
				bonus3 := m.AUPenalty(seq, l+1, j-1).Add(d53)
				if fits(t.V[l+1][j-1].Add(wim1).Add(bonus3), ps.Total, upperBound) {
					lcopy := l
					pushBranch(l+1, j-1, bonus3, func(s *nntm.Structure) { s.D5[lcopy] = true }, func(s *nntm.Structure) { s.D3[j] = true })
				}
			}
		case nntm.BothDangle:
			bonus := m.AUPenalty(seq, l, j).Add(m.EdBranchD5(seq, l, j)).Add(m.EdBranchD3(seq, l, j))
			if fits(t.V[l][j].Add(wim1).Add(bonus), ps.Total, upperBound) {
				pushBranch(l, j, bonus, nil, nil)
			}
		}
	}

	if fits(t.W[j-1], ps.Total, upperBound) {
		child := ps.clone()
		child.push(Segment{i, j - 1, LW})
		*stack = append(*stack, child)
		pushed = true
	}

	return pushed
}

func traceM1(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false
	b, c := m.Params.B, m.Params.C

	if fits(t.FM1[i][j-1].Add(b), ps.Total, upperBound) {
		child := ps.clone()
		child.push(Segment{i, j - 1, LM1})
		child.accumulate(b)
		*stack = append(*stack, child)
		pushed = true
	}

	if traceBranch(m, seq, t, ps, i, j, c, upperBound, LM1, stack) {
		pushed = true
	}

	return pushed
}

func traceM(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false
	b, c := m.Params.B, m.Params.C

	if fits(t.FM[i][j-1].Add(b), ps.Total, upperBound) {
		child := ps.clone()
		child.push(Segment{i, j - 1, LM})
		child.accumulate(b)
		*stack = append(*stack, child)
		pushed = true
	}

	if traceBranch(m, seq, t, ps, i, j, c, upperBound, LM, stack) {
		pushed = true
	}

	for k := i + Turn + 1; k <= j-Turn-1; k++ {
		if traceMultiTail(m, seq, t, ps, i, j, k, c, upperBound, stack) {
			pushed = true
		}
	}

	for k := i; k <= j-Turn-1; k++ {
		if traceLeading(m, seq, t, ps, i, j, k, b, c, upperBound, stack) {
			pushed = true
		}
	}

	return pushed
}

// traceBranch handles the "whole region [i,j] is a single branch" case
// shared between FM and FM1; selfLabel is LM or LM1 only for
// documentation purposes (the branch it resolves into is always LV).
func traceBranch(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j int, c rational.Rat, upperBound rational.Rat, selfLabel Label, stack *[]PartialStructure) bool {
	pushed := false
	aup := m.AUPenalty(seq, i, j)
	b := m.Params.B

	switch m.Dangles {
	case nntm.NoDangle:
		bonus := c.Add(aup)
		if fits(t.V[i][j].Add(bonus), ps.Total, upperBound) {
			child := ps.clone()
			child.push(Segment{i, j, LV})
			child.accumulate(bonus)
			*stack = append(*stack, child)
			pushed = true
		}
	case nntm.ChooseDangle:
		d5 := m.EdBranchD5(seq, i, j)
		d3 := m.EdBranchD3(seq, i, j)

		bonus0 := c.Add(aup)
		if fits(t.V[i][j].Add(bonus0), ps.Total, upperBound) {
			child := ps.clone()
			child.push(Segment{i, j, LV})
			child.accumulate(bonus0)
			*stack = append(*stack, child)
			pushed = true
		}
		if i+1 < j {
			bonus1 := c.Add(b).Add(m.AUPenalty(seq, i+1, j)).Add(d5)
			if fits(t.V[i+1][j].Add(bonus1), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i + 1, j, LV})
				child.accumulate(bonus1)
				child.Structure.D5[i] = true
				*stack = append(*stack, child)
				pushed = true
			}
		}
		if i < j-1 {
			bonus2 := c.Add(b).Add(m.AUPenalty(seq, i, j-1)).Add(d3)
			if fits(t.V[i][j-1].Add(bonus2), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i, j - 1, LV})
				child.accumulate(bonus2)
				child.Structure.D3[j] = true
				*stack = append(*stack, child)
				pushed = true
			}
		}
		if i+1 < j-1 {
			bonus3 := c.Add(b).Add(b).Add(m.AUPenalty(seq, i+1, j-1)).Add(d5).Add(d3)
			if fits(t.V[i+1][j-1].Add(bonus3), ps.Total, upperBound) {
				child := ps.clone()
				child.push(Segment{i + 1, j - 1, LV})
				child.accumulate(bonus3)
				child.Structure.D5[i] = true
				child.Structure.D3[j] = true
				*stack = append(*stack, child)
				pushed = true
			}
		}
	case nntm.BothDangle:
		bonus := m.EdBranchD5(seq, i, j).Add(m.EdBranchD3(seq, i, j)).Add(aup)
		if fits(t.V[i][j].Add(bonus), ps.Total, upperBound) {
			child := ps.clone()
			child.push(Segment{i, j, LV})
			child.accumulate(bonus)
			*stack = append(*stack, child)
			pushed = true
		}
	}
	return pushed
}

func traceMultiTail(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j, k int, c rational.Rat, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false
	b := m.Params.B
	prefix := t.FM[i][k]

	pushBoth := func(bi, bj int, bonus rational.Rat, mark func(*nntm.Structure)) {
		child := ps.clone()
		child.push(Segment{i, k, LM})
		child.push(Segment{bi, bj, LV})
		child.accumulate(bonus)
		if mark != nil {
			mark(child.Structure)
		}
		*stack = append(*stack, child)
		pushed = true
	}

	switch m.Dangles {
	case nntm.NoDangle:
		bonus := c.Add(m.AUPenalty(seq, k+1, j))
		if fits(prefix.Add(t.V[k+1][j]).Add(bonus), ps.Total, upperBound) {
			pushBoth(k+1, j, bonus, nil)
		}
	case nntm.ChooseDangle:
		d5 := m.EdBranchD5(seq, k+2, j)
		d3 := m.EdBranchD3(seq, k+1, j-1)
		d53 := m.EdBranchD5(seq, k+2, j-1).Add(m.EdBranchD3(seq, k+2, j-1))

		bonus0 := c.Add(m.AUPenalty(seq, k+1, j))
		if fits(prefix.Add(t.V[k+1][j]).Add(bonus0), ps.Total, upperBound) {
			pushBoth(k+1, j, bonus0, nil)
		}
		if k+2 <= j-Turn {
			bonus1 := c.Add(b).Add(m.AUPenalty(seq, k+2, j)).Add(d5)
			if fits(prefix.Add(t.V[k+2][j]).Add(bonus1), ps.Total, upperBound) {
				kcopy := k
				pushBoth(k+2, j, bonus1, func(s *nntm.Structure) { s.D5[kcopy+1] = true })
			}
		}
		if k+1 <= j-1-Turn {
			bonus2 := c.Add(b).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3)
			if fits(prefix.Add(t.V[k+1][j-1]).Add(bonus2), ps.Total, upperBound) {
				pushBoth(k+1, j-1, bonus2, func(s *nntm.Structure) { s.D3[j] = true })
			}
		}
		if k+2 <= j-1-Turn {
			bonus3 := c.Add(b).Add(b).Add(m.AUPenalty(seq, k+2, j-1)).Add(d53)
			if fits(prefix.Add(t.V[k+2][j-1]).Add(bonus3), ps.Total, upperBound) {
				kcopy := k
				pushBoth(k+2, j-1, bonus3, func(s *nntm.Structure) { s.D5[kcopy+1] = true; s.D3[j] = true })
			}
		}
	case nntm.BothDangle:
		bonus := m.EdBranchD5(seq, k+1, j).Add(m.EdBranchD3(seq, k+1, j)).Add(c).Add(m.AUPenalty(seq, k+1, j))
		if fits(prefix.Add(t.V[k+1][j]).Add(bonus), ps.Total, upperBound) {
			pushBoth(k+1, j, bonus, nil)
		}
	}

	return pushed
}

func traceLeading(m *nntm.NNTM, seq *rnaseq.Sequence, t *nntm.Tables, ps PartialStructure, i, j, k int, b, c rational.Rat, upperBound rational.Rat, stack *[]PartialStructure) bool {
	pushed := false
	leading := func(count int) rational.Rat { return b.Mul(rational.FromInt64(int64(count))) }

	pushOne := func(bi, bj int, bonus rational.Rat, mark func(*nntm.Structure)) {
		child := ps.clone()
		child.push(Segment{bi, bj, LV})
		child.accumulate(bonus)
		if mark != nil {
			mark(child.Structure)
		}
		*stack = append(*stack, child)
		pushed = true
	}

	switch m.Dangles {
	case nntm.NoDangle:
		bonus := c.Add(leading(k - i + 1)).Add(m.AUPenalty(seq, k+1, j))
		if fits(t.V[k+1][j].Add(bonus), ps.Total, upperBound) {
			pushOne(k+1, j, bonus, nil)
		}
	case nntm.ChooseDangle:
		d5 := m.EdBranchD5(seq, k+2, j)
		d3 := m.EdBranchD3(seq, k+1, j-1)
		d53 := m.EdBranchD5(seq, k+2, j-1).Add(m.EdBranchD3(seq, k+2, j-1))

		bonus0 := c.Add(leading(k + 1 - i)).Add(m.AUPenalty(seq, k+1, j))
		if fits(t.V[k+1][j].Add(bonus0), ps.Total, upperBound) {
			pushOne(k+1, j, bonus0, nil)
		}
		if k+2 <= j-Turn {
			bonus1 := c.Add(leading(k + 2 - i)).Add(m.AUPenalty(seq, k+2, j)).Add(d5)
			if fits(t.V[k+2][j].Add(bonus1), ps.Total, upperBound) {
				kcopy := k
				pushOne(k+2, j, bonus1, func(s *nntm.Structure) { s.D5[kcopy+1] = true })
			}
		}
		if k+1 <= j-1-Turn {
			bonus2 := c.Add(leading(k + 1 - i + 1)).Add(m.AUPenalty(seq, k+1, j-1)).Add(d3)
			if fits(t.V[k+1][j-1].Add(bonus2), ps.Total, upperBound) {
				pushOne(k+1, j-1, bonus2, func(s *nntm.Structure) { s.D3[j] = true })
			}
		}
		if k+2 <= j-1-Turn {
			bonus3 := c.Add(leading(k + 2 - i + 1)).Add(m.AUPenalty(seq, k+2, j-1)).Add(d53)
			if fits(t.V[k+2][j-1].Add(bonus3), ps.Total, upperBound) {
				kcopy := k
				pushOne(k+2, j-1, bonus3, func(s *nntm.Structure) { s.D5[kcopy+1] = true; s.D3[j] = true })
			}
		}
	case nntm.BothDangle:
		bonus := m.EdBranchD5(seq, k+1, j).Add(m.EdBranchD3(seq, k+1, j)).Add(c).Add(leading(k - i + 1)).Add(m.AUPenalty(seq, k+1, j))
		if fits(t.V[k+1][j].Add(bonus), ps.Total, upperBound) {
			pushOne(k+1, j, bonus, nil)
		}
	}

	return pushed
}
