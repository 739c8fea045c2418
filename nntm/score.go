package nntm

import "github.com/gtDMMB/pmfe2023/rational"

// ScoreVector is a structure's energy decomposed into the parametric
// counts (a, b, c, d) reweight and the non-parametric remainder w (§3).
// Energy = A*Multiloops + B*Unpaired + C*Branches + W, in the scoring
// model's canonical (d=1) form.
type ScoreVector struct {
	Multiloops int
	Unpaired   int
	Branches   int
	W          rational.Rat
	Energy     rational.Rat
}

// Score derives the parametric decomposition of a structure's energy by
// walking its loop tree rather than re-running the DP: only a multiloop's
// own closing pair and the free bases directly inside it ever contribute
// a multiloop/unpaired/branch count, exactly mirroring which recurrence
// terms Fill's fillV/fillFM/fillFM1 charge a, b, and c against. Exterior-
// loop branches and free bases are always free, since fillW never adds
// a, b, or c (§4.2).
func (m *NNTM) Score(st *Structure, energy rational.Rat) ScoreVector {
	sv := ScoreVector{Energy: energy}

	n := len(st.Pairs)
	for k := 0; k < n; {
		if st.Pairs[k] > k {
			scoreLoop(st, k, st.Pairs[k], &sv)
			k = st.Pairs[k] + 1
		} else {
			k++
		}
	}

	a, b, c := m.Params.A, m.Params.B, m.Params.C
	parametric := a.Mul(rational.FromInt64(int64(sv.Multiloops))).
		Add(b.Mul(rational.FromInt64(int64(sv.Unpaired)))).
		Add(c.Mul(rational.FromInt64(int64(sv.Branches))))
	sv.W = energy.Sub(parametric)
	return sv
}

// loopChild is one immediate branch pair found directly inside a loop,
// i.e. not nested inside another branch of that same loop.
type loopChild struct{ i, j int }

func immediateChildren(st *Structure, i, j int) []loopChild {
	var children []loopChild
	for k := i + 1; k < j; {
		if st.Pairs[k] > k {
			children = append(children, loopChild{k, st.Pairs[k]})
			k = st.Pairs[k] + 1
		} else {
			k++
		}
	}
	return children
}

// scoreLoop tallies the closing pair (i,j)'s own loop and then recurses
// into every branch it encloses, regardless of that loop's own kind.
func scoreLoop(st *Structure, i, j int, sv *ScoreVector) {
	children := immediateChildren(st, i, j)

	if len(children) >= 2 {
		sv.Multiloops++
		sv.Branches += len(children) + 1
		sv.Unpaired += freeBaseCount(st, i, j, children)
	}

	for _, ch := range children {
		scoreLoop(st, ch.i, ch.j, sv)
	}
}

func freeBaseCount(st *Structure, i, j int, children []loopChild) int {
	count := 0
	k := i + 1
	for _, ch := range children {
		for ; k < ch.i; k++ {
			if st.Pairs[k] < 0 {
				count++
			}
		}
		k = ch.j + 1
	}
	for ; k < j; k++ {
		if st.Pairs[k] < 0 {
			count++
		}
	}
	return count
}
