package turner

import (
	"math"
	"math/big"

	"github.com/gtDMMB/pmfe2023/internal/xmath"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
)

// ShapeCorrection is a pluggable per-position correction applied to eS and
// the size-1 bulge branch of eL (§9 open question: SHAPE-augmented energy).
// A nil ShapeCorrection is equivalent to one that always returns zero.
type ShapeCorrection func(i, j int) rational.Rat

func zeroShape(int, int) rational.Rat { return rational.Zero() }

// logExtrapolate computes prelog * ln(size/30), the Jacobson-Stockmayer
// extrapolation used once a loop exceeds MaxLoop. The extrapolation is
// inherently real-valued; the float64 result is lifted back into Rat so
// callers never have to special-case it.
func logExtrapolate(prelog rational.Rat, size int) rational.Rat {
	f := prelog.Float64() * math.Log(float64(size)/float64(MaxLoop))
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return rational.Zero()
	}
	return rational.FromBigRat(r)
}

// AUPenalty is the closing/terminal AU-or-GU penalty: zero for a GC/CG
// pair, AUPenaltyValue otherwise.
func (t *Turner99) AUPenalty(bi, bj rnaseq.Base) rational.Rat {
	i, j := baseIdx(bi), baseIdx(bj)
	if (i == 2 && j == 1) || (i == 1 && j == 2) {
		return rational.Zero()
	}
	return t.AUPenaltyValue
}

func (t *Turner99) auPenaltyAt(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return t.AUPenalty(seq.At(i), seq.At(j))
}

func (t *Turner99) tstkh(seq *rnaseq.Sequence, i, j, k, l int) rational.Rat {
	return t.Tstkh[baseIdx(seq.At(i))][baseIdx(seq.At(j))][baseIdx(seq.At(k))][baseIdx(seq.At(l))]
}

func (t *Turner99) tstki(seq *rnaseq.Sequence, i, j, k, l int) rational.Rat {
	return t.Tstki[baseIdx(seq.At(i))][baseIdx(seq.At(j))][baseIdx(seq.At(k))][baseIdx(seq.At(l))]
}

func (t *Turner99) tstkiDummy(seq *rnaseq.Sequence, i, j int) rational.Rat {
	// BASE_A substituted for both mismatch positions, used by the gail
	// (Grossly Asymmetric Interior Loop) rule.
	return t.Tstki[baseIdx(seq.At(i))][baseIdx(seq.At(j))][int(rnaseq.A)][int(rnaseq.A)]
}

// Ed5 is the energy of a 5' dangle: base k stacking on the 5' side of the
// pair (i,j).
func (t *Turner99) Ed5(seq *rnaseq.Sequence, i, j, k int) rational.Rat {
	return t.Dangle5[baseIdx(seq.At(i))][baseIdx(seq.At(j))][baseIdx(seq.At(k))]
}

// Ed3 is the energy of a 3' dangle: base k stacking on the 3' side of the
// pair (i,j).
func (t *Turner99) Ed3(seq *rnaseq.Sequence, i, j, k int) rational.Rat {
	return t.Dangle3[baseIdx(seq.At(i))][baseIdx(seq.At(j))][baseIdx(seq.At(k))]
}

func (t *Turner99) hairpinWindow(seq *rnaseq.Sequence, i, j int) string {
	buf := make([]byte, 0, j-i+1)
	for p := i; p <= j; p++ {
		buf = append(buf, []byte(seq.At(p).String())...)
	}
	return string(buf)
}

// EH returns the hairpin energy for the loop closed by pair (i,j).
func (t *Turner99) EH(seq *rnaseq.Sequence, i, j int, shape ShapeCorrection) rational.Rat {
	if shape == nil {
		shape = zeroShape
	}
	s := j - i - 1
	switch {
	case s == 0:
		return rational.Inf()
	case s < 3:
		return t.Hairpin[s].Add(t.EParam[4])
	case s == 3:
		energy := t.Hairpin[3].Add(t.auPenaltyAt(seq, i, j))
		if tri, ok := t.Triloop[t.hairpinWindow(seq, i, j)]; ok {
			energy = energy.Add(tri)
		}
		return t.finishHairpin(seq, i, j, s, energy)
	}

	var loopTerm rational.Rat
	if s <= MaxLoop {
		loopTerm = t.Hairpin[s]
	} else {
		loopTerm = t.Hairpin[MaxLoop].Add(logExtrapolate(t.Prelog, s))
	}
	energy := loopTerm.Add(t.tstkh(seq, i, j, i+1, j-1)).Add(t.EParam[4])

	if s == 4 {
		if tet, ok := t.Tloop[t.hairpinWindow(seq, i, j)]; ok {
			energy = energy.Add(tet)
		}
	}

	energy = t.finishHairpin(seq, i, j, s, energy)
	energy = energy.Add(shape(i, j))
	return energy
}

// finishHairpin applies the GGG-U closing bonus and the poly-C hairpin
// bonus shared by every hairpin size once s>=3, checking the helix stem
// immediately 5' of the pair (i-2, i-1, i) rather than the loop's own
// interior bases.
func (t *Turner99) finishHairpin(seq *rnaseq.Sequence, i, j, s int, energy rational.Rat) rational.Rat {
	if i >= 2 && seq.At(i-2) == rnaseq.G && seq.At(i-1) == rnaseq.G && seq.At(i) == rnaseq.G && seq.At(j) == rnaseq.U {
		energy = energy.Add(t.GUBonus)
	}

	allC := true
	for p := i + 1; p <= j-1; p++ {
		if seq.At(p) != rnaseq.C {
			allC = false
			break
		}
	}
	if allC {
		if s == 3 {
			energy = energy.Add(t.C3)
		} else {
			energy = energy.Add(t.CInt.Add(t.CSlope.Mul(rational.FromInt64(int64(s)))))
		}
	}
	return energy
}

// ES returns the stacking energy for pair (i,j) stacked immediately on
// pair (i+1,j-1).
func (t *Turner99) ES(seq *rnaseq.Sequence, i, j int, shape ShapeCorrection) rational.Rat {
	if shape == nil {
		shape = zeroShape
	}
	e := t.Stack[baseIdx(seq.At(i))][baseIdx(seq.At(j))][baseIdx(seq.At(i+1))][baseIdx(seq.At(j-1))].Add(t.EParam[1])
	return e.Add(shape(i, j))
}

func minRat(vals ...rational.Rat) rational.Rat {
	m := vals[0]
	for _, v := range vals[1:] {
		m = rational.Min(m, v)
	}
	return m
}

// EL returns the energy of an internal loop or bulge with outer pair
// (i,j) and inner pair (ip,jp). This follows the variant of the nearest-
// neighbor formula actually wired into the DP recurrence in the reference
// implementation: the 2x3/3x2 size-specific fast path is not applied, and
// those cases fall through to the general formula.
func (t *Turner99) EL(seq *rnaseq.Sequence, i, j, ip, jp int, shape ShapeCorrection) rational.Rat {
	if shape == nil {
		shape = zeroShape
	}
	size1 := ip - i - 1
	size2 := j - jp - 1
	size := size1 + size2

	bi, bj := baseIdx(seq.At(i)), baseIdx(seq.At(j))
	bip, bjp := baseIdx(seq.At(ip)), baseIdx(seq.At(jp))

	if size1 == 0 || size2 == 0 {
		switch {
		case size > MaxLoop:
			return t.Bulge[MaxLoop].Add(t.EParam[2]).Add(logExtrapolate(t.Prelog, size)).
				Add(t.auPenaltyAt(seq, i, j)).Add(t.auPenaltyAt(seq, ip, jp))
		case size == 1:
			return t.Stack[bi][bj][bip][bjp].Add(t.Bulge[1]).Add(t.EParam[2]).Add(shape(i, j))
		default:
			return t.Bulge[size].Add(t.EParam[2]).Add(t.auPenaltyAt(seq, i, j)).Add(t.auPenaltyAt(seq, ip, jp))
		}
	}

	lopsided := xmath.Abs(size1 - size2)
	asymmetryPenalty := minRat(t.MaxPen, t.PopPen[xmath.Min(2, xmath.Min(size1, size2))].Mul(rational.FromInt64(int64(lopsided))))

	switch {
	case size > MaxLoop:
		loginc := logExtrapolate(t.Prelog, size)
		var mm1, mm2 rational.Rat
		if (size1 == 1 || size2 == 1) && t.Gail {
			mm1 = t.tstkiDummy(seq, i, j)
			mm2 = t.tstkiDummy(seq, jp, ip)
		} else {
			mm1 = t.tstki(seq, i, j, i+1, j-1)
			mm2 = t.tstki(seq, jp, ip, jp+1, ip-1)
		}
		return mm1.Add(mm2).Add(t.Interior[MaxLoop]).Add(loginc).Add(t.EParam[3]).Add(asymmetryPenalty)
	case size1 == 2 && size2 == 2:
		return t.Iloop22.Get(bi, bip, bj, bjp, baseIdx(seq.At(i+1)), baseIdx(seq.At(i+2)), baseIdx(seq.At(j-1)), baseIdx(seq.At(j-2)))
	case size1 == 1 && size2 == 2:
		return t.Iloop21[bi][bj][baseIdx(seq.At(i+1))][baseIdx(seq.At(j-1))][baseIdx(seq.At(j-2))][bip][bjp]
	case size1 == 2 && size2 == 1:
		return t.Iloop21[bjp][bip][baseIdx(seq.At(j-1))][baseIdx(seq.At(i+2))][baseIdx(seq.At(i+1))][bj][bi]
	case size == 2:
		return t.Iloop11[bi][baseIdx(seq.At(i+1))][bip][bj][baseIdx(seq.At(j-1))][bjp]
	default:
		loginc := rational.Zero()
		var mm1, mm2 rational.Rat
		if (size1 == 1 || size2 == 1) && t.Gail {
			mm1 = t.tstkiDummy(seq, i, j)
			mm2 = t.tstkiDummy(seq, jp, ip)
		} else {
			mm1 = t.tstki(seq, i, j, i+1, j-1)
			mm2 = t.tstki(seq, jp, ip, jp+1, ip-1)
		}
		return mm1.Add(mm2).Add(t.Interior[size]).Add(loginc).Add(t.EParam[3]).Add(asymmetryPenalty)
	}
}

