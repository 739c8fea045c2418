package nntm

import (
	"testing"

	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/scoring"
	"github.com/gtDMMB/pmfe2023/turner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeq(t *testing.T, s string) *rnaseq.Sequence {
	t.Helper()
	seq, err := rnaseq.New(s)
	require.NoError(t, err)
	return seq
}

func testModel(dangles DangleMode) *NNTM {
	params := scoring.ParameterVector{
		A: rational.FromFrac(3, 2),
		B: rational.FromFrac(1, 4),
		C: rational.FromFrac(1, 1),
		D: rational.FromInt64(1),
	}
	return New(params, turner.Default(), dangles)
}

var allDangleModes = []DangleMode{NoDangle, ChooseDangle, BothDangle}

func TestFillTracebackEnergyConsistency(t *testing.T) {
	seqs := []string{
		"GGGAAACCC",
		"GCGCUUCGGCGC",
		"GGGGAAAACCCCAAAAGGGGAAAACCCC",
	}
	for _, dangles := range allDangleModes {
		dangles := dangles
		for _, s := range seqs {
			s := s
			t.Run(dangles.String()+"/"+s, func(t *testing.T) {
				model := testModel(dangles)
				seq := mustSeq(t, s)
				tables := model.Fill(seq)
				st := model.Traceback(seq, tables)
				recomputed := model.Evaluate(seq, st)
				assert.True(t, recomputed.Equal(tables.MFE()), "recomputed=%s mfe=%s dotbracket=%s", recomputed, tables.MFE(), st.DotBracket())
			})
		}
	}
}

func TestScoreRoundTrip(t *testing.T) {
	model := testModel(NoDangle)
	seq := mustSeq(t, "GGGGAAAACCCCAAAAGGGGAAAACCCC")
	tables := model.Fill(seq)
	st := model.Traceback(seq, tables)

	sv := model.Score(st, tables.MFE())
	assert.True(t, tables.MFE().Equal(model.Evaluate(seq, st)))
	assert.GreaterOrEqual(t, sv.Multiloops, 0)
	assert.GreaterOrEqual(t, sv.Branches, 0)
	assert.GreaterOrEqual(t, sv.Unpaired, 0)

	a, b, c := model.Params.A, model.Params.B, model.Params.C
	parametric := a.Mul(rational.FromInt64(int64(sv.Multiloops))).
		Add(b.Mul(rational.FromInt64(int64(sv.Unpaired)))).
		Add(c.Mul(rational.FromInt64(int64(sv.Branches))))
	assert.True(t, sv.W.Add(parametric).Equal(tables.MFE()))
}

func enumerateStructures(seq *rnaseq.Sequence, i, j int) [][]loopChild {
	if i > j {
		return [][]loopChild{nil}
	}
	var results [][]loopChild
	results = append(results, enumerateStructures(seq, i+1, j)...)

	for k := i + Turn + 1; k <= j; k++ {
		if !seq.CanPairAt(i, k) {
			continue
		}
		inners := enumerateStructures(seq, i+1, k-1)
		outers := enumerateStructures(seq, k+1, j)
		for _, inner := range inners {
			for _, outer := range outers {
				combo := make([]loopChild, 0, len(inner)+len(outer)+1)
				combo = append(combo, loopChild{i, k})
				combo = append(combo, inner...)
				combo = append(combo, outer...)
				results = append(results, combo)
			}
		}
	}
	return results
}

func structureFromPairs(n int, pairs []loopChild) *Structure {
	st := NewStructure(n)
	for _, p := range pairs {
		st.MarkPair(p.i, p.j)
	}
	return st
}

func TestMFEMatchesBruteForce(t *testing.T) {
	seq := mustSeq(t, "GGGGAAACCCC")
	n := seq.Len()
	combos := enumerateStructures(seq, 0, n-1)

	for _, dangles := range allDangleModes {
		dangles := dangles
		t.Run(dangles.String(), func(t *testing.T) {
			model := testModel(dangles)
			tables := model.Fill(seq)

			best := rational.Inf()
			for _, combo := range combos {
				st := structureFromPairs(n, combo)
				e := model.Evaluate(seq, st)
				best = rational.Min(best, e)
			}

			assert.True(t, best.Equal(tables.MFE()), "brute force best=%s dp mfe=%s", best, tables.MFE())
		})
	}
}
