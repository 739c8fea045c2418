package subopt

import (
	"testing"

	"github.com/gtDMMB/pmfe2023/nntm"
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

func testModel(dangles nntm.DangleMode) *nntm.NNTM {
	params := scoring.ParameterVector{
		A: rational.FromFrac(3, 2),
		B: rational.FromFrac(1, 4),
		C: rational.FromFrac(1, 1),
		D: rational.FromInt64(1),
	}
	return nntm.New(params, turner.Default(), dangles)
}

var allDangleModes = []nntm.DangleMode{nntm.NoDangle, nntm.ChooseDangle, nntm.BothDangle}

// pair is one brute-force candidate base pair; bruteEnumerate below
// builds every non-crossing, Turn-respecting pairing of [i,j] the same
// way nntm's own brute-force test helper does, duplicated here since
// that helper is unexported in nntm's test package.
type pair struct{ i, j int }

func bruteEnumerate(seq *rnaseq.Sequence, i, j int) [][]pair {
	if i > j {
		return [][]pair{nil}
	}
	var results [][]pair
	results = append(results, bruteEnumerate(seq, i+1, j)...)

	for k := i + Turn + 1; k <= j; k++ {
		if !seq.CanPairAt(i, k) {
			continue
		}
		inners := bruteEnumerate(seq, i+1, k-1)
		outers := bruteEnumerate(seq, k+1, j)
		for _, inner := range inners {
			for _, outer := range outers {
				combo := make([]pair, 0, len(inner)+len(outer)+1)
				combo = append(combo, pair{i, k})
				combo = append(combo, inner...)
				combo = append(combo, outer...)
				results = append(results, combo)
			}
		}
	}
	return results
}

func structureFromPairs(n int, pairs []pair) *nntm.Structure {
	st := nntm.NewStructure(n)
	for _, p := range pairs {
		st.MarkPair(p.i, p.j)
	}
	return st
}

// TestEnumerateSoundness checks every structure Enumerate returns truly
// fits within delta of the MFE, and that its reported energy matches an
// independent recomputation of the structure by nntm's Evaluate.
func TestEnumerateSoundness(t *testing.T) {
	for _, dangles := range allDangleModes {
		dangles := dangles
		t.Run(dangles.String(), func(t *testing.T) {
			model := testModel(dangles)
			seq := mustSeq(t, "GGGAAACCC")
			tables := model.Fill(seq)
			delta := rational.FromFrac(3, 2)

			results := Enumerate(model, seq, tables, delta, true)
			require.NotEmpty(t, results)

			upperBound := tables.MFE().Add(delta)
			for _, r := range results {
				assert.True(t, r.Score.Energy.LessEq(upperBound), "energy %s exceeds upper bound %s", r.Score.Energy, upperBound)
				recomputed := model.Evaluate(seq, r.Structure)
				assert.True(t, recomputed.Equal(r.Score.Energy), "recomputed=%s reported=%s dotbracket=%s", recomputed, r.Score.Energy, r.Structure.DotBracket())
			}

			for i := 1; i < len(results); i++ {
				assert.True(t, results[i-1].Score.Energy.LessEq(results[i].Score.Energy), "sorted output out of order at %d", i)
			}
		})
	}
}

// TestEnumerateCompleteness brute-forces every valid secondary structure
// of a short sequence and checks Enumerate finds exactly the same set
// within the energy window, neither missing one nor inventing one.
func TestEnumerateCompleteness(t *testing.T) {
	for _, dangles := range allDangleModes {
		dangles := dangles
		t.Run(dangles.String(), func(t *testing.T) {
			model := testModel(dangles)
			seq := mustSeq(t, "GGGAAACCC")
			n := seq.Len()
			tables := model.Fill(seq)
			delta := rational.FromFrac(2, 1)
			upperBound := tables.MFE().Add(delta)

			wantDotBrackets := make(map[string]bool)
			for _, combo := range bruteEnumerate(seq, 0, n-1) {
				st := structureFromPairs(n, combo)
				e := model.Evaluate(seq, st)
				if e.LessEq(upperBound) {
					wantDotBrackets[st.DotBracket()] = true
				}
			}
			require.NotEmpty(t, wantDotBrackets)

			results := Enumerate(model, seq, tables, delta, false)
			gotDotBrackets := make(map[string]bool)
			for _, r := range results {
				gotDotBrackets[r.Structure.DotBracket()] = true
			}

			assert.Equal(t, wantDotBrackets, gotDotBrackets)
		})
	}
}

// TestEnumerateZeroDeltaIsMFEOnly checks that a zero-width window returns
// only structures whose energy equals the MFE exactly.
func TestEnumerateZeroDeltaIsMFEOnly(t *testing.T) {
	for _, dangles := range allDangleModes {
		dangles := dangles
		t.Run(dangles.String(), func(t *testing.T) {
			model := testModel(dangles)
			seq := mustSeq(t, "GCGGAUUUAUCCGC")
			tables := model.Fill(seq)

			results := Enumerate(model, seq, tables, rational.Zero(), false)
			require.NotEmpty(t, results)
			for _, r := range results {
				assert.True(t, r.Score.Energy.Equal(tables.MFE()))
			}
		})
	}
}
