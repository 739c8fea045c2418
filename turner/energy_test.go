package turner

import (
	"testing"

	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeq(t *testing.T, s string) *rnaseq.Sequence {
	t.Helper()
	seq, err := rnaseq.New(s)
	require.NoError(t, err)
	return seq
}

func TestAUPenalty(t *testing.T) {
	tab := Default()
	assert.True(t, tab.AUPenalty(rnaseq.G, rnaseq.C).IsZero())
	assert.True(t, tab.AUPenalty(rnaseq.C, rnaseq.G).IsZero())
	assert.False(t, tab.AUPenalty(rnaseq.A, rnaseq.U).IsZero())
	assert.False(t, tab.AUPenalty(rnaseq.G, rnaseq.U).IsZero())
}

func TestEH(t *testing.T) {
	tab := Default()
	seq := mustSeq(t, "GGGAAACCC")

	t.Run("ZeroSizeIsInfinite", func(t *testing.T) {
		adjacent := mustSeq(t, "GC")
		assert.True(t, tab.EH(adjacent, 0, 1, nil).IsInf())
	})

	t.Run("ThreeHasNoMismatchStacking", func(t *testing.T) {
		e := tab.EH(seq, 2, 6, nil)
		assert.False(t, e.IsInf())
		assert.True(t, e.Equal(tab.Hairpin[3].Add(tab.AUPenalty(seq.At(2), seq.At(6)))), "got %s", e)
	})

	t.Run("LargerLoopUsesExtrapolation", func(t *testing.T) {
		big := mustSeq(t, "G"+stringsRepeat("A", 35)+"C")
		e := tab.EH(big, 0, big.Len()-1, nil)
		assert.False(t, e.IsInf())
	})
}

func TestES(t *testing.T) {
	tab := Default()
	seq := mustSeq(t, "GGGAAACCC")
	e := tab.ES(seq, 0, 8, nil)
	assert.False(t, e.IsInf())
	assert.True(t, e.Sign() < 0, "a GC-GC stack should be stabilizing under the baked defaults")
}

func TestEL(t *testing.T) {
	tab := Default()

	t.Run("Bulge", func(t *testing.T) {
		// outer pair (0,7)=G-C, inner pair (2,6)=G-C, one unpaired base
		// (position 1) bulged on the 5' side.
		seq := mustSeq(t, "GAGAAACC")
		e := tab.EL(seq, 0, 7, 2, 6, nil)
		assert.False(t, e.IsInf())
	})

	t.Run("OneByOneInterior", func(t *testing.T) {
		// outer pair (0,9)=G-C, inner pair (2,7)=G-C, one unpaired base on
		// each side.
		seq := mustSeq(t, "GAGAAAACAC")
		e := tab.EL(seq, 0, 9, 2, 7, nil)
		assert.False(t, e.IsInf())
	})
}

func stringsRepeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
