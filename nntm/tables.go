package nntm

import (
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/scoring"
	"github.com/gtDMMB/pmfe2023/turner"
)

// Tables holds the five dynamic-programming tables filled by Fill
// (§4.2): W (length n) and the n x n tables V, VBI, FM, FM1.
type Tables struct {
	n        int
	W            []rational.Rat
	V, VBI       [][]rational.Rat
	FM, FM1      [][]rational.Rat
}

func newTables(n int) *Tables {
	t := &Tables{n: n, W: make([]rational.Rat, n)}
	alloc := func() [][]rational.Rat {
		m := make([][]rational.Rat, n)
		for i := range m {
			m[i] = make([]rational.Rat, n)
			for j := range m[i] {
				m[i][j] = rational.Inf()
			}
		}
		return m
	}
	t.V = alloc()
	t.VBI = alloc()
	t.FM = alloc()
	t.FM1 = alloc()
	return t
}

// MFE returns the minimum free energy of the whole sequence: W[n-1].
func (t *Tables) MFE() rational.Rat {
	if t.n == 0 {
		return rational.Zero()
	}
	return t.W[t.n-1]
}

// NNTM is the energy model: a parameter vector, a Turner-99 table set, a
// dangle mode, and an optional SHAPE correction — everything Fill and the
// traceback need and nothing they mutate (§5: shared across threads).
type NNTM struct {
	Params  scoring.ParameterVector
	Table   *turner.Turner99
	Dangles DangleMode
	Shape   turner.ShapeCorrection
}

// New builds an energy model from a canonical parameter vector, a
// parameter table set, and a dangle mode.
func New(params scoring.ParameterVector, table *turner.Turner99, dangles DangleMode) *NNTM {
	return &NNTM{Params: params, Table: table, Dangles: dangles}
}

// AUPenalty, EH, ES, and EL are thin wrappers around the Turner-99 table's
// energy functions that thread through the model's SHAPE correction.
// They, and the dangle helpers below, are exported so subopt's partial-
// structure enumerator can recompute the same per-candidate energies Fill
// and Traceback use without duplicating the recurrence.
func (m *NNTM) AUPenalty(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return m.Table.AUPenalty(seq.At(i), seq.At(j))
}

func (m *NNTM) EH(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return m.Table.EH(seq, i, j, m.Shape)
}

func (m *NNTM) ES(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return m.Table.ES(seq, i, j, m.Shape)
}

func (m *NNTM) EL(seq *rnaseq.Sequence, i, j, ip, jp int) rational.Rat {
	return m.Table.EL(seq, i, j, ip, jp, m.Shape)
}

// EdInteriorD5/D3 are the dangles of the bases immediately inside a
// multiloop's closing pair (i, i+1) and (j-1, j), used only when that
// pair is the one initiating the multiloop.
func (m *NNTM) EdInteriorD5(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return m.Table.Ed5(seq, i, j, i+1)
}

func (m *NNTM) EdInteriorD3(seq *rnaseq.Sequence, i, j int) rational.Rat {
	return m.Table.Ed3(seq, i, j, j-1)
}

// EdBranchD5/D3 are the dangles of the bases immediately outside a branch
// pair (i-1, i) and (j, j+1), used for every branch sitting inside an
// exterior loop or a multiloop.
func (m *NNTM) EdBranchD5(seq *rnaseq.Sequence, i, j int) rational.Rat {
	if i-1 < 0 {
		return rational.Zero()
	}
	return m.Table.Ed5(seq, i, j, i-1)
}

func (m *NNTM) EdBranchD3(seq *rnaseq.Sequence, i, j int) rational.Rat {
	if j+1 >= seq.Len() {
		return rational.Zero()
	}
	return m.Table.Ed3(seq, i, j, j+1)
}
