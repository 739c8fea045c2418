// Package subopt enumerates every secondary structure whose energy lies
// within a fixed window of the minimum free energy, by exploring the
// same DP recurrence Fill populated instead of re-running it (§4.4).
package subopt

import (
	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
)

// Label identifies which DP table a Segment resolves against.
type Label int

const (
	LW Label = iota
	LV
	LVBI
	LM
	LM1
)

// Segment is a pending subproblem still to be resolved: a table label
// and the interval it covers.
type Segment struct {
	I, J  int
	Label Label
}

// PartialStructure is a partially traced structure: the segments still
// to resolve, the pairing/dangle marks already committed, and the
// energy those commitments have accumulated so far.
type PartialStructure struct {
	pending   []Segment
	Structure *nntm.Structure
	Total     rational.Rat
}

func newPartialStructure(n int) PartialStructure {
	return PartialStructure{Structure: nntm.NewStructure(n), Total: rational.Zero()}
}

func (ps PartialStructure) clone() PartialStructure {
	return PartialStructure{
		pending:   append([]Segment(nil), ps.pending...),
		Structure: ps.Structure.Clone(),
		Total:     ps.Total,
	}
}

func (ps *PartialStructure) push(seg Segment) { ps.pending = append(ps.pending, seg) }

func (ps PartialStructure) empty() bool { return len(ps.pending) == 0 }

func (ps *PartialStructure) pop() Segment {
	n := len(ps.pending) - 1
	seg := ps.pending[n]
	ps.pending = ps.pending[:n]
	return seg
}

func (ps *PartialStructure) accumulate(e rational.Rat) { ps.Total = ps.Total.Add(e) }
