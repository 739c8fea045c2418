// Package polytope builds the parametric polytope of MFE-optimal score
// vectors for a fixed sequence and dangle mode, driving the generic
// hull package's beneath-beyond algorithm with a vertex oracle that
// wraps the nntm dynamic-programming engine (§4.6).
package polytope

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/gtDMMB/pmfe2023/hull"
	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/scoring"
	"github.com/gtDMMB/pmfe2023/turner"
)

// PolytopeStats is the snapshot passed to a Polytope's lifecycle hooks:
// the hull's point and facet counts at the moment the hook fires, and
// the round number for the perloop hook (-1 for preinit/postinit/postloop).
type PolytopeStats struct {
	Round  int
	Points int
	Facets int
}

// Hooks are optional lifecycle callbacks mirroring the original
// implementation's hook_preinit/hook_postinit/hook_perloop/hook_postloop
// (rna_polytope.h), kept here as plain callbacks rather than an
// inheritance hierarchy. Any nil hook is simply skipped.
type Hooks struct {
	PreInit  func(PolytopeStats)
	PostInit func(PolytopeStats)
	PerLoop  func(PolytopeStats)
	PostLoop func(PolytopeStats)
}

// DefaultHooks returns a Hooks set that logs each lifecycle point
// through the standard log package, the diagnostic posture the rest of
// the module uses in place of a structured logging library.
func DefaultHooks() Hooks {
	return Hooks{
		PreInit:  func(s PolytopeStats) { log.Printf("polytope: preinit") },
		PostInit: func(s PolytopeStats) { log.Printf("polytope: postinit points=%d", s.Points) },
		PerLoop: func(s PolytopeStats) {
			log.Printf("polytope: round=%d points=%d facets=%d", s.Round, s.Points, s.Facets)
		},
		PostLoop: func(s PolytopeStats) {
			log.Printf("polytope: postloop points=%d facets=%d", s.Points, s.Facets)
		},
	}
}

// VertexRecord pairs a discovered structure with its score vector, the
// same association RNAPolytope.structures keeps in the original.
type VertexRecord struct {
	Structure *nntm.Structure
	Score     nntm.ScoreVector
}

// Polytope builds and stores the hull of score vectors reachable as
// MFE structures of Sequence under Dangles, across every objective the
// oracle is queried with. In 4D mode every vertex is (m, u, h, w); in
// 3D mode (ScaleBParam true) the unpaired dimension is folded into w
// via MultiloopWeight and removeBParam (§4.6 "3D sub-mode").
type Polytope struct {
	Hull            *hull.Hull
	Sequence        *rnaseq.Sequence
	Dangles         nntm.DangleMode
	Table           *turner.Turner99
	MultiloopWeight rational.Rat
	ScaleBParam     bool
	Structures      map[string]VertexRecord

	// Hooks, if set, are invoked at the corresponding points of Build and
	// BuildParallel's lifecycle. Left unset, no hooks fire.
	Hooks Hooks
}

// New4D builds a polytope in the full 4-parameter (m, u, h, w) space.
func New4D(seq *rnaseq.Sequence, table *turner.Turner99, dangles nntm.DangleMode) *Polytope {
	return &Polytope{
		Hull:       hull.New(4),
		Sequence:   seq,
		Dangles:    dangles,
		Table:      table,
		Structures: make(map[string]VertexRecord),
	}
}

// New3D builds a polytope in the reduced 3-parameter (m, h, w) space,
// with the unpaired-base weight fixed at multiloopWeight.
func New3D(seq *rnaseq.Sequence, table *turner.Turner99, dangles nntm.DangleMode, multiloopWeight rational.Rat) *Polytope {
	return &Polytope{
		Hull:            hull.New(3),
		Sequence:        seq,
		Dangles:         dangles,
		Table:           table,
		MultiloopWeight: multiloopWeight,
		ScaleBParam:     true,
		Structures:      make(map[string]VertexRecord),
	}
}

// fvToParams converts a hull objective into the ParameterVector the DP
// engine scores structures under: in 4D mode the objective's four
// components are (a, b, c, d) directly; in 3D mode the objective is
// (a, c, d) with b pinned at MultiloopWeight.
func (p *Polytope) fvToParams(objective hull.Point) scoring.ParameterVector {
	if p.ScaleBParam {
		return scoring.ParameterVector{
			A: objective[0],
			B: p.MultiloopWeight,
			C: objective[1],
			D: objective[2],
		}
	}
	return scoring.ParameterVector{
		A: objective[0],
		B: objective[1],
		C: objective[2],
		D: objective[3],
	}
}

// removeBParam folds a 4D oracle result (m, u, h, w) into the 3D point
// (m, h, w + m*MultiloopWeight), matching rna_polytope.cc's
// remove_b_param homogeneous-coordinate rewrite.
func (p *Polytope) removeBParam(pt hull.Point) hull.Point {
	m, _, h, w := pt[0], pt[1], pt[2], pt[3]
	return hull.Point{m, h, w.Add(m.Mul(p.MultiloopWeight))}
}

// probe runs the DP engine under the parameters implied by objective
// and returns the resulting structure's score vector as a hull point
// plus the VertexRecord it corresponds to.
func (p *Polytope) probe(objective hull.Point) (hull.Point, VertexRecord) {
	params := p.fvToParams(objective)
	model := nntm.New(params, p.Table, p.Dangles)
	tables := model.Fill(p.Sequence)
	st := model.Traceback(p.Sequence, tables)
	score := model.Score(st, tables.MFE())

	point := hull.Point{
		rational.FromInt64(int64(score.Multiloops)),
		rational.FromInt64(int64(score.Unpaired)),
		rational.FromInt64(int64(score.Branches)),
		score.W,
	}
	if p.ScaleBParam {
		point = p.removeBParam(point)
	}
	return point, VertexRecord{Structure: st, Score: score}
}

// VertexOracle runs the DP engine under the parameters implied by
// objective and returns the resulting structure's score vector as a
// hull point, recording the structure for later lookup.
func (p *Polytope) VertexOracle(objective hull.Point) hull.Point {
	point, rec := p.probe(objective)
	p.Structures[point.Key()] = rec
	return point
}

// wireHooks installs p.Hooks.PostInit/PerLoop onto p.Hull for the
// duration of a Build/BuildParallel call.
func (p *Polytope) wireHooks() {
	if p.Hooks.PostInit != nil {
		p.Hull.OnSeeded = func(points int) {
			p.Hooks.PostInit(PolytopeStats{Round: -1, Points: points, Facets: len(p.Hull.Facets)})
		}
	}
	if p.Hooks.PerLoop != nil {
		p.Hull.OnRound = func(round, points, facets int) {
			p.Hooks.PerLoop(PolytopeStats{Round: round, Points: points, Facets: facets})
		}
	}
}

// Build discovers the hull by repeatedly probing VertexOracle, firing
// the preinit/postinit/perloop/postloop hooks at the corresponding
// points in the algorithm.
func (p *Polytope) Build() {
	if p.Hooks.PreInit != nil {
		p.Hooks.PreInit(PolytopeStats{Round: -1})
	}
	p.wireHooks()
	p.Hull.Build(p.VertexOracle)
	if p.Hooks.PostLoop != nil {
		p.Hooks.PostLoop(PolytopeStats{Round: -1, Points: len(p.Hull.Points), Facets: len(p.Hull.Facets)})
	}
}

// BuildParallel is Build with each round's independent oracle probes
// spread across workers goroutines (§6 "parametrizer --num-threads").
// The shared Structures map is guarded since concurrent probes within
// a round would otherwise race on it. The lifecycle hooks fire the
// same way as in Build.
func (p *Polytope) BuildParallel(workers int) {
	var mu sync.Mutex
	oracle := func(objective hull.Point) hull.Point {
		point, rec := p.probe(objective)
		mu.Lock()
		p.Structures[point.Key()] = rec
		mu.Unlock()
		return point
	}
	if p.Hooks.PreInit != nil {
		p.Hooks.PreInit(PolytopeStats{Round: -1})
	}
	p.wireHooks()
	p.Hull.BuildParallel(oracle, workers)
	if p.Hooks.PostLoop != nil {
		p.Hooks.PostLoop(PolytopeStats{Round: -1, Points: len(p.Hull.Points), Facets: len(p.Hull.Facets)})
	}
}

// VertexIndices returns the indices of p.Hull.Points that are true
// hull vertices, sorted for deterministic output.
func (p *Polytope) VertexIndices() []int {
	idx := p.Hull.Vertices()
	sort.Ints(idx)
	return idx
}

// WriteTo renders the polytope in the output format specified for
// "findmfe-rectangle"'s sibling driver parametrizer: a point/facet
// count header, a column header naming the sequence, then one line
// per hull vertex (index, dot-bracket, score components, exact
// rational energy) (§6 "Polytope output").
func (p *Polytope) WriteTo(w io.Writer) error {
	vertices := p.VertexIndices()
	if _, err := fmt.Fprintf(w, "# Points: %d\n", len(vertices)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# Facets: %d\n\n", len(p.Hull.Facets)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "#\t%s\tm\tu\th\tw\te\n", p.Sequence.Raw()); err != nil {
		return err
	}

	for i, idx := range vertices {
		pt := p.Hull.Points[idx]
		rec, ok := p.Structures[pt.Key()]
		if !ok {
			continue
		}
		energy := rec.Score.Energy
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, rec.Structure.DotBracket(),
			rational.FromInt64(int64(rec.Score.Multiloops)),
			rational.FromInt64(int64(rec.Score.Unpaired)),
			rational.FromInt64(int64(rec.Score.Branches)),
			rec.Score.W, energy); err != nil {
			return err
		}
	}
	return nil
}
