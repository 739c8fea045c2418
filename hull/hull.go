package hull

import (
	"runtime"
	"sync"

	"github.com/gtDMMB/pmfe2023/rational"
)

// Oracle returns the point of the (implicit) point set that minimizes
// normal.Dot(x), the same contract as the specification's vertex
// oracle: the hull is never given its vertex set up front, only this
// separating-hyperplane query.
type Oracle func(normal Point) Point

// Facet is a (d-1)-dimensional face of the hull: the indices (into
// Hull.Points) of the d vertices spanning it, and the outward normal
// and offset of its supporting hyperplane — every point of the hull
// satisfies normal.Dot(x) >= offset, with equality on the facet.
type Facet struct {
	Vertices []int
	Normal   Point
	Offset   rational.Rat
}

// Hull is the incremental beneath-beyond state: every point the oracle
// has ever returned, keyed by exact value, and the current set of
// confirmed facets once BuildFacets converges.
type Hull struct {
	Dim    int
	Points []Point
	index  map[string]int
	Facets []Facet

	// OnSeeded, if set, is called once after the initial seed directions
	// have been probed and before the first round of facet queries.
	OnSeeded func(points int)
	// OnRound, if set, is called after each round of facet queries with
	// the round number (0-based) and the hull's point/facet counts as of
	// that round.
	OnRound func(round, points, facets int)
}

// New creates an empty hull in dimension dim (3 or 4 per the
// specification's 3D/4D polytope modes).
func New(dim int) *Hull {
	return &Hull{Dim: dim, index: make(map[string]int)}
}

// addPoint records p if it is new, returning its index either way.
func (h *Hull) addPoint(p Point) int {
	key := p.Key()
	if idx, ok := h.index[key]; ok {
		return idx
	}
	idx := len(h.Points)
	h.Points = append(h.Points, p)
	h.index[key] = idx
	return idx
}

// seedDirections returns the d axis-aligned objectives, each followed
// by its negation, plus one interior objective (the all-ones vector),
// the probing set for seeding the initial simplex (§4.6 step 1). The
// negated axes reach the opposite end of every coordinate, so the seed
// points span the hull even when every positive probe returns the same
// point.
func (h *Hull) seedDirections() []Point {
	dirs := make([]Point, 0, 2*h.Dim+1)
	for i := 0; i < h.Dim; i++ {
		v := make(Point, h.Dim)
		for k := range v {
			v[k] = rational.Zero()
		}
		v[i] = rational.FromInt64(1)
		dirs = append(dirs, v, negate(v))
	}
	interior := make(Point, h.Dim)
	for k := range interior {
		interior[k] = rational.FromInt64(1)
	}
	dirs = append(dirs, interior)
	return dirs
}

// Build runs the incremental beneath-beyond algorithm: seed a handful
// of vertices via axis, negated-axis and interior probes, then
// repeatedly recompute the
// current point set's facets and query the oracle at each facet's
// outward normal, adding any point the oracle returns that lies
// strictly beneath the facet (a lower objective value than the
// facet's offset). Converges when a full pass confirms every facet,
// i.e. no oracle response beats any known facet's offset.
func (h *Hull) Build(oracle Oracle) {
	for _, dir := range h.seedDirections() {
		h.addPoint(oracle(dir))
	}
	if h.OnSeeded != nil {
		h.OnSeeded(len(h.Points))
	}

	const maxRounds = 200
	for round := 0; round < maxRounds; round++ {
		facets := computeFacets(h.Points, h.Dim)
		h.Facets = facets

		grew := false
		for _, f := range facets {
			p := oracle(f.Normal)
			val := f.Normal.Dot(p)
			if val.Less(f.Offset) {
				h.addPoint(p)
				grew = true
			}
		}
		if h.OnRound != nil {
			h.OnRound(round, len(h.Points), len(h.Facets))
		}
		if !grew {
			return
		}
	}
}

// BuildParallel is Build with every round's facet-oracle queries spread
// across workers goroutines instead of run in sequence — each facet's
// query is independent of every other facet's within the same round, so
// only the "did this round grow the hull" barrier between rounds needs
// to stay synchronous. workers <= 0 defaults to runtime.NumCPU().
func (h *Hull) BuildParallel(oracle Oracle, workers int) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers <= 1 {
		h.Build(oracle)
		return
	}

	for _, dir := range h.seedDirections() {
		h.addPoint(oracle(dir))
	}
	if h.OnSeeded != nil {
		h.OnSeeded(len(h.Points))
	}

	const maxRounds = 200
	for round := 0; round < maxRounds; round++ {
		facets := computeFacets(h.Points, h.Dim)
		h.Facets = facets

		type found struct {
			p Point
		}
		jobs := make(chan int)
		results := make(chan found, len(facets))
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					f := facets[idx]
					p := oracle(f.Normal)
					if f.Normal.Dot(p).Less(f.Offset) {
						results <- found{p: p}
					}
				}
			}()
		}
		for idx := range facets {
			jobs <- idx
		}
		close(jobs)
		wg.Wait()
		close(results)

		grew := false
		for r := range results {
			h.addPoint(r.p)
			grew = true
		}
		if h.OnRound != nil {
			h.OnRound(round, len(h.Points), len(h.Facets))
		}
		if !grew {
			return
		}
	}
}

// computeFacets brute-forces every facet supported by the current
// point set: for each combination of d points, compute the candidate
// outward normal and check every other point lies weakly on the
// positive side. Adequate for the small vertex counts a parametric
// RNA polytope has (one vertex per combinatorially distinct optimal
// structure); not intended to scale to large general point clouds.
func computeFacets(points []Point, d int) []Facet {
	n := len(points)
	if n < d {
		return nil
	}

	var facets []Facet
	seen := make(map[string]bool)

	combo := make([]int, d)
	var recurse func(start, depth int)
	recurse = func(start, depth int) {
		if depth == d {
			if f, ok := tryFacet(points, append([]int(nil), combo...)); ok {
				key := facetKey(f.Vertices)
				if !seen[key] {
					seen[key] = true
					facets = append(facets, f)
				}
			}
			return
		}
		for i := start; i < n; i++ {
			combo[depth] = i
			recurse(i+1, depth+1)
		}
	}
	recurse(0, 0)
	return facets
}

func facetKey(vertices []int) string {
	out := make([]byte, 0, len(vertices)*4)
	for _, v := range vertices {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(out)
}

// tryFacet tests whether the points at the given indices span a
// supporting hyperplane of the whole point set, and if so returns it
// with an outward normal (every other point has normal.Dot(x) >=
// offset).
func tryFacet(points []Point, indices []int) (Facet, bool) {
	d := len(indices)
	base := points[indices[0]]
	edges := make([]Point, d-1)
	for k := 1; k < d; k++ {
		edges[k-1] = points[indices[k]].Sub(base)
	}

	normal := cofactorNormal(edges, d)
	if isZero(normal) {
		return Facet{}, false
	}

	offset := normal.Dot(base)

	sawPositive := false
	sawNegative := false
	for idx, p := range points {
		if contains(indices, idx) {
			continue
		}
		diff := normal.Dot(p).Sub(offset)
		switch diff.Sign() {
		case 1:
			sawPositive = true
		case -1:
			sawNegative = true
		}
		if sawPositive && sawNegative {
			return Facet{}, false
		}
	}

	if sawNegative && !sawPositive {
		normal = negate(normal)
		offset = offset.Neg()
	}

	return Facet{Vertices: append([]int(nil), indices...), Normal: normal, Offset: offset}, true
}

func isZero(p Point) bool {
	for _, c := range p {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

func negate(p Point) Point {
	out := make(Point, len(p))
	for i, c := range p {
		out[i] = c.Neg()
	}
	return out
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// Vertices returns the indices of h.Points that appear in at least one
// confirmed facet — the actual hull vertices, as opposed to interior
// points the oracle happened to also return along the way.
func (h *Hull) Vertices() []int {
	seen := make(map[int]bool)
	var out []int
	for _, f := range h.Facets {
		for _, v := range f.Vertices {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
