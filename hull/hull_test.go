package hull

import (
	"testing"

	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/stretchr/testify/assert"
)

func pt(coords ...int64) Point {
	p := make(Point, len(coords))
	for i, c := range coords {
		p[i] = rational.FromInt64(c)
	}
	return p
}

// bruteOracle models a vertex oracle backed by a fixed, known point
// set: it returns whichever point minimizes normal.Dot(p), breaking
// ties by earliest in the list (mirroring the DP traceback's
// first-match tie-break).
func bruteOracle(points []Point) Oracle {
	return func(normal Point) Point {
		best := points[0]
		bestVal := normal.Dot(best)
		for _, p := range points[1:] {
			v := normal.Dot(p)
			if v.Less(bestVal) {
				best = p
				bestVal = v
			}
		}
		return best
	}
}

func TestHullTetrahedron(t *testing.T) {
	corners := []Point{
		pt(0, 0, 0),
		pt(1, 0, 0),
		pt(0, 1, 0),
		pt(0, 0, 1),
	}
	interior := pt(0, 0, 0) // duplicate of a corner, never a distinct vertex
	points := append(append([]Point(nil), corners...), interior)

	h := New(3)
	h.Build(bruteOracle(points))

	assert.Len(t, h.Vertices(), 4)
	assert.Len(t, h.Facets, 4)

	for _, f := range h.Facets {
		assert.Len(t, f.Vertices, 3)
		for _, idx := range f.Vertices {
			p := h.Points[idx]
			assert.True(t, f.Normal.Dot(p).Equal(f.Offset))
		}
		for i, p := range h.Points {
			if contains(f.Vertices, i) {
				continue
			}
			assert.True(t, f.Offset.LessEq(f.Normal.Dot(p)))
		}
	}
}

func TestHullSquarePyramid(t *testing.T) {
	base := []Point{
		pt(0, 0, 0),
		pt(2, 0, 0),
		pt(2, 2, 0),
		pt(0, 2, 0),
	}
	apex := pt(1, 1, 2)
	points := append(append([]Point(nil), base...), apex)

	h := New(3)
	h.Build(bruteOracle(points))

	assert.Len(t, h.Vertices(), 5)
	for _, f := range h.Facets {
		for i, p := range h.Points {
			if contains(f.Vertices, i) {
				continue
			}
			assert.True(t, f.Offset.LessEq(f.Normal.Dot(p)), "facet %+v violated by point %d=%v", f, i, p)
		}
	}
}
