// Package hull implements a small incremental beneath-beyond convex hull
// over exact rationals in low fixed dimension (3 or 4). No third-party
// computational-geometry library appears anywhere in the retrieved
// corpus, so this stands in for the "generic convex-hull library used as
// a black box" the polytope builder treats as an external collaborator.
package hull

import (
	"strings"

	"github.com/gtDMMB/pmfe2023/rational"
)

// Point is a point in ℚ^d.
type Point []rational.Rat

// Dot returns the standard inner product of p and q.
func (p Point) Dot(q Point) rational.Rat {
	total := rational.Zero()
	for i := range p {
		total = total.Add(p[i].Mul(q[i]))
	}
	return total
}

// Sub returns p-q componentwise.
func (p Point) Sub(q Point) Point {
	out := make(Point, len(p))
	for i := range p {
		out[i] = p[i].Sub(q[i])
	}
	return out
}

// Equal reports whether p and q have identical coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !p[i].Equal(q[i]) {
			return false
		}
	}
	return true
}

// Key renders p as a canonical string usable as a map key; rational.Rat
// has no native comparable representation cheaper than its reduced
// fraction string, so this is the hull's own stand-in for hashing a
// point by exact value.
func (p Point) Key() string {
	var sb strings.Builder
	for i, c := range p {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}

// cofactorNormal returns a vector orthogonal to every row of edges (a
// (d-1) x d matrix), via the generalized cross product: component i is
// the signed (d-1)x(d-1) minor obtained by deleting column i, computed
// by cofactor expansion along the first row. The zero vector is
// returned when the edges are not independent (degenerate facet).
func cofactorNormal(edges []Point, d int) Point {
	normal := make(Point, d)
	for i := 0; i < d; i++ {
		minor := deleteColumn(edges, i)
		det := determinant(minor)
		if i%2 == 1 {
			det = det.Neg()
		}
		normal[i] = det
	}
	return normal
}

func deleteColumn(rows []Point, col int) []Point {
	out := make([]Point, len(rows))
	for r, row := range rows {
		nr := make(Point, 0, len(row)-1)
		for c, v := range row {
			if c != col {
				nr = append(nr, v)
			}
		}
		out[r] = nr
	}
	return out
}

// determinant computes the determinant of a square matrix given as rows
// of Points, via cofactor expansion along the first row. Fine for the
// small (d-1)x(d-1) minors this package ever builds (d is 3 or 4).
func determinant(rows []Point) rational.Rat {
	n := len(rows)
	if n == 0 {
		return rational.FromInt64(1)
	}
	if n == 1 {
		return rows[0][0]
	}
	total := rational.Zero()
	for col := 0; col < n; col++ {
		minor := make([]Point, n-1)
		for r := 1; r < n; r++ {
			nr := make(Point, 0, n-1)
			for c := 0; c < n; c++ {
				if c != col {
					nr = append(nr, rows[r][c])
				}
			}
			minor[r-1] = nr
		}
		term := rows[0][col].Mul(determinant(minor))
		if col%2 == 1 {
			term = term.Neg()
		}
		total = total.Add(term)
	}
	return total
}
