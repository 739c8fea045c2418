// Package scoring holds the four-parameter scoring vector that reweights
// multiloop initiation, unpaired bases, branching helices, and an overall
// scaling dummy, plus the canonical form and affine transform used to move
// between the parameter-sweep driver's natural and scaled coordinates.
package scoring

import "github.com/gtDMMB/pmfe2023/rational"

// ParameterVector is (a, b, c, d) in Q^4 with d>0: a reweights multiloop
// initiation, b unpaired bases, c branching helices, d an overall scaling
// dummy absorbing the model's non-parametric terms (§4.5).
type ParameterVector struct {
	A, B, C, D rational.Rat
}

// Default returns the Turner-99 "natural" coefficients: unit scaling, no
// multiloop or branch reweighting, used when a CLI driver receives no
// explicit -a/-b/-c/-d overrides.
func Default() ParameterVector {
	return ParameterVector{
		A: rational.Zero(),
		B: rational.Zero(),
		C: rational.Zero(),
		D: rational.FromInt64(1),
	}
}

// Canonicalize returns the canonical representative of v: dividing every
// coefficient through by D so the scaling dummy is exactly 1. Panics if D
// is not strictly positive, since a non-positive scaling dummy has no
// canonical form.
func (v ParameterVector) Canonicalize() ParameterVector {
	if v.D.Sign() <= 0 {
		panic("scoring: cannot canonicalize a parameter vector with d <= 0")
	}
	return ParameterVector{
		A: v.A.Quo(v.D),
		B: v.B.Quo(v.D),
		C: v.C.Quo(v.D),
		D: rational.FromInt64(1),
	}
}

// TransformParams maps v from natural coordinates to the parameter-sweep
// driver's scaled coordinates: a' = a+d, c' = c+d, b and d unchanged. This
// shifts the multiloop and branch coefficients by the scaling dummy so a
// rectangle sweep over (a', c') never has to cross zero while the
// underlying natural (a, c) does. UntransformParams is its exact inverse.
func (v ParameterVector) TransformParams() ParameterVector {
	return ParameterVector{
		A: v.A.Add(v.D),
		B: v.B,
		C: v.C.Add(v.D),
		D: v.D,
	}
}

// UntransformParams is the exact inverse of TransformParams.
func (v ParameterVector) UntransformParams() ParameterVector {
	return ParameterVector{
		A: v.A.Sub(v.D),
		B: v.B,
		C: v.C.Sub(v.D),
		D: v.D,
	}
}

// Equal reports whether v and w have identical coefficients.
func (v ParameterVector) Equal(w ParameterVector) bool {
	return v.A.Equal(w.A) && v.B.Equal(w.B) && v.C.Equal(w.C) && v.D.Equal(w.D)
}
