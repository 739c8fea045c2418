// Package rational provides the exact rational arithmetic used end to end
// by the scoring and DP layers. Floating point breaks vertex identity in the
// polytope builder, so every energy in this module is a Rat, never a
// float64, until the very last step of rendering it to a human.
//
// No rational/bignum library appears anywhere in the retrieved example
// corpus, so this is built directly on the standard library's math/big.Rat.
package rational

import (
	"fmt"
	"math"
	"math/big"
)

// Rat is an exact rational number, or positive infinity. Negative infinity
// never arises in this model (every energy term is bounded below), so it is
// not represented.
type Rat struct {
	r   *big.Rat
	inf bool
}

// Zero returns the rational 0.
func Zero() Rat {
	return Rat{r: new(big.Rat)}
}

// Inf returns positive infinity, used to mark an unreachable DP table entry.
func Inf() Rat {
	return Rat{inf: true}
}

// FromInt64 builds the rational n/1.
func FromInt64(n int64) Rat {
	return Rat{r: new(big.Rat).SetInt64(n)}
}

// FromFrac builds the rational num/den.
func FromFrac(num, den int64) Rat {
	if den == 0 {
		panic("rational: zero denominator")
	}
	return Rat{r: new(big.Rat).SetFrac64(num, den)}
}

// FromBigRat wraps an existing big.Rat.
func FromBigRat(r *big.Rat) Rat {
	return Rat{r: new(big.Rat).Set(r)}
}

// FromString parses a decimal string ("3.4", "-0.5") or a fraction ("17/3")
// into an exact rational. This is the entry point for scoring-parameter
// flags on the CLI drivers and for parameter-table text files.
func FromString(s string) (Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Rat{}, fmt.Errorf("rational: cannot parse %q as an exact rational", s)
	}
	return Rat{r: r}, nil
}

// IsInf reports whether a is positive infinity.
func (a Rat) IsInf() bool { return a.inf }

// IsZero reports whether a is exactly zero.
func (a Rat) IsZero() bool { return !a.inf && a.r.Sign() == 0 }

// Sign returns -1, 0, or 1. Infinity has sign +1.
func (a Rat) Sign() int {
	if a.inf {
		return 1
	}
	return a.r.Sign()
}

// Add returns a+b, with the usual infinite-arithmetic convention inf+x=inf.
func (a Rat) Add(b Rat) Rat {
	if a.inf || b.inf {
		return Inf()
	}
	return Rat{r: new(big.Rat).Add(a.r, b.r)}
}

// Sub returns a-b. Subtracting from infinity is itself a modeling error in
// this domain (every subtraction here removes a sub-score from an enclosing
// one that must dominate it), so it panics rather than silently returning
// infinity or a bogus finite value.
func (a Rat) Sub(b Rat) Rat {
	if a.inf && b.inf {
		panic("rational: inf - inf is undefined")
	}
	if a.inf {
		return Inf()
	}
	if b.inf {
		panic("rational: finite - inf is undefined")
	}
	return Rat{r: new(big.Rat).Sub(a.r, b.r)}
}

// Mul returns a*b. A zero coefficient times infinity is defined here as
// zero, matching the scoring parameters' use of Mul to reweight a count
// that may legitimately be zero even when its energy were otherwise
// unreachable; in practice this case never arises because Mul is only ever
// applied to finite counts.
func (a Rat) Mul(b Rat) Rat {
	if a.inf || b.inf {
		if a.IsZero() || b.IsZero() {
			return Zero()
		}
		return Inf()
	}
	return Rat{r: new(big.Rat).Mul(a.r, b.r)}
}

// Quo returns a/b. Division by zero is a bug, never user error (§7).
func (a Rat) Quo(b Rat) Rat {
	if b.IsZero() {
		panic("rational: division by zero")
	}
	if a.inf {
		return Inf()
	}
	if b.inf {
		return Zero()
	}
	return Rat{r: new(big.Rat).Quo(a.r, b.r)}
}

// Neg returns -a. Negating infinity is a modeling error (see Sub).
func (a Rat) Neg() Rat {
	if a.inf {
		panic("rational: negating infinity is undefined")
	}
	return Rat{r: new(big.Rat).Neg(a.r)}
}

// Cmp returns -1, 0, or +1 as a<b, a==b, a>b, treating Inf as strictly
// greater than every finite value and equal only to itself.
func (a Rat) Cmp(b Rat) int {
	switch {
	case a.inf && b.inf:
		return 0
	case a.inf:
		return 1
	case b.inf:
		return -1
	default:
		return a.r.Cmp(b.r)
	}
}

// LessEq reports whether a<=b.
func (a Rat) LessEq(b Rat) bool { return a.Cmp(b) <= 0 }

// Less reports whether a<b.
func (a Rat) Less(b Rat) bool { return a.Cmp(b) < 0 }

// Equal reports whether a==b.
func (a Rat) Equal(b Rat) bool { return a.Cmp(b) == 0 }

// Min returns the smaller of a and b, Inf comparing as larger than anything
// finite. Ties keep a, matching the DP engine's "first alternative wins"
// traceback tie-break (§4.3).
func Min(a, b Rat) Rat {
	if b.Less(a) {
		return b
	}
	return a
}

// BigRat returns the underlying *big.Rat. Panics if a is infinite; callers
// must check IsInf first.
func (a Rat) BigRat() *big.Rat {
	if a.inf {
		panic("rational: no finite value for infinity")
	}
	return a.r
}

// Float64 returns the nearest float64 approximation, or +Inf.
func (a Rat) Float64() float64 {
	if a.inf {
		return math.Inf(1)
	}
	f, _ := a.r.Float64()
	return f
}

// String renders a as an exact fraction (or "Inf").
func (a Rat) String() string {
	if a.inf {
		return "Inf"
	}
	return a.r.RatString()
}

// Decimal renders a to prec decimal digits, the way the driver binaries
// print a human-readable approximation alongside the exact fraction.
func (a Rat) Decimal(prec int) string {
	if a.inf {
		return "Inf"
	}
	return a.r.FloatString(prec)
}
