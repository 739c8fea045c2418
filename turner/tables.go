// Package turner holds the Turner-99 nearest-neighbor thermodynamic
// parameter tables (stacking, loop, mismatch, dangle and special
// interior-loop tables) and the per-position energy functions (eH, eS, eL,
// Ed5, Ed3, auPenalty) the DP engine is built on.
//
// Tables are loaded once from on-disk text files (or from the baked-in
// Default set) and are immutable afterwards; they may be shared freely
// across goroutines (§5).
package turner

import (
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
)

// MaxLoop bounds the interior-loop/bulge search window (§4.2).
const MaxLoop = 30

// Turn is the minimum number of unpaired bases enclosed by a pair (§3).
const Turn = 3

type rat = rational.Rat

type fourD = [4][4][4][4]rat

// Turner99 is the full set of nearest-neighbor parameters for one
// temperature/ruleset. Every field is populated by Default or Load and
// never mutated afterwards.
type Turner99 struct {
	Stack     fourD // Stack[i][j][i1][j1]: NN stacking energy, (i,j) stacked on (i1,j1)
	Tstkh     fourD // hairpin-closing terminal mismatch
	Tstki     fourD // interior-loop terminal mismatch
	Tstacke   fourD // exterior-loop terminal mismatch (dangle support table)
	Tstackm   fourD // multiloop terminal mismatch
	Tstacki23 fourD // terminal mismatch for the historical 2x3/3x2 interior fast path

	Dangle5 [4][4][4]rat // Dangle5[i][j][k]: 5' dangle of base k off pair (i,j)
	Dangle3 [4][4][4]rat // Dangle3[i][j][k]: 3' dangle of base k off pair (i,j)

	Hairpin  map[int]rat // loop size -> energy, sizes 1..30
	Bulge    map[int]rat
	Interior map[int]rat

	Tloop   map[string]rat // tetraloop bonus, keyed by the 6-base closing window
	Triloop map[string]rat // triloop bonus, keyed by the 5-base closing window

	Iloop11 [4][4][4][4][4][4]rat    // iloop11[i][i1][ip][j][j1][jp]
	Iloop21 [4][4][4][4][4][4][4]rat // iloop21[i][j][i1][j1][j2][ip][jp]
	Iloop22 Iloop22Table

	AUPenaltyValue rat
	Prelog         rat
	MaxPen         rat
	PopPen         [3]rat
	GUBonus        rat
	CInt           rat
	CSlope         rat
	C3             rat
	EParam         [5]rat // EParam[1..4] used; EParam[0] is unused filler, matching the original's 1-based indexing
	Gail           bool
}

// Iloop22Table is the 8-index 2x2-interior-loop table, stored flat with
// precomputed strides rather than as a nested [4]^8 array (§9 design
// notes).
type Iloop22Table struct {
	flat    []rat
	strides [8]int
}

// NewIloop22Table allocates a zero-valued 2x2 interior loop table.
func NewIloop22Table() Iloop22Table {
	var t Iloop22Table
	stride := 1
	for k := 7; k >= 0; k-- {
		t.strides[k] = stride
		stride *= 4
	}
	t.flat = make([]rat, stride)
	return t
}

func (t *Iloop22Table) index(i [8]int) int {
	idx := 0
	for k, v := range i {
		idx += v * t.strides[k]
	}
	return idx
}

// Get returns the table entry for the packed base indices.
func (t *Iloop22Table) Get(i0, i1, i2, i3, i4, i5, i6, i7 int) rat {
	return t.flat[t.index([8]int{i0, i1, i2, i3, i4, i5, i6, i7})]
}

// Set stores the table entry for the packed base indices.
func (t *Iloop22Table) Set(i0, i1, i2, i3, i4, i5, i6, i7 int, v rat) {
	t.flat[t.index([8]int{i0, i1, i2, i3, i4, i5, i6, i7})] = v
}

func baseIdx(b rnaseq.Base) int { return int(b) }
