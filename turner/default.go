package turner

import "github.com/gtDMMB/pmfe2023/rational"

// canonicalPairs enumerates the six Watson-Crick/wobble pair index
// combinations; Stack is only defined (finite) when both the outer and the
// inner pair are one of these.
var canonicalPairs = [6][2]int{
	{0, 3}, {3, 0}, // A-U, U-A
	{2, 1}, {1, 2}, // G-C, C-G
	{2, 3}, {3, 2}, // G-U, U-G
}

func isCanonicalPair(i, j int) bool {
	for _, p := range canonicalPairs {
		if p[0] == i && p[1] == j {
			return true
		}
	}
	return false
}

// pairStrength ranks a canonical pair's contribution to stack stability:
// GC strongest, AU weakest, GU intermediate-wobble. Unused outside Default.
func pairStrength(i, j int) int {
	switch {
	case (i == 2 && j == 1) || (i == 1 && j == 2):
		return 3
	case (i == 2 && j == 3) || (i == 3 && j == 2):
		return 2
	default:
		return 1
	}
}

// Default returns a baked-in, internally-consistent parameter set. It is
// not a transcription of the published Turner 1999 measurements (those
// tables are not part of this module's inputs); it exists so the module
// is runnable end to end, with correct monotonicity and symmetry
// properties, without a data directory on disk. Load should be preferred
// whenever a real parameter directory (§6) is available.
func Default() *Turner99 {
	t := &Turner99{
		Hairpin:  map[int]rational.Rat{},
		Bulge:    map[int]rational.Rat{},
		Interior: map[int]rational.Rat{},
		Tloop:    map[string]rational.Rat{},
		Triloop:  map[string]rational.Rat{},
		Iloop22:  NewIloop22Table(),
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				for l := 0; l < 4; l++ {
					mismatch := rational.FromFrac(int64(-(i+j+k+l+4)), 20)
					t.Tstkh[i][j][k][l] = mismatch
					t.Tstki[i][j][k][l] = mismatch
					t.Tstacke[i][j][k][l] = mismatch
					t.Tstackm[i][j][k][l] = mismatch
					t.Tstacki23[i][j][k][l] = mismatch

					if isCanonicalPair(i, j) && isCanonicalPair(k, l) {
						t.Stack[i][j][k][l] = rational.FromFrac(int64(-(pairStrength(i, j) + pairStrength(k, l))), 2)
					} else {
						t.Stack[i][j][k][l] = rational.Inf()
					}
				}
			}
		}
	}

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				t.Dangle5[i][j][k] = rational.FromFrac(int64(-(i+j+k+1)), 10)
				t.Dangle3[i][j][k] = rational.FromFrac(int64(-(i+j+k+2)), 10)
			}
		}
	}

	for s := 1; s <= MaxLoop; s++ {
		t.Hairpin[s] = rational.FromFrac(int64(40+3*s), 10)
		t.Bulge[s] = rational.FromFrac(int64(38+3*s), 10)
		t.Interior[s] = rational.FromFrac(int64(28+2*s), 10)
	}

	// A handful of GNRA-family tetraloop bonuses, enough to exercise the
	// lookup path; Load replaces this with the full tloop.dat contents.
	for _, tet := range []string{"GGGGAC", "GGAAAC", "GGCAAC", "GGUGAC", "GGCGAC"} {
		t.Tloop[tet] = rational.FromFrac(-3, 2)
	}
	for _, tri := range []string{"GGAAC", "GGCAC"} {
		t.Triloop[tri] = rational.FromFrac(-5, 10)
	}

	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							sum := int64(i0 + i1 + i2 + i3 + i4 + i5)
							t.Iloop11[i0][i1][i2][i3][i4][i5] = rational.FromFrac(-(sum + 6), 10)
						}
					}
				}
			}
		}
	}

	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							for i6 := 0; i6 < 4; i6++ {
								sum := int64(i0 + i1 + i2 + i3 + i4 + i5 + i6)
								t.Iloop21[i0][i1][i2][i3][i4][i5][i6] = rational.FromFrac(-(sum + 7), 10)
							}
						}
					}
				}
			}
		}
	}

	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							for i6 := 0; i6 < 4; i6++ {
								for i7 := 0; i7 < 4; i7++ {
									sum := int64(i0 + i1 + i2 + i3 + i4 + i5 + i6 + i7)
									t.Iloop22.Set(i0, i1, i2, i3, i4, i5, i6, i7, rational.FromFrac(-(sum + 8), 10))
								}
							}
						}
					}
				}
			}
		}
	}

	t.AUPenaltyValue = rational.FromFrac(5, 10)
	t.Prelog = rational.FromFrac(107, 100)
	t.MaxPen = rational.FromInt64(3)
	t.PopPen = [3]rational.Rat{rational.Zero(), rational.FromFrac(5, 10), rational.FromFrac(7, 10)}
	t.GUBonus = rational.FromFrac(-22, 10)
	t.CInt = rational.FromFrac(6, 10)
	t.CSlope = rational.FromFrac(43, 100)
	t.C3 = rational.FromFrac(14, 10)
	for i := range t.EParam {
		t.EParam[i] = rational.Zero()
	}
	t.Gail = false

	return t
}
