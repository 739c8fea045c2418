package turner

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gtDMMB/pmfe2023/rational"
)

// Load reads a Turner99 parameter directory from disk, one file per table
// (§6): stack, hairpin, bulge, interior, tstkh, tstki, tstacke, tstackm,
// dangle, loop, miscloop, tloop, triloop, iloop11, iloop21, iloop22,
// tstacki23. Every file is whitespace-delimited tokens in base-index
// (0=A,1=C,2=G,3=U) nesting order matching the corresponding Turner99
// struct field, with "." marking an undefined (+Inf) entry. Missing files
// leave that table at its Default() value.
func Load(dir string) (*Turner99, error) {
	t := Default()

	loaders := map[string]func(*Turner99, string) error{
		"stack":     loadFourD(func(t *Turner99) *fourD { return &t.Stack }),
		"tstkh":     loadFourD(func(t *Turner99) *fourD { return &t.Tstkh }),
		"tstki":     loadFourD(func(t *Turner99) *fourD { return &t.Tstki }),
		"tstacke":   loadFourD(func(t *Turner99) *fourD { return &t.Tstacke }),
		"tstackm":   loadFourD(func(t *Turner99) *fourD { return &t.Tstackm }),
		"tstacki23": loadFourD(func(t *Turner99) *fourD { return &t.Tstacki23 }),
		"dangle":    loadDangle,
		"hairpin":   loadLoopMap(func(t *Turner99) map[int]rational.Rat { return t.Hairpin }),
		"bulge":     loadLoopMap(func(t *Turner99) map[int]rational.Rat { return t.Bulge }),
		"interior":  loadLoopMap(func(t *Turner99) map[int]rational.Rat { return t.Interior }),
		"tloop":     loadNamedLoop(func(t *Turner99) map[string]rational.Rat { return t.Tloop }),
		"triloop":   loadNamedLoop(func(t *Turner99) map[string]rational.Rat { return t.Triloop }),
		"iloop11":   loadIloop11,
		"iloop21":   loadIloop21,
		"iloop22":   loadIloop22,
		"loop":      loadMisc, // scaling constants: prelog, maxpen, poppen
		"miscloop":  loadMiscLoop,
	}

	for name, fn := range loaders {
		path := filepath.Join(dir, name+".dat")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := fn(t, path); err != nil {
			return nil, fmt.Errorf("turner: loading %s: %w", name, err)
		}
	}
	return t, nil
}

func tokenize(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var toks []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexAny(line, "#;"); i >= 0 {
			line = line[:i]
		}
		toks = append(toks, strings.Fields(line)...)
	}
	return toks, sc.Err()
}

func parseRat(tok string) (rational.Rat, error) {
	if tok == "." || strings.EqualFold(tok, "inf") {
		return rational.Inf(), nil
	}
	return rational.FromString(tok)
}

func loadFourD(field func(*Turner99) *fourD) func(*Turner99, string) error {
	return func(t *Turner99, path string) error {
		toks, err := tokenize(path)
		if err != nil {
			return err
		}
		dst := field(t)
		idx := 0
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				for k := 0; k < 4; k++ {
					for l := 0; l < 4; l++ {
						if idx >= len(toks) {
							return fmt.Errorf("%s: expected 256 entries, got %d", path, len(toks))
						}
						v, err := parseRat(toks[idx])
						if err != nil {
							return err
						}
						dst[i][j][k][l] = v
						idx++
					}
				}
			}
		}
		return nil
	}
}

func loadDangle(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	if len(toks) < 128 {
		return fmt.Errorf("%s: expected 128 entries (64 x 5' + 64 x 3'), got %d", path, len(toks))
	}
	idx := 0
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				v, err := parseRat(toks[idx])
				if err != nil {
					return err
				}
				t.Dangle5[i][j][k] = v
				idx++
			}
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				v, err := parseRat(toks[idx])
				if err != nil {
					return err
				}
				t.Dangle3[i][j][k] = v
				idx++
			}
		}
	}
	return nil
}

// loadLoopMap parses one value per loop size, in order, for sizes
// 1..MaxLoop; tokens past MaxLoop are ignored.
func loadLoopMap(field func(*Turner99) map[int]rational.Rat) func(*Turner99, string) error {
	return func(t *Turner99, path string) error {
		toks, err := tokenize(path)
		if err != nil {
			return err
		}
		dst := field(t)
		size := 1
		for _, tok := range toks {
			if size > MaxLoop {
				break
			}
			v, err := parseRat(tok)
			if err != nil {
				return err
			}
			dst[size] = v
			size++
		}
		return nil
	}
}

// loadNamedLoop parses "SEQUENCE value" pairs, one per line worth of tokens.
func loadNamedLoop(field func(*Turner99) map[string]rational.Rat) func(*Turner99, string) error {
	return func(t *Turner99, path string) error {
		toks, err := tokenize(path)
		if err != nil {
			return err
		}
		dst := field(t)
		for i := 0; i+1 < len(toks); i += 2 {
			v, err := parseRat(toks[i+1])
			if err != nil {
				return err
			}
			dst[strings.ToUpper(toks[i])] = v
		}
		return nil
	}
}

func loadIloop11(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	idx := 0
	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							if idx >= len(toks) {
								return fmt.Errorf("%s: truncated (1,1) interior-loop table", path)
							}
							v, err := parseRat(toks[idx])
							if err != nil {
								return err
							}
							t.Iloop11[i0][i1][i2][i3][i4][i5] = v
							idx++
						}
					}
				}
			}
		}
	}
	return nil
}

func loadIloop21(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	idx := 0
	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							for i6 := 0; i6 < 4; i6++ {
								if idx >= len(toks) {
									return fmt.Errorf("%s: truncated (1,2)/(2,1) interior-loop table", path)
								}
								v, err := parseRat(toks[idx])
								if err != nil {
									return err
								}
								t.Iloop21[i0][i1][i2][i3][i4][i5][i6] = v
								idx++
							}
						}
					}
				}
			}
		}
	}
	return nil
}

func loadIloop22(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	idx := 0
	for i0 := 0; i0 < 4; i0++ {
		for i1 := 0; i1 < 4; i1++ {
			for i2 := 0; i2 < 4; i2++ {
				for i3 := 0; i3 < 4; i3++ {
					for i4 := 0; i4 < 4; i4++ {
						for i5 := 0; i5 < 4; i5++ {
							for i6 := 0; i6 < 4; i6++ {
								for i7 := 0; i7 < 4; i7++ {
									if idx >= len(toks) {
										return fmt.Errorf("%s: truncated 2x2 interior-loop table", path)
									}
									v, err := parseRat(toks[idx])
									if err != nil {
										return err
									}
									t.Iloop22.Set(i0, i1, i2, i3, i4, i5, i6, i7, v)
									idx++
								}
							}
						}
					}
				}
			}
		}
	}
	return nil
}

// loadMisc parses "prelog maxpen poppen0 poppen1 poppen2" on the loop.dat
// scaling-constants file.
func loadMisc(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	if len(toks) < 5 {
		return fmt.Errorf("%s: expected at least 5 scaling constants", path)
	}
	vals := make([]rational.Rat, 5)
	for i := range vals {
		v, err := parseRat(toks[i])
		if err != nil {
			return err
		}
		vals[i] = v
	}
	t.Prelog = vals[0]
	t.MaxPen = vals[1]
	t.PopPen = [3]rational.Rat{vals[2], vals[3], vals[4]}
	return nil
}

// loadMiscLoop parses "aupenalty gubonus cint cslope c3 gail" on
// miscloop.dat. gail is 0 or 1.
func loadMiscLoop(t *Turner99, path string) error {
	toks, err := tokenize(path)
	if err != nil {
		return err
	}
	if len(toks) < 6 {
		return fmt.Errorf("%s: expected 6 fields (aupenalty gubonus cint cslope c3 gail)", path)
	}
	get := func(i int) (rational.Rat, error) { return parseRat(toks[i]) }
	var v rational.Rat
	if v, err = get(0); err != nil {
		return err
	}
	t.AUPenaltyValue = v
	if v, err = get(1); err != nil {
		return err
	}
	t.GUBonus = v
	if v, err = get(2); err != nil {
		return err
	}
	t.CInt = v
	if v, err = get(3); err != nil {
		return err
	}
	t.CSlope = v
	if v, err = get(4); err != nil {
		return err
	}
	t.C3 = v
	gail, err := strconv.Atoi(toks[5])
	if err != nil {
		return fmt.Errorf("%s: gail flag: %w", path, err)
	}
	t.Gail = gail != 0
	return nil
}
