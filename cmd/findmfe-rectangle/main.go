// Command findmfe-rectangle sweeps a rectangular grid of (multiloop
// penalty, branch penalty) parameter pairs and reports every distinct
// MFE structure found across the grid.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/gtDMMB/pmfe2023/internal/cliutil"
	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/scoring"
	"github.com/gtDMMB/pmfe2023/turner"
)

const usage = `usage: findmfe-rectangle [-h] --sequence FILE -a MIN -A MAX -c MIN -C MAX
                          [-b B] [-d D] [-s STEP] [-m MODEL] [-o FILE]
                          [-t N] [-I] [-O] [-P] [-p DIR]

Sweep a rectangle of multiloop/branch penalties and report every distinct
MFE structure found.

required arguments:
  --sequence FILE             FASTA file holding the sequence to fold
  -a, --multiloop-penalty-min VALUE
  -A, --multiloop-penalty-max VALUE
  -c, --branch-penalty-min VALUE
  -C, --branch-penalty-max VALUE

optional arguments:
  -h, --help                  show this help message and exit
  -b, --unpaired-penalty VALUE      (default 0)
  -d, --dummy-scaling VALUE         (default 1)
  -s, --step-size VALUE             grid step size (default 0.1)
  -m, --dangle-model N        dangle model: 0, 1, or 2 (default 1)
  -o, --outfile FILE          file for the -P log (default: SEQUENCE path + .rnarect);
                              the structure list always goes to stdout
  -t, --num-threads N         worker count (default: number of CPUs)
  -p, --paramdir DIR          Turner-99 parameter directory (default: built in)
  -I, --transform-input       interpret -a/-A/-c/-C as transformed coordinates
  -O, --transform-output      report score vectors in transformed coordinates
  -P, --parameter-output      also log, for each distinct structure, the grid
                              point parameters where it first appears
`

type gridPoint struct {
	a, c rational.Rat
}

type gridResult struct {
	point  gridPoint
	params scoring.ParameterVector
	dot    string
	score  nntm.ScoreVector
}

func main() {
	var (
		sequence                                  string
		aMinStr, aMaxStr, bStr, cMinStr, cMaxStr  string
		dStr, stepStr                              string
		dangleModel, numThreads                    int
		outfile, paramdir                          string
		transformInput, transformOutput, paramOut bool
	)

	flag.StringVar(&sequence, "sequence", "", "FASTA file holding the sequence to fold")

	flag.StringVar(&aMinStr, "multiloop-penalty-min", "", "multiloop penalty min")
	flag.StringVar(&aMinStr, "a", "", "multiloop penalty min")
	flag.StringVar(&aMaxStr, "multiloop-penalty-max", "", "multiloop penalty max")
	flag.StringVar(&aMaxStr, "A", "", "multiloop penalty max")
	flag.StringVar(&bStr, "unpaired-penalty", "0", "unpaired base penalty")
	flag.StringVar(&bStr, "b", "0", "unpaired base penalty")
	flag.StringVar(&cMinStr, "branch-penalty-min", "", "branch penalty min")
	flag.StringVar(&cMinStr, "c", "", "branch penalty min")
	flag.StringVar(&cMaxStr, "branch-penalty-max", "", "branch penalty max")
	flag.StringVar(&cMaxStr, "C", "", "branch penalty max")
	flag.StringVar(&dStr, "dummy-scaling", "1", "overall scaling dummy")
	flag.StringVar(&dStr, "d", "1", "overall scaling dummy")
	flag.StringVar(&stepStr, "step-size", "0.1", "grid step size")
	flag.StringVar(&stepStr, "s", "0.1", "grid step size")

	flag.IntVar(&dangleModel, "dangle-model", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&dangleModel, "m", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&numThreads, "num-threads", 0, "worker count (0: number of CPUs)")
	flag.IntVar(&numThreads, "t", 0, "worker count (0: number of CPUs)")

	flag.StringVar(&outfile, "outfile", "", "write output to FILE")
	flag.StringVar(&outfile, "o", "", "write output to FILE")
	flag.StringVar(&paramdir, "paramdir", "", "Turner-99 parameter directory")
	flag.StringVar(&paramdir, "p", "", "Turner-99 parameter directory")

	flag.BoolVar(&transformInput, "transform-input", false, "interpret -a/-A/-c/-C as transformed coordinates")
	flag.BoolVar(&transformInput, "I", false, "interpret -a/-A/-c/-C as transformed coordinates")
	flag.BoolVar(&transformOutput, "transform-output", false, "report score vectors in transformed coordinates")
	flag.BoolVar(&transformOutput, "O", false, "report score vectors in transformed coordinates")
	flag.BoolVar(&paramOut, "parameter-output", false, "also log the parameters where each distinct structure first appears")
	flag.BoolVar(&paramOut, "P", false, "also log the parameters where each distinct structure first appears")

	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if sequence == "" || aMinStr == "" || aMaxStr == "" || cMinStr == "" || cMaxStr == "" {
		fmt.Print(usage)
		os.Exit(1)
	}

	seq, err := cliutil.LoadSequenceFile(sequence)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	aMin, err1 := rational.FromString(aMinStr)
	aMax, err2 := rational.FromString(aMaxStr)
	cMin, err3 := rational.FromString(cMinStr)
	cMax, err4 := rational.FromString(cMaxStr)
	b, err5 := rational.FromString(bStr)
	d, err6 := rational.FromString(dStr)
	step, err7 := rational.FromString(stepStr)
	for _, e := range []error{err1, err2, err3, err4, err5, err6, err7} {
		if e != nil {
			fmt.Fprintln(os.Stderr, e)
			os.Exit(1)
		}
	}
	if step.Less(rational.FromFrac(1, 10)) {
		fmt.Fprintf(os.Stderr, "warning: step-size %s may result in long computation\n", step)
	}

	dangles, err := cliutil.ParseDangleModelFlag(dangleModel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table := turner.Default()
	if paramdir != "" {
		table, err = turner.Load(paramdir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	var points []gridPoint
	for a := aMin; a.LessEq(aMax); a = a.Add(step) {
		for c := cMin; c.LessEq(cMax); c = c.Add(step) {
			points = append(points, gridPoint{a: a, c: c})
		}
	}

	workers := numThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]gridResult, len(points))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				p := points[idx]
				params := scoring.ParameterVector{A: p.a, B: b, C: p.c, D: d}
				if transformInput {
					params = params.UntransformParams()
				}
				params = params.Canonicalize()

				model := nntm.New(params, table, dangles)
				tables := model.Fill(seq)
				st := model.Traceback(seq, tables)
				score := model.Score(st, tables.MFE())

				reportParams := params
				if transformOutput {
					reportParams = params.TransformParams()
				}
				results[idx] = gridResult{point: p, params: reportParams, dot: st.DotBracket(), score: score}
			}
		}()
	}
	for idx := range points {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var logOut *os.File
	if paramOut {
		path := outfile
		if path == "" {
			path = sequence + ".rnarect"
		}
		logOut, err = os.Create(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer logOut.Close()
	}

	seen := make(map[string]bool)
	var unique []gridResult
	for _, r := range results {
		if seen[r.dot] {
			continue
		}
		seen[r.dot] = true
		unique = append(unique, r)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].dot < unique[j].dot })

	fmt.Println(seq.Raw())
	for _, r := range unique {
		fmt.Printf("%s\t%s\t%.5f\n", r.dot, r.score.Energy, r.score.Energy.Float64())
	}

	if logOut != nil {
		for _, r := range unique {
			fmt.Fprintf(logOut, "%s, %s, %s, %s\t%s\n", r.params.A, b, r.params.C, r.dot, r.score.Energy)
		}
	}
}
