// Command parametrizer builds the parametric polytope of MFE-optimal
// score vectors for an RNA sequence, either over the full 4-parameter
// space or, with --b-parameter, the reduced 3-parameter space with the
// unpaired-base weight fixed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gtDMMB/pmfe2023/internal/cliutil"
	"github.com/gtDMMB/pmfe2023/polytope"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/turner"
)

const usage = `usage: parametrizer [-h] --sequence FILE [-m MODEL] [-o FILE] [-b VALUE]
                     [-p DIR]

Build the parametric polytope of MFE-optimal structures for an RNA sequence.

required arguments:
  --sequence FILE       FASTA file holding the sequence to fold

optional arguments:
  -h, --help            show this help message and exit
  -m, --dangle-model N  dangle model: 0, 1, or 2 (default 1)
  -o, --outfile FILE    write output to FILE instead of SEQUENCE.rnapoly
  -b, --b-parameter VALUE
                        fix the unpaired-base weight and build the reduced
                        3-parameter polytope instead of the full 4D one
  -p, --paramdir DIR    Turner-99 parameter directory (default: built in)
  -t, --num-threads N   worker count for hull construction (default: number of CPUs)
  -v, --verbose         log hull construction progress to stderr
`

func main() {
	var (
		sequence, outfile, paramdir, bParam string
		dangleModel, numThreads             int
		verbose                             bool
	)

	flag.StringVar(&sequence, "sequence", "", "FASTA file holding the sequence to fold")
	flag.IntVar(&dangleModel, "dangle-model", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&dangleModel, "m", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&numThreads, "num-threads", 0, "worker count (0: number of CPUs)")
	flag.IntVar(&numThreads, "t", 0, "worker count (0: number of CPUs)")
	flag.StringVar(&outfile, "outfile", "", "write output to FILE")
	flag.StringVar(&outfile, "o", "", "write output to FILE")
	flag.StringVar(&paramdir, "paramdir", "", "Turner-99 parameter directory")
	flag.StringVar(&paramdir, "p", "", "Turner-99 parameter directory")
	flag.StringVar(&bParam, "b-parameter", "", "fix b and build the 3D polytope")
	flag.StringVar(&bParam, "b", "", "fix b and build the 3D polytope")
	flag.BoolVar(&verbose, "verbose", false, "log hull construction progress to stderr")
	flag.BoolVar(&verbose, "v", false, "log hull construction progress to stderr")

	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if sequence == "" {
		fmt.Print(usage)
		os.Exit(1)
	}

	seq, err := cliutil.LoadSequenceFile(sequence)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
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

	var poly *polytope.Polytope
	if bParam != "" {
		b, err := rational.FromString(bParam)
		if err != nil {
			fmt.Fprintln(os.Stderr, fmt.Errorf("parametrizer: --b-parameter: %w", err))
			os.Exit(1)
		}
		poly = polytope.New3D(seq, table, dangles, b)
	} else {
		poly = polytope.New4D(seq, table, dangles)
	}

	if verbose {
		poly.Hooks = polytope.DefaultHooks()
	}

	poly.BuildParallel(numThreads)

	fmt.Printf("%d vertices, %d facets\n", len(poly.VertexIndices()), len(poly.Hull.Facets))

	out, err := cliutil.OpenOutput(outfile, sequence, ".rnapoly", false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	if err := poly.WriteTo(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
