// Command findmfe folds a single RNA sequence under the Turner-99
// nearest-neighbor model and reports its minimum free energy structure.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gtDMMB/pmfe2023/internal/cliutil"
	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/turner"
)

const usage = `usage: findmfe [-h] --sequence FILE [-a A] [-b B] [-c C] [-d D]
                [-m MODEL] [-o FILE] [-I] [-O] [-p DIR]

Compute the minimum free energy secondary structure of an RNA sequence.

required arguments:
  --sequence FILE       FASTA file holding the sequence to fold

optional arguments:
  -h, --help            show this help message and exit
  -a, --multiloop-penalty VALUE
                        multiloop initiation coefficient (default 0)
  -b, --unpaired-penalty VALUE
                        unpaired base coefficient (default 0)
  -c, --branch-penalty VALUE
                        branch coefficient (default 0)
  -d, --dummy-scaling VALUE
                        overall scaling dummy (default 1)
  -m, --dangle-model N  dangle model: 0 (none), 1 (choose), 2 (both) (default 1)
  -o, --outfile FILE    write output to FILE instead of SEQUENCE.mfe
  -p, --paramdir DIR    Turner-99 parameter directory (default: built in)
  -I, --transformed-input
                        interpret -a/-c as parameter-sweep-transformed coordinates
  -O, --transform-output
                        report the score vector in parameter-sweep-transformed coordinates
`

func main() {
	var (
		sequence, aStr, bStr, cStr, dStr string
		dangleModel                     int
		outfile, paramdir               string
		transformedInput, transformOut  bool
	)

	flag.StringVar(&sequence, "sequence", "", "FASTA file holding the sequence to fold")

	flag.StringVar(&aStr, "multiloop-penalty", "", "multiloop initiation coefficient")
	flag.StringVar(&aStr, "a", "", "multiloop initiation coefficient")
	flag.StringVar(&bStr, "unpaired-penalty", "", "unpaired base coefficient")
	flag.StringVar(&bStr, "b", "", "unpaired base coefficient")
	flag.StringVar(&cStr, "branch-penalty", "", "branch coefficient")
	flag.StringVar(&cStr, "c", "", "branch coefficient")
	flag.StringVar(&dStr, "dummy-scaling", "", "overall scaling dummy")
	flag.StringVar(&dStr, "d", "", "overall scaling dummy")

	flag.IntVar(&dangleModel, "dangle-model", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&dangleModel, "m", 1, "dangle model: 0, 1, or 2")

	flag.StringVar(&outfile, "outfile", "", "write output to FILE")
	flag.StringVar(&outfile, "o", "", "write output to FILE")
	flag.StringVar(&paramdir, "paramdir", "", "Turner-99 parameter directory")
	flag.StringVar(&paramdir, "p", "", "Turner-99 parameter directory")

	flag.BoolVar(&transformedInput, "transformed-input", false, "interpret -a/-c as transformed coordinates")
	flag.BoolVar(&transformedInput, "I", false, "interpret -a/-c as transformed coordinates")
	flag.BoolVar(&transformOut, "transform-output", false, "report the score vector in transformed coordinates")
	flag.BoolVar(&transformOut, "O", false, "report the score vector in transformed coordinates")

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

	params, err := cliutil.BuildParams(aStr, bStr, cStr, dStr, transformedInput)
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

	out, err := cliutil.OpenOutput(outfile, sequence, ".mfe", false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	model := nntm.New(params, table, dangles)
	tables := model.Fill(seq)
	st := model.Traceback(seq, tables)
	score := model.Score(st, tables.MFE())

	reportParams := params
	if transformOut {
		reportParams = params.TransformParams()
	}

	fmt.Fprintf(out, "%s\n%s\n", seq.Raw(), st.DotBracket())
	fmt.Fprintf(out, "energy\t%s\t%.5f\n", score.Energy, score.Energy.Float64())
	fmt.Fprintf(out, "multiloops\t%d\nunpaired\t%d\nbranches\t%d\n", score.Multiloops, score.Unpaired, score.Branches)
	fmt.Fprintf(out, "params\t%s\t%s\t%s\t%s\n", reportParams.A, reportParams.B, reportParams.C, reportParams.D)
}
