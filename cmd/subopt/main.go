// Command subopt enumerates every RNA secondary structure within a fixed
// energy window of the minimum free energy structure.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gtDMMB/pmfe2023/internal/cliutil"
	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/subopt"
	"github.com/gtDMMB/pmfe2023/turner"
)

const usage = `usage: subopt [-h] --sequence FILE --delta VALUE [-a A] [-b B] [-c C]
               [-d D] [-m MODEL] [-o FILE] [-C] [-s] [-I] [-O] [-p DIR]

Enumerate RNA secondary structures within DELTA of the minimum free energy.

required arguments:
  --sequence FILE       FASTA file holding the sequence to fold
  --delta VALUE         energy window above the MFE, in kcal/mol

optional arguments:
  -h, --help            show this help message and exit
  -a, --multiloop-penalty VALUE
  -b, --unpaired-penalty VALUE
  -c, --branch-penalty VALUE
  -d, --dummy-scaling VALUE
  -m, --dangle-model N  dangle model: 0, 1, or 2 (default 1)
  -o, --outfile FILE    write output to FILE instead of SEQUENCE.subopt
  -C, --consoleout      write output to stdout instead of a file
  -s, --sorted          sort the output by increasing energy
  -p, --paramdir DIR    Turner-99 parameter directory (default: built in)
  -I, --transformed-input
  -O, --transform-output
`

func main() {
	var (
		sequence, deltaStr               string
		aStr, bStr, cStr, dStr           string
		dangleModel                      int
		outfile, paramdir                string
		consoleout, sorted               bool
		transformedInput, transformOut   bool
	)

	flag.StringVar(&sequence, "sequence", "", "FASTA file holding the sequence to fold")
	flag.StringVar(&deltaStr, "delta", "", "energy window above the MFE")

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

	flag.BoolVar(&consoleout, "consoleout", false, "write output to stdout")
	flag.BoolVar(&consoleout, "C", false, "write output to stdout")
	flag.BoolVar(&sorted, "sorted", false, "sort the output by increasing energy")
	flag.BoolVar(&sorted, "s", false, "sort the output by increasing energy")

	flag.BoolVar(&transformedInput, "transformed-input", false, "interpret -a/-c as transformed coordinates")
	flag.BoolVar(&transformedInput, "I", false, "interpret -a/-c as transformed coordinates")
	flag.BoolVar(&transformOut, "transform-output", false, "report score vectors in transformed coordinates")
	flag.BoolVar(&transformOut, "O", false, "report score vectors in transformed coordinates")

	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if sequence == "" || deltaStr == "" {
		fmt.Print(usage)
		os.Exit(1)
	}

	seq, err := cliutil.LoadSequenceFile(sequence)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	delta, err := rational.FromString(deltaStr)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("subopt: --delta: %w", err))
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

	out, err := cliutil.OpenOutput(outfile, sequence, ".subopt", consoleout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer out.Close()

	model := nntm.New(params, table, dangles)
	tables := model.Fill(seq)
	results := subopt.Enumerate(model, seq, tables, delta, sorted)

	fmt.Fprintf(out, "%s\n", seq.Raw())
	fmt.Fprintf(out, "# %d structures within %s of MFE %s\n", len(results), delta, tables.MFE())

	reportParams := params
	if transformOut {
		reportParams = params.TransformParams()
	}
	fmt.Fprintf(out, "# params\t%s\t%s\t%s\t%s\n", reportParams.A, reportParams.B, reportParams.C, reportParams.D)

	for _, r := range results {
		fmt.Fprintf(out, "%s\t%s\t%.5f\n", r.Structure.DotBracket(), r.Score.Energy, r.Score.Energy.Float64())
	}
}
