// Command rnascorer computes the Turner-99 free energy of a structure
// read from a plain text structure file, independent of any DP traceback.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/scoring"
	"github.com/gtDMMB/pmfe2023/turner"
)

const usage = `usage: rnascorer [-h] --structure FILE [-m MODEL] [-p DIR]

Score an RNA secondary structure against the Turner-99 model.

required arguments:
  --structure FILE      structure file: a sequence line, then a dot-bracket
                        line of the same length

optional arguments:
  -h, --help            show this help message and exit
  -m, --dangle-model N  dangle model: 0, 1, or 2 (default 1, ignored: a
                        structure read from file carries no dangle marks)
  -p, --paramdir DIR    Turner-99 parameter directory (default: built in)
`

func readStructureFile(path string) (seq *rnaseq.Sequence, st *nntm.Structure, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("rnascorer: reading structure file %s: %w", path, err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) < 2 {
		return nil, nil, fmt.Errorf("rnascorer: structure file %s must have a sequence line and a dot-bracket line", path)
	}
	seqLine := strings.TrimSpace(lines[0])
	dbLine := strings.TrimSpace(lines[1])

	seq, err = rnaseq.New(seqLine)
	if err != nil {
		return nil, nil, fmt.Errorf("rnascorer: %w", err)
	}
	st, err = nntm.ParseDotBracket(seq, dbLine)
	if err != nil {
		return nil, nil, err
	}
	return seq, st, nil
}

func main() {
	var (
		structureFile, paramdir string
		dangleModel             int
	)

	flag.StringVar(&structureFile, "structure", "", "structure file")
	flag.IntVar(&dangleModel, "dangle-model", 1, "dangle model: 0, 1, or 2")
	flag.IntVar(&dangleModel, "m", 1, "dangle model: 0, 1, or 2")
	flag.StringVar(&paramdir, "paramdir", "", "Turner-99 parameter directory")
	flag.StringVar(&paramdir, "p", "", "Turner-99 parameter directory")

	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	if structureFile == "" {
		fmt.Print(usage)
		os.Exit(1)
	}

	seq, st, err := readStructureFile(structureFile)
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

	model := nntm.New(scoring.Default(), table, nntm.NoDangle)
	energy := model.Evaluate(seq, st)

	fmt.Printf("Computed energy %s = %.5f\n", energy, energy.Float64())
}
