// Package cliutil holds the small pieces of flag-parsing and file
// plumbing every cmd/ driver repeats: reading a sequence file, parsing
// the -a/-b/-c/-d scoring flags into a ParameterVector, and picking an
// output destination. None of it is domain logic; it exists so the
// five binaries don't each reimplement the same dozen lines.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gtDMMB/pmfe2023/nntm"
	"github.com/gtDMMB/pmfe2023/rational"
	"github.com/gtDMMB/pmfe2023/rnaseq"
	"github.com/gtDMMB/pmfe2023/scoring"
)

// LoadSequenceFile reads a FASTA-like sequence file from path.
func LoadSequenceFile(path string) (*rnaseq.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cliutil: reading sequence file %s: %w", path, err)
	}
	seq, err := rnaseq.FromFASTA(string(data))
	if err != nil {
		return nil, fmt.Errorf("cliutil: parsing sequence file %s: %w", path, err)
	}
	return seq, nil
}

// ParseRatFlag parses s as an exact rational, falling back to
// fallback when s is empty (the flag was never set).
func ParseRatFlag(s string, fallback rational.Rat) (rational.Rat, error) {
	if s == "" {
		return fallback, nil
	}
	return rational.FromString(s)
}

// BuildParams assembles a ParameterVector from the four scoring flags,
// untransforming first when transformedInput is set (the flags were
// given in the parameter-sweep driver's scaled coordinates), then
// canonicalizing the result (§4.5).
func BuildParams(aStr, bStr, cStr, dStr string, transformedInput bool) (scoring.ParameterVector, error) {
	def := scoring.Default()

	a, err := ParseRatFlag(aStr, def.A)
	if err != nil {
		return scoring.ParameterVector{}, fmt.Errorf("cliutil: -a: %w", err)
	}
	b, err := ParseRatFlag(bStr, def.B)
	if err != nil {
		return scoring.ParameterVector{}, fmt.Errorf("cliutil: -b: %w", err)
	}
	c, err := ParseRatFlag(cStr, def.C)
	if err != nil {
		return scoring.ParameterVector{}, fmt.Errorf("cliutil: -c: %w", err)
	}
	d, err := ParseRatFlag(dStr, def.D)
	if err != nil {
		return scoring.ParameterVector{}, fmt.Errorf("cliutil: -d: %w", err)
	}

	params := scoring.ParameterVector{A: a, B: b, C: c, D: d}
	if transformedInput {
		params = params.UntransformParams()
	}
	return params.Canonicalize(), nil
}

// ParseDangleModelFlag is ParseDangleMode with the CLI's own error
// framing, since every driver's --dangle-model flag shares it.
func ParseDangleModelFlag(n int) (nntm.DangleMode, error) {
	mode, err := nntm.ParseDangleMode(n)
	if err != nil {
		return mode, fmt.Errorf("cliutil: --dangle-model: %w", err)
	}
	return mode, nil
}

// nopWriteCloser adapts an io.Writer (e.g. os.Stdout) that must not be
// closed by the caller's defer.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// OpenOutput resolves a driver's output destination: explicit outfile
// if given, else seqFile with its extension replaced by defaultExt, or
// stdout when console is true.
func OpenOutput(outfile, seqFile, defaultExt string, console bool) (io.WriteCloser, error) {
	if console {
		return nopWriteCloser{os.Stdout}, nil
	}
	path := outfile
	if path == "" {
		ext := filepath.Ext(seqFile)
		path = strings.TrimSuffix(seqFile, ext) + defaultExt
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cliutil: opening output file %s: %w", path, err)
	}
	return f, nil
}
