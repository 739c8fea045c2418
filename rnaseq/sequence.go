// Package rnaseq is the immutable RNA sequence model: a length n, a mapping
// from position to base, and the pair-compatibility predicate the DP engine
// builds on.
package rnaseq

import (
	"fmt"
	"strings"
)

// Base is one of the five symbols the model understands. N is an unknown
// base; it never satisfies the pair predicate with anything.
type Base byte

const (
	A Base = iota
	C
	G
	U
	N
)

func (b Base) String() string {
	switch b {
	case A:
		return "A"
	case C:
		return "C"
	case G:
		return "G"
	case U:
		return "U"
	default:
		return "N"
	}
}

func baseFromByte(c byte) (Base, error) {
	switch c {
	case 'A', 'a':
		return A, nil
	case 'C', 'c':
		return C, nil
	case 'G', 'g':
		return G, nil
	case 'U', 'u':
		return U, nil
	case 'T', 't':
		// T is coerced to U (§6: sequence input).
		return U, nil
	case 'N', 'n':
		return N, nil
	default:
		return N, fmt.Errorf("rnaseq: unrecognized base %q", c)
	}
}

// Sequence is an immutable RNA sequence: a length n and a 0-based mapping
// from index to Base, plus the raw (post-normalization) text.
type Sequence struct {
	bases []Base
	raw   string
}

// New parses raw text (any case-insensitive subset of A,C,G,U,T,N) into a
// Sequence, coercing T to U.
func New(text string) (*Sequence, error) {
	bases := make([]Base, len(text))
	for i := 0; i < len(text); i++ {
		b, err := baseFromByte(text[i])
		if err != nil {
			return nil, err
		}
		bases[i] = b
	}
	var sb strings.Builder
	for _, b := range bases {
		sb.WriteString(b.String())
	}
	return &Sequence{bases: bases, raw: sb.String()}, nil
}

// Len returns the sequence length n.
func (s *Sequence) Len() int { return len(s.bases) }

// At returns the base at 0-based position i.
func (s *Sequence) At(i int) Base { return s.bases[i] }

// Raw returns the normalized (T->U, uppercased) sequence text.
func (s *Sequence) Raw() string { return s.raw }

// pairTable holds every ordered Watson-Crick or wobble pair, both orders
// listed explicitly (U pairs with both A and G), so CanPair needs only a
// single lookup.
var pairTable = map[[2]Base]bool{
	{A, U}: true, {U, A}: true,
	{G, C}: true, {C, G}: true,
	{G, U}: true, {U, G}: true,
}

// CanPair reports whether bases a and b are one of {AU, UA, GC, CG, GU, UG}.
func CanPair(a, b Base) bool {
	return pairTable[[2]Base{a, b}]
}

// CanPairAt reports whether positions i and j of s are pair-compatible.
func (s *Sequence) CanPairAt(i, j int) bool {
	return CanPair(s.bases[i], s.bases[j])
}

// FromFASTA parses a FASTA-like text: an optional one-line ">" header
// followed by the sequence body on the remaining lines (§6: sequence
// input). Blank lines are ignored.
func FromFASTA(text string) (*Sequence, error) {
	var body strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		body.WriteString(line)
	}
	return New(body.String())
}
