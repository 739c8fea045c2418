package nntm

import "fmt"

// DangleMode selects how a helix end adjacent to an exterior loop or
// multiloop is allowed to dangle an extra unpaired base (§4.2).
type DangleMode int

const (
	// NoDangle charges no dangle terms at all.
	NoDangle DangleMode = iota
	// ChooseDangle considers, per branch, no dangle / 5' dangle / 3'
	// dangle / both, each consuming the corresponding unpaired base(s).
	ChooseDangle
	// BothDangle always charges both a 5' and a 3' dangle bonus on every
	// branch end, without consuming any unpaired base.
	BothDangle
)

func (d DangleMode) String() string {
	switch d {
	case NoDangle:
		return "no-dangle"
	case ChooseDangle:
		return "choose-dangle"
	case BothDangle:
		return "both-dangle"
	default:
		return "unknown-dangle"
	}
}

// ParseDangleMode converts the CLI's {0,1,2} dangle-model flag value.
// Returns an error on anything else so drivers can fail fast on a bad
// --dangle-model flag (§7).
func ParseDangleMode(n int) (DangleMode, error) {
	switch n {
	case 0:
		return NoDangle, nil
	case 1:
		return ChooseDangle, nil
	case 2:
		return BothDangle, nil
	default:
		return NoDangle, fmt.Errorf("nntm: dangle model must be 0, 1, or 2, got %d", n)
	}
}
