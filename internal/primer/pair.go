// Package primer reads and writes the whitespace-separated primer-pair files
// consumed by in-silico PCR tools (id forward reverse [min max]).
package primer

import "pairfind/internal/engine"

type Pair struct {
	ID         string
	Forward    string // forward primer sequence (5'→3')
	Reverse    string // reverse primer sequence (5'→3', as ordered)
	MinProduct int
	MaxProduct int
}

// FromCombination turns a retained combination into a pair whose product
// window is the full amplicon span, forward start to reverse end, widened
// by slack on both sides.
func FromCombination(p engine.Pair, slack int) Pair {
	size := p.Reverse.End - p.Forward.Start
	lo := size - slack
	if lo < 0 {
		lo = 0
	}
	return Pair{
		ID:         p.Name,
		Forward:    p.Forward.Sequence,
		Reverse:    p.Reverse.Sequence,
		MinProduct: lo,
		MaxProduct: size + slack,
	}
}
