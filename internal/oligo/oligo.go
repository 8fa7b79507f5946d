// Package oligo holds sequence-level helpers for primer records: cleanup,
// IUPAC validation and the composition figures the quality filter needs.
package oligo

import (
	"fmt"
	"math"
	"unicode"
)

// Allowed IUPAC DNA codes.
var iupac = map[rune]struct{}{
	'A': {}, 'C': {}, 'G': {}, 'T': {},
	'R': {}, 'Y': {}, 'S': {}, 'W': {},
	'K': {}, 'M': {}, 'B': {}, 'D': {},
	'H': {}, 'V': {}, 'N': {},
}

// Normalize removes spaces/quotes and uppercases bases.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '\'' || r == '"' {
			continue
		}
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// Validate returns a normalized sequence or an error if any char is non-IUPAC.
func Validate(raw string) (string, error) {
	s := Normalize(raw)
	if s == "" {
		return s, fmt.Errorf("empty oligo")
	}
	for i, r := range s {
		if _, ok := iupac[r]; !ok {
			return "", fmt.Errorf("invalid base %q at %d; allowed: A C G T R Y S W K M B D H V N", r, i+1)
		}
	}
	return s, nil
}

// GCPercent is 100*(G+C)/len rounded to two decimals. Ambiguity codes count
// towards the length only.
func GCPercent(seq string) float64 {
	if len(seq) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return Round2(100 * float64(gc) / float64(len(seq)))
}

// MaxHomopolymer returns the longest run of identical consecutive bases.
func MaxHomopolymer(seq string) int {
	best, run := 0, 0
	for i := 0; i < len(seq); i++ {
		if i > 0 && seq[i] == seq[i-1] {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
