package output

import (
	"strconv"
	"strings"

	"pairfind/internal/engine"
)

// FormatFloat renders a difference with the shortest exact representation.
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FormatRowTSV returns one combination row (no trailing newline).
func FormatRowTSV(p engine.Pair, withOuter bool) string {
	cols := []string{
		p.Forward.ID, p.Reverse.ID, p.Name,
		p.Reference, p.Genotype, p.Region,
		strconv.Itoa(p.AmpliconLength),
		FormatFloat(p.TmMaxDiff), FormatFloat(p.TmMinDiff), FormatFloat(p.GCDiff),
		string(p.Round),
	}
	if withOuter {
		cols = append(cols, p.Outer)
	}
	return strings.Join(cols, "\t")
}

// FormatLinkTSV returns one link row (no trailing newline).
func FormatLinkTSV(p engine.Pair) string {
	return p.Outer + "\t" + p.Name + "\t" + string(p.Round)
}
