// internal/output/json.go
package output

import (
	"io"

	"pairfind/internal/engine"
	"pairfind/internal/jsonutil"
	"pairfind/pkg/api"
)

// ToAPICombination converts a domain Pair to the stable wire schema (v1).
func ToAPICombination(p engine.Pair) api.CombinationV1 {
	return api.CombinationV1{
		Name:            p.Name,
		ForwardPrimer:   p.Forward.ID,
		ReversePrimer:   p.Reverse.ID,
		ForwardSequence: p.Forward.Sequence,
		ReverseSequence: p.Reverse.Sequence,
		Reference:       p.Reference,
		Genotype:        p.Genotype,
		Region:          p.Region,
		AmpliconLength:  p.AmpliconLength,
		TmMaxDiff:       p.TmMaxDiff,
		TmMinDiff:       p.TmMinDiff,
		GCDiff:          p.GCDiff,
		Round:           string(p.Round),
		Outer:           p.Outer,
	}
}

// ToAPILink converts an inner pair to its link record.
func ToAPILink(p engine.Pair) api.LinkV1 {
	return api.LinkV1{Outer: p.Outer, Inner: p.Name, Round: string(p.Round)}
}

func toAPICombinations(list []engine.Pair) []api.CombinationV1 {
	out := make([]api.CombinationV1, 0, len(list))
	for _, p := range list {
		out = append(out, ToAPICombination(p))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 combinations (pretty-indented).
func WriteJSON(w io.Writer, list []engine.Pair) error {
	return jsonutil.EncodePretty(w, toAPICombinations(list))
}

// WriteLinksJSON writes a single JSON array of v1 link records.
func WriteLinksJSON(w io.Writer, links []engine.Pair) error {
	out := make([]api.LinkV1, 0, len(links))
	for _, p := range links {
		out = append(out, ToAPILink(p))
	}
	return jsonutil.EncodePretty(w, out)
}
