// pkg/api/combination_v1.go
package api

// CombinationV1 is the stable JSON/JSONL schema for one primer combination.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type CombinationV1 struct {
	Name            string  `json:"combination_name"`
	ForwardPrimer   string  `json:"forward_primer"`
	ReversePrimer   string  `json:"reverse_primer"`
	ForwardSequence string  `json:"forward_sequence,omitempty"`
	ReverseSequence string  `json:"reverse_sequence,omitempty"`
	Reference       string  `json:"reference"`
	Genotype        string  `json:"genotype"`
	Region          string  `json:"region,omitempty"`
	AmpliconLength  int     `json:"amplicon_length"`
	TmMaxDiff       float64 `json:"tm_max_diff"`
	TmMinDiff       float64 `json:"tm_min_diff"`
	GCDiff          float64 `json:"gc_content_diff"`
	Round           string  `json:"round_type"` // "single" | "outer" | "inner"
	Outer           string  `json:"outer_combination_name,omitempty"`
}

// LinkV1 ties an inner combination to the outer amplicon it was designed in.
type LinkV1 struct {
	Outer string `json:"outer_combination_name"`
	Inner string `json:"inner_combination_name"`
	Round string `json:"round_type"`
}
