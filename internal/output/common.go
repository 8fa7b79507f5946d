package output

// Output formats of the main combination table.
const (
	FormatTSV   = "tsv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// TSVHeader is the canonical header row for combination tables.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "Forward_Primer\tReverse_Primer\tCombination_Name\tReference\tGenotype\tRegion\tAmplicon_Length\tTm_max_diff\tTm_min_diff\tGC_Content_diff\tRound_Type"

// OuterColumn is appended to TSVHeader on inner and combined tables of a nested run.
const OuterColumn = "Outer_Combination_Name"

// LinksHeader heads the outer→inner link table.
const LinksHeader = "Outer_Combination_Name\tInner_Combination_Name\tRound_Type"

// Header returns the combination header, with the outer column if asked.
func Header(withOuter bool) string {
	if withOuter {
		return TSVHeader + "\t" + OuterColumn
	}
	return TSVHeader
}
