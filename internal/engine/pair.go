package engine

import "pairfind/internal/catalog"

// Round tags which PCR round a pair was designed for.
type Round string

const (
	RoundSingle Round = "single"
	RoundOuter  Round = "outer"
	RoundInner  Round = "inner"
)

// Rule identifies the single constraint a candidate pair failed.
type Rule string

const (
	RuleNone          Rule = ""
	RuleOrientation   Rule = "orientation"
	RuleReference     Rule = "reference"
	RuleGenotype      Rule = "genotype"
	RuleDistance      Rule = "distance"
	RuleLength        Rule = "length"
	RuleTmMinDiff     Rule = "tm_min_diff"
	RuleTmMaxDiff     Rule = "tm_max_diff"
	RuleGCDiff        Rule = "gc_diff"
	RuleTmContainment Rule = "tm_containment"
)

// Pair is an accepted forward/reverse combination.
type Pair struct {
	Name           string
	Forward        catalog.Record
	Reverse        catalog.Record
	Reference      string
	Genotype       string
	Region         string // empty when no configured region contains the amplicon
	AmpliconLength int
	TmMaxDiff      float64
	TmMinDiff      float64
	GCDiff         float64
	Round          Round
	Outer          string // name of the outer pair for inner pairs
}

// InRegion reports whether the pair belongs in region-scoped exports.
func (p Pair) InRegion() bool { return p.Region != "" }

// LinkKey identifies an outer→inner link.
func (p Pair) LinkKey() string { return p.Outer + "|" + p.Name }
