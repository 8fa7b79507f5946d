// Package quality decides whether a single primer is physically usable.
package quality

import "pairfind/internal/catalog"

// Rule names the check a primer failed. RuleNone means the primer passed.
type Rule string

const (
	RuleNone        Rule = ""
	RuleLength      Rule = "length"
	RuleGC          Rule = "gc"
	RuleHomopolymer Rule = "homopolymer"
)

// Filter holds the quality thresholds. Bounds are inclusive.
type Filter struct {
	MinLength      int
	MaxLength      int
	MinGC          float64
	MaxGC          float64
	MaxHomopolymer int
}

// Default matches the thresholds used throughout the primer-design scripts.
var Default = Filter{MinLength: 18, MaxLength: 25, MinGC: 40, MaxGC: 60, MaxHomopolymer: 4}

// Check returns the first rule r violates, in length, GC, homopolymer order.
func (f Filter) Check(r catalog.Record) Rule {
	if n := r.Length(); n < f.MinLength || n > f.MaxLength {
		return RuleLength
	}
	if r.GC < f.MinGC || r.GC > f.MaxGC {
		return RuleGC
	}
	if r.Homopolymer > f.MaxHomopolymer {
		return RuleHomopolymer
	}
	return RuleNone
}

// Accepts reports whether r passes every check.
func (f Filter) Accepts(r catalog.Record) bool { return f.Check(r) == RuleNone }

// Apply splits records into accepted ones and per-rule rejection counts.
func (f Filter) Apply(records []catalog.Record) ([]catalog.Record, map[Rule]int) {
	kept := make([]catalog.Record, 0, len(records))
	rejected := map[Rule]int{}
	for _, r := range records {
		if rule := f.Check(r); rule != RuleNone {
			rejected[rule]++
			continue
		}
		kept = append(kept, r)
	}
	return kept, rejected
}
