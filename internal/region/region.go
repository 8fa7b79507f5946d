// Package region classifies genomic intervals into configured named regions.
package region

import (
	"fmt"
	"strings"
)

// Region is a named half-open interval [Start, End) on the reference.
type Region struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Start int    `json:"start" yaml:"start" mapstructure:"start"`
	End   int    `json:"end" yaml:"end" mapstructure:"end"`
}

// Contains reports whether [start, end) lies wholly inside r.
func (r Region) Contains(start, end int) bool {
	return r.Start <= start && end <= r.End
}

// Classify returns the first region, in configured order, containing
// [start, end). ok is false when none does.
func Classify(start, end int, regions []Region) (name string, ok bool) {
	for _, r := range regions {
		if r.Contains(start, end) {
			return r.Name, true
		}
	}
	return "", false
}

// Validate checks names, bounds and that no two regions overlap.
func Validate(regions []Region) error {
	seen := make(map[string]struct{}, len(regions))
	for i, r := range regions {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return fmt.Errorf("region %d: empty name", i+1)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("region %q: defined twice", name)
		}
		seen[name] = struct{}{}
		if r.Start < 0 || r.Start >= r.End {
			return fmt.Errorf("region %q: start %d must be >= 0 and below end %d", name, r.Start, r.End)
		}
		for _, o := range regions[:i] {
			if r.Start < o.End && o.Start < r.End {
				return fmt.Errorf("region %q [%d,%d) overlaps %q [%d,%d)", name, r.Start, r.End, o.Name, o.Start, o.End)
			}
		}
	}
	return nil
}
