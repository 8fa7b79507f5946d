package pipeline

import "pairfind/internal/engine"

// Key extracts the identity a table deduplicates on.
type Key func(engine.Pair) string

// ByName keys single, outer and inner tables.
func ByName(p engine.Pair) string { return p.Name }

// ByLink keys the outer→inner link table.
func ByLink(p engine.Pair) string { return p.LinkKey() }

// Dedup keeps the first pair seen for every key, preserving order, and
// reports how many later duplicates were dropped.
func Dedup(pairs []engine.Pair, key Key) ([]engine.Pair, int) {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]engine.Pair, 0, len(pairs))
	for _, p := range pairs {
		k := key(p)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out, len(pairs) - len(out)
}
