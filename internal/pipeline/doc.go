// Package pipeline drives one search run: quality filter, outer (or single)
// round, optional inner round, then keep-first deduplication of every table.
//
// Run owns the result collection; the engine and nested composer only hand
// back slices, so nothing is shared between workers.
package pipeline
