package catalog

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when no usable primer survives loading or filtering.
var ErrEmptyCatalog = errors.New("catalog is empty")

// MissingFieldError reports a required column absent from an input table.
type MissingFieldError struct {
	Table string // "mapping" or "metadata"
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s table: missing required column %q", e.Table, e.Field)
}

// DropReason names why a single input row was discarded.
type DropReason string

const (
	DropShortRow           DropReason = "short_row"
	DropBadNumber          DropReason = "bad_number"
	DropBadCoordinates     DropReason = "bad_coordinates"
	DropBadTmRange         DropReason = "bad_tm_range"
	DropBadSequence        DropReason = "bad_sequence"
	DropMissingGenotype    DropReason = "missing_genotype"
	DropUnknownOrientation DropReason = "unknown_orientation"
	DropNoMetadata         DropReason = "no_metadata"
	DropDuplicateMetadata  DropReason = "duplicate_metadata"
)
