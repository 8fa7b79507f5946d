package catalog

import "strings"

// GenotypeAll is the genotype wildcard: a record labelled ALL pairs with any genotype.
const GenotypeAll = "ALL"

// Orientation is the strand a primer anneals in.
type Orientation int8

const (
	OrientationUnknown Orientation = iota
	Forward
	Reverse
)

func (o Orientation) String() string {
	switch o {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "unknown"
}

// ParseOrientation accepts F/Forward/+ and R/Reverse/- (case-insensitive).
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FWD", "FORWARD", "+":
		return Forward, true
	case "R", "REV", "REVERSE", "-":
		return Reverse, true
	}
	return OrientationUnknown, false
}

// OrientationFromID infers orientation from the primer id. In order:
// an _F / _R suffix (NS1_F), a bare trailing F / R after a non-letter
// (NS1-2F), a leading F / R before a non-letter (F1, R_NS3).
func OrientationFromID(id string) Orientation {
	u := strings.ToUpper(strings.TrimSpace(id))
	switch {
	case strings.HasSuffix(u, "_F"):
		return Forward
	case strings.HasSuffix(u, "_R"):
		return Reverse
	case len(u) < 2:
		return OrientationUnknown
	}
	if !isLetter(u[len(u)-2]) {
		if o, ok := orientationByte(u[len(u)-1]); ok {
			return o
		}
	}
	if !isLetter(u[1]) {
		if o, ok := orientationByte(u[0]); ok {
			return o
		}
	}
	return OrientationUnknown
}

func isLetter(b byte) bool { return b >= 'A' && b <= 'Z' }

func orientationByte(b byte) (Orientation, bool) {
	switch b {
	case 'F':
		return Forward, true
	case 'R':
		return Reverse, true
	}
	return OrientationUnknown, false
}

// Record is one primer placed on one reference. Records are built once by
// the loader and only ever passed by value.
type Record struct {
	ID          string
	Sequence    string
	Orientation Orientation
	Reference   string
	Genotype    string
	Start       int
	End         int
	TmMin       float64
	TmMax       float64
	GC          float64 // percent, two decimals
	Homopolymer int     // longest single-base run
}

// Length is the primer length in nucleotides.
func (r Record) Length() int { return len(r.Sequence) }

// GenotypeCompatible reports whether two genotype labels may be paired.
func GenotypeCompatible(a, b string) bool {
	return a == b || a == GenotypeAll || b == GenotypeAll
}
