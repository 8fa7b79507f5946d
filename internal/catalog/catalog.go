// Package catalog loads the primer mapping and metadata tables and joins
// them into immutable primer records.
package catalog

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"pairfind/internal/oligo"
)

// Stats summarises a load.
type Stats struct {
	MappingRows  int
	MetadataRows int
	Records      int
	Conflicts    int // duplicate metadata ids whose sequence disagreed
	Dropped      map[DropReason]int
}

// DroppedTotal sums all dropped rows.
func (s Stats) DroppedTotal() int {
	n := 0
	for _, v := range s.Dropped {
		n += v
	}
	return n
}

// Catalog is the in-memory, read-only set of primer records.
type Catalog struct {
	records []Record
	stats   Stats
}

// New wraps already-built records. Used by tests and by Filter.
func New(records []Record) *Catalog {
	return &Catalog{records: records, stats: Stats{Records: len(records), Dropped: map[DropReason]int{}}}
}

func (c *Catalog) Records() []Record { return c.records }
func (c *Catalog) Len() int          { return len(c.records) }
func (c *Catalog) Stats() Stats      { return c.stats }

// Split partitions records by orientation, preserving load order.
func (c *Catalog) Split() (forwards, reverses []Record) {
	for _, r := range c.records {
		switch r.Orientation {
		case Forward:
			forwards = append(forwards, r)
		case Reverse:
			reverses = append(reverses, r)
		}
	}
	return forwards, reverses
}

// Filter returns a catalog holding only the records keep accepts.
func (c *Catalog) Filter(keep func(Record) bool) *Catalog {
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	f := New(out)
	f.stats.MappingRows = c.stats.MappingRows
	f.stats.MetadataRows = c.stats.MetadataRows
	return f
}

// Load opens both tables and calls Read.
func Load(mappingPath, metadataPath string, log zerolog.Logger) (*Catalog, error) {
	mf, err := os.Open(mappingPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	df, err := os.Open(metadataPath)
	if err != nil {
		return nil, err
	}
	defer df.Close()

	c, err := Read(mf, df, log)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("mapping", mappingPath).
		Str("metadata", metadataPath).
		Int("records", c.stats.Records).
		Int("dropped", c.stats.DroppedTotal()).
		Msg("catalog loaded")
	return c, nil
}

type meta struct {
	seq         string
	tmMin       float64
	tmMax       float64
	gc          float64
	homopolymer int
	orientation Orientation
}

func normID(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Read parses and joins a mapping and a metadata table. A missing required
// column is fatal; a malformed row is dropped and counted.
func Read(mapping, metadata io.Reader, log zerolog.Logger) (*Catalog, error) {
	mt, err := readTable(mapping, "mapping", MappingColumns)
	if err != nil {
		return nil, err
	}
	dt, err := readTable(metadata, "metadata", MetadataColumns)
	if err != nil {
		return nil, err
	}

	st := Stats{
		MappingRows:  len(mt.rows),
		MetadataRows: len(dt.rows),
		Dropped:      map[DropReason]int{},
	}
	drop := func(t *table, r row, why DropReason, detail string) {
		st.Dropped[why]++
		ev := log.Warn()
		if why == DropNoMetadata || why == DropDuplicateMetadata {
			ev = log.Debug()
		}
		ev.Str("table", t.name).Int("line", r.line).Str("reason", string(why)).Msg(detail)
	}

	metas := readMetadata(dt, drop, &st, log)

	var (
		iPrimer = mt.col("Primer")
		iRef    = mt.col("Reference")
		iGeno   = mt.col("Genotype")
		iStart  = mt.col("Start")
		iEnd    = mt.col("End")
		iOrient = mt.col(colOrientation)
	)
	records := make([]Record, 0, len(mt.rows))
	for _, r := range mt.rows {
		id, ok1 := r.get(iPrimer)
		ref, ok2 := r.get(iRef)
		geno, ok3 := r.get(iGeno)
		sStart, ok4 := r.get(iStart)
		sEnd, ok5 := r.get(iEnd)
		if !(ok1 && ok2 && ok3 && ok4 && ok5) {
			drop(mt, r, DropShortRow, "row has fewer cells than the header")
			continue
		}
		id = normID(id)
		start, errS := strconv.Atoi(sStart)
		end, errE := strconv.Atoi(sEnd)
		if errS != nil || errE != nil {
			drop(mt, r, DropBadNumber, fmt.Sprintf("primer %s: non-integer Start/End %q/%q", id, sStart, sEnd))
			continue
		}
		if start >= end {
			drop(mt, r, DropBadCoordinates, fmt.Sprintf("primer %s: Start %d is not below End %d", id, start, end))
			continue
		}
		if geno == "" {
			drop(mt, r, DropMissingGenotype, fmt.Sprintf("primer %s: empty Genotype", id))
			continue
		}
		m, ok := metas[id]
		if !ok {
			drop(mt, r, DropNoMetadata, fmt.Sprintf("primer %s: no metadata row", id))
			continue
		}

		orient := OrientationUnknown
		if v, ok := r.get(iOrient); ok && v != "" {
			orient, _ = ParseOrientation(v)
		}
		if orient == OrientationUnknown {
			orient = m.orientation
		}
		if orient == OrientationUnknown {
			orient = OrientationFromID(id)
		}
		if orient == OrientationUnknown {
			drop(mt, r, DropUnknownOrientation, fmt.Sprintf("primer %s: orientation not given and not inferable from the id", id))
			continue
		}

		if strings.EqualFold(geno, GenotypeAll) {
			geno = GenotypeAll
		}
		records = append(records, Record{
			ID:          id,
			Sequence:    m.seq,
			Orientation: orient,
			Reference:   ref,
			Genotype:    geno,
			Start:       start,
			End:         end,
			TmMin:       m.tmMin,
			TmMax:       m.tmMax,
			GC:          m.gc,
			Homopolymer: m.homopolymer,
		})
	}
	st.Records = len(records)
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{records: records, stats: st}, nil
}

func readMetadata(dt *table, drop func(*table, row, DropReason, string), st *Stats, log zerolog.Logger) map[string]meta {
	var (
		iPrimer = dt.col("Primer")
		iSeq    = dt.col("Sequence")
		iTmMin  = dt.col("Tm_min")
		iTmMax  = dt.col("Tm_max")
		iGC     = dt.col(colGC)
		iHomo   = dt.col(colHomopolymer)
		iOrient = dt.col(colOrientation)
	)
	out := make(map[string]meta, len(dt.rows))
	for _, r := range dt.rows {
		id, ok1 := r.get(iPrimer)
		rawSeq, ok2 := r.get(iSeq)
		sMin, ok3 := r.get(iTmMin)
		sMax, ok4 := r.get(iTmMax)
		if !(ok1 && ok2 && ok3 && ok4) {
			drop(dt, r, DropShortRow, "row has fewer cells than the header")
			continue
		}
		id = normID(id)
		seq, err := oligo.Validate(rawSeq)
		if err != nil {
			drop(dt, r, DropBadSequence, fmt.Sprintf("primer %s: %v", id, err))
			continue
		}
		if prev, dup := out[id]; dup {
			if prev.seq != seq {
				st.Conflicts++
				log.Warn().
					Str("primer", id).
					Int("line", r.line).
					Str("kept", prev.seq).
					Str("ignored", seq).
					Msg("duplicate primer id with conflicting sequence; keeping first occurrence")
			}
			drop(dt, r, DropDuplicateMetadata, fmt.Sprintf("primer %s: duplicate metadata row", id))
			continue
		}
		tmMin, errA := strconv.ParseFloat(sMin, 64)
		tmMax, errB := strconv.ParseFloat(sMax, 64)
		if errA != nil || errB != nil {
			drop(dt, r, DropBadNumber, fmt.Sprintf("primer %s: non-numeric Tm_min/Tm_max %q/%q", id, sMin, sMax))
			continue
		}
		if tmMin > tmMax {
			drop(dt, r, DropBadTmRange, fmt.Sprintf("primer %s: Tm_min %.2f exceeds Tm_max %.2f", id, tmMin, tmMax))
			continue
		}

		m := meta{seq: seq, tmMin: tmMin, tmMax: tmMax}
		if v, ok := r.get(iGC); ok && v != "" {
			gc, err := strconv.ParseFloat(v, 64)
			if err != nil {
				drop(dt, r, DropBadNumber, fmt.Sprintf("primer %s: non-numeric GC_Content %q", id, v))
				continue
			}
			m.gc = oligo.Round2(gc)
		} else {
			m.gc = oligo.GCPercent(seq)
		}
		if v, ok := r.get(iHomo); ok && v != "" {
			h, err := strconv.Atoi(v)
			if err != nil {
				drop(dt, r, DropBadNumber, fmt.Sprintf("primer %s: non-integer Max_Homopolymer %q", id, v))
				continue
			}
			m.homopolymer = h
		} else {
			m.homopolymer = oligo.MaxHomopolymer(seq)
		}
		if v, ok := r.get(iOrient); ok && v != "" {
			m.orientation, _ = ParseOrientation(v)
		}
		out[id] = m
	}
	return out
}
