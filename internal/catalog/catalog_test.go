package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mappingTSV = "Primer\tReference\tGenotype\tStart\tEnd\n" +
	" f1_f \trefA\tALL\t100\t120\n" +
	"R1_R\trefA\tALL\t400\t420\n"

const metadataTSV = "Primer\tSequence\tTm_min\tTm_max\n" +
	"F1_F\tACGTACGTACGTACGTACGT\t55\t58\n" +
	"r1_r\tacgtacgtacgtacgtacgt\t55\t58\n"

func read(t *testing.T, mapping, metadata string) (*Catalog, error) {
	t.Helper()
	return Read(strings.NewReader(mapping), strings.NewReader(metadata), zerolog.Nop())
}

func TestRead_JoinsAndDerives(t *testing.T) {
	c, err := read(t, mappingTSV, metadataTSV)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	f, r := c.Split()
	require.Len(t, f, 1)
	require.Len(t, r, 1)

	fwd := f[0]
	assert.Equal(t, "F1_F", fwd.ID)
	assert.Equal(t, Forward, fwd.Orientation)
	assert.Equal(t, "refA", fwd.Reference)
	assert.Equal(t, GenotypeAll, fwd.Genotype)
	assert.Equal(t, 100, fwd.Start)
	assert.Equal(t, 120, fwd.End)
	assert.Equal(t, 50.0, fwd.GC)
	assert.Equal(t, 1, fwd.Homopolymer)
	assert.Equal(t, 20, fwd.Length())

	assert.Equal(t, "ACGTACGTACGTACGTACGT", r[0].Sequence)
	assert.Equal(t, Reverse, r[0].Orientation)
}

func TestRead_MissingColumn(t *testing.T) {
	tests := []struct {
		name     string
		mapping  string
		metadata string
		table    string
		field    string
	}{
		{
			name:     "mapping without End",
			mapping:  "Primer\tReference\tGenotype\tStart\nA_F\tr\tALL\t1\n",
			metadata: metadataTSV,
			table:    "mapping",
			field:    "End",
		},
		{
			name:     "metadata without Tm_max",
			mapping:  mappingTSV,
			metadata: "Primer\tSequence\tTm_min\nF1_F\tACGT\t55\n",
			table:    "metadata",
			field:    "Tm_max",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := read(t, tc.mapping, tc.metadata)
			var mfe *MissingFieldError
			require.True(t, errors.As(err, &mfe), "got %v", err)
			assert.Equal(t, tc.table, mfe.Table)
			assert.Equal(t, tc.field, mfe.Field)
		})
	}
}

func TestRead_HeaderIsCaseInsensitive(t *testing.T) {
	mapping := "primer\t REFERENCE \tgenotype\tstart\tend\nA_F\tr\tG1\t1\t20\n"
	metadata := "PRIMER\tsequence\ttm_MIN\tTM_max\nA_F\tACGTACGTACGTACGTACGT\t50\t52\n"
	c, err := read(t, mapping, metadata)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestRead_DropsMalformedRows(t *testing.T) {
	mapping := "Primer\tReference\tGenotype\tStart\tEnd\n" +
		"A_F\tr\tG1\tabc\t20\n" + // bad number
		"B_F\tr\tG1\t30\t10\n" + // start >= end
		"C_F\tr\t\t1\t20\n" + // no genotype
		"D\tr\tG1\t1\t20\n" + // no orientation
		"E_F\tr\tG1\t1\t20\n" + // no metadata
		"G_R\tr\tG1\t1\n" + // short
		"OK_F\tr\tG1\t1\t20\n"
	metadata := "Primer\tSequence\tTm_min\tTm_max\n" +
		"A_F\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"B_F\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"C_F\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"D\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"G_R\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"OK_F\tACGTACGTACGTACGTACGT\t50\t52\n" +
		"X_F\tACGTXX\t50\t52\n" + // bad sequence
		"Y_F\tACGTACGT\tfoo\t52\n" + // bad Tm
		"Z_F\tACGTACGT\t60\t52\n" // inverted Tm
	c, err := read(t, mapping, metadata)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, "OK_F", c.Records()[0].ID)

	st := c.Stats()
	assert.Equal(t, 2, st.Dropped[DropBadNumber])
	assert.Equal(t, 1, st.Dropped[DropBadCoordinates])
	assert.Equal(t, 1, st.Dropped[DropMissingGenotype])
	assert.Equal(t, 1, st.Dropped[DropUnknownOrientation])
	assert.Equal(t, 1, st.Dropped[DropNoMetadata])
	assert.Equal(t, 1, st.Dropped[DropShortRow])
	assert.Equal(t, 1, st.Dropped[DropBadSequence])
	assert.Equal(t, 1, st.Dropped[DropBadTmRange])
	assert.Equal(t, 9, st.DroppedTotal())
}

func TestRead_DuplicateKeepsFirst(t *testing.T) {
	metadata := "Primer\tSequence\tTm_min\tTm_max\n" +
		"F1_F\tACGTACGTACGTACGTACGT\t55\t58\n" +
		"F1_F\tGGGGGGGGGGACGTACGTAC\t40\t41\n" +
		"R1_R\tACGTACGTACGTACGTACGT\t55\t58\n"
	c, err := read(t, mappingTSV, metadata)
	require.NoError(t, err)
	f, _ := c.Split()
	require.Len(t, f, 1)
	assert.Equal(t, "ACGTACGTACGTACGTACGT", f[0].Sequence)
	assert.Equal(t, 55.0, f[0].TmMin)
	assert.Equal(t, 1, c.Stats().Conflicts)
}

func TestRead_OptionalColumns(t *testing.T) {
	mapping := "Primer\tReference\tGenotype\tStart\tEnd\tOrientation\nP1\tr\tall\t1\t20\tR\n"
	metadata := "Primer\tSequence\tTm_min\tTm_max\tGC_Content\tMax_Homopolymer\nP1\tACGTACGTACGTACGTACGT\t50\t52\t47.123\t3\n"
	c, err := read(t, mapping, metadata)
	require.NoError(t, err)
	rec := c.Records()[0]
	assert.Equal(t, Reverse, rec.Orientation)
	assert.Equal(t, GenotypeAll, rec.Genotype)
	assert.Equal(t, 47.12, rec.GC)
	assert.Equal(t, 3, rec.Homopolymer)
}

func TestRead_EmptyCatalog(t *testing.T) {
	_, err := read(t, "Primer\tReference\tGenotype\tStart\tEnd\n", metadataTSV)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestLoad_Files(t *testing.T) {
	dir := t.TempDir()
	mp := filepath.Join(dir, "mapping.tsv")
	md := filepath.Join(dir, "metadata.tsv")
	require.NoError(t, os.WriteFile(mp, []byte(mappingTSV), 0o644))
	require.NoError(t, os.WriteFile(md, []byte(metadataTSV), 0o644))

	c, err := Load(mp, md, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = Load(filepath.Join(dir, "nope.tsv"), md, zerolog.Nop())
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	c, err := read(t, mappingTSV, metadataTSV)
	require.NoError(t, err)
	only := c.Filter(func(r Record) bool { return r.Orientation == Forward })
	assert.Equal(t, 1, only.Len())
	assert.Equal(t, 2, only.Stats().MappingRows)
}

func TestGenotypeCompatible(t *testing.T) {
	assert.True(t, GenotypeCompatible("G1", "G1"))
	assert.True(t, GenotypeCompatible("ALL", "G1"))
	assert.True(t, GenotypeCompatible("G2", "ALL"))
	assert.False(t, GenotypeCompatible("G1", "G2"))
}

func TestOrientationParsing(t *testing.T) {
	o, ok := ParseOrientation(" forward ")
	assert.True(t, ok)
	assert.Equal(t, Forward, o)
	_, ok = ParseOrientation("sideways")
	assert.False(t, ok)
	assert.Equal(t, Reverse, OrientationFromID("abc_r"))
	assert.Equal(t, OrientationUnknown, OrientationFromID("abc"))
}

func TestOrientationFromID(t *testing.T) {
	tests := []struct {
		id   string
		want Orientation
	}{
		{"NS1_F", Forward},
		{"ns1_r", Reverse},
		{"F1", Forward},
		{"R1", Reverse},
		{"r_ns3", Reverse},
		{"NS5-2F", Forward},
		{"NS5.2R", Reverse},
		{"F", OrientationUnknown},
		{"REF", OrientationUnknown},
		{"FOO1", OrientationUnknown},
		{"D", OrientationUnknown},
		{"", OrientationUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrientationFromID(tt.id), tt.id)
	}
}

func TestRead_BareIDsWithoutOrientationColumn(t *testing.T) {
	mapping := "Primer\tReference\tGenotype\tStart\tEnd\n" +
		"F1\trefA\tALL\t100\t120\n" +
		"R1\trefA\tALL\t400\t420\n"
	metadata := "Primer\tSequence\tTm_min\tTm_max\n" +
		"F1\tACGTACGTACGTACGTACGT\t55\t58\n" +
		"R1\tACGTACGTACGTACGTACGT\t55\t58\n"
	c, err := read(t, mapping, metadata)
	require.NoError(t, err)
	fwd, rev := c.Split()
	require.Len(t, fwd, 1)
	require.Len(t, rev, 1)
	assert.Equal(t, "F1", fwd[0].ID)
	assert.Equal(t, "R1", rev[0].ID)
	assert.Zero(t, c.Stats().Dropped[DropUnknownOrientation])
}

func TestRead_HeaderWithByteOrderMark(t *testing.T) {
	c, err := read(t, "\ufeff"+mappingTSV, "\ufeff"+metadataTSV)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}
