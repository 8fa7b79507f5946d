package primer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairfind/internal/catalog"
	"pairfind/internal/engine"
)

func TestFromCombination(t *testing.T) {
	p := engine.Pair{
		Name:    "F1_R1",
		Forward: catalog.Record{ID: "F1", Sequence: "ACGTACGTACGTACGTACGT", Start: 100, End: 120},
		Reverse: catalog.Record{ID: "R1", Sequence: "TTGCAACGTTGCAACGTTGC", Start: 380, End: 400},
	}
	got := FromCombination(p, 10)
	assert.Equal(t, Pair{ID: "F1_R1", Forward: p.Forward.Sequence, Reverse: p.Reverse.Sequence, MinProduct: 290, MaxProduct: 310}, got)
	assert.Equal(t, 0, FromCombination(p, 1000).MinProduct)
}

func TestWriteThenRead(t *testing.T) {
	list := []Pair{
		{ID: "a", Forward: "ACGT", Reverse: "TTGG", MinProduct: 10, MaxProduct: 20},
		{ID: "b", Forward: "GGCC", Reverse: "AATT"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, list))
	got, err := Read(&buf, "buf")
	require.NoError(t, err)
	assert.Equal(t, list, got)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader("a ACGT TTGG 10\n"), "x")
	assert.ErrorContains(t, err, "x:1 bad field count")
	_, err = Read(strings.NewReader("# c\n\na ACGT TTGG ten 20\n"), "x")
	assert.ErrorContains(t, err, "x:3 bad min product")
}
