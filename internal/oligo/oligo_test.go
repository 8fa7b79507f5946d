package oligo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	s, err := Validate(" acg t'N ")
	require.NoError(t, err)
	assert.Equal(t, "ACGTN", s)

	_, err = Validate("ACGX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base")

	_, err = Validate("  ")
	require.Error(t, err)
}

func TestGCPercent(t *testing.T) {
	tests := []struct {
		seq  string
		want float64
	}{
		{"", 0},
		{"GGCC", 100},
		{"ACGTACGTACGTACGTACGT", 50},
		{"ACG", 66.67},
		{"AAT", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, GCPercent(tc.seq), tc.seq)
	}
}

func TestMaxHomopolymer(t *testing.T) {
	assert.Equal(t, 0, MaxHomopolymer(""))
	assert.Equal(t, 1, MaxHomopolymer("ACGT"))
	assert.Equal(t, 4, MaxHomopolymer("ACGGGGT"))
	assert.Equal(t, 5, MaxHomopolymer("TTTTTACCC"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.3, Round2(0.1+0.2))
	assert.Equal(t, 5.26, Round2(5.2551))
}
