package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairfind/internal/catalog"
	"pairfind/internal/engine"
	"pairfind/internal/nested"
	"pairfind/internal/pipeline"
	"pairfind/internal/quality"
)

func nestedResult() pipeline.Result {
	return pipeline.Result{
		RunNested: true,
		Outer: []engine.Pair{
			{Name: "F1_R1", Region: "NS1", Round: engine.RoundOuter},
			{Name: "F1_R2", Round: engine.RoundOuter},
		},
		Inner: []engine.Pair{{Name: "F2_R2", Outer: "F1_R1", Region: "NS1", Round: engine.RoundInner}},
		Stats: pipeline.Stats{
			Catalog: catalog.Stats{Dropped: map[catalog.DropReason]int{catalog.DropBadNumber: 2}},
			Quality: map[quality.Rule]int{quality.RuleGC: 3},
			Outer:   engine.Stats{Evaluated: 10, Accepted: 2, Rejected: map[engine.Rule]int{engine.RuleDistance: 5, engine.RuleLength: 3}},
			Inner: nested.Stats{
				SkippedWindow: 1,
				Pairs:         engine.Stats{Evaluated: 4, Accepted: 1, Rejected: map[engine.Rule]int{engine.RuleGCDiff: 3}},
			},
			Duplicates: map[string]int{"inner": 2},
		},
	}
}

func TestRecordRun(t *testing.T) {
	m := NewMetrics()
	m.RecordRun(nestedResult())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogDropped.WithLabelValues("bad_number")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PrimersRejected.WithLabelValues("gc")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.PairsEvaluated.WithLabelValues("outer")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PairsAccepted.WithLabelValues("outer")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.PairsRejected.WithLabelValues("outer", "distance")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PairsRejected.WithLabelValues("inner", "gc_diff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowsSkipped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegionExcluded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Duplicates.WithLabelValues("inner")))

	// every evaluated pair is either accepted or rejected by exactly one rule
	rejected := testutil.ToFloat64(m.PairsRejected.WithLabelValues("outer", "distance")) +
		testutil.ToFloat64(m.PairsRejected.WithLabelValues("outer", "length"))
	assert.Equal(t, testutil.ToFloat64(m.PairsEvaluated.WithLabelValues("outer")),
		rejected+testutil.ToFloat64(m.PairsAccepted.WithLabelValues("outer")))
}

func TestRecordRun_SingleRound(t *testing.T) {
	m := NewMetrics()
	res := nestedResult()
	res.RunNested = false
	m.RecordRun(res)
	assert.Equal(t, 10.0, testutil.ToFloat64(m.PairsEvaluated.WithLabelValues("single")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.WindowsSkipped))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PairsEvaluated))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordRun(nestedResult())
	m.RecordExport("outer", 2)

	path := filepath.Join(t.TempDir(), "pairfind.prom")
	require.NoError(t, m.WriteTextfile(path))
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), `pairfind_search_pairs_rejected_total{round="outer",rule="distance"} 5`)
	assert.Contains(t, string(body), `pairfind_export_rows_total{table="outer"} 2`)
}
