package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pairfind/internal/pipeline"
)

const namespace = "pairfind"

// Metrics counts what a run kept and why it rejected the rest. Every
// rejected row, primer or pair lands in exactly one labelled series.
type Metrics struct {
	registry *prometheus.Registry

	// CatalogDropped counts input rows discarded while loading, by reason.
	CatalogDropped *prometheus.CounterVec
	// PrimersRejected counts primers failing the quality filter, by rule.
	PrimersRejected *prometheus.CounterVec
	// PairsEvaluated counts candidate pairs examined, by round.
	PairsEvaluated *prometheus.CounterVec
	// PairsAccepted counts candidate pairs accepted, by round.
	PairsAccepted *prometheus.CounterVec
	// PairsRejected counts candidate pairs rejected, by round and rule.
	PairsRejected *prometheus.CounterVec
	// WindowsSkipped counts outer pairs too short for the inner margin.
	WindowsSkipped prometheus.Counter
	// RegionExcluded counts retained pairs left out of the region table.
	RegionExcluded prometheus.Counter
	// Duplicates counts rows removed by deduplication, by table.
	Duplicates *prometheus.CounterVec
	// Exported counts rows written, by table.
	Exported *prometheus.CounterVec
	// RunSeconds is the wall time of the last run.
	RunSeconds prometheus.Gauge
}

// NewMetrics registers all series on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CatalogDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "catalog", Name: "rows_dropped_total",
			Help: "Input rows dropped while loading the catalog.",
		}, []string{"reason"}),
		PrimersRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "quality", Name: "primers_rejected_total",
			Help: "Primers rejected by the quality filter.",
		}, []string{"rule"}),
		PairsEvaluated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "search", Name: "pairs_evaluated_total",
			Help: "Candidate primer pairs evaluated.",
		}, []string{"round"}),
		PairsAccepted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "search", Name: "pairs_accepted_total",
			Help: "Candidate primer pairs accepted.",
		}, []string{"round"}),
		PairsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "search", Name: "pairs_rejected_total",
			Help: "Candidate primer pairs rejected, by the first rule violated.",
		}, []string{"round", "rule"}),
		WindowsSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "nested", Name: "windows_skipped_total",
			Help: "Outer amplicons whose inner window was empty.",
		}),
		RegionExcluded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "export", Name: "region_excluded_total",
			Help: "Retained combinations outside every configured region.",
		}),
		Duplicates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "export", Name: "duplicates_dropped_total",
			Help: "Rows removed by keep-first deduplication.",
		}, []string{"table"}),
		Exported: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "export", Name: "rows_total",
			Help: "Rows written per output table.",
		}, []string{"table"}),
		RunSeconds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help: "Wall time of the run.",
		}),
	}
}

// Registry exposes the private registry, e.g. for testutil.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordRun folds the stage counters of res into the metrics.
func (m *Metrics) RecordRun(res pipeline.Result) {
	st := res.Stats
	for reason, n := range st.Catalog.Dropped {
		m.CatalogDropped.WithLabelValues(string(reason)).Add(float64(n))
	}
	for rule, n := range st.Quality {
		m.PrimersRejected.WithLabelValues(string(rule)).Add(float64(n))
	}

	outerRound := "single"
	if res.RunNested {
		outerRound = "outer"
	}
	m.PairsEvaluated.WithLabelValues(outerRound).Add(float64(st.Outer.Evaluated))
	m.PairsAccepted.WithLabelValues(outerRound).Add(float64(st.Outer.Accepted))
	for rule, n := range st.Outer.Rejected {
		m.PairsRejected.WithLabelValues(outerRound, string(rule)).Add(float64(n))
	}
	if res.RunNested {
		m.PairsEvaluated.WithLabelValues("inner").Add(float64(st.Inner.Pairs.Evaluated))
		m.PairsAccepted.WithLabelValues("inner").Add(float64(st.Inner.Pairs.Accepted))
		for rule, n := range st.Inner.Pairs.Rejected {
			m.PairsRejected.WithLabelValues("inner", string(rule)).Add(float64(n))
		}
		m.WindowsSkipped.Add(float64(st.Inner.SkippedWindow))
	}
	for table, n := range st.Duplicates {
		m.Duplicates.WithLabelValues(table).Add(float64(n))
	}
	all := res.All()
	m.RegionExcluded.Add(float64(len(all) - len(res.Regional())))
}

// RecordExport counts rows written to table.
func (m *Metrics) RecordExport(table string, rows int) {
	m.Exported.WithLabelValues(table).Add(float64(rows))
}

// WriteTextfile writes every series in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
