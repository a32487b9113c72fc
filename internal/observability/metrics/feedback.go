package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FeedbackMetrics contains Prometheus metrics for the feedback domain:
// correction intake, export streaming and stats queries.
type FeedbackMetrics struct {
	registry *prometheus.Registry

	correctionsSavedTotal prometheus.Counter
	adjustmentsSavedTotal prometheus.Counter
	correctionSaveErrors  prometheus.Counter
	exportRequestsTotal   *prometheus.CounterVec
	exportedRecordsTotal  *prometheus.CounterVec
	statsQueriesTotal     prometheus.Counter
	taxonomyEntriesLoaded prometheus.Gauge

	collectors []prometheus.Collector
}

// NewFeedbackMetrics creates and registers new feedback domain metrics
func NewFeedbackMetrics(registry *prometheus.Registry) (*FeedbackMetrics, error) {
	m := &FeedbackMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *FeedbackMetrics) initMetrics() {
	m.correctionsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedback_corrections_saved_total",
		Help: "Total number of corrections stored",
	})

	m.adjustmentsSavedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedback_adjustments_saved_total",
		Help: "Total number of ingredient adjustments stored",
	})

	m.correctionSaveErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedback_correction_save_errors_total",
		Help: "Total number of failed correction saves",
	})

	m.exportRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_export_requests_total",
			Help: "Total number of export requests",
		},
		[]string{"format", "status"},
	)

	m.exportedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_exported_records_total",
			Help: "Total number of correction records streamed to exports",
		},
		[]string{"format"},
	)

	m.statsQueriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feedback_stats_queries_total",
		Help: "Total number of stats queries served",
	})

	m.taxonomyEntriesLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "feedback_taxonomy_entries",
		Help: "Number of dish taxonomy entries loaded at startup",
	})

	m.collectors = []prometheus.Collector{
		m.correctionsSavedTotal,
		m.adjustmentsSavedTotal,
		m.correctionSaveErrors,
		m.exportRequestsTotal,
		m.exportedRecordsTotal,
		m.statsQueriesTotal,
		m.taxonomyEntriesLoaded,
	}
}

// Describe implements the Collector interface
func (m *FeedbackMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *FeedbackMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordCorrectionSaved records a stored correction and its adjustment count
func (m *FeedbackMetrics) RecordCorrectionSaved(adjustments int) {
	m.correctionsSavedTotal.Inc()
	m.adjustmentsSavedTotal.Add(float64(adjustments))
}

// RecordCorrectionSaveError records a failed correction save
func (m *FeedbackMetrics) RecordCorrectionSaveError() {
	m.correctionSaveErrors.Inc()
}

// RecordExportRequest records an export request and its outcome
func (m *FeedbackMetrics) RecordExportRequest(format, status string) {
	m.exportRequestsTotal.WithLabelValues(format, status).Inc()
}

// RecordExportedRecords records the number of records streamed in one export
func (m *FeedbackMetrics) RecordExportedRecords(format string, count int) {
	m.exportedRecordsTotal.WithLabelValues(format).Add(float64(count))
}

// RecordStatsQuery records a served stats query
func (m *FeedbackMetrics) RecordStatsQuery() {
	m.statsQueriesTotal.Inc()
}

// SetTaxonomyEntries records the size of the loaded taxonomy reference table
func (m *FeedbackMetrics) SetTaxonomyEntries(count int64) {
	m.taxonomyEntriesLoaded.Set(float64(count))
}
