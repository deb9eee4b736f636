package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ntm_import"

// Metrics holds the Prometheus counters, histograms, and gauges for the import pipeline.
type Metrics struct {
	BulletinsConsumed prometheus.Counter
	NoticesProduced   prometheus.Counter
	ActiveIDsProduced prometheus.Counter
	TransformErrors   prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Parse diagnostics.
	BulletinsParsed *prometheus.CounterVec // labels: kind={weekly,active}
	SkippedBlocks   prometheus.Counter
	ParseWarnings   prometheus.Counter

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		BulletinsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulletins_consumed_total",
			Help:      "Total bulletin documents read from the source topic.",
		}),
		NoticesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_produced_total",
			Help:      "Total notice templates written to the notice topic.",
		}),
		ActiveIDsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "active_ids_produced_total",
			Help:      "Total active notice identifiers written to the active topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total bulletins that could not be read or named correctly.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BulletinsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulletins_parsed_total",
			Help:      "Bulletins parsed, by bulletin kind.",
		}, []string{"kind"}),
		SkippedBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_blocks_total",
			Help:      "Notice blocks dropped because they were malformed.",
		}),
		ParseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_warnings_total",
			Help:      "Recoverable problems reported while parsing bulletins.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of bulletins per batch extracted from Kafka.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.BulletinsConsumed,
		m.NoticesProduced,
		m.ActiveIDsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BulletinsParsed,
		m.SkippedBlocks,
		m.ParseWarnings,
		m.BatchSize,
		m.BatchProcessingDuration,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
