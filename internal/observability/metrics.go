package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "forecast_digest"

// Metrics holds the Prometheus counters, histograms, and gauges for the digest service.
type Metrics struct {
	FeedsConsumed    prometheus.Counter
	DigestsProduced  prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge
	DaysPerDigest    prometheus.Histogram
	CrisisSignals    *prometheus.CounterVec // labels: outcome={notified,duplicate,error}
	NotifierFailures *prometheus.CounterVec // labels: notifier

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Upstream weather source metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,upstream_error,error}
	UpstreamDuration prometheus.Histogram
	FeedCache        *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.FeedsConsumed,
		m.DigestsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.DaysPerDigest,
		m.CrisisSignals,
		m.NotifierFailures,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.FeedCache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		FeedsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feeds_consumed_total",
			Help:      help("Total forecast feeds read from the source topic."),
		}),
		DigestsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_produced_total",
			Help:      help("Total daily digests written to the sink topic."),
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      help("Total feeds that could not be digested."),
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 when the pipeline is active, 0 when shut down."),
		}),
		DaysPerDigest: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "days_per_digest",
			Help:      help("Number of daily entries in each produced digest."),
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 10, 16},
		}),
		CrisisSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crisis_signals_total",
			Help:      help("Crisis signals seen by the dispatcher, by outcome."),
		}, []string{"outcome"}),
		NotifierFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifier_failures_total",
			Help:      help("Crisis notification failures by notifier."),
		}, []string{"notifier"}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      help("Number of feeds per batch extracted from Kafka."),
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      help("Duration of a complete batch extract-transform-load cycle."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      help("Weather data source requests by outcome."),
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      help("Weather data source request duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_total",
			Help:      help("Feed cache lookups by result."),
		}, []string{"result"}),
	}
}
