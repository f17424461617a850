package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the event pipeline.
type Metrics struct {
	EventsPublished *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec

	EventsProcessed *prometheus.CounterVec
	ProcessFailures *prometheus.CounterVec
	PoisonMessages  *prometheus.CounterVec
	DedupSkipped    *prometheus.CounterVec
	DeadLettered    *prometheus.CounterVec

	AggregateLatency *prometheus.HistogramVec
	ArchiveBatchSize prometheus.Histogram
}

// New creates and registers all pipeline metrics under the namespace on
// the default registry.
func New(namespace string) *Metrics {
	return NewWith(namespace, prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a specific registry. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func NewWith(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Total number of events handed off to the bus",
			},
			[]string{"event_type"},
		),
		PublishFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "publish_failures_total",
				Help:      "Total number of failed publish attempts",
			},
			[]string{"event_type"},
		),
		EventsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_processed_total",
				Help:      "Total number of events aggregated and acked",
			},
			[]string{"event_type"},
		),
		ProcessFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "process_failures_total",
				Help:      "Total number of transient aggregation failures (nacked)",
			},
			[]string{"event_type"},
		),
		PoisonMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poison_messages_total",
				Help:      "Total number of undecodable or invalid messages dropped",
			},
			[]string{"event_type"},
		),
		DedupSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dedup_skipped_total",
				Help:      "Total number of duplicate events skipped by the dedup guard",
			},
			[]string{"event_type"},
		),
		DeadLettered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dead_lettered_total",
				Help:      "Total number of messages routed to the dead-letter list",
			},
			[]string{"event_type"},
		),
		AggregateLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "aggregate_latency_seconds",
				Help:      "Latency of counter upserts per event",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),
		ArchiveBatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "archive_batch_size",
				Help:      "Number of events per archive insert batch",
				Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000},
			},
		),
	}
}
