// Package metrics defines the Prometheus collectors shared by logship
// components. Collectors register against the default registry so that
// any promhttp handler exposes them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "logship"

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Total records processed by result.",
		},
		[]string{"topic", "result"},
	)
	BatchesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_sent_total",
			Help:      "Total batches delivered per topic.",
		},
		[]string{"topic"},
	)
	SendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "send_errors_total",
			Help:      "Total errors by stage.",
		},
		[]string{"stage"},
	)
	SendLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_latency_seconds",
			Help:      "Intake delivery latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	PayloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payload_bytes",
			Help:      "Encoded payload size in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
	)
	BatchesPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batches_pending",
			Help:      "Batches accumulated but not yet attempted.",
		},
	)
	RecordsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Records dropped from payloads, e.g. tombstones.",
		},
		[]string{"topic"},
	)
	LastOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_offset",
			Help:      "Last committed offset per topic/partition.",
		},
		[]string{"topic", "partition"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsTotal,
		BatchesSentTotal,
		SendErrorsTotal,
		SendLatency,
		PayloadBytes,
		BatchesPending,
		RecordsSkippedTotal,
		LastOffset,
	)
}
