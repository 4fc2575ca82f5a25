// Package metrics exposes the master's transaction counters as Prometheus
// collectors: how many breaks, retries and timeouts it issues, and how
// long measurements take. Grounded on the pack's Prometheus-reporting
// tools (a batch const-metric gather/serialize), adapted here to live
// counters/histogram a long-running master updates as it runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every metric the engine and measurement procedure
// update. Register it with a prometheus.Registerer once per process.
type Collector struct {
	Transactions       *prometheus.CounterVec
	Breaks             prometheus.Counter
	InnerRetries       prometheus.Counter
	OuterRetries       prometheus.Counter
	Timeouts           prometheus.Counter
	CRCFailures        prometheus.Counter
	MeasurementLatency prometheus.Histogram
}

// New builds an unregistered Collector. Transactions is labeled by
// command-kind name and outcome ("ok" or "error") so a dashboard can break
// down failure rate per command.
func New() *Collector {
	return &Collector{
		Transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "transactions_total",
			Help:      "SDI-12 transactions by command kind and outcome.",
		}, []string{"kind", "outcome"}),
		Breaks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "breaks_total",
			Help:      "Break signals sent before a command.",
		}),
		InnerRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "inner_retries_total",
			Help:      "Fast retries performed without re-breaking.",
		}),
		OuterRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "outer_retries_total",
			Help:      "Retries that re-broke the bus.",
		}),
		Timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "timeouts_total",
			Help:      "Response timeouts, start or end.",
		}),
		CRCFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sdi12",
			Name:      "crc_failures_total",
			Help:      "CRC-variant responses that failed verification.",
		}),
		MeasurementLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sdi12",
			Name:      "measurement_seconds",
			Help:      "Wall-clock time from start-measurement to last SendData value.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

// MustRegister registers every metric in the collector against reg.
func (c *Collector) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		c.Transactions,
		c.Breaks,
		c.InnerRetries,
		c.OuterRetries,
		c.Timeouts,
		c.CRCFailures,
		c.MeasurementLatency,
	)
}
