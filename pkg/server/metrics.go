package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "fluorine"

// metrics holds the server's Prometheus instruments.
type metrics struct {
	editsTotal     *prometheus.CounterVec
	editDuration   prometheus.Histogram
	patchesSent    prometheus.Counter
	pushesSkipped  prometheus.Counter
	activeSessions prometheus.Gauge
}

// newMetrics registers the server's instruments with reg.
//
// fluorine_pushes_skipped_total counts sessions whose render effect was
// clean at push time, which is the externally visible measure of the
// memoization runtime doing its job.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		editsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "edits_total",
			Help:      "Total number of cell edits processed, by status.",
		}, []string{"status"}),

		editDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "edit_duration_seconds",
			Help:      "Edit processing duration, including re-evaluation and push.",
			Buckets:   prometheus.DefBuckets,
		}),

		patchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "patches_sent_total",
			Help:      "Total number of sheet patches pushed to clients.",
		}),

		pushesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pushes_skipped_total",
			Help:      "Pushes skipped because the session's render effect was clean.",
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Number of connected WebSocket sessions.",
		}),
	}
}
