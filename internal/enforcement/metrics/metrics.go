// Package metrics provides observability for the enforcement cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks refresh activity and feed reads.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	PeriodFailures  *prometheus.CounterVec
	FeedRequests    *prometheus.CounterVec
}

// New creates and registers all enforcement cache metrics.
func New() *Metrics {
	return &Metrics{
		RefreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enforcement_metrics_refresh_total",
			Help: "Snapshot refresh runs by triggering actor",
		}, []string{"actor"}),
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "enforcement_metrics_refresh_duration_seconds",
			Help:    "Duration of full snapshot refresh runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		PeriodFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enforcement_metrics_period_failures_total",
			Help: "Per-period snapshot computation or persistence failures",
		}, []string{"period"}),
		FeedRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enforcement_activity_feed_requests_total",
			Help: "Activity feed reads by filter",
		}, []string{"filter"}),
	}
}

// ObserveRefresh records one completed refresh run.
func (m *Metrics) ObserveRefresh(actor string, start time.Time) {
	m.RefreshTotal.WithLabelValues(actor).Inc()
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

// IncrementPeriodFailure records a failed period within a refresh run.
func (m *Metrics) IncrementPeriodFailure(period string) {
	m.PeriodFailures.WithLabelValues(period).Inc()
}

// IncrementFeedRequest records an activity feed read.
func (m *Metrics) IncrementFeedRequest(filter string) {
	m.FeedRequests.WithLabelValues(filter).Inc()
}
