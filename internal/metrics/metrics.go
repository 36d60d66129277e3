// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	global *Metrics
	once   sync.Once
)

// Metrics holds every collector the assessor exports.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	SnapshotsSavedTotal  prometheus.Counter
	TrendSkippedTotal    *prometheus.CounterVec
	LatestOverallPercent prometheus.Gauge
}

// New registers the collectors with the default registry once and returns
// the shared instance on every later call.
//
//   - assessor_http_requests_total{method,route,status}
//   - assessor_http_request_duration_seconds{method,route}
//   - assessor_store_operations_total{backend,operation,outcome}
//   - assessor_store_operation_duration_seconds{backend,operation}
//   - assessor_snapshots_saved_total
//   - assessor_trend_skipped_total{reason}
//   - assessor_latest_overall_percent
func New() *Metrics {
	once.Do(func() {
		global = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "assessor_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "assessor_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			StoreOperationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "assessor_store_operations_total",
					Help: "Total number of snapshot store operations",
				},
				[]string{"backend", "operation", "outcome"}, // outcome: ok, not_found, error
			),
			StoreOperationDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "assessor_store_operation_duration_seconds",
					Help:    "Duration of snapshot store operations in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"backend", "operation"},
			),
			SnapshotsSavedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "assessor_snapshots_saved_total",
				Help: "Total number of snapshots appended",
			}),
			TrendSkippedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "assessor_trend_skipped_total",
					Help: "Snapshots left out of a trend series",
				},
				[]string{"reason"},
			),
			LatestOverallPercent: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "assessor_latest_overall_percent",
				Help: "Overall maturity percentage of the most recently saved complete snapshot",
			}),
		}
	})
	return global
}
