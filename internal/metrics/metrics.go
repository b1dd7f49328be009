// Package metrics registers the Prometheus instruments for the notice
// pipeline and serves them when the job runs as a daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NoticesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notices",
		Name:      "fetched_total",
		Help:      "Raw notices returned by the search API",
	})

	RecordsAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notices",
		Name:      "records_added_total",
		Help:      "Records inserted into an archive for the first time",
	}, []string{"body"})

	RecordsUpdated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notices",
		Name:      "records_updated_total",
		Help:      "Existing archive records refreshed by a batch",
	}, []string{"body"})

	ExtractionMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notices",
		Name:      "extraction_misses_total",
		Help:      "Notices where a field pattern did not match",
	}, []string{"field"})

	ThumbnailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "notices",
		Name:      "thumbnail_failures_total",
		Help:      "Per-notice thumbnail generation failures",
	})

	LastRunUnix = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "notices",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time of the last completed reconciliation pass",
	})

	RunDuration = promauto.NewSummary(prometheus.SummaryOpts{
		Namespace: "notices",
		Name:      "run_duration_seconds",
		Help:      "Time spent on one full pipeline pass",
	})
)

// Handler exposes the default registry for a /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
