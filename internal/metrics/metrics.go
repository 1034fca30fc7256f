//    GinzaGoServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NAMESPACE = "ginza"
)

// registered once with the default registry; /metrics serves them via promhttp
var (
	IndexBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "index_builds_total",
			Help:      "Search index builds by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "index_build_duration_seconds",
			Help:      "Time spent building a search index",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)

	IndexTokens = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "index_tokens",
			Help:      "Distinct tokens in the live index",
		},
		[]string{"kind"},
	)

	LinesResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "lines_resolved_total",
			Help:      "Line x witness resolutions performed",
		},
	)

	ParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "parse_errors_total",
			Help:      "Lines that could not be parsed, by where the failure surfaced",
		},
		[]string{"stage"},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "searches_total",
			Help:      "Searches by index",
		},
		[]string{"kind"},
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: NAMESPACE,
			Name:      "search_results",
			Help:      "Entries returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 7),
		},
		[]string{"kind"},
	)

	GeometryRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "geometry_recomputes_total",
			Help:      "Click region rebuilds by outcome",
		},
		[]string{"status"},
	)

	Responses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: NAMESPACE,
			Name:      "http_responses_total",
			Help:      "Responses by status code",
		},
		[]string{"code"},
	)

	Blacklisted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "blacklisted_addresses",
			Help:      "Remote addresses refused after too many strikes",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: NAMESPACE,
			Name:      "active_sessions",
			Help:      "Sessions in the session vault",
		},
	)
)

// RecordBuild - one finished (or abandoned) index build
func RecordBuild(kind string, err error, took time.Duration) {
	status := "ok"
	if err != nil {
		status = "cancelled"
	}
	IndexBuilds.WithLabelValues(kind, status).Inc()
	IndexBuildDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// RecordSearch - one query and the size of its answer
func RecordSearch(kind string, found int) {
	Searches.WithLabelValues(kind).Inc()
	SearchResults.WithLabelValues(kind).Observe(float64(found))
}
