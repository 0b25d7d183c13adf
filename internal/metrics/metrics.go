// Package metrics provides Prometheus metrics for the edition collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts collection runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collector",
			Name:      "runs_total",
			Help:      "Total number of collection runs",
		},
		[]string{"status"},
	)

	// RunDuration measures collection run duration.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "collector",
			Name:      "run_duration_seconds",
			Help:      "Duration of collection runs in seconds",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300},
		},
	)

	// SourceFetchTotal counts source fetches by source, status and origin.
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collector",
			Name:      "source_fetch_total",
			Help:      "Total number of source fetches",
		},
		[]string{"source", "status", "origin"},
	)

	// SourceFetchDuration measures source fetch duration.
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "collector",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of source fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// EditionArticles observes the number of articles persisted per edition.
	EditionArticles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "collector",
			Name:      "edition_articles",
			Help:      "Distribution of article counts per edition",
			Buckets:   []float64{0, 5, 10, 20, 30, 40, 60},
		},
	)

	// CacheLookups counts cache reads by kind and result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "collector",
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"kind", "result"},
	)
)

// RecordRun records a finished collection run.
func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}

// RecordSourceFetch records a single source fetch.
func RecordSourceFetch(source, status, origin string, duration time.Duration) {
	SourceFetchTotal.WithLabelValues(source, status, origin).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordEditionArticles records the size of a persisted edition.
func RecordEditionArticles(count int) {
	EditionArticles.Observe(float64(count))
}

// RecordCacheLookup records a cache read.
func RecordCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(kind, result).Inc()
}
