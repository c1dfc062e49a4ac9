package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Keyword extraction metrics.
var (
	KeywordRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "keyword_requests_total",
			Help:      "Total number of keyword model requests",
		},
		[]string{"provider", "model", "status"},
	)

	KeywordRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rex",
			Name:      "keyword_request_duration_seconds",
			Help:      "Keyword model request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	KeywordFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "keyword_fallbacks_total",
			Help:      "Assisted extractions that fell back to the naive extractor",
		},
		[]string{"reason"}, // "error" / "timeout" / "circuit_open" / "empty"
	)

	KeywordCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "keyword_cache_total",
			Help:      "Keyword cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Record store and search metrics.
var (
	StorePersistTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "store_persist_total",
			Help:      "Total number of store file rewrites",
		},
		[]string{"status"},
	)

	StorePersistDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rex",
			Name:      "store_persist_duration_seconds",
			Help:      "Store file rewrite duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	StoreRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rex",
			Name:      "store_records",
			Help:      "Number of records currently held by the store",
		},
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "search_requests_total",
			Help:      "Total number of searches by effective extraction mode",
		},
		[]string{"mode"},
	)

	IngestRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rex",
			Name:      "ingest_records_total",
			Help:      "Ingested review records by outcome",
		},
		[]string{"outcome"}, // "inserted" / "duplicate" / "filtered" / "rejected"
	)
)

var registerOnce sync.Once

// RegisterRexMetrics registers the HTTP and domain metrics. Safe to call more than once.
func RegisterRexMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			KeywordRequestsTotal,
			KeywordRequestDuration,
			KeywordFallbacksTotal,
			KeywordCacheTotal,
			StorePersistTotal,
			StorePersistDuration,
			StoreRecords,
			SearchRequestsTotal,
			IngestRecordsTotal,
		)
	})
}
