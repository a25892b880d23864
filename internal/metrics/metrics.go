// Package metrics provides Prometheus instrumentation for the matching
// service: like transitions, suggestion latency and size, interest creation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LikesTotal counts processed likes by resulting transition:
	// "liked", "repeat", "mutual", "already_mutual".
	LikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muzz_likes_total",
		Help: "Total number of processed likes by transition",
	}, []string{"transition"})

	// LikeRetries counts like transactions retried after a conflict.
	LikeRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "muzz_like_retries_total",
		Help: "Like transactions retried after a store conflict",
	})

	// SuggestLatency records suggestion latency by ranking mode
	// ("interests" or "reputation").
	SuggestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "muzz_suggest_latency_seconds",
		Help:    "Suggestion query latency in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"mode"})

	// SuggestResultSize records how many candidates were returned.
	SuggestResultSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "muzz_suggest_result_size",
		Help:    "Number of candidates returned per suggestion request",
		Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
	})

	// InterestsCreated counts interests inserted into the vocabulary.
	InterestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "muzz_interests_created_total",
		Help: "Interests created on first reference",
	})

	// CacheResults counts cache lookups by cache and result ("hit"/"miss").
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muzz_cache_results_total",
		Help: "Cache lookups by cache name and result",
	}, []string{"cache", "result"})

	// RPCDuration records gRPC handler latency by method and code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "muzz_rpc_duration_seconds",
		Help:    "gRPC handler latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "code"})
)

// Handler returns the HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CacheHit records a cache lookup outcome.
func CacheHit(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheResults.WithLabelValues(cache, result).Inc()
}
