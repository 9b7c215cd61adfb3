// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billtracker_http_requests_total",
		Help: "HTTP requests served, by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billtracker_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	flushesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billtracker_debounce_flushes_total",
		Help: "Debounced writes fired, by outcome.",
	}, []string{"outcome"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billtracker_cache_lookups_total",
		Help: "Memoized view lookups, by cache name and result.",
	}, []string{"cache", "result"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one served request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CountCacheLookup records a hit or miss against a named cache.
func CountCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(cache, result).Inc()
}

// CountFlush records one fired debounced write. Wire it as the debouncer's
// flush hook.
func CountFlush(_ string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	flushesTotal.WithLabelValues(outcome).Inc()
}
