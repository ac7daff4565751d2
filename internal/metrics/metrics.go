package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobtrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"method", "route"},
	)

	aiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobtrack",
			Subsystem: "ai",
			Name:      "calls_total",
			Help:      "Language model calls by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	aiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobtrack",
			Subsystem: "ai",
			Name:      "call_duration_seconds",
			Help:      "Latency of language model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"operation"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		aiCalls,
		aiDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveAICall records one language model round trip.
func ObserveAICall(operation, outcome string, d time.Duration) {
	aiCalls.WithLabelValues(operation, outcome).Inc()
	aiDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// Middleware records request counts and latency per route template, so
// /applications/1 and /applications/2 share a series.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
