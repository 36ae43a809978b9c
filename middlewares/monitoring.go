package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_admin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_operations_total",
			Help: "Total number of catalog, order and analytics operations",
		},
		[]string{"operation", "status"},
	)

	orderEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_admin_order_events_total",
			Help: "Order events handled by the consumer",
		},
		[]string{"type", "result"},
	)
)

// PrometheusMiddleware records request counts and latencies per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	operations.WithLabelValues(operation, status).Inc()
}

// TrackOperation is deferred at the top of a handler; it records the
// operation once the response status is known.
func TrackOperation(c *gin.Context, operation string) {
	status := c.Writer.Status()
	RecordOperation(operation, status >= 200 && status < 300)
}

func RecordOrderEvent(eventType, result string) {
	orderEvents.WithLabelValues(eventType, result).Inc()
}
