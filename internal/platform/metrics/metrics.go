// Package metrics holds the Prometheus collectors shared by the API server.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Vendor metrics
	VendorRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketcolor_vendor_requests_total",
			Help: "Outbound vendor calls by vendor, operation and outcome",
		}, []string{"vendor", "operation", "outcome"})
	VendorLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketcolor_vendor_latency_seconds",
			Help:    "Outbound vendor call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"vendor", "operation"})
	VendorAnomalies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketcolor_vendor_anomalies_total",
			Help: "Vendor records skipped at the parsing boundary",
		}, []string{"vendor", "kind"})

	// Pipeline metrics
	HeatmapBatchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketcolor_heatmap_batch_failures_total",
			Help: "Quote batches that failed during heatmap aggregation",
		})
	ConstituentResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketcolor_constituent_resolutions_total",
			Help: "Constituent list resolutions by source (cache, live, fallback)",
		}, []string{"source"})
	NarrativeStreams = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketcolor_narrative_streams_total",
			Help: "Streamed AI narratives by outcome",
		}, []string{"outcome"})

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketcolor_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"})
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketcolor_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})
)

// ObserveVendor records one outbound vendor call.
func ObserveVendor(vendor, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	VendorRequests.WithLabelValues(vendor, operation, outcome).Inc()
	VendorLatency.WithLabelValues(vendor, operation).Observe(time.Since(start).Seconds())
}

// Middleware records request count and latency per matched route.
// Unmatched routes are folded into one label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
