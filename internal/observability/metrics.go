package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	contentMutationsTotal *prometheus.CounterVec
	auditWriteFailures    *prometheus.CounterVec
	activityStreamClients prometheus.Gauge
	uploadRequestsTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		contentMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_mutations_total",
			Help: "Successful entity mutations by collection and audit action.",
		}, []string{"entity_type", "action"})

		auditWriteFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit log appends that failed after a successful mutation.",
		}, []string{"entity_type"})

		activityStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "activity_stream_clients",
			Help: "Currently connected activity stream websocket clients.",
		})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_requests_total",
			Help: "Accepted media uploads by detected MIME type.",
		}, []string{"mime"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			contentMutationsTotal,
			auditWriteFailures,
			activityStreamClients,
			uploadRequestsTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ContentMutations exposes the counter for successful entity mutations.
func ContentMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return contentMutationsTotal
}

// AuditWriteFailures exposes the counter that makes audit-trail gaps
// observable without blocking the mutation path.
func AuditWriteFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return auditWriteFailures
}

// ActivityStreamClients exposes the websocket subscriber gauge.
func ActivityStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return activityStreamClients
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
