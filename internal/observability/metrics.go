package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MetricsRegistry holds the bridge-specific Prometheus collectors.
	MetricsRegistry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowbiz",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "flowbiz",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	jobsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowbiz",
			Subsystem: "jobs",
			Name:      "accepted_total",
			Help:      "Total number of job requests accepted.",
		},
		[]string{"workflow_key"},
	)

	jobsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowbiz",
			Subsystem: "jobs",
			Name:      "rejected_total",
			Help:      "Total number of job requests rejected at the intake gate.",
		},
		[]string{"code"},
	)

	callbacksReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flowbiz",
			Subsystem: "callbacks",
			Name:      "received_total",
			Help:      "Total number of callbacks acknowledged.",
		},
		[]string{"status"},
	)

	signatureFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "flowbiz",
			Subsystem: "callbacks",
			Name:      "signature_failures_total",
			Help:      "Total number of callbacks rejected for signature problems.",
		},
	)
)

func init() {
	MetricsRegistry.MustRegister(
		httpRequests,
		httpDuration,
		jobsAccepted,
		jobsRejected,
		callbacksReceived,
		signatureFailures,
		prometheus.NewGoCollector(),
	)
}

// MetricsHandler returns an HTTP handler exposing the registered collectors.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(MetricsRegistry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with HTTP request counting and timing.
// The path label is the matched route pattern, not the raw URL, so label
// cardinality stays bounded; all unmatched paths share one label.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		// The route pattern is only known after routing completes.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}

		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordJobAccepted counts an accepted job request.
func RecordJobAccepted(workflowKey string) {
	jobsAccepted.WithLabelValues(workflowKey).Inc()
}

// RecordJobRejected counts a rejected job request by taxonomy code.
func RecordJobRejected(code string) {
	jobsRejected.WithLabelValues(code).Inc()
}

// RecordCallback counts an acknowledged callback by reported status.
func RecordCallback(status string) {
	callbacksReceived.WithLabelValues(status).Inc()
}

// RecordSignatureFailure counts a callback rejected at the signature gate.
func RecordSignatureFailure() {
	signatureFailures.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
