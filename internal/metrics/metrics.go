// Package metrics holds the process-wide request counters. The registry is an
// explicit value injected into the HTTP layer (a fresh one per test), not an
// ambient singleton.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Webhook outcome labels.
const (
	ResultCreated          = "created"
	ResultDuplicate        = "duplicate"
	ResultInvalidSignature = "invalid_signature"
	ResultValidationError  = "validation_error"
	ResultStorageError     = "storage_error"
)

// Registry bundles the inlet metrics with the prometheus registry that
// renders them. Counter increments are atomic; exact counts hold under
// concurrent load.
type Registry struct {
	reg *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	webhookResults *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewRegistry creates an empty registry with all inlet metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"path", "status"},
		),
		webhookResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_requests_total",
				Help: "Webhook processing outcomes",
			},
			[]string{"result"},
		),
		requestLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "http_request_latency_ms",
				Help:    "HTTP request latency in milliseconds",
				Buckets: []float64{100, 500},
			},
		),
	}
}

// IncHTTPRequest counts one handled request by path and status code.
func (r *Registry) IncHTTPRequest(path string, status int) {
	r.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// IncWebhookResult counts one webhook delivery outcome.
func (r *Registry) IncWebhookResult(result string) {
	r.webhookResults.WithLabelValues(result).Inc()
}

// ObserveLatency records a request duration in milliseconds.
func (r *Registry) ObserveLatency(ms float64) {
	r.requestLatency.Observe(ms)
}

// Handler returns the text-exposition handler for GET /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
