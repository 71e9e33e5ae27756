package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client's Prometheus metrics.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Overrides       *prometheus.CounterVec
}

// NewMetrics creates and registers all client metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gapi_requests_total",
			Help: "Requests sent, by wire method and status code.",
		}, []string{"method", "code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gapi_request_duration_seconds",
			Help:    "Request latency including retries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),

		Overrides: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gapi_method_overrides_total",
			Help: "Requests tunnelled through POST, by original method.",
		}, []string{"method"}),
	}
}

// ObserveRequest records a completed request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(method string, code int, seconds float64) {
	if m == nil {
		return
	}

	m.Requests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}

// ObserveOverride records a tunnelled request. A nil receiver is a no-op.
func (m *Metrics) ObserveOverride(original string) {
	if m == nil {
		return
	}

	m.Overrides.WithLabelValues(original).Inc()
}
