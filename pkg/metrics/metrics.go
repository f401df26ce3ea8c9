package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/samandr77/healthportal/internal/entity"
)

const namespace = "healthportal"

type Metrics struct {
	Registry *prometheus.Registry

	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_in_flight_requests",
			Help:      "In-flight requests to the portal API.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the portal API.",
		}, []string{"method", "operation", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Portal API request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "operation"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Client operations by outcome.",
		}, []string{"operation", "outcome"}),
	}

	m.Registry.MustRegister(m.inFlight, m.requestsTotal, m.requestDuration, m.operations)

	return m
}

func (m *Metrics) RequestStarted() {
	m.inFlight.Inc()
}

// RequestFinished records a finished request. status 0 means the transport failed.
func (m *Metrics) RequestFinished(method, operation string, status int, d time.Duration) {
	m.inFlight.Dec()

	if operation == "" {
		operation = "unknown"
	}

	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}

	m.requestsTotal.WithLabelValues(method, operation, statusLabel).Inc()
	m.requestDuration.WithLabelValues(method, operation).Observe(d.Seconds())
}

func (m *Metrics) Operation(operation string, err error) {
	m.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, entity.ErrValidation):
		return "validation"
	case errors.Is(err, entity.ErrAuth):
		return "auth"
	case errors.Is(err, entity.ErrForbidden):
		return "forbidden"
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// Push sends the registry to a Prometheus Pushgateway, the usual sink for short-lived CLI runs.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.Registry).PushContext(ctx)
}
