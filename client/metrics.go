package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "direct_client"

// metrics holds the collectors installed by WithMetrics. A nil *metrics
// records nothing.
type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requests, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requests_total",
			Help:      "Number of mirror requests that reached the transport, by status code and method.",
		},
		[]string{"code", "method"},
	))
	if err != nil {
		return nil, err
	}

	duration, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Time until response headers arrive from the mirror.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	))
	if err != nil {
		return nil, err
	}

	retries, err := register(reg, prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "retries_total",
			Help:      "Number of requests re-issued after a transport failure.",
		},
	))
	if err != nil {
		return nil, err
	}

	return &metrics{requests: requests, duration: duration, retries: retries}, nil
}

// register adds c to reg, reusing an identical collector that a previous
// client already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}

		return c, fmt.Errorf("registering collector: %w", err)
	}

	return c, nil
}

func (m *metrics) instrument(next http.RoundTripper) http.RoundTripper {
	if m == nil {
		return next
	}

	return promhttp.InstrumentRoundTripperCounter(m.requests,
		promhttp.InstrumentRoundTripperDuration(m.duration, next),
	)
}

func (m *metrics) retried() {
	if m == nil {
		return
	}
	m.retries.Inc()
}
