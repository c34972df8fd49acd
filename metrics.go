package yandexhome

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a client reports to.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	actionFailures *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
}

// NewMetrics returns unregistered client collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yandexhome_client_operations_total",
				Help: "Client operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yandexhome_client_operation_duration_seconds",
				Help:    "Duration of client operations including decoding",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		actionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yandexhome_client_action_failures_total",
				Help: "Failed action items reported by the service, by error code",
			},
			[]string{"operation", "code"},
		),
		httpStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yandexhome_client_http_errors_total",
				Help: "Non-2xx HTTP responses by operation and status code",
			},
			[]string{"operation", "status"},
		),
	}
}

// Collectors exposes the collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.requests,
		m.duration,
		m.actionFailures,
		m.httpStatus,
	}
}

// Register registers the collectors with reg. Collectors that are already
// registered there are adopted, so several clients can share one registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	var err error
	if m.requests, err = register(reg, m.requests); err != nil {
		return err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return err
	}
	if m.actionFailures, err = register(reg, m.actionFailures); err != nil {
		return err
	}
	if m.httpStatus, err = register(reg, m.httpStatus); err != nil {
		return err
	}
	return nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// WithMetrics reports client operations to reg. Registration failures other
// than an identical collector already being present panic, as with
// prometheus.MustRegister.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		m := NewMetrics()
		if err := m.Register(reg); err != nil {
			panic(err)
		}
		c.metrics = m
	}
}

// observe records one finished operation. It is a no-op on a nil receiver.
func (m *Metrics) observe(op string, outcome Outcome, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome.String()).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())

	var apiErr *APIError
	var appErr *ApplicationError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode != 0:
		m.httpStatus.WithLabelValues(op, strconv.Itoa(apiErr.StatusCode)).Inc()
	case errors.As(err, &appErr):
		for _, f := range appErr.Errors {
			m.actionFailures.WithLabelValues(op, string(f.Code)).Inc()
		}
	}
}
