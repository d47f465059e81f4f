package observability

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kursadbilgin/logurl/internal/domain"
)

const (
	namespace      = "logurl"
	metricsPath    = "/metrics"
	unmatchedRoute = "unmatched"
)

// Metrics stores Prometheus collectors used by the host server and the dispatcher.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	notificationsTotal   *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds by method and path, notification included.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of dispatcher invocations by outcome and reason.",
			},
			[]string{"outcome", "reason"},
		),
		notificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "notification_duration_seconds",
				Help:      "Dispatcher invocation duration in seconds grouped by outcome.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.notificationsTotal,
		m.notificationDuration,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware counts requests by route. The recorded status is the one the
// client sees, so domain errors are mapped the same way the error handler does.
func (m *Metrics) HTTPMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := routePath(c)
		if path == metricsPath {
			return err
		}

		m.recordHTTPRequest(c.Method(), path, responseStatus(c, err), time.Since(start))
		return err
	}
}

// ObserveNotification records one dispatcher outcome.
func (m *Metrics) ObserveNotification(outcome string, reason string, duration time.Duration) {
	if m == nil {
		return
	}

	seconds := duration.Seconds()
	if seconds < 0 {
		seconds = 0
	}

	outcomeLabel := labelOr(outcome, "unknown", strings.ToLower)
	m.notificationsTotal.WithLabelValues(outcomeLabel, labelOr(reason, "none", strings.ToLower)).Inc()
	m.notificationDuration.WithLabelValues(outcomeLabel).Observe(seconds)
}

func (m *Metrics) recordHTTPRequest(method string, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	methodLabel := labelOr(method, "UNKNOWN", strings.ToUpper)
	pathLabel := labelOr(path, unmatchedRoute, nil)

	m.httpRequestsTotal.WithLabelValues(methodLabel, pathLabel, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(methodLabel, pathLabel).Observe(duration.Seconds())
}

func routePath(c *fiber.Ctx) string {
	if c == nil {
		return unmatchedRoute
	}
	if route := c.Route(); route != nil {
		return labelOr(route.Path, unmatchedRoute, nil)
	}
	return unmatchedRoute
}

func responseStatus(c *fiber.Ctx, err error) int {
	var fiberErr *fiber.Error
	switch {
	case err == nil:
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}

	if c == nil {
		return fiber.StatusOK
	}
	if status := c.Response().StatusCode(); status != 0 {
		return status
	}
	return fiber.StatusOK
}

// labelOr trims value, applies fold when set, and falls back for blanks.
func labelOr(value string, fallback string, fold func(string) string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if fold != nil {
		value = fold(value)
	}
	return value
}
