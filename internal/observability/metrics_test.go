package observability

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kursadbilgin/logurl/internal/domain"
)

func TestMetricsNotificationCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.ObserveNotification("DELIVERED", "", 12*time.Millisecond)
	metrics.ObserveNotification("FAILED", "receive", time.Second)
	metrics.ObserveNotification("failed", "Receive", 2*time.Second)
	metrics.ObserveNotification("SUPPRESSED", "disabled", -time.Second)

	if got := testutil.ToFloat64(metrics.notificationsTotal.WithLabelValues("delivered", "none")); got != 1 {
		t.Fatalf("notifications_total{delivered,none} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.notificationsTotal.WithLabelValues("failed", "receive")); got != 2 {
		t.Fatalf("notifications_total{failed,receive} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.notificationsTotal.WithLabelValues("suppressed", "disabled")); got != 1 {
		t.Fatalf("notifications_total{suppressed,disabled} = %v, want 1", got)
	}
}

func TestMetricsNilReceiver(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.ObserveNotification("DELIVERED", "", time.Millisecond)
	if metrics.Handler() == nil {
		t.Fatal("nil metrics should fall back to the default handler")
	}
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Put("/files/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest("PUT", "/files/a.txt", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("PUT", "/files/*", "201")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareRecordsErrorStatus(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	_, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareMapsDomainErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		path   string
		err    error
		status string
	}{
		{name: "validation", path: "/bad", err: fmt.Errorf("put: %w", domain.ErrValidation), status: "400"},
		{name: "not found", path: "/missing", err: fmt.Errorf("get: %w", domain.ErrNotFound), status: "404"},
		{name: "fiber error", path: "/teapot", err: fiber.NewError(fiber.StatusTeapot, "short and stout"), status: "418"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			metrics := NewMetrics()
			app := fiber.New()
			app.Use(metrics.HTTPMiddleware())
			app.Get(tc.path, func(c *fiber.Ctx) error {
				return tc.err
			})

			if _, err := app.Test(httptest.NewRequest("GET", tc.path, nil)); err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", tc.path, tc.status)); got != 1 {
				t.Fatalf("http_requests_total{status=%s} = %v, want 1", tc.status, got)
			}
		})
	}
}

func TestMetricsHTTPMiddlewareSkipsScrapes(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/metrics", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if got := testutil.CollectAndCount(metrics.httpRequestsTotal); got != 0 {
		t.Fatalf("http_requests_total series = %d, want 0", got)
	}
}
