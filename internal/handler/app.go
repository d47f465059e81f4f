package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/logurl/internal/notifier"
	"github.com/kursadbilgin/logurl/internal/observability"
	"github.com/kursadbilgin/logurl/internal/transport"
	"go.uber.org/zap"
)

// Store is the object storage plus its readiness probe.
type Store interface {
	ObjectStore
	Pinger
}

type AppDeps struct {
	Store    Store
	Notifier notifier.Notifier
	Scopes   ScopeResolver
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewApp wires the host server. Middleware order matters: LogURL wraps
// every route so it sees the final status, and the metrics middleware wraps
// LogURL so request durations include the notification.
func NewApp(deps AppDeps) (*fiber.App, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	if deps.Scopes == nil {
		return nil, fmt.Errorf("scopes are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          transport.ErrorHandler(deps.Logger),
		DisableStartupMessage: true,
		// Paths are decoded before routing and stored as copies, so object
		// keys and notified URIs are "/a b" rather than "/a%20b".
		UnescapePath: true,
		Immutable:    true,
	})

	app.Use(Correlation())
	if deps.Metrics != nil {
		app.Use(deps.Metrics.HTTPMiddleware())
	}
	app.Use(LogURL(deps.Notifier, deps.Scopes, deps.Logger))

	RegisterHealthRoutes(app, deps.Store)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	if err := RegisterObjectRoutes(app, deps.Store); err != nil {
		return nil, err
	}

	return app, nil
}
