package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kursadbilgin/logurl/internal/observability"
)

// Correlation propagates or assigns a correlation id and stores it in the user context.
func Correlation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID := observability.CorrelationIDOrNew(c.Get(observability.CorrelationIDHeader))
		c.Set(observability.CorrelationIDHeader, correlationID)
		c.SetUserContext(observability.WithCorrelationID(c.UserContext(), correlationID))
		return c.Next()
	}
}
