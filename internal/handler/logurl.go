package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/kursadbilgin/logurl/internal/domain"
	"github.com/kursadbilgin/logurl/internal/notifier"
	"github.com/kursadbilgin/logurl/internal/observability"
	"github.com/kursadbilgin/logurl/internal/transport"
	"go.uber.org/zap"
)

// ScopeResolver returns the merged notifier configuration for a request path.
type ScopeResolver interface {
	Resolve(path string) domain.NotifierConfig
}

// LogURL runs after the downstream handlers and notifies the collector for
// PUT requests. It calls the notifier synchronously and never changes the
// response or the error returned by the chain.
func LogURL(n notifier.Notifier, scopes ScopeResolver, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = transport.StatusFromError(err)
		}

		event := triggerEvent(c, status)
		if !event.IsPut() {
			return err
		}

		ctx := c.UserContext()
		outcome := n.Notify(ctx, event, scopes.Resolve(event.URI))

		log := observability.WithContextLogger(logger, ctx)
		fields := []zap.Field{
			zap.String("uri", event.URI),
			zap.Int("status", status),
			zap.String("outcome", outcome.Kind.String()),
			zap.String("reason", outcome.Reason.String()),
		}
		switch {
		case outcome.IsFailed():
			log.Warn("logurl: notification not delivered", append(fields, zap.Error(outcome.Err))...)
		case outcome.IsDelivered():
			log.Info("logurl: notification delivered", fields...)
		case outcome.Reason.IsSuppression():
			log.Debug("logurl: notification suppressed", fields...)
		default:
			log.Warn("logurl: unexpected notification outcome", fields...)
		}

		return err
	}
}

// triggerEvent copies everything it takes from c: fiber strings alias the
// request buffer, which is reused once the handler returns.
func triggerEvent(c *fiber.Ctx, status int) domain.TriggerEvent {
	return domain.TriggerEvent{
		Method:      utils.CopyString(c.Method()),
		StatusCode:  status,
		HasValidURI: strings.HasPrefix(c.OriginalURL(), "/"),
		URI:         utils.CopyString(c.Path()),
	}
}
