package notifier

import (
	"context"
	"time"

	"github.com/kursadbilgin/logurl/internal/domain"
	"github.com/kursadbilgin/logurl/internal/observability"
	"go.uber.org/zap"
)

// Notifier is the port the host request pipeline calls once per completed request.
type Notifier interface {
	Notify(ctx context.Context, event domain.TriggerEvent, cfg domain.NotifierConfig) domain.Outcome
}

var _ Notifier = (*Dispatcher)(nil)

// Dispatcher decides whether to notify, performs one synchronous exchange
// and classifies the result. It keeps no per-invocation state, so a single
// instance serves concurrent requests.
type Dispatcher struct {
	resolver  Resolver
	connector Connector
	transport *Transport
	logger    *zap.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

func NewDispatcher(resolver Resolver, connector Connector, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		resolver:  resolver,
		connector: connector,
		transport: NewTransport(logger),
		logger:    logger,
		now:       time.Now,
	}
}

func (d *Dispatcher) SetMetrics(metrics *observability.Metrics) {
	if d == nil {
		return
	}
	d.metrics = metrics
}

// Notify runs the eligibility checks and, when they pass, one resolve,
// connect and exchange. ctx bounds resolution and connect only.
func (d *Dispatcher) Notify(ctx context.Context, event domain.TriggerEvent, cfg domain.NotifierConfig) domain.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	start := d.now()
	outcome := d.notify(ctx, event, cfg)
	if d.metrics != nil {
		d.metrics.ObserveNotification(outcome.Kind.String(), outcome.Reason.String(), d.now().Sub(start))
	}
	return outcome
}

func (d *Dispatcher) notify(ctx context.Context, event domain.TriggerEvent, cfg domain.NotifierConfig) domain.Outcome {
	logger := observability.WithContextLogger(d.logger, ctx)

	if !cfg.Enabled {
		logger.Debug("logurl: disabled")
		return domain.Suppressed(domain.ReasonDisabled)
	}

	logger.Debug("logurl: status", zap.Int("status", event.StatusCode))
	if !domain.StatusQualifies(event.StatusCode) {
		logger.Debug("logurl: don't inform on error", zap.Int("status", event.StatusCode))
		return domain.Suppressed(domain.ReasonNonSuccessStatus)
	}

	if !event.HasValidURI {
		err := newNotifyError(ErrMissingURI, nil, "did not get a valid uri")
		logger.Error("logurl: did not get a valid uri", zap.Error(err))
		return domain.Failed(domain.ReasonMissingURI, err)
	}

	logger = logger.With(
		zap.String("collectorHost", cfg.Host),
		zap.Int("collectorPort", cfg.Port),
		zap.String("basePath", cfg.BasePath),
		zap.String("uri", event.URI),
	)

	addrs, err := d.resolver.Resolve(ctx, cfg.Host, cfg.Port)
	if err != nil {
		return d.fail(logger, domain.ReasonResolution, err)
	}
	if len(addrs) == 0 {
		err := newNotifyError(ErrResolution, nil, "no addresses for %s", cfg.Host)
		return d.fail(logger, domain.ReasonResolution, err)
	}
	logger.Debug("logurl: resolved", zap.Int("candidates", len(addrs)))

	conn, err := d.connector.Connect(ctx, addrs)
	if err != nil {
		return d.fail(logger, domain.ReasonConnect, err)
	}
	logger.Debug("logurl: connect success", zap.Stringer("remote", conn.RemoteAddr()))

	payload := EncodeRequest(cfg.BasePath, event.URI, cfg.Host)
	logger.Debug("logurl: request", zap.ByteString("payload", payload))

	received, err := d.transport.Exchange(conn, payload, cfg.RequestTimeout())
	if err != nil {
		reason := ReasonFor(err)
		if reason == domain.ReasonNone {
			reason = domain.ReasonReceive
		}
		return d.fail(logger, reason, err)
	}

	logger.Debug("logurl: delivered", zap.Int("received", received))
	return domain.Delivered()
}

func (d *Dispatcher) fail(logger *zap.Logger, reason domain.Reason, err error) domain.Outcome {
	logger.Warn("logurl: notification failed",
		zap.String("stage", reason.String()),
		zap.Bool("timeout", IsTimeout(err)),
		zap.Error(err),
	)
	return domain.Failed(reason, err)
}
