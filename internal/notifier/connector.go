package notifier

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Connector establishes one TCP connection from an ordered candidate list.
// The caller owns closing the returned connection.
type Connector interface {
	Connect(ctx context.Context, addrs []Address) (net.Conn, error)
}

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

var _ Connector = (*DialConnector)(nil)

// DialConnector tries candidates in order with an optional per-attempt budget.
type DialConnector struct {
	dial   dialFunc
	logger *zap.Logger
}

// NewDialConnector builds a connector. A zero timeout leaves the connect
// budget to the operating system.
func NewDialConnector(timeout time.Duration, logger *zap.Logger) *DialConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := &net.Dialer{Timeout: timeout}
	return &DialConnector{
		dial:   dialer.DialContext,
		logger: logger,
	}
}

func (c *DialConnector) Connect(ctx context.Context, addrs []Address) (net.Conn, error) {
	if len(addrs) == 0 {
		return nil, newNotifyError(ErrConnect, nil, "no candidate addresses")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var lastErr error
	for i, addr := range addrs {
		if err := addr.validate(); err != nil {
			lastErr = err
			continue
		}

		c.logger.Debug("logurl: connect",
			zap.Int("candidate", i),
			zap.Stringer("address", addr),
		)

		conn, err := c.dial(ctx, addr.Network(), addr.String())
		if err == nil {
			return conn, nil
		}
		if errors.Is(err, syscall.EINPROGRESS) && conn != nil {
			// The socket is still connecting; completion surfaces on the first write.
			c.logger.Debug("logurl: connect in progress, keeping candidate",
				zap.Stringer("address", addr),
			)
			return conn, nil
		}
		if conn != nil {
			_ = conn.Close()
		}
		lastErr = err

		c.logger.Debug("logurl: connect failed",
			zap.Stringer("address", addr),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, newNotifyError(ErrConnect, lastErr, "all %d candidate(s) failed", len(addrs))
}
