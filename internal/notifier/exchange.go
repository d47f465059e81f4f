package notifier

import (
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

const receiveBufferSize = 1024

// Transport sends an encoded request over an open connection and waits for
// a single bounded read.
type Transport struct {
	logger *zap.Logger
}

func NewTransport(logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transport{logger: logger}
}

// Exchange writes payload fully, applies the read deadline when timeout is
// positive and performs one read. The response content is never inspected;
// an immediate close counts as success. conn is closed before returning on
// every path.
func (t *Transport) Exchange(conn net.Conn, payload []byte, timeout time.Duration) (int, error) {
	defer func() {
		if err := conn.Close(); err != nil {
			t.logger.Warn("logurl: close failed", zap.Error(err))
		}
	}()

	if err := writeFull(conn, payload); err != nil {
		return 0, newNotifyError(ErrSend, err, "send to %s failed", remoteAddr(conn))
	}

	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return 0, newNotifyError(ErrReceive, err, "set read deadline failed")
		}
	}

	buf := make([]byte, receiveBufferSize)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		if IsTimeout(err) {
			return n, newNotifyError(ErrReceive, err, "no response within %s", timeout)
		}
		return n, newNotifyError(ErrReceive, err, "recv from %s failed", remoteAddr(conn))
	}

	return n, nil
}

// writeFull loops over short writes until payload is drained.
func writeFull(w io.Writer, payload []byte) error {
	for sent := 0; sent < len(payload); {
		n, err := w.Write(payload[sent:])
		sent += n
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

func remoteAddr(conn net.Conn) string {
	if addr := conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
