package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"
)

// startCollector runs a loopback TCP collector; handle is invoked per accepted conn.
func startCollector(t *testing.T, handle func(conn net.Conn)) (string, int) {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}

	var wg sync.WaitGroup
	t.Cleanup(func() {
		_ = ln.Close()
		wg.Wait()
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer conn.Close()
				handle(conn)
			}()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// readRequest reads until the header terminator or EOF.
func readRequest(conn net.Conn) []byte {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got []byte
	buf := make([]byte, 256)
	for !bytes.HasSuffix(got, []byte("\r\n\r\n")) {
		n, err := conn.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			break
		}
	}
	return got
}

func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

func loopback(port int) Address {
	return Address{IP: net.IPv4(127, 0, 0, 1).To4(), Port: port}
}

type fakeResolver struct {
	resolveFn func(ctx context.Context, host string, port int) ([]Address, error)
	calls     int
}

func (f *fakeResolver) Resolve(ctx context.Context, host string, port int) ([]Address, error) {
	f.calls++
	if f.resolveFn == nil {
		return []Address{loopback(port)}, nil
	}
	return f.resolveFn(ctx, host, port)
}

type fakeConnector struct {
	connectFn func(ctx context.Context, addrs []Address) (net.Conn, error)
	calls     int
}

func (f *fakeConnector) Connect(ctx context.Context, addrs []Address) (net.Conn, error) {
	f.calls++
	if f.connectFn == nil {
		return nil, errors.New("no connection configured")
	}
	return f.connectFn(ctx, addrs)
}

// fakeConn is an in-memory net.Conn with scriptable write/read behaviour.
type fakeConn struct {
	mu         sync.Mutex
	written    bytes.Buffer
	writeChunk int
	writeErr   error
	readFn     func(p []byte) (int, error)
	deadline   time.Time
	closeCount int
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return 0, c.writeErr
	}
	n := len(p)
	if c.writeChunk > 0 && n > c.writeChunk {
		n = c.writeChunk
	}
	c.written.Write(p[:n])
	return n, nil
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if c.readFn == nil {
		return 0, io.EOF
	}
	return c.readFn(p)
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeCount++
	return nil
}

func (c *fakeConn) closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeCount
}

func (c *fakeConn) LocalAddr() net.Addr  { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 40000} }
func (c *fakeConn) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080} }

func (c *fakeConn) SetDeadline(t time.Time) error      { return c.SetReadDeadline(t) }
func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }
func (c *fakeConn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}
