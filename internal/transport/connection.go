package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout applies to requests that do not set their own.
	DefaultTimeout = 500 * time.Millisecond
	// QuickTimeout suits simple queries answered straight from device memory.
	QuickTimeout = 100 * time.Millisecond
)

// Connection correlates requests and responses on one port using one
// protocol scheme.
type Connection struct {
	port    Port
	scheme  protocol.Scheme
	txids   *protocol.TransactionCounter
	timeout time.Duration
	quick   time.Duration
}

// Option configures a Connection.
type Option func(*Connection)

// WithTimeout sets the default response deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithQuickTimeout sets the deadline for simple queries. Links with extra
// latency, such as a network bridge, need more than QuickTimeout.
func WithQuickTimeout(d time.Duration) Option {
	return func(c *Connection) {
		if d > 0 {
			c.quick = d
		}
	}
}

// WithTransactionStart sets the first transaction ID handed out.
func WithTransactionStart(id int) Option {
	return func(c *Connection) {
		c.txids = protocol.NewTransactionCounter(id)
	}
}

// New binds port to scheme. Transaction IDs start at 1.
func New(port Port, scheme protocol.Scheme, opts ...Option) *Connection {
	c := &Connection{
		port:    port,
		scheme:  scheme,
		txids:   protocol.NewTransactionCounter(1),
		timeout: DefaultTimeout,
		quick:   QuickTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Port returns the underlying port.
func (c *Connection) Port() Port { return c.port }

// Scheme returns the protocol scheme the connection is locked to.
func (c *Connection) Scheme() protocol.Scheme { return c.scheme }

// Timeout returns the default response deadline.
func (c *Connection) Timeout() time.Duration { return c.timeout }

// QuickTimeout returns the deadline for simple queries. It never exceeds the
// default deadline.
func (c *Connection) QuickTimeout() time.Duration {
	return min(c.quick, c.timeout)
}

// NextTxID allocates the next transaction ID.
func (c *Connection) NextTxID() int { return c.txids.Next() }

// Close closes the port.
func (c *Connection) Close() error { return c.port.Close() }

// Request describes one outstanding request.
type Request struct {
	Frame   []byte
	TxID    int
	Name    string        // used in logs and errors
	Timeout time.Duration // zero means the connection default
}

// Request sends req.Frame and waits for the frame carrying req.TxID.
func (c *Connection) Request(ctx context.Context, req Request) ([]byte, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	matched := make(chan []byte, 1)
	stop, err := c.port.Listen(func(frame []byte) {
		if !protocol.MatchesHeader(c.scheme, frame) {
			return
		}
		if !protocol.IsValid(frame) {
			logging.Warn("Dropping frame with invalid checksum",
				zap.String("port", c.port.String()),
				zap.String("request", req.Name),
				logging.Hex("hex", frame),
			)
			return
		}
		id, err := protocol.TransactionID(c.scheme, frame)
		if err != nil || id != req.TxID {
			return
		}
		select {
		case matched <- append([]byte(nil), frame...):
		default:
		}
	})
	if err != nil {
		return nil, protocol.NewTransportError(req.Name, req.TxID, fmt.Errorf("listen: %w", err))
	}
	defer stop()

	logging.LogSysEx(c.port.String(), "out", req.Frame)
	if err := c.port.Send(req.Frame); err != nil {
		return nil, protocol.NewTransportError(req.Name, req.TxID, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-matched:
		logging.LogSysEx(c.port.String(), "in", resp)
		return resp, nil
	case <-timer.C:
		logging.Debug("Request timed out",
			zap.String("request", req.Name),
			zap.Int("txid", req.TxID),
			zap.Duration("timeout", timeout),
		)
		return nil, protocol.NewTimeoutError(req.Name, req.TxID, req.Frame)
	case <-ctx.Done():
		return nil, fmt.Errorf("%s (txid %d): %w", req.Name, req.TxID, ctx.Err())
	}
}
