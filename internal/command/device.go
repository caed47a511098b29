package command

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/transport"
	"go.uber.org/zap"
)

// Device is a client for one device speaking the Command protocol.
//
// Until Connect (or SetSupportedCommands) has run, every command is allowed.
// Afterwards only GetDevice, GetCommandList and the commands the device
// advertised may be sent.
type Device struct {
	conn *transport.Connection

	// Target addresses frames. The zero value reaches any device.
	productID ProductID
	serial    []byte

	failover FailoverLayout

	mu        sync.RWMutex
	info      *DeviceInfo
	supported map[Code]bool
}

// NewDevice returns a client using conn, which must use the Command scheme.
func NewDevice(conn *transport.Connection) *Device {
	return &Device{conn: conn, failover: DefaultFailoverLayout}
}

// ConnectOption configures the device before the handshake.
type ConnectOption func(*Device)

// WithTarget addresses the handshake, and every later frame, to one product
// and serial number.
func WithTarget(pid ProductID, serial []byte) ConnectOption {
	return func(d *Device) { d.SetTarget(pid, serial) }
}

// Connect performs the GetDevice + GetCommandList handshake and returns a
// device whose capability gate is armed.
func Connect(ctx context.Context, conn *transport.Connection, opts ...ConnectOption) (*Device, error) {
	d := NewDevice(conn)
	for _, opt := range opts {
		opt(d)
	}
	info, err := d.GetDevice(ctx)
	if err != nil {
		return nil, err
	}
	cmds, err := d.GetCommandList(ctx)
	if err != nil {
		return nil, err
	}
	d.SetSupportedCommands(cmds)

	logging.Info("Connected to device",
		zap.String("port", conn.Port().String()),
		zap.Stringer("product", info.ProductID),
		zap.String("serial", codec.FormatHex(info.Serial)),
		zap.Int("protocol_version", info.ProtocolVersion),
		zap.Int("commands", len(cmds)),
	)
	return d, nil
}

// Connection returns the underlying connection.
func (d *Device) Connection() *transport.Connection { return d.conn }

// SetTarget addresses subsequent frames to one product and serial number.
func (d *Device) SetTarget(pid ProductID, serial []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.productID = pid
	d.serial = append([]byte(nil), serial...)
}

// SetFailoverLayout overrides the bit positions used by the failover helpers.
func (d *Device) SetFailoverLayout(l FailoverLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failover = l
}

// Info returns the cached GetDevice response, or nil before the first call.
func (d *Device) Info() *DeviceInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.info
}

// SetSupportedCommands arms the capability gate.
func (d *Device) SetSupportedCommands(cmds []Code) {
	set := make(map[Code]bool, len(cmds))
	for _, c := range cmds {
		set[c] = true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supported = set
}

// SupportedCommands returns the advertised commands in ascending order.
func (d *Device) SupportedCommands() []Code {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Code, 0, len(d.supported))
	for c := range d.supported {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether c passes the capability gate.
func (d *Device) Supports(c Code) bool {
	if c == GetDevice || c == GetCommandList {
		return true
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.supported == nil {
		return true
	}
	return d.supported[c]
}

// SendOption adjusts a single request.
type SendOption func(*sendOptions)

type sendOptions struct {
	timeout time.Duration
}

// WithRequestTimeout overrides the connection timeout for one request.
func WithRequestTimeout(d time.Duration) SendOption {
	return func(o *sendOptions) { o.timeout = d }
}

// quick applies the connection's short deadline to a simple query.
func (d *Device) quick() SendOption {
	return WithRequestTimeout(d.conn.QuickTimeout())
}

// Send issues a query and returns the decoded response. An ACK carrying a
// non-zero error code is returned as a device error.
func (d *Device) Send(ctx context.Context, code Code, data []byte, opts ...SendOption) (*Response, error) {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}

	name := code.String()
	if !d.Supports(code) {
		return nil, protocol.NewUnsupportedError(name)
	}

	d.mu.RLock()
	pid, serial := d.productID, d.serial
	d.mu.RUnlock()

	txid := d.conn.NextTxID()
	frame, err := BuildFrame(FrameSpec{
		ProductID: pid,
		Serial:    serial,
		TxID:      txid,
		Type:      Query,
		Code:      code,
		Data:      data,
	})
	if err != nil {
		return nil, protocol.NewEncodingError(name, err)
	}

	raw, err := d.conn.Request(ctx, transport.Request{
		Frame:   frame,
		TxID:    txid,
		Name:    name,
		Timeout: o.timeout,
	})
	if err != nil {
		return nil, err
	}

	resp, err := ParseFrame(raw)
	if err != nil {
		return nil, protocol.NewMalformedError(name, "invalid response frame", err)
	}
	if resp.IsAck() {
		ack, err := resp.Ack()
		if err != nil {
			return nil, protocol.NewMalformedError(name, "invalid ACK", err)
		}
		if ack.Error != NoError {
			return nil, protocol.NewDeviceError(name, txid, int(ack.Error), ack.Error.String())
		}
	}
	return resp, nil
}

// requireAck fails unless resp acknowledges code.
func requireAck(code Code, resp *Response) error {
	if !resp.IsAck() {
		return protocol.NewMalformedError(code.String(), fmt.Sprintf("expected ACK, got %s", resp.Code), nil)
	}
	ack, err := resp.Ack()
	if err != nil {
		return protocol.NewMalformedError(code.String(), "invalid ACK", err)
	}
	if ack.Code != code {
		return protocol.NewMalformedError(code.String(), fmt.Sprintf("ACK is for %s", ack.Code), nil)
	}
	return nil
}
