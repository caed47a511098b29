package message

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/datablock"
	"github.com/muurk/iconn/internal/logging"
	"github.com/muurk/iconn/internal/protocol"
	"github.com/muurk/iconn/internal/transport"
	"go.uber.org/zap"
)

// HostInSizeMax is the largest frame the host accepts, announced in
// HstSesnVal.
const HostInSizeMax = 256

// Session is a client for one device speaking the Message protocol. Every
// frame it sends carries the same session ID.
type Session struct {
	conn *transport.Connection
	id   SessionID

	mu        sync.RWMutex
	productID int
	serial    []byte
	info      *SessionInfo
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID fixes the session ID instead of drawing a random one.
func WithSessionID(id SessionID) SessionOption {
	return func(s *Session) { s.id = id }
}

// WithTarget addresses frames to one product and serial number.
func WithTarget(pid int, serial []byte) SessionOption {
	return func(s *Session) {
		s.productID = pid
		s.serial = append([]byte(nil), serial...)
	}
}

// NewSession returns a session over conn, which must use the Message scheme.
func NewSession(conn *transport.Connection, opts ...SessionOption) *Session {
	s := &Session{conn: conn, id: randomSessionID()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomSessionID() SessionID {
	var id SessionID
	for i := range id {
		id[i] = byte(rand.Intn(0x80))
	}
	return id
}

// ID returns the session ID.
func (s *Session) ID() SessionID { return s.id }

// Connection returns the underlying connection.
func (s *Session) Connection() *transport.Connection { return s.conn }

// Serial returns the serial number frames are addressed to; nil before
// discovery unless a target was set.
func (s *Session) Serial() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.serial...)
}

// Info returns the result of the last Discover, or nil.
func (s *Session) Info() *SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
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

// Send issues msg and returns the matching response frame. An Ack carrying a
// non-zero error code is returned as a device error.
func (s *Session) Send(ctx context.Context, msg *Message, opts ...SendOption) (*Frame, error) {
	var o sendOptions
	for _, opt := range opts {
		opt(&o)
	}
	name := msg.Class.String()

	s.mu.RLock()
	pid, serial := s.productID, s.serial
	s.mu.RUnlock()

	txid := s.conn.NextTxID()
	frame, err := BuildFrame(FrameSpec{
		ProductID: pid,
		Serial:    serial,
		SessionID: s.id,
		TxID:      txid,
		Message:   msg,
	})
	if err != nil {
		return nil, protocol.NewEncodingError(name, err)
	}

	raw, err := s.conn.Request(ctx, transport.Request{
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
	if ack := resp.Message.Ack; ack != nil && ack.Error != NoError {
		return nil, protocol.NewDeviceError(name, txid, int(ack.Error), ack.Error.String())
	}
	return resp, nil
}

// expect sends msg and fails unless the answer has the given class.
func (s *Session) expect(ctx context.Context, msg *Message, want Class) (*Frame, error) {
	resp, err := s.Send(ctx, msg)
	if err != nil {
		return nil, err
	}
	if resp.Message.Class != want {
		return nil, protocol.NewMalformedError(msg.Class.String(),
			fmt.Sprintf("expected %s, got %s", want, resp.Message.Class), nil)
	}
	return resp, nil
}

// MIDIPortInfo describes the MIDI port a DevSesnVal arrived on.
type MIDIPortInfo struct {
	PortID int
	Type   MIDIPortType
	Detail [2]byte
}

// SessionInfo is the decoded DevSesnVal answer.
type SessionInfo struct {
	ProductID  int
	Serial     []byte
	InSizeMax  int // largest frame the device accepts
	OutSizeMax int // largest frame the device sends
	OpMode     OpMode
	Port       *MIDIPortInfo
}

// Discover sends HstSesnVal and addresses subsequent frames to the device
// that answered.
func (s *Session) Discover(ctx context.Context) (*SessionInfo, error) {
	size := codec.MustSplit14(HostInSizeMax)
	resp, err := s.expect(ctx, NewHstSesnVal(&datablock.ParmVal{
		Values: []datablock.ParmValue{{ID: SessionHostInSizeMax, Data: size}},
	}), ClassDevSesnVal)
	if err != nil {
		return nil, err
	}

	info, err := decodeSessionInfo(resp)
	if err != nil {
		return nil, protocol.NewMalformedError(ClassHstSesnVal.String(), "invalid DevSesnVal", err)
	}

	s.mu.Lock()
	s.productID = info.ProductID
	s.serial = append([]byte(nil), info.Serial...)
	s.info = info
	s.mu.Unlock()

	logging.Info("Session established",
		zap.String("port", s.conn.Port().String()),
		zap.Int("product_id", info.ProductID),
		zap.String("serial", codec.FormatHex(info.Serial)),
		zap.Stringer("session", s.id),
		zap.Stringer("op_mode", info.OpMode),
	)
	return info, nil
}

func decodeSessionInfo(f *Frame) (*SessionInfo, error) {
	info := &SessionInfo{ProductID: f.ProductID, Serial: f.Serial}
	m := f.Message

	if v, ok := m.Value(SessionDevInSizeMax); ok {
		n, err := codec.Merge14(v)
		if err != nil {
			return nil, fmt.Errorf("DevInSizeMax: %w", err)
		}
		info.InSizeMax = n
	}
	if v, ok := m.Value(SessionDevOutSizeMax); ok {
		n, err := codec.Merge14(v)
		if err != nil {
			return nil, fmt.Errorf("DevOutSizeMax: %w", err)
		}
		info.OutSizeMax = n
	}
	if v, ok := m.Value(SessionDevOpMode); ok && len(v) > 0 {
		info.OpMode = OpMode(v[0])
	}
	if v, ok := m.Value(SessionDevMIDIPortInfo); ok {
		if len(v) != 4 {
			return nil, fmt.Errorf("%w: DevMIDIPortInfo is %d bytes, want 4", codec.ErrLength, len(v))
		}
		info.Port = &MIDIPortInfo{PortID: int(v[0]), Type: MIDIPortType(v[1]), Detail: [2]byte{v[2], v[3]}}
	}
	return info, nil
}
