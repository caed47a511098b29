package message

import (
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// SessionID is the 28-bit session identifier, one 7-bit value per byte.
type SessionID [4]byte

func (s SessionID) String() string { return codec.FormatHex(s[:]) }

// FrameSpec describes one Message protocol frame.
type FrameSpec struct {
	ProductID int
	Serial    []byte // 5 bytes; nil addresses any device
	SessionID SessionID
	TxID      int
	Message   *Message
}

// BuildFrame encodes spec as a complete SysEx frame.
//
// Body layout: pid(2) serial(5) session(4) 00 00 txid(2) length(2) content.
func BuildFrame(spec FrameSpec) ([]byte, error) {
	if spec.Message == nil {
		return nil, fmt.Errorf("frame has no message")
	}
	pid, err := codec.Split14(spec.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product ID: %w", err)
	}
	serial, err := protocol.PadSerial(spec.Serial)
	if err != nil {
		return nil, err
	}
	if err := protocol.CheckData(serial); err != nil {
		return nil, fmt.Errorf("serial number: %w", err)
	}
	if err := protocol.CheckData(spec.SessionID[:]); err != nil {
		return nil, fmt.Errorf("session ID: %w", err)
	}
	txid, err := codec.Split14(spec.TxID)
	if err != nil {
		return nil, fmt.Errorf("transaction ID: %w", err)
	}
	content, err := spec.Message.Content()
	if err != nil {
		return nil, err
	}
	if err := protocol.CheckData(content); err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	length, err := codec.Split14(len(content))
	if err != nil {
		return nil, fmt.Errorf("content length: %w", err)
	}

	body := make([]byte, 0, 17+len(content))
	body = append(body, pid...)
	body = append(body, serial...)
	body = append(body, spec.SessionID[:]...)
	body = append(body, 0x00, 0x00)
	body = append(body, txid...)
	body = append(body, length...)
	body = append(body, content...)

	frame := protocol.Wrap(protocol.SchemeMessage, body)
	if len(frame) > protocol.MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", protocol.ErrFrameTooLarge, len(frame))
	}
	return frame, nil
}

// Frame is a decoded Message protocol frame.
type Frame struct {
	ProductID int
	Serial    []byte
	SessionID SessionID
	TxID      int
	Message   *Message
	Raw       []byte
}

// ParseFrame validates frame and decodes its content.
func ParseFrame(frame []byte) (*Frame, error) {
	if err := protocol.Validate(protocol.SchemeMessage, frame); err != nil {
		return nil, err
	}
	content, err := protocol.Payload(protocol.SchemeMessage, frame)
	if err != nil {
		return nil, err
	}
	pid, err := protocol.ProductID(frame)
	if err != nil {
		return nil, err
	}
	serial, err := protocol.Serial(frame)
	if err != nil {
		return nil, err
	}
	txid, err := protocol.TransactionID(protocol.SchemeMessage, frame)
	if err != nil {
		return nil, err
	}
	msg, err := ParseContent(content)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		ProductID: pid,
		Serial:    serial,
		TxID:      txid,
		Message:   msg,
		Raw:       frame,
	}
	copy(f.SessionID[:], frame[12:16])
	return f, nil
}
