package command

import (
	"fmt"

	"github.com/muurk/iconn/internal/codec"
	"github.com/muurk/iconn/internal/protocol"
)

// FrameSpec describes one Command protocol frame.
type FrameSpec struct {
	ProductID ProductID
	Serial    []byte // 5 bytes; nil addresses any device
	TxID      int
	Type      Type
	Code      Code
	Data      []byte
}

// BuildFrame encodes fs as a complete SysEx frame.
//
// Body layout: pid(2) serial(5) txid(2) code(2) length(2) data.
func BuildFrame(fs FrameSpec) ([]byte, error) {
	pid, err := codec.Split14(int(fs.ProductID))
	if err != nil {
		return nil, fmt.Errorf("product ID: %w", err)
	}
	serial, err := protocol.PadSerial(fs.Serial)
	if err != nil {
		return nil, err
	}
	if err := protocol.CheckData(serial); err != nil {
		return nil, fmt.Errorf("serial number: %w", err)
	}
	txid, err := codec.Split14(fs.TxID)
	if err != nil {
		return nil, fmt.Errorf("transaction ID: %w", err)
	}
	code, err := EncodeCode(fs.Type, fs.Code)
	if err != nil {
		return nil, err
	}
	length, err := codec.Split14(len(fs.Data))
	if err != nil {
		return nil, fmt.Errorf("data length: %w", err)
	}
	if err := protocol.CheckData(fs.Data); err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	body := make([]byte, 0, 13+len(fs.Data))
	body = append(body, pid...)
	body = append(body, serial...)
	body = append(body, txid...)
	body = append(body, code...)
	body = append(body, length...)
	body = append(body, fs.Data...)

	frame := protocol.Wrap(protocol.SchemeCommand, body)
	if len(frame) > protocol.MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", protocol.ErrFrameTooLarge, len(frame))
	}
	return frame, nil
}

// Response is a decoded Command protocol frame.
type Response struct {
	ProductID ProductID
	Serial    []byte
	TxID      int
	Type      Type
	Code      Code
	Payload   []byte
	Frame     []byte
}

// ParseFrame validates frame and splits it into its fields.
func ParseFrame(frame []byte) (*Response, error) {
	if err := protocol.Validate(protocol.SchemeCommand, frame); err != nil {
		return nil, err
	}
	payload, err := protocol.Payload(protocol.SchemeCommand, frame)
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
	txid, err := protocol.TransactionID(protocol.SchemeCommand, frame)
	if err != nil {
		return nil, err
	}
	t, code, err := DecodeCode(frame[14:16])
	if err != nil {
		return nil, err
	}
	return &Response{
		ProductID: ProductID(pid),
		Serial:    serial,
		TxID:      txid,
		Type:      t,
		Code:      code,
		Payload:   payload,
		Frame:     frame,
	}, nil
}

// Ack is the payload of an ACK frame.
type Ack struct {
	Type  Type
	Code  Code // command being acknowledged
	Error ErrorCode
}

// IsAck reports whether the response is an acknowledgement.
func (r *Response) IsAck() bool { return r.Code == ACK }

// Ack decodes the payload of an ACK response.
func (r *Response) Ack() (Ack, error) {
	if !r.IsAck() {
		return Ack{}, fmt.Errorf("response is %s, not ACK", r.Code)
	}
	if len(r.Payload) < 3 {
		return Ack{}, fmt.Errorf("%w: ACK payload has %d bytes, want 3", codec.ErrLength, len(r.Payload))
	}
	t, code, err := DecodeCode(r.Payload[0:2])
	if err != nil {
		return Ack{}, err
	}
	return Ack{Type: t, Code: code, Error: ErrorCode(r.Payload[2])}, nil
}
