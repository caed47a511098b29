package protocol

import (
	"errors"
	"fmt"
	"io"
)

// SysEx status bytes
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7
)

// HeaderSize is the length of the manufacturer header.
const HeaderSize = 5

// MaxFrameSize bounds frames assembled from a byte stream.
const MaxFrameSize = 4096

// Scheme selects one of the two protocol generations. A connection is
// locked to one scheme.
type Scheme int

const (
	// SchemeCommand is the legacy Command protocol.
	SchemeCommand Scheme = iota
	// SchemeMessage is the newer Message/DataClass protocol.
	SchemeMessage
)

var (
	commandHeader = []byte{SysExStart, 0x00, 0x01, 0x73, 0x7E}
	messageHeader = []byte{SysExStart, 0x00, 0x01, 0x73, 0x7D}
)

// Header returns a copy of the scheme's 5-byte header.
func (s Scheme) Header() []byte {
	if s == SchemeMessage {
		return append([]byte(nil), messageHeader...)
	}
	return append([]byte(nil), commandHeader...)
}

// TxIDOffset is the frame offset of the 2-byte transaction ID.
func (s Scheme) TxIDOffset() int {
	if s == SchemeMessage {
		return 18
	}
	return 12
}

// LengthOffset is the frame offset of the 2-byte payload length.
func (s Scheme) LengthOffset() int {
	if s == SchemeMessage {
		return 20
	}
	return 16
}

// PayloadOffset is the frame offset where the payload starts.
func (s Scheme) PayloadOffset() int {
	if s == SchemeMessage {
		return 22
	}
	return 18
}

func (s Scheme) String() string {
	switch s {
	case SchemeCommand:
		return "command"
	case SchemeMessage:
		return "message"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// ParseScheme maps a name ("command"/"legacy", "message") to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "command", "legacy":
		return SchemeCommand, nil
	case "message":
		return SchemeMessage, nil
	default:
		return 0, fmt.Errorf("unknown protocol scheme %q", name)
	}
}

// ErrFrameTooLarge is returned by ReadFrame when no terminator arrives
// within MaxFrameSize bytes.
var ErrFrameTooLarge = errors.New("sysex frame too large")

// ReadFrame reads one complete F0..F7 frame from a MIDI byte stream.
//
// Bytes outside a frame are skipped. Real-time status bytes (F8-FF) may be
// interleaved anywhere and are dropped. Any other status byte inside a frame
// aborts it; if that byte is F0 a new frame starts.
func ReadFrame(r io.ByteReader) ([]byte, error) {
	var frame []byte
	inFrame := false

	for {
		c, err := r.ReadByte()
		if err != nil {
			if inFrame && errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("incomplete sysex frame (%d bytes): %w", len(frame), io.ErrUnexpectedEOF)
			}
			return nil, err
		}

		switch {
		case c >= 0xF8:
			continue
		case c == SysExStart:
			frame = append(frame[:0], c)
			inFrame = true
		case !inFrame:
			continue
		case c == SysExEnd:
			return append(frame, c), nil
		case c >= 0x80:
			frame = frame[:0]
			inFrame = false
		default:
			if len(frame) >= MaxFrameSize {
				return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFrameTooLarge, MaxFrameSize)
			}
			frame = append(frame, c)
		}
	}
}
