package protocol

import (
	"bytes"
	"fmt"

	"github.com/muurk/iconn/internal/codec"
)

// MinFrameSize is the smallest frame IsValid accepts: header, checksum and
// terminator.
const MinFrameSize = HeaderSize + 2

// IsValid reports whether frame is delimited by F0/F7 and its body plus
// checksum sums to 0 mod 128.
func IsValid(frame []byte) bool {
	if len(frame) < MinFrameSize {
		return false
	}
	if frame[0] != SysExStart || frame[len(frame)-1] != SysExEnd {
		return false
	}
	return Checksum(frame[HeaderSize:len(frame)-1]) == 0
}

// MatchesHeader reports whether frame starts with the scheme's header.
func MatchesHeader(s Scheme, frame []byte) bool {
	return len(frame) >= HeaderSize && bytes.Equal(frame[:HeaderSize], s.Header())
}

// TransactionID extracts the transaction ID of a frame.
func TransactionID(s Scheme, frame []byte) (int, error) {
	off := s.TxIDOffset()
	if len(frame) < off+2 {
		return 0, fmt.Errorf("%w: frame of %d bytes has no transaction ID", codec.ErrLength, len(frame))
	}
	return codec.Merge14(frame[off : off+2])
}

// ProductID extracts the 2-byte product ID of a frame.
func ProductID(frame []byte) (int, error) {
	if len(frame) < 7 {
		return 0, fmt.Errorf("%w: frame of %d bytes has no product ID", codec.ErrLength, len(frame))
	}
	return codec.Merge14(frame[5:7])
}

// Serial extracts the 5-byte serial number of a frame.
func Serial(frame []byte) ([]byte, error) {
	if len(frame) < 12 {
		return nil, fmt.Errorf("%w: frame of %d bytes has no serial number", codec.ErrLength, len(frame))
	}
	return append([]byte(nil), frame[7:12]...), nil
}

// Payload returns the payload of a valid frame, sized by its length field.
func Payload(s Scheme, frame []byte) ([]byte, error) {
	lo := s.LengthOffset()
	po := s.PayloadOffset()
	if len(frame) < po+2 {
		return nil, fmt.Errorf("%w: frame of %d bytes is shorter than the %s envelope", codec.ErrLength, len(frame), s)
	}
	n, err := codec.Merge14(frame[lo : lo+2])
	if err != nil {
		return nil, err
	}
	// payload + checksum + F7
	if po+n+2 > len(frame) {
		return nil, fmt.Errorf("%w: length field %d exceeds frame of %d bytes", codec.ErrLength, n, len(frame))
	}
	return frame[po : po+n], nil
}

// Validate checks header, delimiters and checksum and returns a descriptive
// error for the first problem found.
func Validate(s Scheme, frame []byte) error {
	if len(frame) < MinFrameSize {
		return fmt.Errorf("frame too short: %d bytes (min %d)", len(frame), MinFrameSize)
	}
	if !MatchesHeader(s, frame) {
		return fmt.Errorf("invalid header: % X (expected % X)", frame[:HeaderSize], s.Header())
	}
	if frame[len(frame)-1] != SysExEnd {
		return fmt.Errorf("invalid terminator: 0x%02x (expected 0x%02x)", frame[len(frame)-1], SysExEnd)
	}
	if !IsValid(frame) {
		return fmt.Errorf("checksum mismatch: 0x%02x", frame[len(frame)-2])
	}
	return nil
}
