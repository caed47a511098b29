package protocol

import (
	"fmt"

	"github.com/muurk/iconn/internal/codec"
)

// Checksum returns the byte that makes body sum to 0 mod 128.
//
// The value is the two's complement of the 32-bit sum reduced into [0,127],
// matching the firmware's ((~sum + 1) >>> 0) % 128.
func Checksum(body []byte) byte {
	var sum uint32
	for _, b := range body {
		sum += uint32(b)
	}
	return byte((^sum + 1) % 128)
}

// Wrap builds a complete frame: header + body + checksum + F7.
func Wrap(s Scheme, body []byte) []byte {
	frame := make([]byte, 0, HeaderSize+len(body)+2)
	frame = append(frame, s.Header()...)
	frame = append(frame, body...)
	frame = append(frame, Checksum(body), SysExEnd)
	return frame
}

// PadSerial returns a 5-byte serial number. A nil serial addresses any
// device and encodes as zeros.
func PadSerial(serial []byte) ([]byte, error) {
	if len(serial) == 0 {
		return make([]byte, 5), nil
	}
	if len(serial) != 5 {
		return nil, fmt.Errorf("%w: serial number must be 5 bytes, got %d", codec.ErrLength, len(serial))
	}
	return append([]byte(nil), serial...), nil
}

// CheckData verifies that every byte fits in 7 bits.
func CheckData(data []byte) error {
	for i, b := range data {
		if b > 0x7F {
			return fmt.Errorf("%w: byte %d is 0x%02x", codec.ErrOutOfRange, i, b)
		}
	}
	return nil
}
