package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a value cannot be represented in the
	// requested 7-bit encoding.
	ErrOutOfRange = errors.New("value out of range")

	// ErrLength is returned when an encoded value has the wrong number of bytes.
	ErrLength = errors.New("invalid encoded length")
)

const (
	// Max14 is the largest value representable in two 7-bit bytes.
	Max14 = 0x3FFF
	// Max16 is the largest value accepted by the 3-byte encoding.
	Max16 = 0xFFFF
)

// Split14 encodes n into two 7-bit bytes, most significant first.
func Split14(n int) ([]byte, error) {
	if n < 0 || n > Max14 {
		return nil, fmt.Errorf("%w: %d does not fit in 14 bits", ErrOutOfRange, n)
	}
	return []byte{byte((n >> 7) & 0x7F), byte(n & 0x7F)}, nil
}

// MustSplit14 is like Split14 but panics if n is out of range. Use it only
// for constants.
func MustSplit14(n int) []byte {
	b, err := Split14(n)
	if err != nil {
		panic(err)
	}
	return b
}

// Merge14 decodes exactly two 7-bit bytes.
func Merge14(b []byte) (int, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("%w: 14-bit value needs 2 bytes, got %d", ErrLength, len(b))
	}
	return int(b[0])*128 + int(b[1]), nil
}

// Split16x3 encodes a 16-bit value into three 7-bit bytes.
func Split16x3(n int) ([]byte, error) {
	if n < 0 || n > Max16 {
		return nil, fmt.Errorf("%w: %d does not fit in 16 bits", ErrOutOfRange, n)
	}
	return []byte{
		byte((n >> 14) & 0x03),
		byte((n >> 7) & 0x7F),
		byte(n & 0x7F),
	}, nil
}

// Merge16x3 decodes exactly three 7-bit bytes.
func Merge16x3(b []byte) (int, error) {
	if len(b) != 3 {
		return 0, fmt.Errorf("%w: 16-bit value needs 3 bytes, got %d", ErrLength, len(b))
	}
	return int(b[0]&0x03)<<14 | int(b[1]&0x7F)<<7 | int(b[2]&0x7F), nil
}

// Split32x5 encodes a 32-bit value into five 7-bit bytes. The first byte
// carries the top four bits.
func Split32x5(n uint32) []byte {
	return []byte{
		byte((n >> 28) & 0x0F),
		byte((n >> 21) & 0x7F),
		byte((n >> 14) & 0x7F),
		byte((n >> 7) & 0x7F),
		byte(n & 0x7F),
	}
}

// Merge32x5 decodes exactly five 7-bit bytes.
func Merge32x5(b []byte) (uint32, error) {
	if len(b) != 5 {
		return 0, fmt.Errorf("%w: 32-bit value needs 5 bytes, got %d", ErrLength, len(b))
	}
	var n uint32
	n = uint32(b[0] & 0x0F)
	for _, c := range b[1:] {
		n = n<<7 | uint32(c&0x7F)
	}
	return n, nil
}
