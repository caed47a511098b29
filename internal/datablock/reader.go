package datablock

import "fmt"

// reader is a bounds-checked cursor over a block's inner bytes.
type reader struct {
	buf []byte
	pos int
}

func newReader(b []byte) *reader {
	return &reader{buf: b}
}

func (r *reader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *reader) next() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w: need 1 byte at offset %d", ErrTruncated, r.pos)
	}
	c := r.buf[r.pos]
	r.pos++
	return c, nil
}

func (r *reader) take(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.pos, r.remaining())
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// entry reads a size-prefixed entry whose size byte counts itself. min is
// the smallest legal size.
func (r *reader) entry(min int) ([]byte, error) {
	size, err := r.next()
	if err != nil {
		return nil, err
	}
	if int(size) < min {
		return nil, fmt.Errorf("%w: entry size %d below %d", ErrInvalidEntry, size, min)
	}
	rest, err := r.take(int(size) - 1)
	if err != nil {
		return nil, err
	}
	return rest, nil
}

// clone copies b, returning nil for an empty slice so decoded blocks compare
// equal to their zero values.
func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}

// done fails when bytes remain after all declared entries were read.
func (r *reader) done() error {
	if r.remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrLengthMismatch, r.remaining())
	}
	return nil
}
