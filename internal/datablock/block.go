package datablock

import (
	"errors"
	"fmt"
)

// Type identifies the kind of a data block.
type Type byte

const (
	TypeParmList Type = 0x01
	TypeParmDef  Type = 0x02
	TypeParmVal  Type = 0x03
	TypeArgVal   Type = 0x04
	TypeCmdDef   Type = 0x05
	TypeCmdVal   Type = 0x06
	TypeBulkHdr  Type = 0x07
)

var typeNames = map[Type]string{
	TypeParmList: "ParmList",
	TypeParmDef:  "ParmDef",
	TypeParmVal:  "ParmVal",
	TypeArgVal:   "ArgVal",
	TypeCmdDef:   "CmdDef",
	TypeCmdVal:   "CmdVal",
	TypeBulkHdr:  "BulkHdr",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%02x)", byte(t))
}

// MaxBlockLength is the largest length byte a block can carry inside SysEx.
const MaxBlockLength = 0x7F

var (
	ErrTooShort         = errors.New("data block too short")
	ErrUnknownBlockType = errors.New("unknown data block type")
	ErrTruncated        = errors.New("data block truncated")
	ErrLengthMismatch   = errors.New("data block length mismatch")
	ErrTooLong          = errors.New("data block too long")
	ErrInvalidEntry     = errors.New("invalid data block entry")
)

// ParseError reports where a block failed to decode. Err is one of the
// sentinel errors above, possibly wrapped with detail.
type ParseError struct {
	Type   Type
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Type == 0 {
		return fmt.Sprintf("data block at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s block at offset %d: %v", e.Type, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Block is implemented by every data block.
type Block interface {
	// Type returns the block type tag.
	Type() Type
	// Bytes returns the complete block, length and type included.
	Bytes() []byte
}

func wrap(t Type, inner []byte) []byte {
	out := make([]byte, 0, len(inner)+2)
	out = append(out, byte(len(inner)+2), byte(t))
	return append(out, inner...)
}

// Encode concatenates blocks and checks that each one fits the SysEx
// constraints (length byte and every data byte <= 0x7F).
func Encode(blocks ...Block) ([]byte, error) {
	var out []byte
	for _, b := range blocks {
		raw := b.Bytes()
		if len(raw) > MaxBlockLength {
			return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLong, b.Type(), len(raw), MaxBlockLength)
		}
		for i, c := range raw {
			if c > 0x7F {
				return nil, fmt.Errorf("%s byte %d = 0x%02x: %w", b.Type(), i, c, ErrInvalidEntry)
			}
		}
		out = append(out, raw...)
	}
	return out, nil
}

// Parse decodes the block at the start of b. It returns the block and the
// number of bytes it occupied.
func Parse(b []byte) (Block, int, error) {
	if len(b) < 2 {
		return nil, 0, &ParseError{Err: fmt.Errorf("%w: %d bytes", ErrTooShort, len(b))}
	}
	length := int(b[0])
	t := Type(b[1])
	// Only BulkHdr may be empty; every other block carries a count byte.
	if length < 2 || (length < 3 && t != TypeBulkHdr) {
		return nil, 0, &ParseError{Type: t, Err: fmt.Errorf("%w: length byte %d", ErrTooShort, length)}
	}
	if length > len(b) {
		return nil, 0, &ParseError{Type: t, Err: fmt.Errorf("%w: length %d, have %d bytes", ErrTruncated, length, len(b))}
	}

	inner := b[2:length]

	var (
		block Block
		err   error
	)
	switch t {
	case TypeParmList:
		block, err = parseParmList(inner)
	case TypeParmDef:
		block, err = parseParmDef(inner)
	case TypeParmVal:
		block, err = parseParmVal(inner)
	case TypeArgVal:
		block, err = parseArgVal(inner)
	case TypeCmdDef:
		block, err = parseCmdDef(inner)
	case TypeCmdVal:
		block, err = parseCmdVal(inner)
	case TypeBulkHdr:
		block = &BulkHdr{Data: clone(inner)}
	default:
		return nil, 0, &ParseError{Type: t, Err: fmt.Errorf("%w: 0x%02x", ErrUnknownBlockType, byte(t))}
	}
	if err != nil {
		return nil, 0, &ParseError{Type: t, Err: err}
	}
	return block, length, nil
}

// ParseAll decodes consecutive blocks until b is exhausted.
func ParseAll(b []byte) ([]Block, error) {
	var blocks []Block
	for off := 0; off < len(b); {
		block, n, err := Parse(b[off:])
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Offset = off
			}
			return nil, err
		}
		blocks = append(blocks, block)
		off += n
	}
	return blocks, nil
}

// BulkHdr carries the header of a bulk transfer. Its contents are kept
// opaque.
type BulkHdr struct {
	Data []byte
}

func (b *BulkHdr) Type() Type    { return TypeBulkHdr }
func (b *BulkHdr) Bytes() []byte { return wrap(TypeBulkHdr, b.Data) }
