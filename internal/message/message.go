package message

import (
	"errors"
	"fmt"

	"github.com/muurk/iconn/internal/datablock"
)

var (
	ErrContentTooShort = errors.New("message content too short")
	ErrUnknownClass    = errors.New("unknown message class")
	ErrBlockCount      = errors.New("data block count mismatch")
	ErrTooManyBlocks   = errors.New("too many data blocks")
)

// Ack is the body of an Ack message: the class and data class of the host
// message it answers and the resulting status.
type Ack struct {
	Class     Class
	DataClass DataClass
	Error     ErrorCode
}

// Message is the content of a Message protocol frame.
//
// Ack is set only for ClassAck. Blocks is empty for GetParmDef, GetCmdDef and
// Ack, which carry no block list on the wire.
type Message struct {
	Class     Class
	DataClass DataClass
	Blocks    []datablock.Block
	Ack       *Ack
}

// Content encodes the message as it appears after the length field.
func (m *Message) Content() ([]byte, error) {
	switch {
	case m.Class == ClassAck:
		if m.Ack == nil {
			return nil, fmt.Errorf("%s message without ack body", m.Class)
		}
		return []byte{byte(ClassAck), byte(DataNull),
			byte(m.Ack.Class), byte(m.Ack.DataClass), byte(m.Ack.Error)}, nil
	case !m.Class.hasBlocks():
		return []byte{byte(m.Class), byte(m.DataClass)}, nil
	}

	if len(m.Blocks) > 0x7F {
		return nil, fmt.Errorf("%w: %d", ErrTooManyBlocks, len(m.Blocks))
	}
	enc, err := datablock.Encode(m.Blocks...)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.Class, err)
	}
	out := make([]byte, 0, 3+len(enc))
	out = append(out, byte(m.Class), byte(m.DataClass), byte(len(m.Blocks)))
	return append(out, enc...), nil
}

// ParseContent decodes message content. The block count must match the
// blocks present.
func ParseContent(b []byte) (*Message, error) {
	if len(b) < 2 {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooShort, len(b))
	}
	class := Class(b[0])
	if _, ok := classNames[class]; !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownClass, b[0])
	}
	m := &Message{Class: class, DataClass: DataClass(b[1])}

	switch {
	case class == ClassAck:
		if len(b) != 5 {
			return nil, fmt.Errorf("%w: ack is %d bytes, want 5", ErrContentTooShort, len(b))
		}
		m.Ack = &Ack{Class: Class(b[2]), DataClass: DataClass(b[3]), Error: ErrorCode(b[4])}
		return m, nil
	case !class.hasBlocks():
		return m, nil
	}

	if len(b) < 3 {
		return nil, fmt.Errorf("%w: %s has no block count", ErrContentTooShort, class)
	}
	blocks, err := datablock.ParseAll(b[3:])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", class, err)
	}
	if len(blocks) != int(b[2]) {
		return nil, fmt.Errorf("%w: %s declares %d, found %d", ErrBlockCount, class, b[2], len(blocks))
	}
	m.Blocks = blocks
	return m, nil
}

func (m *Message) String() string {
	if m.Ack != nil {
		return fmt.Sprintf("Ack(%s/%s: %s)", m.Ack.Class, m.Ack.DataClass, m.Ack.Error)
	}
	return fmt.Sprintf("%s(%s, %d blocks)", m.Class, m.DataClass, len(m.Blocks))
}

// ArgVal returns the first ArgVal block, if any.
func (m *Message) ArgVal() *datablock.ArgVal {
	for _, b := range m.Blocks {
		if a, ok := b.(*datablock.ArgVal); ok {
			return a
		}
	}
	return nil
}

// ParmVals returns the ParmVal blocks in wire order.
func (m *Message) ParmVals() []*datablock.ParmVal {
	var out []*datablock.ParmVal
	for _, b := range m.Blocks {
		if p, ok := b.(*datablock.ParmVal); ok {
			out = append(out, p)
		}
	}
	return out
}

// ParmDefs returns the ParmDef blocks in wire order.
func (m *Message) ParmDefs() []*datablock.ParmDef {
	var out []*datablock.ParmDef
	for _, b := range m.Blocks {
		if p, ok := b.(*datablock.ParmDef); ok {
			out = append(out, p)
		}
	}
	return out
}

// CmdDefs returns the CmdDef blocks in wire order.
func (m *Message) CmdDefs() []*datablock.CmdDef {
	var out []*datablock.CmdDef
	for _, b := range m.Blocks {
		if c, ok := b.(*datablock.CmdDef); ok {
			out = append(out, c)
		}
	}
	return out
}

// Value looks id up across all ParmVal blocks.
func (m *Message) Value(id byte) ([]byte, bool) {
	for _, p := range m.ParmVals() {
		if v, ok := p.Get(id); ok {
			return v, true
		}
	}
	return nil, false
}

func withArg(arg *datablock.ArgVal, n int) []datablock.Block {
	blocks := make([]datablock.Block, 0, n+1)
	if arg != nil {
		blocks = append(blocks, arg)
	}
	return blocks
}

// NewHstSesnVal opens a session, announcing host parameters.
func NewHstSesnVal(vals ...*datablock.ParmVal) *Message {
	m := &Message{Class: ClassHstSesnVal, DataClass: DataSessionInfo}
	for _, v := range vals {
		m.Blocks = append(m.Blocks, v)
	}
	return m
}

// NewDevSesnVal answers HstSesnVal with device session parameters.
func NewDevSesnVal(vals ...*datablock.ParmVal) *Message {
	m := NewHstSesnVal(vals...)
	m.Class = ClassDevSesnVal
	return m
}

// NewGetParmDef asks for the parameter definitions of dc.
func NewGetParmDef(dc DataClass) *Message {
	return &Message{Class: ClassGetParmDef, DataClass: dc}
}

// NewRetParmDef answers GetParmDef.
func NewRetParmDef(dc DataClass, defs ...*datablock.ParmDef) *Message {
	m := &Message{Class: ClassRetParmDef, DataClass: dc}
	for _, d := range defs {
		m.Blocks = append(m.Blocks, d)
	}
	return m
}

// NewGetParmVal reads parameters of dc. arg may be nil.
func NewGetParmVal(dc DataClass, arg *datablock.ArgVal, lists ...*datablock.ParmList) *Message {
	blocks := withArg(arg, len(lists))
	for _, l := range lists {
		blocks = append(blocks, l)
	}
	return &Message{Class: ClassGetParmVal, DataClass: dc, Blocks: blocks}
}

func parmValMessage(class Class, dc DataClass, arg *datablock.ArgVal, vals []*datablock.ParmVal) *Message {
	blocks := withArg(arg, len(vals))
	for _, v := range vals {
		blocks = append(blocks, v)
	}
	return &Message{Class: class, DataClass: dc, Blocks: blocks}
}

// NewSetParmVal writes parameters of dc. arg may be nil.
func NewSetParmVal(dc DataClass, arg *datablock.ArgVal, vals ...*datablock.ParmVal) *Message {
	return parmValMessage(ClassSetParmVal, dc, arg, vals)
}

// NewRetParmVal answers GetParmVal.
func NewRetParmVal(dc DataClass, arg *datablock.ArgVal, vals ...*datablock.ParmVal) *Message {
	return parmValMessage(ClassRetParmVal, dc, arg, vals)
}

// NewNotParmVal notifies the host of a change it did not initiate.
func NewNotParmVal(dc DataClass, arg *datablock.ArgVal, vals ...*datablock.ParmVal) *Message {
	return parmValMessage(ClassNotParmVal, dc, arg, vals)
}

// NewGetCmdDef asks for the supported commands.
func NewGetCmdDef() *Message {
	return &Message{Class: ClassGetCmdDef, DataClass: DataNull}
}

// NewRetCmdDef answers GetCmdDef.
func NewRetCmdDef(defs ...*datablock.CmdDef) *Message {
	m := &Message{Class: ClassRetCmdDef, DataClass: DataNull}
	for _, d := range defs {
		m.Blocks = append(m.Blocks, d)
	}
	return m
}

// NewSetCmdVal executes commands.
func NewSetCmdVal(vals ...*datablock.CmdVal) *Message {
	m := &Message{Class: ClassSetCmdVal, DataClass: DataNull}
	for _, v := range vals {
		m.Blocks = append(m.Blocks, v)
	}
	return m
}

// NewAck acknowledges a host message.
func NewAck(class Class, dc DataClass, code ErrorCode) *Message {
	return &Message{
		Class:     ClassAck,
		DataClass: DataNull,
		Ack:       &Ack{Class: class, DataClass: dc, Error: code},
	}
}

// NewBulkTransfer carries backup and restore data.
func NewBulkTransfer(blocks ...datablock.Block) *Message {
	return &Message{Class: ClassBulkTransfer, DataClass: DataBulkData, Blocks: blocks}
}
